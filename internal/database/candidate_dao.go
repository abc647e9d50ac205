package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/reclutador/staffing-api/internal/model"
)

type CandidateDAO struct {
	Logger *slog.Logger
	*DB
}

func NewCandidateDAO(logger *slog.Logger, db *DB) *CandidateDAO {
	return &CandidateDAO{
		Logger: logger.With("dao", "candidate"),
		DB:     db,
	}
}

func (dao *CandidateDAO) Find(ctx context.Context, filter FindCandidateFilter) ([]model.Candidate, error) {
	logger := dao.Logger.With("query", "find")

	builder := dao.Builder.
		Select("*").
		From("candidates").
		OrderBy("created_at DESC", "id DESC")

	if pred := filter.predicate(); pred != nil {
		builder = builder.Where(pred)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return []model.Candidate{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	candidates := []model.Candidate{}
	if err := dao.SelectContext(ctx, &candidates, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.Candidate{}, err
	}

	logger.Debug("success query execute", "countCandidates", len(candidates))

	return candidates, nil
}

func (dao *CandidateDAO) Get(ctx context.Context, id model.ID) (model.Candidate, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select("*").
		From("candidates").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Candidate{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var candidate model.Candidate
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&candidate); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsNoRows(err) {
			return model.Candidate{}, model.NewError("candidate", model.ErrNotFound)
		}

		return model.Candidate{}, err
	}

	return candidate, nil
}

type InsertCandidateDTO struct {
	NationalID string
	LastName1  string
	LastName2  string
	FirstNames string
	Site       *string
	Shift      *string
	Grp        *string
}

// AttachDocumentsFunc runs between the parent insert and the document insert
// of a create. It receives the generated id and the natural key (used for
// storage pathing) and returns the document rows to persist. Any error
// aborts the whole create.
type AttachDocumentsFunc func(ctx context.Context, id model.ID, naturalKey string) ([]InsertDocumentDTO, error)

// Create inserts the candidate and its documents in one transaction. The
// transaction is held for the whole attach phase so a failed upload discards
// the parent row as well.
func (dao *CandidateDAO) Create(ctx context.Context, dto InsertCandidateDTO, attach AttachDocumentsFunc) (model.ID, error) {
	logger := dao.Logger.With("query", "create")

	tx, err := dao.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query, args, err := dao.Builder.
		Insert("candidates").
		Columns("national_id", "last_name_1", "last_name_2", "first_names", "site", "shift", "grp").
		Values(dto.NationalID, dto.LastName1, dto.LastName2, dto.FirstNames, dto.Site, dto.Shift, dto.Grp).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := tx.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return 0, model.NewError("candidate", model.ErrExists)
		}

		return 0, err
	}

	if attach != nil {
		docs, err := attach(ctx, id, dto.NationalID)
		if err != nil {
			logger.Warn("failed documents attach", "error", err)
			return 0, err
		}

		if len(docs) > 0 {
			docDAO := NewCandidateDocumentDAO(logger, dao.DB)
			if err := docDAO.InsertMany(ctx, tx, id, docs); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}

type UpdateCandidateDTO struct {
	LastName1  *string
	LastName2  *string
	FirstNames *string
	Site       *string
	Shift      *string
	Grp        *string
}

func (dao *CandidateDAO) Update(ctx context.Context, id model.ID, dto UpdateCandidateDTO) error {
	logger := dao.Logger.With("query", "update")

	data := make(map[string]any, 7)
	data["updated_at"] = time.Now()
	if dto.LastName1 != nil {
		data["last_name_1"] = *dto.LastName1
	}
	if dto.LastName2 != nil {
		data["last_name_2"] = *dto.LastName2
	}
	if dto.FirstNames != nil {
		data["first_names"] = *dto.FirstNames
	}
	if dto.Site != nil {
		data["site"] = *dto.Site
	}
	if dto.Shift != nil {
		data["shift"] = *dto.Shift
	}
	if dto.Grp != nil {
		data["grp"] = *dto.Grp
	}

	query, args, err := dao.Builder.
		Update("candidates").
		SetMap(data).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return model.NewError("candidate", model.ErrExists)
		}

		return err
	}

	logger.Debug("success query execute", "updateId", id, "countUpdatedFields", len(data))

	return nil
}

func (dao *CandidateDAO) UpdateStatus(ctx context.Context, id model.ID, status string) error {
	logger := dao.Logger.With("query", "updateStatus")

	query, args, err := dao.Builder.
		Update("candidates").
		SetMap(map[string]any{
			"status":     status,
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return err
	}

	return nil
}
