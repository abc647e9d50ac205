package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/reclutador/staffing-api/internal/model"
)

// DocumentDAO serves one of the two document tables; candidates and
// employees keep identical document schemas.
type DocumentDAO struct {
	Logger *slog.Logger
	*DB
	table string
}

func NewCandidateDocumentDAO(logger *slog.Logger, db *DB) *DocumentDAO {
	return &DocumentDAO{
		Logger: logger.With("dao", "candidateDocument"),
		DB:     db,
		table:  "candidate_documents",
	}
}

func NewEmployeeDocumentDAO(logger *slog.Logger, db *DB) *DocumentDAO {
	return &DocumentDAO{
		Logger: logger.With("dao", "employeeDocument"),
		DB:     db,
		table:  "employee_documents",
	}
}

type InsertDocumentDTO struct {
	Category string
	URL      string
}

// InsertMany bulk-inserts all document rows in one statement, on the given
// runner so it can join an open transaction.
func (dao *DocumentDAO) InsertMany(ctx context.Context, runner sqlx.ExtContext, owner model.ID, docs []InsertDocumentDTO) error {
	logger := dao.Logger.With("query", "insertMany")

	builder := dao.Builder.
		Insert(dao.table).
		Columns("owner_id", "category", "url")

	for _, doc := range docs {
		builder = builder.Values(owner, doc.Category, doc.URL)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := runner.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return err
	}

	logger.Debug("success query execute", "ownerId", owner, "countDocuments", len(docs))

	return nil
}

func (dao *DocumentDAO) ListByOwner(ctx context.Context, owner model.ID) ([]model.Document, error) {
	logger := dao.Logger.With("query", "listByOwner")

	query, args, err := dao.Builder.
		Select("*").
		From(dao.table).
		Where(squirrel.Eq{"owner_id": owner}).
		OrderBy("category ASC", "created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return []model.Document{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	docs := []model.Document{}
	if err := dao.SelectContext(ctx, &docs, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.Document{}, err
	}

	return docs, nil
}

// FirstPerCategory keeps the legacy read shape: the oldest document of each
// category wins, later uploads of the same category are hidden.
func (dao *DocumentDAO) FirstPerCategory(ctx context.Context, owner model.ID) (map[string]model.Document, error) {
	logger := dao.Logger.With("query", "firstPerCategory")

	query, args, err := dao.Builder.
		Select("DISTINCT ON (category) *").
		From(dao.table).
		Where(squirrel.Eq{"owner_id": owner}).
		OrderBy("category ASC", "created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	docs := []model.Document{}
	if err := dao.SelectContext(ctx, &docs, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return nil, err
	}

	byCategory := make(map[string]model.Document, len(docs))
	for _, doc := range docs {
		byCategory[doc.Category] = doc
	}

	return byCategory, nil
}
