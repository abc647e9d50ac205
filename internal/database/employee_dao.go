package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/reclutador/staffing-api/internal/model"
)

type EmployeeDAO struct {
	Logger *slog.Logger
	*DB
}

func NewEmployeeDAO(logger *slog.Logger, db *DB) *EmployeeDAO {
	return &EmployeeDAO{
		Logger: logger.With("dao", "employee"),
		DB:     db,
	}
}

func (dao *EmployeeDAO) Find(ctx context.Context) ([]model.Employee, error) {
	logger := dao.Logger.With("query", "find")

	query, args, err := dao.Builder.
		Select("*").
		From("employees").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return []model.Employee{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	employees := []model.Employee{}
	if err := dao.SelectContext(ctx, &employees, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.Employee{}, err
	}

	return employees, nil
}

func (dao *EmployeeDAO) Get(ctx context.Context, id model.ID) (model.Employee, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select("*").
		From("employees").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Employee{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var employee model.Employee
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&employee); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsNoRows(err) {
			return model.Employee{}, model.NewError("employee", model.ErrNotFound)
		}

		return model.Employee{}, err
	}

	return employee, nil
}

type InsertEmployeeDTO struct {
	Name string
	Site *string
	Grp  *string
}

// Create mirrors the candidate create: parent row plus documents in one
// transaction.
func (dao *EmployeeDAO) Create(ctx context.Context, dto InsertEmployeeDTO, attach AttachDocumentsFunc) (model.ID, error) {
	logger := dao.Logger.With("query", "create")

	tx, err := dao.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query, args, err := dao.Builder.
		Insert("employees").
		Columns("name", "site", "grp").
		Values(dto.Name, dto.Site, dto.Grp).
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
		return 0, err
	}

	if attach != nil {
		docs, err := attach(ctx, id, dto.Name)
		if err != nil {
			logger.Warn("failed documents attach", "error", err)
			return 0, err
		}

		if len(docs) > 0 {
			docDAO := NewEmployeeDocumentDAO(logger, dao.DB)
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

type UpdateEmployeeDTO struct {
	Name *string
	Site *string
	Grp  *string
}

func (dao *EmployeeDAO) Update(ctx context.Context, id model.ID, dto UpdateEmployeeDTO) error {
	logger := dao.Logger.With("query", "update")

	data := make(map[string]any, 4)
	data["updated_at"] = time.Now()
	if dto.Name != nil {
		data["name"] = *dto.Name
	}
	if dto.Site != nil {
		data["site"] = *dto.Site
	}
	if dto.Grp != nil {
		data["grp"] = *dto.Grp
	}

	query, args, err := dao.Builder.
		Update("employees").
		SetMap(data).
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
