package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/reclutador/staffing-api/internal/model"
)

type ProjectDAO struct {
	Logger *slog.Logger
	*DB
}

func NewProjectDAO(logger *slog.Logger, db *DB) *ProjectDAO {
	return &ProjectDAO{
		Logger: logger.With("dao", "project"),
		DB:     db,
	}
}

func (dao *ProjectDAO) Find(ctx context.Context) ([]model.Project, error) {
	logger := dao.Logger.With("query", "find")

	query, args, err := dao.Builder.
		Select("*").
		From("projects").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return []model.Project{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	projects := []model.Project{}
	if err := dao.SelectContext(ctx, &projects, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.Project{}, err
	}

	return projects, nil
}

func (dao *ProjectDAO) Get(ctx context.Context, id model.ID) (model.Project, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("projects").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Project{}, err
	}

	var project model.Project
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&project); err != nil {
		if IsNoRows(err) {
			return model.Project{}, model.NewError("project", model.ErrNotFound)
		}

		return model.Project{}, err
	}

	return project, nil
}

func (dao *ProjectDAO) CodeExists(ctx context.Context, code string) (bool, error) {
	query, args, err := dao.Builder.
		Select("1").
		From("projects").
		Where(squirrel.Eq{"code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, err
	}

	var one int
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&one); err != nil {
		if IsNoRows(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

type InsertProjectDTO struct {
	Code string
	Name string
	Site model.ID
}

func (dao *ProjectDAO) Insert(ctx context.Context, dto InsertProjectDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("projects").
		Columns("code", "name", "site_id").
		Values(dto.Code, dto.Name, dto.Site).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return 0, model.NewError("project", model.ErrExists)
		}
		if IsForeignKeyViolation(err) {
			return 0, model.NewError("site", model.ErrNotFound)
		}

		return 0, err
	}

	return id, nil
}

type UpdateProjectDTO struct {
	Name *string
	Site *model.ID
}

func (dao *ProjectDAO) Update(ctx context.Context, id model.ID, dto UpdateProjectDTO) error {
	data := make(map[string]any, 3)
	data["updated_at"] = time.Now()
	if dto.Name != nil {
		data["name"] = *dto.Name
	}
	if dto.Site != nil {
		data["site_id"] = *dto.Site
	}

	query, args, err := dao.Builder.
		Update("projects").
		SetMap(data).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		if IsForeignKeyViolation(err) {
			return model.NewError("site", model.ErrNotFound)
		}

		return err
	}

	return nil
}

func (dao *ProjectDAO) Delete(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "delete")

	query, args, err := dao.Builder.
		Delete("projects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsForeignKeyViolation(err) {
			return model.NewError("project", model.ErrInUse)
		}

		return err
	}

	return nil
}
