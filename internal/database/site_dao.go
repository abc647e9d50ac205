package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/reclutador/staffing-api/internal/model"
)

type SiteDAO struct {
	Logger *slog.Logger
	*DB
}

func NewSiteDAO(logger *slog.Logger, db *DB) *SiteDAO {
	return &SiteDAO{
		Logger: logger.With("dao", "site"),
		DB:     db,
	}
}

func (dao *SiteDAO) Find(ctx context.Context) ([]model.Site, error) {
	logger := dao.Logger.With("query", "find")

	query, args, err := dao.Builder.
		Select("*").
		From("sites").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return []model.Site{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	sites := []model.Site{}
	if err := dao.SelectContext(ctx, &sites, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.Site{}, err
	}

	return sites, nil
}

func (dao *SiteDAO) Get(ctx context.Context, id model.ID) (model.Site, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("sites").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Site{}, err
	}

	var site model.Site
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&site); err != nil {
		if IsNoRows(err) {
			return model.Site{}, model.NewError("site", model.ErrNotFound)
		}

		return model.Site{}, err
	}

	return site, nil
}

// CodeExists reports whether a site already uses the code; the code
// generator probes with it before suffixing.
func (dao *SiteDAO) CodeExists(ctx context.Context, code string) (bool, error) {
	query, args, err := dao.Builder.
		Select("1").
		From("sites").
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

type InsertSiteDTO struct {
	Code string
	Name string
}

func (dao *SiteDAO) Insert(ctx context.Context, dto InsertSiteDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("sites").
		Columns("code", "name").
		Values(dto.Code, dto.Name).
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
			return 0, model.NewError("site", model.ErrExists)
		}

		return 0, err
	}

	return id, nil
}

type UpdateSiteDTO struct {
	Name *string
}

func (dao *SiteDAO) Update(ctx context.Context, id model.ID, dto UpdateSiteDTO) error {
	data := make(map[string]any, 2)
	data["updated_at"] = time.Now()
	if dto.Name != nil {
		data["name"] = *dto.Name
	}

	query, args, err := dao.Builder.
		Update("sites").
		SetMap(data).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

func (dao *SiteDAO) Delete(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "delete")

	query, args, err := dao.Builder.
		Delete("sites").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsForeignKeyViolation(err) {
			return model.NewError("site", model.ErrInUse)
		}

		return err
	}

	return nil
}
