package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/reclutador/staffing-api/internal/model"
)

type EmployerDAO struct {
	Logger *slog.Logger
	*DB
}

func NewEmployerDAO(logger *slog.Logger, db *DB) *EmployerDAO {
	return &EmployerDAO{
		Logger: logger.With("dao", "employer"),
		DB:     db,
	}
}

// GetFirst returns the employer profile. The table holds at most one row
// that matters; reads always take the lowest id.
func (dao *EmployerDAO) GetFirst(ctx context.Context) (model.Employer, error) {
	logger := dao.Logger.With("query", "getFirst")

	query, args, err := dao.Builder.
		Select("*").
		From("employer").
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return model.Employer{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var employer model.Employer
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&employer); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsNoRows(err) {
			return model.Employer{}, model.NewError("employer", model.ErrNotFound)
		}

		return model.Employer{}, err
	}

	return employer, nil
}

type UpsertEmployerDTO struct {
	Name    *string
	TaxID   *string
	Address *string
}

// Update merges the present fields into the singleton row; when no row
// exists yet one is created from the given fields.
func (dao *EmployerDAO) Update(ctx context.Context, dto UpsertEmployerDTO) (model.Employer, error) {
	logger := dao.Logger.With("query", "update")

	current, err := dao.GetFirst(ctx)
	if err != nil {
		if !IsNotFoundError(err) {
			return model.Employer{}, err
		}

		return dao.insert(ctx, dto)
	}

	data := make(map[string]any, 4)
	data["updated_at"] = time.Now()
	if dto.Name != nil {
		data["name"] = *dto.Name
	}
	if dto.TaxID != nil {
		data["tax_id"] = *dto.TaxID
	}
	if dto.Address != nil {
		data["address"] = *dto.Address
	}

	query, args, err := dao.Builder.
		Update("employer").
		SetMap(data).
		Where(squirrel.Eq{"id": current.ID}).
		ToSql()
	if err != nil {
		return model.Employer{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return model.Employer{}, err
	}

	return dao.GetFirst(ctx)
}

func (dao *EmployerDAO) insert(ctx context.Context, dto UpsertEmployerDTO) (model.Employer, error) {
	logger := dao.Logger.With("query", "insert")

	var name, taxID string
	if dto.Name != nil {
		name = *dto.Name
	}
	if dto.TaxID != nil {
		taxID = *dto.TaxID
	}

	query, args, err := dao.Builder.
		Insert("employer").
		Columns("name", "tax_id", "address").
		Values(name, taxID, dto.Address).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return model.Employer{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)
		return model.Employer{}, err
	}

	return dao.GetFirst(ctx)
}
