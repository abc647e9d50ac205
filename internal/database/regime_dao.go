package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/reclutador/staffing-api/internal/model"
)

type TaxRegimeDAO struct {
	Logger *slog.Logger
	*DB
}

func NewTaxRegimeDAO(logger *slog.Logger, db *DB) *TaxRegimeDAO {
	return &TaxRegimeDAO{
		Logger: logger.With("dao", "taxRegime"),
		DB:     db,
	}
}

func (dao *TaxRegimeDAO) Find(ctx context.Context) ([]model.TaxRegime, error) {
	logger := dao.Logger.With("query", "find")

	query, args, err := dao.Builder.
		Select("*").
		From("tax_regimes").
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		return []model.TaxRegime{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	regimes := []model.TaxRegime{}
	if err := dao.SelectContext(ctx, &regimes, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.TaxRegime{}, err
	}

	return regimes, nil
}

func (dao *TaxRegimeDAO) Get(ctx context.Context, id model.ID) (model.TaxRegime, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("tax_regimes").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.TaxRegime{}, err
	}

	var regime model.TaxRegime
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&regime); err != nil {
		if IsNoRows(err) {
			return model.TaxRegime{}, model.NewError("tax regime", model.ErrNotFound)
		}

		return model.TaxRegime{}, err
	}

	return regime, nil
}
