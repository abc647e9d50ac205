package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/reclutador/staffing-api/internal/model"
)

// _periodColumns is the open-period projection joined with its catalog row.
var _periodColumns = []string{
	"h.id", "h.created_at", "h.employer_id", "h.regime_id", "h.valid_from", "h.valid_to",
	"r.code AS regime_code", "r.description AS regime_description",
}

type RegimeHistoryDAO struct {
	Logger *slog.Logger
	*DB
}

func NewRegimeHistoryDAO(logger *slog.Logger, db *DB) *RegimeHistoryDAO {
	return &RegimeHistoryDAO{
		Logger: logger.With("dao", "regimeHistory"),
		DB:     db,
	}
}

// Current returns the employer's open period, joined with its catalog row.
func (dao *RegimeHistoryDAO) Current(ctx context.Context, employer model.ID) (model.RegimePeriod, error) {
	logger := dao.Logger.With("query", "current")

	query, args, err := dao.Builder.
		Select(_periodColumns...).
		From("employer_regime_history h").
		Join("tax_regimes r ON r.id = h.regime_id").
		Where(squirrel.Eq{"h.employer_id": employer}).
		Where("h.valid_to IS NULL").
		Limit(1).
		ToSql()
	if err != nil {
		return model.RegimePeriod{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var period model.RegimePeriod
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&period); err != nil {
		if IsNoRows(err) {
			return model.RegimePeriod{}, model.NewError("regime period", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.RegimePeriod{}, err
	}

	return period, nil
}

// History returns every period of the employer, most recent start first.
func (dao *RegimeHistoryDAO) History(ctx context.Context, employer model.ID) ([]model.RegimePeriod, error) {
	logger := dao.Logger.With("query", "history")

	query, args, err := dao.Builder.
		Select(_periodColumns...).
		From("employer_regime_history h").
		Join("tax_regimes r ON r.id = h.regime_id").
		Where(squirrel.Eq{"h.employer_id": employer}).
		OrderBy("h.valid_from DESC", "h.id DESC").
		ToSql()
	if err != nil {
		return []model.RegimePeriod{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	periods := []model.RegimePeriod{}
	if err := dao.SelectContext(ctx, &periods, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)
		return []model.RegimePeriod{}, err
	}

	return periods, nil
}

type TransitionDTO struct {
	Employer model.ID
	Regime   model.ID
	// EffectiveFrom defaults to today when zero.
	EffectiveFrom time.Time
}

// Transition closes the employer's open period (if any) and opens a new one,
// atomically. An advisory transaction lock keyed by the employer serializes
// concurrent transitions; the partial unique index on open periods is the
// storage-layer backstop.
//
// The closed period ends the day before the new one starts, so for the same
// employer periods never overlap and exactly one stays open.
func (dao *RegimeHistoryDAO) Transition(ctx context.Context, dto TransitionDTO) (model.RegimePeriod, error) {
	logger := dao.Logger.With("query", "transition")

	effective := dto.EffectiveFrom
	if effective.IsZero() {
		effective = time.Now()
	}
	effective = effective.Truncate(24 * time.Hour)

	tx, err := dao.BeginTxx(ctx, nil)
	if err != nil {
		return model.RegimePeriod{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", int64(dto.Employer)); err != nil {
		return model.RegimePeriod{}, err
	}

	query, args, err := dao.Builder.
		Select("id", "valid_from").
		From("employer_regime_history").
		Where(squirrel.Eq{"employer_id": dto.Employer}).
		Where("valid_to IS NULL").
		Limit(1).
		ToSql()
	if err != nil {
		return model.RegimePeriod{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var open struct {
		ID        model.ID  `db:"id"`
		ValidFrom time.Time `db:"valid_from"`
	}

	hasOpen := true
	row := tx.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&open); err != nil {
		if !IsNoRows(err) {
			logger.Warn("failed query execute", "error", err)
			return model.RegimePeriod{}, err
		}

		hasOpen = false
	}

	if hasOpen {
		if !effective.After(open.ValidFrom) {
			return model.RegimePeriod{}, model.NewError("regime period", model.ErrInvalid)
		}

		query, args, err = dao.Builder.
			Update("employer_regime_history").
			Set("valid_to", effective.AddDate(0, 0, -1)).
			Where(squirrel.Eq{"id": open.ID}).
			ToSql()
		if err != nil {
			return model.RegimePeriod{}, err
		}

		logger.Debug("build query", "sql", query, "args", args)

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			logger.Warn("failed query execute", "error", err)
			return model.RegimePeriod{}, err
		}
	}

	query, args, err = dao.Builder.
		Insert("employer_regime_history").
		Columns("employer_id", "regime_id", "valid_from").
		Values(dto.Employer, dto.Regime, effective).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return model.RegimePeriod{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row = tx.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return model.RegimePeriod{}, model.NewError("regime period", model.ErrExists)
		}
		if IsForeignKeyViolation(err) {
			return model.RegimePeriod{}, model.NewError("tax regime", model.ErrNotFound)
		}

		return model.RegimePeriod{}, err
	}

	query, args, err = dao.Builder.
		Select(_periodColumns...).
		From("employer_regime_history h").
		Join("tax_regimes r ON r.id = h.regime_id").
		Where(squirrel.Eq{"h.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.RegimePeriod{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var period model.RegimePeriod
	row = tx.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&period); err != nil {
		logger.Warn("failed query execute", "error", err)
		return model.RegimePeriod{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.RegimePeriod{}, err
	}

	logger.Debug("success query execute", "periodId", id)

	return period, nil
}
