package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/reclutador/staffing-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	_lockSQL       = "SELECT pg_advisory_xact_lock($1)"
	_openPeriodSQL = "SELECT id, valid_from FROM employer_regime_history " +
		"WHERE employer_id = $1 AND valid_to IS NULL LIMIT 1"
	_closePeriodSQL  = "UPDATE employer_regime_history SET valid_to = $1 WHERE id = $2"
	_insertPeriodSQL = "INSERT INTO employer_regime_history (employer_id,regime_id,valid_from) " +
		"VALUES ($1,$2,$3) RETURNING id"
	_joinedPeriodSQL = "SELECT h.id, h.created_at, h.employer_id, h.regime_id, h.valid_from, h.valid_to, " +
		"r.code AS regime_code, r.description AS regime_description " +
		"FROM employer_regime_history h JOIN tax_regimes r ON r.id = h.regime_id WHERE h.id = $1 LIMIT 1"
)

func periodRows(id, employer, regime int, from time.Time, to *time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "created_at", "employer_id", "regime_id", "valid_from", "valid_to",
		"regime_code", "regime_description",
	}).AddRow(id, time.Now(), employer, regime, from, to, "601", "General de Ley Personas Morales")
}

func TestRegimeHistoryDAOTransition(t *testing.T) {
	ctx := context.Background()

	newFrom := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	oldFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("closes open period the day before the new start", func(t *testing.T) {
		db, mock := newTestDB(t)
		dao := NewRegimeHistoryDAO(testLogger(), db)

		mock.ExpectBegin()
		mock.ExpectExec(_lockSQL).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(_openPeriodSQL).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "valid_from"}).AddRow(4, oldFrom))
		mock.ExpectExec(_closePeriodSQL).
			WithArgs(newFrom.AddDate(0, 0, -1), 4).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(_insertPeriodSQL).
			WithArgs(1, 2, newFrom).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectQuery(_joinedPeriodSQL).
			WithArgs(5).
			WillReturnRows(periodRows(5, 1, 2, newFrom, nil))
		mock.ExpectCommit()

		period, err := dao.Transition(ctx, TransitionDTO{Employer: 1, Regime: 2, EffectiveFrom: newFrom})
		require.NoError(t, err)
		assert.Equal(t, model.ID(5), period.ID)
		assert.Nil(t, period.ValidTo)
		assert.Equal(t, "601", period.RegimeCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first transition opens without closing", func(t *testing.T) {
		db, mock := newTestDB(t)
		dao := NewRegimeHistoryDAO(testLogger(), db)

		mock.ExpectBegin()
		mock.ExpectExec(_lockSQL).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(_openPeriodSQL).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "valid_from"}))
		mock.ExpectQuery(_insertPeriodSQL).
			WithArgs(1, 2, newFrom).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(_joinedPeriodSQL).
			WithArgs(1).
			WillReturnRows(periodRows(1, 1, 2, newFrom, nil))
		mock.ExpectCommit()

		period, err := dao.Transition(ctx, TransitionDTO{Employer: 1, Regime: 2, EffectiveFrom: newFrom})
		require.NoError(t, err)
		assert.Equal(t, model.ID(1), period.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("effective date not after open start is invalid", func(t *testing.T) {
		db, mock := newTestDB(t)
		dao := NewRegimeHistoryDAO(testLogger(), db)

		mock.ExpectBegin()
		mock.ExpectExec(_lockSQL).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(_openPeriodSQL).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "valid_from"}).AddRow(4, oldFrom))
		mock.ExpectRollback()

		_, err := dao.Transition(ctx, TransitionDTO{Employer: 1, Regime: 2, EffectiveFrom: oldFrom})
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrInvalid))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("open-period backstop violation maps to exists", func(t *testing.T) {
		db, mock := newTestDB(t)
		dao := NewRegimeHistoryDAO(testLogger(), db)

		mock.ExpectBegin()
		mock.ExpectExec(_lockSQL).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(_openPeriodSQL).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "valid_from"}))
		mock.ExpectQuery(_insertPeriodSQL).
			WithArgs(1, 2, newFrom).
			WillReturnError(errors.New("duplicate key value violates unique constraint"))
		mock.ExpectRollback()

		_, err := dao.Transition(ctx, TransitionDTO{Employer: 1, Regime: 2, EffectiveFrom: newFrom})
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegimeHistoryDAOCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("no open period maps to not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		dao := NewRegimeHistoryDAO(testLogger(), db)

		mock.ExpectQuery("SELECT h.id, h.created_at, h.employer_id, h.regime_id, h.valid_from, h.valid_to, " +
			"r.code AS regime_code, r.description AS regime_description " +
			"FROM employer_regime_history h JOIN tax_regimes r ON r.id = h.regime_id " +
			"WHERE h.employer_id = $1 AND h.valid_to IS NULL LIMIT 1").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := dao.Current(ctx, 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrNotFound))
	})
}
