package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/reclutador/staffing-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := &DB{
		DB:      sqlx.NewDb(mockDB, "sqlmock"),
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	return db, mock
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	_insertCandidateSQL = "INSERT INTO candidates (national_id,last_name_1,last_name_2,first_names,site,shift,grp) " +
		"VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id"
	_insertTwoDocsSQL = "INSERT INTO candidate_documents (owner_id,category,url) VALUES ($1,$2,$3),($4,$5,$6)"
)

func TestCandidateDAOCreate(t *testing.T) {
	ctx := context.Background()

	dto := InsertCandidateDTO{
		NationalID: "12345678",
		LastName1:  "Pérez",
		LastName2:  "García",
		FirstNames: "Ana María",
	}

	t.Run("commits parent and documents together", func(t *testing.T) {
		db, mock := newTestDB(t)
		dao := NewCandidateDAO(testLogger(), db)

		mock.ExpectBegin()
		mock.ExpectQuery(_insertCandidateSQL).
			WithArgs("12345678", "Pérez", "García", "Ana María", nil, nil, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec(_insertTwoDocsSQL).
			WithArgs(7, model.CategoryCertificados, "https://cdn/x", 7, model.CategoryCertificados, "https://cdn/y").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		attach := func(_ context.Context, id model.ID, naturalKey string) ([]InsertDocumentDTO, error) {
			assert.Equal(t, model.ID(7), id)
			assert.Equal(t, "12345678", naturalKey)
			return []InsertDocumentDTO{
				{Category: model.CategoryCertificados, URL: "https://cdn/x"},
				{Category: model.CategoryCertificados, URL: "https://cdn/y"},
			}, nil
		}

		id, err := dao.Create(ctx, dto, attach)
		require.NoError(t, err)
		assert.Equal(t, model.ID(7), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("attach failure rolls the parent back", func(t *testing.T) {
		db, mock := newTestDB(t)
		dao := NewCandidateDAO(testLogger(), db)

		mock.ExpectBegin()
		mock.ExpectQuery(_insertCandidateSQL).
			WithArgs("12345678", "Pérez", "García", "Ana María", nil, nil, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectRollback()

		attach := func(_ context.Context, _ model.ID, _ string) ([]InsertDocumentDTO, error) {
			return nil, model.NewError("storage", model.ErrUpload)
		}

		_, err := dao.Create(ctx, dto, attach)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrUpload))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("document insert failure rolls the parent back", func(t *testing.T) {
		db, mock := newTestDB(t)
		dao := NewCandidateDAO(testLogger(), db)

		mock.ExpectBegin()
		mock.ExpectQuery(_insertCandidateSQL).
			WithArgs("12345678", "Pérez", "García", "Ana María", nil, nil, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec(_insertTwoDocsSQL).
			WithArgs(7, model.CategoryCertificados, "https://cdn/x", 7, model.CategoryCertificados, "https://cdn/y").
			WillReturnError(errors.New("constraint failed"))
		mock.ExpectRollback()

		attach := func(_ context.Context, _ model.ID, _ string) ([]InsertDocumentDTO, error) {
			return []InsertDocumentDTO{
				{Category: model.CategoryCertificados, URL: "https://cdn/x"},
				{Category: model.CategoryCertificados, URL: "https://cdn/y"},
			}, nil
		}

		_, err := dao.Create(ctx, dto, attach)
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate national id maps to exists error", func(t *testing.T) {
		db, mock := newTestDB(t)
		dao := NewCandidateDAO(testLogger(), db)

		mock.ExpectBegin()
		mock.ExpectQuery(_insertCandidateSQL).
			WithArgs("12345678", "Pérez", "García", "Ana María", nil, nil, nil).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		_, err := dao.Create(ctx, dto, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrExists))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCandidateDAOGet(t *testing.T) {
	ctx := context.Background()

	t.Run("missing row maps to not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		dao := NewCandidateDAO(testLogger(), db)

		mock.ExpectQuery("SELECT * FROM candidates WHERE id = $1 LIMIT 1").
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := dao.Get(ctx, 99)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrNotFound))
	})
}
