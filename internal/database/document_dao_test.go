package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/reclutador/staffing-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentDAOFirstPerCategory(t *testing.T) {
	db, mock := newTestDB(t)
	dao := NewEmployeeDocumentDAO(testLogger(), db)

	mock.ExpectQuery("SELECT DISTINCT ON (category) * FROM employee_documents " +
		"WHERE owner_id = $1 ORDER BY category ASC, created_at ASC, id ASC").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "owner_id", "category", "url"}).
			AddRow(1, time.Now(), 3, model.CategoryCV, "https://cdn/cv").
			AddRow(2, time.Now(), 3, model.CategoryMedico, "https://cdn/exam"))

	docs, err := dao.FirstPerCategory(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "https://cdn/cv", docs[model.CategoryCV].URL)
	assert.Equal(t, "https://cdn/exam", docs[model.CategoryMedico].URL)
}

func TestDocumentDAOListByOwner(t *testing.T) {
	db, mock := newTestDB(t)
	dao := NewCandidateDocumentDAO(testLogger(), db)

	mock.ExpectQuery("SELECT * FROM candidate_documents WHERE owner_id = $1 " +
		"ORDER BY category ASC, created_at ASC, id ASC").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "owner_id", "category", "url"}).
			AddRow(1, time.Now(), 7, model.CategoryCertificados, "https://cdn/a").
			AddRow(2, time.Now(), 7, model.CategoryCertificados, "https://cdn/b"))

	docs, err := dao.ListByOwner(context.Background(), 7)
	require.NoError(t, err)

	// Documents are history, not replacement: both files of the same
	// category come back.
	require.Len(t, docs, 2)
	assert.Equal(t, model.CategoryCertificados, docs[0].Category)
	assert.Equal(t, model.CategoryCertificados, docs[1].Category)
}
