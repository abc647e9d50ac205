package database

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref[T any](v T) *T { return &v }

func buildFilterSQL(t *testing.T, filter FindCandidateFilter) (string, []any) {
	t.Helper()

	builder := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select("*").
		From("candidates").
		OrderBy("created_at DESC", "id DESC")

	if pred := filter.predicate(); pred != nil {
		builder = builder.Where(pred)
	}

	query, args, err := builder.ToSql()
	require.NoError(t, err)
	return query, args
}

func TestFindCandidateFilter(t *testing.T) {
	t.Run("no active filter adds no predicate", func(t *testing.T) {
		query, args := buildFilterSQL(t, FindCandidateFilter{})

		assert.Equal(t, "SELECT * FROM candidates ORDER BY created_at DESC, id DESC", query)
		assert.Empty(t, args)
	})

	t.Run("all filters bind in declaration order", func(t *testing.T) {
		query, args := buildFilterSQL(t, FindCandidateFilter{
			Year:       ref(2024),
			Month:      ref(6),
			Status:     ref("aprobado"),
			GroupStart: ref(10),
			GroupEnd:   ref(20),
		})

		assert.Equal(t,
			"SELECT * FROM candidates WHERE (EXTRACT(YEAR FROM created_at) = $1 "+
				"AND EXTRACT(MONTH FROM created_at) = $2 "+
				"AND LOWER(status) = LOWER($3) "+
				"AND (grp ~ '^[0-9]+$' AND CAST(grp AS INTEGER) BETWEEN $4 AND $5)) "+
				"ORDER BY created_at DESC, id DESC",
			query,
		)
		assert.Equal(t, []any{2024, 6, "aprobado", 10, 20}, args)
	})

	t.Run("group range guards against non-numeric values", func(t *testing.T) {
		query, _ := buildFilterSQL(t, FindCandidateFilter{GroupStart: ref(1), GroupEnd: ref(5)})
		assert.Contains(t, query, "grp ~ '^[0-9]+$'")
	})

	t.Run("one-sided group bounds", func(t *testing.T) {
		query, args := buildFilterSQL(t, FindCandidateFilter{GroupStart: ref(3)})
		assert.Contains(t, query, "CAST(grp AS INTEGER) >= $1")
		assert.Equal(t, []any{3}, args)

		query, args = buildFilterSQL(t, FindCandidateFilter{GroupEnd: ref(9)})
		assert.Contains(t, query, "CAST(grp AS INTEGER) <= $1")
		assert.Equal(t, []any{9}, args)
	})

	t.Run("single filter leaves others unconstrained", func(t *testing.T) {
		query, args := buildFilterSQL(t, FindCandidateFilter{Status: ref("revision")})

		assert.Equal(t,
			"SELECT * FROM candidates WHERE (LOWER(status) = LOWER($1)) ORDER BY created_at DESC, id DESC",
			query,
		)
		assert.Equal(t, []any{"revision"}, args)
	})
}
