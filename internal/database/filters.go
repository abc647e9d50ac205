package database

import "github.com/Masterminds/squirrel"

// FindCandidateFilter carries the optional list filters. A nil field imposes
// no constraint on its dimension.
type FindCandidateFilter struct {
	Year       *int
	Month      *int
	Status     *string
	GroupStart *int
	GroupEnd   *int
}

// predicate composes one squirrel conjunction out of the active filters, in
// declaration order so bound parameters stay stable. Returns nil when no
// filter is active.
func (f FindCandidateFilter) predicate() squirrel.Sqlizer {
	and := squirrel.And{}

	if f.Year != nil {
		and = append(and, squirrel.Expr("EXTRACT(YEAR FROM created_at) = ?", *f.Year))
	}
	if f.Month != nil {
		and = append(and, squirrel.Expr("EXTRACT(MONTH FROM created_at) = ?", *f.Month))
	}
	if f.Status != nil {
		and = append(and, squirrel.Expr("LOWER(status) = LOWER(?)", *f.Status))
	}

	// The grp column holds free text; rows whose value is not purely numeric
	// are excluded from range-filtered results instead of failing the cast.
	if f.GroupStart != nil && f.GroupEnd != nil {
		and = append(and, squirrel.Expr(
			"(grp ~ '^[0-9]+$' AND CAST(grp AS INTEGER) BETWEEN ? AND ?)",
			*f.GroupStart, *f.GroupEnd,
		))
	} else if f.GroupStart != nil {
		and = append(and, squirrel.Expr(
			"(grp ~ '^[0-9]+$' AND CAST(grp AS INTEGER) >= ?)", *f.GroupStart,
		))
	} else if f.GroupEnd != nil {
		and = append(and, squirrel.Expr(
			"(grp ~ '^[0-9]+$' AND CAST(grp AS INTEGER) <= ?)", *f.GroupEnd,
		))
	}

	if len(and) == 0 {
		return nil
	}
	return and
}
