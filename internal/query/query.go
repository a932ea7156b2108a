// Package query implements the filter, sort and paginate pipeline shared by
// every admin collection. Run is a pure function of its inputs.
package query

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/models"
)

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 500
)

// DateRange bounds the schema's primary date field. Both ends are inclusive
// and a nil end is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// Params describes one page request against a collection.
type Params struct {
	Page          int
	Limit         int
	Filters       map[string]string
	Search        string
	SearchFields  []string
	DateRange     *DateRange
	SortKey       string
	SortDirection SortDirection
}

// Schema describes how a record type is filtered, searched and sorted.
type Schema[T any] struct {
	Entity string
	ID     func(T) string
	// Fields exposes string-valued fields for exact-match filters and search.
	Fields       map[string]func(T) string
	SearchFields []string
	DateKey      string
	Date         func(T) time.Time
	Sorts        map[string]func(a, b T) int
	DefaultSort  string
}

// Run filters, sorts and slices records. The input slice is never modified.
func Run[T any](records []T, p Params, s Schema[T]) (models.Page[T], error) {
	if err := Validate(p, s); err != nil {
		return models.Page[T]{}, err
	}

	term := strings.ToLower(strings.TrimSpace(p.Search))
	searchFields := p.SearchFields
	if len(searchFields) == 0 {
		searchFields = s.SearchFields
	}

	filtered := make([]T, 0, len(records))
	for _, rec := range records {
		if !matchesFilters(rec, p.Filters, s) {
			continue
		}
		if term != "" && !matchesSearch(rec, term, searchFields, s) {
			continue
		}
		if p.DateRange != nil && !p.DateRange.contains(s.Date(rec)) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sortKey := p.SortKey
	if sortKey == "" {
		sortKey = s.DefaultSort
	}
	less := s.Sorts[sortKey]
	desc := p.SortDirection != Asc
	slices.SortStableFunc(filtered, func(a, b T) int {
		c := less(a, b)
		if desc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(s.ID(a), s.ID(b))
		}
		return c
	})

	total := len(filtered)
	start := (p.Page - 1) * p.Limit
	items := []T{}
	if start < total {
		end := min(start+p.Limit, total)
		items = append(items, filtered[start:end]...)
	}

	return models.Page[T]{
		Items: items,
		Pagination: models.Pagination{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: models.TotalPages(total, p.Limit),
		},
	}, nil
}

// Validate reports the first problem with p for schema s.
func Validate[T any](p Params, s Schema[T]) error {
	if p.Limit <= 0 {
		return models.NewValidationError("limit", "must be greater than zero")
	}
	if p.Page < 1 {
		return models.NewValidationError("page", "must be at least 1")
	}
	for field := range p.Filters {
		if _, ok := s.Fields[field]; !ok {
			return models.NewValidationError(field, fmt.Sprintf("%s cannot be filtered by %q", s.Entity, field))
		}
	}
	for _, field := range p.SearchFields {
		if _, ok := s.Fields[field]; !ok {
			return models.NewValidationError("searchFields", fmt.Sprintf("%s cannot be searched by %q", s.Entity, field))
		}
	}
	if p.SortKey != "" {
		if _, ok := s.Sorts[p.SortKey]; !ok {
			return models.NewValidationError("sort", fmt.Sprintf("%s cannot be sorted by %q", s.Entity, p.SortKey))
		}
	}
	switch p.SortDirection {
	case "", Asc, Desc:
	default:
		return models.NewValidationError("order", "must be asc or desc")
	}
	if r := p.DateRange; r != nil && r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return models.NewValidationError("to", "must not be before from")
	}
	return nil
}

func matchesFilters[T any](rec T, filters map[string]string, s Schema[T]) bool {
	for field, want := range filters {
		if want == "" {
			continue
		}
		if s.Fields[field](rec) != want {
			return false
		}
	}
	return true
}

func matchesSearch[T any](rec T, term string, fields []string, s Schema[T]) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(s.Fields[field](rec)), term) {
			return true
		}
	}
	return false
}
