package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/models"
)

// AllValue in a filter parameter means "no filter".
const AllValue = "all"

var reservedKeys = map[string]struct{}{
	"page":         {},
	"limit":        {},
	"search":       {},
	"searchFields": {},
	"sort":         {},
	"order":        {},
	"from":         {},
	"to":           {},
}

// ParseValues converts URL query parameters into Params for the schema.
// Any key that is not reserved must name a filterable field.
func ParseValues[T any](values url.Values, s Schema[T]) (Params, error) {
	p := Params{
		Page:          DefaultPage,
		Limit:         DefaultLimit,
		Filters:       map[string]string{},
		Search:        strings.TrimSpace(values.Get("search")),
		SortKey:       strings.TrimSpace(values.Get("sort")),
		SortDirection: SortDirection(strings.ToLower(strings.TrimSpace(values.Get("order")))),
	}

	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return Params{}, models.NewValidationError("page", "must be a positive integer")
		}
		p.Page = page
	}
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return Params{}, models.NewValidationError("limit", "must be a positive integer")
		}
		if limit > MaxLimit {
			return Params{}, models.NewValidationError("limit", "must not exceed "+strconv.Itoa(MaxLimit))
		}
		p.Limit = limit
	}
	if v := strings.TrimSpace(values.Get("searchFields")); v != "" {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				p.SearchFields = append(p.SearchFields, f)
			}
		}
	}

	from, err := parseBound("from", values.Get("from"), false)
	if err != nil {
		return Params{}, err
	}
	to, err := parseBound("to", values.Get("to"), true)
	if err != nil {
		return Params{}, err
	}
	if from != nil || to != nil {
		p.DateRange = &DateRange{Start: from, End: to}
	}

	for key, vals := range values {
		if _, ok := reservedKeys[key]; ok {
			continue
		}
		if _, ok := s.Fields[key]; !ok {
			return Params{}, models.NewValidationError(key, "unknown filter for "+s.Entity)
		}
		v := strings.TrimSpace(vals[0])
		if v == "" || strings.EqualFold(v, AllValue) {
			continue
		}
		p.Filters[key] = v
	}

	return p, nil
}

// Values is the inverse of ParseValues, used by the REST client.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if len(p.SearchFields) > 0 {
		v.Set("searchFields", strings.Join(p.SearchFields, ","))
	}
	if p.SortKey != "" {
		v.Set("sort", p.SortKey)
	}
	if p.SortDirection != "" {
		v.Set("order", string(p.SortDirection))
	}
	if p.DateRange != nil {
		if p.DateRange.Start != nil {
			v.Set("from", p.DateRange.Start.UTC().Format(time.RFC3339Nano))
		}
		if p.DateRange.End != nil {
			v.Set("to", p.DateRange.End.UTC().Format(time.RFC3339Nano))
		}
	}
	for field, value := range p.Filters {
		if value != "" {
			v.Set(field, value)
		}
	}
	return v
}

// parseBound accepts RFC 3339 instants or YYYY-MM-DD dates. A date-only
// upper bound covers the whole day.
func parseBound(field, raw string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, models.NewValidationError(field, "must be an RFC 3339 timestamp or YYYY-MM-DD date")
	}
	if upper {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return &d, nil
}
