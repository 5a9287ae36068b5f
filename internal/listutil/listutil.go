// Package listutil searches, filters, sorts and paginates fetched collections.
// Fields are addressed by JSON name, Go field name, or map key. Only string and
// numeric fields take part; anything else never matches and sorts as equal.
package listutil

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortOption names a sortable field. Value is the field name.
type SortOption struct {
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	Direction Direction `json:"direction"`
}

// FilterOption is a selectable value with a display label and how many items carry it.
type FilterOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Count int    `json:"count,omitempty"`
}

// AllValue is the "no filter" choice offered by the preset filter lists.
// Callers drop it before calling Filter.
const AllValue = "all"

// Page is one page of a paginated collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Search keeps items where any of fields contains term, case-insensitively.
// Numbers match by their decimal form. A blank term returns items unchanged.
func Search[T any](items []T, term string, fields ...string) []T {
	if strings.TrimSpace(term) == "" {
		return items
	}
	term = strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields {
			v := valueOf(it, f)
			if v.kind == kindOther {
				continue
			}
			if strings.Contains(strings.ToLower(v.str), term) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Filter keeps items whose field value is one of allowed.
// An empty allowed set returns items unchanged.
func Filter[T any](items []T, field string, allowed []string) []T {
	if len(allowed) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		v := valueOf(it, field)
		if v.kind != kindOther && slices.Contains(allowed, v.str) {
			out = append(out, it)
		}
	}
	return out
}

// Sort returns a stably sorted copy ordered by the first option whose Value is sortBy.
// An empty or unknown sortBy returns items unchanged.
func Sort[T any](items []T, sortBy string, options []SortOption) []T {
	if sortBy == "" {
		return items
	}
	i := slices.IndexFunc(options, func(o SortOption) bool { return o.Value == sortBy })
	if i < 0 {
		return items
	}
	return SortBy(items, options[i])
}

// SortBy returns a stably sorted copy ordered by opt. Strings use Russian collation.
func SortBy[T any](items []T, opt SortOption) []T {
	out := slices.Clone(items)
	col := collate.New(language.Russian)
	slices.SortStableFunc(out, func(a, b T) int {
		va, vb := valueOf(a, opt.Value), valueOf(b, opt.Value)
		var c int
		switch {
		case va.kind == kindString && vb.kind == kindString:
			c = col.CompareString(va.str, vb.str)
		case va.kind == kindNumber && vb.kind == kindNumber:
			c = cmp.Compare(va.num, vb.num)
		}
		if opt.Direction == Desc {
			return -c
		}
		return c
	})
	return out
}

// Paginate returns the 1-based page of size items. Pages out of range are empty;
// a non-positive size yields an empty page and zero pages.
func Paginate[T any](items []T, page, size int) Page[T] {
	total := len(items)
	if size <= 0 {
		return Page[T]{Items: []T{}, TotalItems: total}
	}
	p := Page[T]{TotalItems: total, TotalPages: (total + size - 1) / size}
	start := (page - 1) * size
	if page < 1 || start >= total {
		p.Items = []T{}
		return p
	}
	p.Items = items[start:min(start+size, total)]
	return p
}

// GenerateFilters lists distinct values of field in first-seen order with counts.
// With labelField set, a value is labelled from the first item carrying it.
func GenerateFilters[T any](items []T, field, labelField string) []FilterOption {
	var order []string
	counts := map[string]int{}
	labels := map[string]string{}
	for _, it := range items {
		v := valueOf(it, field)
		if v.kind == kindOther {
			continue
		}
		if _, seen := counts[v.str]; !seen {
			order = append(order, v.str)
			label := v.str
			if labelField != "" {
				if l := valueOf(it, labelField); l.kind != kindOther && l.str != "" {
					label = l.str
				}
			}
			labels[v.str] = label
		}
		counts[v.str]++
	}
	out := make([]FilterOption, 0, len(order))
	for _, v := range order {
		out = append(out, FilterOption{Label: labels[v], Value: v, Count: counts[v]})
	}
	return out
}
