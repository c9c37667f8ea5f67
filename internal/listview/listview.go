// Package listview narrows in-memory record collections for display:
// case-insensitive text search across configured fields, categorical
// predicates, and fixed-size page slicing.
package listview

import "strings"

// Predicate is one categorical filter; a record must pass all of them.
type Predicate[T any] func(T) bool

// Filter keeps records that pass every predicate and, when query is
// non-empty, contain the lowercased query in at least one searchable
// field. Input order is preserved.
func Filter[T any](items []T, query string, fields func(T) []string, predicates ...Predicate[T]) []T {
	query = strings.ToLower(strings.TrimSpace(query))

	result := make([]T, 0, len(items))
outer:
	for _, item := range items {
		for _, pred := range predicates {
			if pred != nil && !pred(item) {
				continue outer
			}
		}
		if query != "" && !matchesQuery(item, query, fields) {
			continue
		}
		result = append(result, item)
	}
	return result
}

func matchesQuery[T any](item T, query string, fields func(T) []string) bool {
	if fields == nil {
		return false
	}
	for _, field := range fields(item) {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Page is one slice of a filtered collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// Paginate slices items into 1-indexed fixed-size pages. A page beyond
// range yields an empty slice, never an error.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= total {
		return Page[T]{Items: []T{}, Page: page, TotalPages: totalPages, TotalItems: total}
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return Page[T]{Items: items[start:end], Page: page, TotalPages: totalPages, TotalItems: total}
}
