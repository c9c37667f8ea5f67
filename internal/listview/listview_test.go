package listview

import (
	"reflect"
	"testing"
)

type record struct {
	Name     string
	Severity string
}

func names(r record) []string { return []string{r.Name} }

func TestFilterQueryAndPredicateCombine(t *testing.T) {
	items := []record{
		{Name: "battery overheat", Severity: "critical"},
		{Name: "tire pressure", Severity: "warning"},
		{Name: "battery low", Severity: "warning"},
	}
	critical := func(r record) bool { return r.Severity == "critical" }

	// Matches predicate but not query.
	got := Filter(items, "tire", names, critical)
	if len(got) != 0 {
		t.Fatalf("predicate+query mismatch kept %d records, want 0", len(got))
	}

	// Matches query but fails predicate.
	got = Filter(items, "battery low", names, critical)
	if len(got) != 0 {
		t.Fatalf("query without predicate kept %d records, want 0", len(got))
	}

	// Case-insensitive substring.
	got = Filter(items, "BATTERY", names)
	if len(got) != 2 {
		t.Fatalf("case-insensitive query kept %d records, want 2", len(got))
	}
}

func TestFilterEmptyQueryReturnsInputOrder(t *testing.T) {
	items := []record{{Name: "c"}, {Name: "a"}, {Name: "b"}}
	got := Filter(items, "", names)
	if !reflect.DeepEqual(got, items) {
		t.Fatalf("empty query + no predicates = %+v, want unmodified input", got)
	}
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate([]record{}, 1, 10)
	if page.TotalPages != 0 {
		t.Fatalf("TotalPages = %d, want 0", page.TotalPages)
	}
	if len(page.Items) != 0 {
		t.Fatalf("Items = %d, want empty", len(page.Items))
	}
	// Any page request on an empty set stays empty and never panics.
	page = Paginate([]record{}, 99, 10)
	if len(page.Items) != 0 {
		t.Fatalf("page 99 of empty set = %d items, want 0", len(page.Items))
	}
}

func TestPaginateSlicing(t *testing.T) {
	items := make([]record, 25)
	for i := range items {
		items[i] = record{Name: string(rune('a' + i))}
	}

	page := Paginate(items, 1, 10)
	if page.TotalPages != 3 {
		t.Fatalf("TotalPages = %d, want 3", page.TotalPages)
	}
	if len(page.Items) != 10 {
		t.Fatalf("page 1 size = %d, want 10", len(page.Items))
	}

	page = Paginate(items, 3, 10)
	if len(page.Items) != 5 {
		t.Fatalf("page 3 size = %d, want 5", len(page.Items))
	}
	if page.Items[0] != items[20] {
		t.Fatalf("page 3 starts at %+v, want %+v", page.Items[0], items[20])
	}

	page = Paginate(items, 4, 10)
	if len(page.Items) != 0 {
		t.Fatalf("out-of-range page size = %d, want 0", len(page.Items))
	}
	if page.TotalItems != 25 {
		t.Fatalf("TotalItems = %d, want 25", page.TotalItems)
	}
}
