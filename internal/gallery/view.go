package gallery

import (
	"slices"

	"gallery-be/internal/catalog"

	"golang.org/x/text/language"
)

// Deriver computes the filtered and ordered view from the full item set.
// The view is always recomputed from scratch.
type Deriver struct {
	cmp *Comparator
}

func NewDeriver(cmp *Comparator) *Deriver {
	if cmp == nil {
		cmp = NewComparator(language.English)
	}
	return &Deriver{cmp: cmp}
}

// Derive keeps the items matching c and stable-sorts them by c.Sort, so
// items with equal keys keep their store order. items is not modified.
func (d *Deriver) Derive(items []catalog.Item, c Criteria) []catalog.Item {
	c = c.Normalize()
	keep := newPredicate(c)

	view := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if keep(item) {
			view = append(view, item)
		}
	}

	slices.SortStableFunc(view, func(a, b catalog.Item) int {
		return d.cmp.Compare(a, b, c.Sort)
	})
	return view
}
