package gallery

import (
	"gallery-be/internal/catalog"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders items for a sort key. Titles are compared with a
// locale-aware collator. A Comparator is not safe for concurrent use; each
// engine owns its own.
type Comparator struct {
	collator *collate.Collator
}

func NewComparator(tag language.Tag) *Comparator {
	return &Comparator{collator: collate.New(tag)}
}

// Compare returns a negative number when a sorts before b, zero when the key
// does not distinguish them, and a positive number otherwise.
func (c *Comparator) Compare(a, b catalog.Item, key SortKey) int {
	switch key {
	case SortByPriceHigh:
		return b.Price().Cmp(a.Price())
	case SortByPriceLow:
		return a.Price().Cmp(b.Price())
	default:
		return c.collator.CompareString(a.Title, b.Title)
	}
}
