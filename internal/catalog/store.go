package catalog

import (
	"context"
	"slices"
)

// Source fetches the full catalog in one request. Implementations return a
// *FetchError on failure.
type Source interface {
	Fetch(ctx context.Context) ([]Item, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]Item, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]Item, error) {
	return f(ctx)
}

// Store holds the catalog as last fetched. It is replaced wholesale, never
// edited.
type Store struct {
	items []Item
}

// NewStore copies items so later changes to the caller's slice are not seen.
func NewStore(items []Item) Store {
	return Store{items: slices.Clone(items)}
}

// Items returns the stored items. Callers must not modify the result.
func (s Store) Items() []Item {
	return s.items
}

func (s Store) Len() int {
	return len(s.items)
}
