package gallery

import (
	"gallery-be/internal/catalog"

	"github.com/shopspring/decimal"
)

// Action is the base interface for all engine transitions
type Action interface{}

// ===== FETCH ACTIONS =====

type FetchStartedAction struct{}

// FetchSucceededAction carries the generation returned when the fetch began;
// results for older generations are dropped.
type FetchSucceededAction struct {
	Generation uint64
	Items      []catalog.Item
}

type FetchFailedAction struct {
	Generation uint64
	Message    string
}

// ===== FILTER ACTIONS =====

type SetTierFilterAction struct {
	Tiers TierSet
}

type SetKeywordAction struct {
	Keyword string
}

type SetPriceRangeAction struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

type SetSortAction struct {
	Sort SortKey
}

type ResetFiltersAction struct{}

// ===== PAGINATION ACTIONS =====

type LoadMoreAction struct{}
