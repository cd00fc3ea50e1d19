package gallery

import (
	"testing"

	"gallery-be/internal/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

// loadedEngine runs one successful fetch of items.
func loadedEngine(t *testing.T, items []catalog.Item, opts ...Option) *Engine {
	t.Helper()
	e := NewEngine(opts...)
	require.NoError(t, e.Dispatch(FetchStartedAction{}))
	require.NoError(t, e.Dispatch(FetchSucceededAction{Generation: e.Generation(), Items: items}))
	return e
}

func TestEngine_Initial(t *testing.T) {
	e := NewEngine()
	snap := e.Snapshot()

	assert.Equal(t, StatusIdle, snap.Status)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Items)
	assert.False(t, snap.HasMore)
	assert.False(t, snap.EndOfList)
	assert.True(t, snap.Criteria.IsDefault())
	assert.Equal(t, DefaultPageSize, snap.PageSize)
}

func TestEngine_FetchAndLoadMore(t *testing.T) {
	e := loadedEngine(t, scenarioCatalog())

	snap := e.Snapshot()
	require.Len(t, snap.Items, 12)
	assert.Equal(t, "Item 01", snap.Items[0].Title)
	assert.Equal(t, "Item 12", snap.Items[11].Title)
	assert.True(t, snap.HasMore)
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, 20, snap.Total)

	require.NoError(t, e.Dispatch(LoadMoreAction{}))
	snap = e.Snapshot()
	assert.Len(t, snap.Items, 20)
	assert.False(t, snap.HasMore)
	assert.True(t, snap.EndOfList)
	assert.Equal(t, 2, snap.Page)

	require.NoError(t, e.Dispatch(LoadMoreAction{}))
	again := e.Snapshot()
	assert.Equal(t, ids(snap.Items), ids(again.Items))
	assert.Equal(t, 2, again.Page)
}

func TestEngine_TierFilter(t *testing.T) {
	e := loadedEngine(t, scenarioCatalog())

	require.NoError(t, e.Dispatch(SetTierFilterAction{Tiers: NewTierSet(catalog.TierFree)}))

	snap := e.Snapshot()
	assert.Equal(t, 5, snap.Total)
	assert.Len(t, snap.Items, 5)
	assert.False(t, snap.HasMore)
	for _, item := range snap.Items {
		assert.Equal(t, catalog.TierFree, item.Tier())
	}
}

func TestEngine_FilterChangeResetsWindow(t *testing.T) {
	changes := []Action{
		SetTierFilterAction{Tiers: NewTierSet()},
		SetKeywordAction{Keyword: "item"},
		SetPriceRangeAction{Min: decimal.Zero, Max: decimal.NewFromInt(999)},
		SetSortAction{Sort: SortByPriceHigh},
		ResetFiltersAction{},
	}

	for _, change := range changes {
		e := loadedEngine(t, scenarioCatalog())
		require.NoError(t, e.Dispatch(LoadMoreAction{}))
		require.Len(t, e.Visible(), 20)

		require.NoError(t, e.Dispatch(change))
		assert.Len(t, e.Visible(), 12, "%T", change)
		assert.Equal(t, 1, e.Snapshot().Page, "%T", change)
	}
}

func TestEngine_PriceRangeScenario(t *testing.T) {
	e := loadedEngine(t, scenarioCatalog())

	require.NoError(t, e.Dispatch(SetPriceRangeAction{Min: decimal.NewFromInt(15), Max: decimal.NewFromInt(1000)}))
	require.NoError(t, e.Dispatch(SetSortAction{Sort: SortByPriceLow}))
	require.NoError(t, e.Dispatch(LoadMoreAction{}))

	view := e.Visible()
	require.Len(t, view, 19)
	for _, item := range view {
		if item.Tier() == catalog.TierPaid {
			assert.True(t, item.Price().GreaterThanOrEqual(decimal.NewFromInt(15)))
		}
	}
}

func TestEngine_SwappedPriceRange(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Dispatch(SetPriceRangeAction{Min: decimal.NewFromInt(80), Max: decimal.NewFromInt(20)}))

	r := e.Criteria().Range
	assert.True(t, r.Min.Equal(decimal.NewFromInt(20)))
	assert.True(t, r.Max.Equal(decimal.NewFromInt(80)))
}

func TestEngine_UnknownSortNormalized(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Dispatch(SetSortAction{Sort: SortKey("cheapest")}))
	assert.Equal(t, SortByName, e.Criteria().Sort)
}

func TestEngine_FetchFailure(t *testing.T) {
	t.Run("Keeps loaded items", func(t *testing.T) {
		e := loadedEngine(t, scenarioCatalog())
		require.NoError(t, e.Dispatch(LoadMoreAction{}))
		before := ids(e.Visible())

		require.NoError(t, e.Dispatch(FetchStartedAction{}))
		require.NoError(t, e.Dispatch(FetchFailedAction{Generation: e.Generation(), Message: "network error"}))

		snap := e.Snapshot()
		assert.Equal(t, StatusError, snap.Status)
		assert.Equal(t, "network error", snap.Error)
		assert.Equal(t, before, ids(snap.Items))
		assert.Equal(t, 20, snap.Total)
		assert.False(t, snap.EndOfList)

		require.NoError(t, e.Dispatch(FetchStartedAction{}))
		snap = e.Snapshot()
		assert.Equal(t, "", snap.Error)
		assert.True(t, snap.Loading)
		assert.Equal(t, StatusLoading, snap.Status)
	})

	t.Run("First fetch fails", func(t *testing.T) {
		e := NewEngine()
		require.NoError(t, e.Dispatch(FetchStartedAction{}))
		require.NoError(t, e.Dispatch(FetchFailedAction{Generation: e.Generation()}))

		snap := e.Snapshot()
		assert.Equal(t, catalog.DefaultFailureMessage, snap.Error)
		assert.Empty(t, snap.Items)
		assert.False(t, snap.HasMore)
		assert.False(t, snap.EndOfList)
	})

	t.Run("Retry after failure loads items", func(t *testing.T) {
		e := NewEngine()
		require.NoError(t, e.Dispatch(FetchStartedAction{}))
		require.NoError(t, e.Dispatch(FetchFailedAction{Generation: e.Generation(), Message: "boom"}))
		require.NoError(t, e.Dispatch(FetchStartedAction{}))
		require.NoError(t, e.Dispatch(FetchSucceededAction{Generation: e.Generation(), Items: scenarioCatalog()}))

		snap := e.Snapshot()
		assert.Equal(t, StatusIdle, snap.Status)
		assert.Empty(t, snap.Error)
		assert.Len(t, snap.Items, 12)
	})
}

func TestEngine_StaleResponses(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	e := NewEngine(WithLogger(zap.New(core)))

	require.NoError(t, e.Dispatch(FetchStartedAction{}))
	first := e.Generation()
	require.NoError(t, e.Dispatch(FetchStartedAction{}))
	second := e.Generation()
	require.NotEqual(t, first, second)

	require.NoError(t, e.Dispatch(FetchSucceededAction{Generation: first, Items: scenarioCatalog()[:3]}))
	assert.Equal(t, StatusLoading, e.Status())
	assert.Empty(t, e.View())
	assert.Equal(t, 1, observed.FilterMessage("stale fetch result ignored").Len())

	require.NoError(t, e.Dispatch(FetchSucceededAction{Generation: second, Items: scenarioCatalog()}))
	assert.Len(t, e.View(), 20)

	// a late failure for the first request does not clobber the new data
	require.NoError(t, e.Dispatch(FetchFailedAction{Generation: first, Message: "late"}))
	assert.Equal(t, StatusIdle, e.Status())
	assert.Empty(t, e.Snapshot().Error)

	// a duplicate success after completion is also dropped
	require.NoError(t, e.Dispatch(FetchSucceededAction{Generation: second, Items: nil}))
	assert.Len(t, e.View(), 20)
}

func TestEngine_LoadMoreIgnoredWhileLoading(t *testing.T) {
	e := loadedEngine(t, scenarioCatalog())
	require.NoError(t, e.Dispatch(FetchStartedAction{}))

	require.NoError(t, e.Dispatch(LoadMoreAction{}))
	assert.Len(t, e.Visible(), 12)
}

func TestEngine_FetchReplacesStoreWholesale(t *testing.T) {
	items := scenarioCatalog()
	e := loadedEngine(t, items)

	// later edits to the caller's slice are not visible
	items[0] = free("zzz", "Aardvark")
	assert.NotContains(t, ids(e.View()), "zzz")

	require.NoError(t, e.Dispatch(FetchStartedAction{}))
	require.NoError(t, e.Dispatch(FetchSucceededAction{Generation: e.Generation(), Items: []catalog.Item{free("only", "Only")}}))
	assert.Equal(t, []string{"only"}, ids(e.View()))
}

func TestEngine_FetchKeepsCriteria(t *testing.T) {
	e := NewEngine(WithCriteria(Criteria{Tiers: NewTierSet(catalog.TierViewOnly), Range: DefaultPriceRange(), Sort: SortByName}))
	require.NoError(t, e.Dispatch(FetchStartedAction{}))
	require.NoError(t, e.Dispatch(FetchSucceededAction{Generation: e.Generation(), Items: scenarioCatalog()}))

	assert.Equal(t, []string{"v18", "v19", "v20"}, ids(e.Visible()))
}

func TestEngine_ResetFiltersFromAnyState(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := itemsGen(30).Draw(t, "items")
		e := NewEngine(WithPageSize(rapid.IntRange(1, 6).Draw(t, "pageSize")))
		require.NoError(t, e.Dispatch(FetchStartedAction{}))
		require.NoError(t, e.Dispatch(FetchSucceededAction{Generation: e.Generation(), Items: items}))

		c := criteriaGen().Draw(t, "criteria")
		require.NoError(t, e.Dispatch(SetTierFilterAction{Tiers: c.Tiers}))
		require.NoError(t, e.Dispatch(SetKeywordAction{Keyword: c.Keyword}))
		require.NoError(t, e.Dispatch(SetPriceRangeAction{Min: c.Range.Min, Max: c.Range.Max}))
		require.NoError(t, e.Dispatch(SetSortAction{Sort: c.Sort}))
		for i := rapid.IntRange(0, 4).Draw(t, "loadMores"); i > 0; i-- {
			require.NoError(t, e.Dispatch(LoadMoreAction{}))
		}

		require.NoError(t, e.Dispatch(ResetFiltersAction{}))

		snap := e.Snapshot()
		require.True(t, snap.Criteria.IsDefault())
		require.Equal(t, 1, snap.Page)
		require.Equal(t, min(snap.PageSize, snap.Total), len(snap.Items))
		require.Equal(t, len(items), snap.Total)
	})
}

func TestEngine_UnknownAction(t *testing.T) {
	e := NewEngine()
	err := e.Dispatch(struct{ Foo int }{})
	assert.ErrorIs(t, err, ErrUnknownAction)
}
