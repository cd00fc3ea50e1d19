package gallery

import (
	"fmt"

	"gallery-be/internal/catalog"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

func paid(id, title string, price int64) catalog.Item {
	return catalog.Item{
		ID:      id,
		Title:   title,
		Creator: "creator-" + id,
		Pricing: catalog.Paid{Price: decimal.NewFromInt(price)},
	}
}

func free(id, title string) catalog.Item {
	return catalog.Item{ID: id, Title: title, Creator: "creator-" + id, Pricing: catalog.Free{}}
}

func viewOnly(id, title string) catalog.Item {
	return catalog.Item{ID: id, Title: title, Creator: "creator-" + id, Pricing: catalog.ViewOnly{}}
}

// scenarioCatalog is 20 items: 12 PAID priced 10,20,...,120, 5 FREE and 3
// VIEW_ONLY. Store order is deliberately not name order.
func scenarioCatalog() []catalog.Item {
	items := make([]catalog.Item, 0, 20)
	for i := 12; i >= 1; i-- {
		items = append(items, paid(fmt.Sprintf("p%02d", i), fmt.Sprintf("Item %02d", i), int64(i*10)))
	}
	for i := 13; i <= 17; i++ {
		items = append(items, free(fmt.Sprintf("f%02d", i), fmt.Sprintf("Item %02d", i)))
	}
	for i := 20; i >= 18; i-- {
		items = append(items, viewOnly(fmt.Sprintf("v%02d", i), fmt.Sprintf("Item %02d", i)))
	}
	return items
}

func ids(items []catalog.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

var (
	randomTitles   = []string{"apple", "Banana", "cherry", "Apple pie", "émile", "Zebra", "zeta", "Cherry", "banana split", "Éclair"}
	randomCreators = []string{"", "Ann", "bob", "Carla", "DAVE", "eve"}
	randomKeywords = []string{"", "  ", "a", "AN", "pie", "ZZZ", "bob", " eve "}
)

// itemsGen draws up to maxLen items with unique ids in store order.
func itemsGen(maxLen int) *rapid.Generator[[]catalog.Item] {
	return rapid.Custom(func(t *rapid.T) []catalog.Item {
		n := rapid.IntRange(0, maxLen).Draw(t, "n")
		items := make([]catalog.Item, 0, n)
		for i := 0; i < n; i++ {
			item := catalog.Item{
				ID:      fmt.Sprintf("id-%d", i),
				Title:   rapid.SampledFrom(randomTitles).Draw(t, "title"),
				Creator: rapid.SampledFrom(randomCreators).Draw(t, "creator"),
			}
			switch rapid.IntRange(0, 2).Draw(t, "tier") {
			case 0:
				price := rapid.IntRange(0, 59).Draw(t, "price") * 25
				item.Pricing = catalog.Paid{Price: decimal.NewFromInt(int64(price))}
			case 1:
				item.Pricing = catalog.Free{}
			default:
				item.Pricing = catalog.ViewOnly{}
			}
			items = append(items, item)
		}
		return items
	})
}

// criteriaGen draws criteria including inverted ranges.
func criteriaGen() *rapid.Generator[Criteria] {
	return rapid.Custom(func(t *rapid.T) Criteria {
		return Criteria{
			Tiers:   TierSet(rapid.IntRange(0, 7).Draw(t, "tiers")),
			Keyword: rapid.SampledFrom(randomKeywords).Draw(t, "keyword"),
			Range: PriceRange{
				Min: decimal.NewFromInt(int64(rapid.IntRange(0, 1499).Draw(t, "min"))),
				Max: decimal.NewFromInt(int64(rapid.IntRange(0, 1499).Draw(t, "max"))),
			},
			Sort: rapid.SampledFrom([]SortKey{SortByName, SortByPriceHigh, SortByPriceLow}).Draw(t, "sort"),
		}
	})
}
