package gallery

import (
	"strings"

	"gallery-be/internal/catalog"
)

// Matches reports whether item passes every check in c: tier, keyword and
// price range. It is pure and total.
func Matches(item catalog.Item, c Criteria) bool {
	return newPredicate(c)(item)
}

// newPredicate prepares the keyword once so deriving a view does not
// lowercase it per item.
func newPredicate(c Criteria) func(catalog.Item) bool {
	keyword := normalizedKeyword(c.Keyword)
	tiers := c.Tiers
	rng := NewPriceRange(c.Range.Min, c.Range.Max)

	return func(item catalog.Item) bool {
		if !tiers.Allows(item.Tier()) {
			return false
		}
		if keyword != "" && !keywordMatches(item, keyword) {
			return false
		}
		if item.Tier() == catalog.TierPaid && !rng.Contains(item.Price()) {
			return false
		}
		return true
	}
}

func keywordMatches(item catalog.Item, keyword string) bool {
	return strings.Contains(strings.ToLower(item.Creator), keyword) ||
		strings.Contains(strings.ToLower(item.Title), keyword)
}
