package gallery

import (
	"encoding/json"
	"strings"

	"gallery-be/internal/catalog"

	"github.com/shopspring/decimal"
)

// SortKey selects the ordering of the derived view. The string values are
// the names used in URL query strings.
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByPriceHigh SortKey = "priceHigh"
	SortByPriceLow  SortKey = "priceLow"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortByName, SortByPriceHigh, SortByPriceLow:
		return true
	}
	return false
}

// ParseSortKey accepts only the three known key names.
func ParseSortKey(s string) (SortKey, bool) {
	k := SortKey(s)
	return k, k.Valid()
}

// TierSet is a set of pricing tiers. The empty set places no restriction.
type TierSet uint8

func NewTierSet(tiers ...catalog.Tier) TierSet {
	var s TierSet
	for _, t := range tiers {
		s = s.With(t)
	}
	return s
}

func (s TierSet) With(t catalog.Tier) TierSet {
	if !t.Valid() {
		return s
	}
	return s | 1<<uint(t)
}

func (s TierSet) Has(t catalog.Tier) bool {
	return t.Valid() && s&(1<<uint(t)) != 0
}

func (s TierSet) Empty() bool {
	return s == 0
}

// Allows reports whether an item of tier t passes the tier check.
func (s TierSet) Allows(t catalog.Tier) bool {
	return s.Empty() || s.Has(t)
}

// Tiers lists the members in code order.
func (s TierSet) Tiers() []catalog.Tier {
	out := []catalog.Tier{}
	for _, t := range catalog.AllTiers {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s TierSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Tiers())
}

func (s *TierSet) UnmarshalJSON(data []byte) error {
	var tiers []catalog.Tier
	if err := json.Unmarshal(data, &tiers); err != nil {
		return err
	}
	*s = NewTierSet(tiers...)
	return nil
}

var (
	DefaultMinPrice = decimal.Zero
	DefaultMaxPrice = decimal.NewFromInt(999)
)

// PriceRange is an inclusive [Min, Max] bound applied to Paid items only.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// NewPriceRange swaps the bounds when min > max.
func NewPriceRange(min, max decimal.Decimal) PriceRange {
	if min.GreaterThan(max) {
		min, max = max, min
	}
	return PriceRange{Min: min, Max: max}
}

func DefaultPriceRange() PriceRange {
	return PriceRange{Min: DefaultMinPrice, Max: DefaultMaxPrice}
}

func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

func (r PriceRange) Equal(o PriceRange) bool {
	return r.Min.Equal(o.Min) && r.Max.Equal(o.Max)
}

// Criteria is the user-controlled filter and sort configuration.
type Criteria struct {
	Tiers   TierSet    `json:"tiers"`
	Keyword string     `json:"keyword"`
	Range   PriceRange `json:"priceRange"`
	Sort    SortKey    `json:"sort"`
}

func DefaultCriteria() Criteria {
	return Criteria{
		Keyword: "",
		Range:   DefaultPriceRange(),
		Sort:    SortByName,
	}
}

// Normalize reorders a swapped range and maps unknown sort keys to name.
func (c Criteria) Normalize() Criteria {
	c.Range = NewPriceRange(c.Range.Min, c.Range.Max)
	if !c.Sort.Valid() {
		c.Sort = SortByName
	}
	return c
}

func (c Criteria) Equal(o Criteria) bool {
	return c.Tiers == o.Tiers &&
		c.Keyword == o.Keyword &&
		c.Sort == o.Sort &&
		c.Range.Equal(o.Range)
}

// IsDefault reports whether c places no restriction beyond the defaults.
func (c Criteria) IsDefault() bool {
	return c.Equal(DefaultCriteria())
}

// normalizedKeyword is the form used for matching: trimmed and lowercased.
func normalizedKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

func tierCodes(s TierSet) []string {
	codes := []string{}
	for _, t := range s.Tiers() {
		codes = append(codes, t.Code())
	}
	return codes
}
