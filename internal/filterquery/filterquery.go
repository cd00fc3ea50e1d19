// Package filterquery maps filter criteria to and from URL query strings so a
// gallery view can be bookmarked or shared. Only the keyword, the selected
// pricing tiers and the sort key are persisted; the price range is not.
package filterquery

import (
	"net/url"
	"strings"

	"gallery-be/internal/catalog"
	"gallery-be/internal/gallery"
)

const (
	KeyKeyword = "keyword"
	KeyPricing = "pricing"
	KeySort    = "sort"
)

// Encode writes only the values that differ from the defaults.
func Encode(c gallery.Criteria) url.Values {
	values := url.Values{}

	if c.Keyword != "" {
		values.Set(KeyKeyword, c.Keyword)
	}

	if tiers := c.Tiers.Tiers(); len(tiers) > 0 {
		codes := make([]string, 0, len(tiers))
		for _, t := range tiers {
			codes = append(codes, t.Code())
		}
		values.Set(KeyPricing, strings.Join(codes, ","))
	}

	if c.Sort != gallery.SortByName && c.Sort.Valid() {
		values.Set(KeySort, string(c.Sort))
	}

	return values
}

// EncodeString is Encode rendered as a query string without the leading "?".
func EncodeString(c gallery.Criteria) string {
	return Encode(c).Encode()
}

// Decode overlays the persisted values on top of base. Unparsable tier
// codes and unknown sort names are skipped rather than rejected.
func Decode(values url.Values, base gallery.Criteria) gallery.Criteria {
	c := base

	if keyword := values.Get(KeyKeyword); keyword != "" {
		c.Keyword = keyword
	}

	if pricing := values.Get(KeyPricing); pricing != "" {
		var tiers gallery.TierSet
		for _, code := range strings.Split(pricing, ",") {
			if t, ok := catalog.ParseTierCode(strings.TrimSpace(code)); ok {
				tiers = tiers.With(t)
			}
		}
		c.Tiers = tiers
	}

	if sort, ok := gallery.ParseSortKey(values.Get(KeySort)); ok {
		c.Sort = sort
	}

	return c.Normalize()
}

// DecodeString parses a raw query string (with or without a leading "?").
func DecodeString(raw string, base gallery.Criteria) (gallery.Criteria, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return base, err
	}
	return Decode(values, base), nil
}
