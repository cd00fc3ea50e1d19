package catalog

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Tier is the pricing option of an item. The numeric values are the codes
// used on the wire and in URL query strings.
type Tier int

const (
	TierPaid     Tier = 0
	TierFree     Tier = 1
	TierViewOnly Tier = 2
)

// AllTiers lists every tier in code order.
var AllTiers = []Tier{TierPaid, TierFree, TierViewOnly}

func (t Tier) Valid() bool {
	return t >= TierPaid && t <= TierViewOnly
}

func (t Tier) String() string {
	switch t {
	case TierPaid:
		return "PAID"
	case TierFree:
		return "FREE"
	case TierViewOnly:
		return "VIEW_ONLY"
	default:
		return "UNKNOWN(" + strconv.Itoa(int(t)) + ")"
	}
}

// Code is the wire/query representation of the tier ("0", "1", "2").
func (t Tier) Code() string {
	return strconv.Itoa(int(t))
}

// ParseTierCode parses a wire/query tier code.
func ParseTierCode(s string) (Tier, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	t := Tier(n)
	if !t.Valid() {
		return 0, false
	}
	return t, true
}

// Pricing is one of Paid, Free or ViewOnly.
type Pricing interface {
	Tier() Tier
	isPricing()
}

type Paid struct {
	Price decimal.Decimal
}

type Free struct{}

type ViewOnly struct{}

func (Paid) Tier() Tier     { return TierPaid }
func (Free) Tier() Tier     { return TierFree }
func (ViewOnly) Tier() Tier { return TierViewOnly }

func (Paid) isPricing()     {}
func (Free) isPricing()     {}
func (ViewOnly) isPricing() {}

// Item is one catalog entry. Items are treated as immutable once fetched.
type Item struct {
	ID        string
	Title     string
	Creator   string
	UserName  string
	ImagePath string
	Pricing   Pricing
}

// Tier returns the item's pricing tier. Items without pricing are reported
// as view-only so they never take part in price filtering.
func (i Item) Tier() Tier {
	if i.Pricing == nil {
		return TierViewOnly
	}
	return i.Pricing.Tier()
}

// Price is the Paid price, or zero for every other tier.
func (i Item) Price() decimal.Decimal {
	if p, ok := i.Pricing.(Paid); ok {
		return p.Price
	}
	return decimal.Zero
}

// PriceLabel renders the price the way the gallery cards show it.
func (i Item) PriceLabel() string {
	switch p := i.Pricing.(type) {
	case Paid:
		if !p.Price.IsPositive() {
			return "N/A"
		}
		return p.Price.StringFixed(2)
	case Free:
		return "FREE"
	case ViewOnly:
		return "View Only"
	default:
		return "N/A"
	}
}
