package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// ItemDTO is the JSON shape of an item, both as served by the catalog API
// and as returned to gallery clients.
type ItemDTO struct {
	ID            string           `json:"id"`
	ImagePath     string           `json:"imagePath"`
	UserName      string           `json:"userName"`
	Title         string           `json:"title"`
	PricingOption int              `json:"pricingOption"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Creator       string           `json:"creator"`
	PriceLabel    string           `json:"priceLabel,omitempty"`
}

func ToItem(dto ItemDTO) (Item, error) {
	tier := Tier(dto.PricingOption)
	if !tier.Valid() {
		return Item{}, fmt.Errorf("item %q: %w: %d", dto.ID, ErrUnknownTier, dto.PricingOption)
	}

	item := Item{
		ID:        dto.ID,
		Title:     dto.Title,
		Creator:   dto.Creator,
		UserName:  dto.UserName,
		ImagePath: dto.ImagePath,
	}

	switch tier {
	case TierPaid:
		price := decimal.Zero
		if dto.Price != nil {
			price = *dto.Price
		}
		item.Pricing = Paid{Price: price}
	case TierFree:
		item.Pricing = Free{}
	default:
		item.Pricing = ViewOnly{}
	}

	return item, nil
}

func ToDTO(item Item) ItemDTO {
	dto := ItemDTO{
		ID:            item.ID,
		ImagePath:     item.ImagePath,
		UserName:      item.UserName,
		Title:         item.Title,
		PricingOption: int(item.Tier()),
		Creator:       item.Creator,
		PriceLabel:    item.PriceLabel(),
	}
	if p, ok := item.Pricing.(Paid); ok {
		price := p.Price
		dto.Price = &price
	}
	return dto
}

func ToDTOs(items []Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ToDTO(item))
	}
	return out
}

// DecodeItems reads a JSON array of items.
func DecodeItems(r io.Reader) ([]Item, error) {
	var dtos []ItemDTO
	if err := json.NewDecoder(r).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	items := make([]Item, 0, len(dtos))
	for _, dto := range dtos {
		item, err := ToItem(dto)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		items = append(items, item)
	}
	return items, nil
}
