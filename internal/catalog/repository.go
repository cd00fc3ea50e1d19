package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gallery-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const listItemsQuery = `
	SELECT
		id,
		title,
		creator,
		user_name,
		image_path,
		pricing_option,
		price
	FROM catalog_items
	WHERE deleted_at IS NULL
	ORDER BY position, id`

type repository struct {
	db *sql.DB
}

// NewRepository returns a Source backed by the catalog_items table.
func NewRepository(db *sql.DB) Source {
	return &repository{db: db}
}

func (r *repository) Fetch(ctx context.Context) ([]Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Fetch"),
	)
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, listItemsQuery)
	if err != nil {
		log.Error("failed to query catalog items", zap.Error(err))
		return nil, NewFetchError(err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var (
			dto     ItemDTO
			creator sql.NullString
			user    sql.NullString
			image   sql.NullString
			price   decimal.NullDecimal
		)

		if err := rows.Scan(
			&dto.ID,
			&dto.Title,
			&creator,
			&user,
			&image,
			&dto.PricingOption,
			&price,
		); err != nil {
			log.Error("failed to scan catalog item", zap.Error(err))
			return nil, NewFetchError(err)
		}

		dto.Creator = creator.String
		dto.UserName = user.String
		dto.ImagePath = image.String
		if price.Valid {
			dto.Price = &price.Decimal
		}

		item, err := ToItem(dto)
		if err != nil {
			log.Error("invalid catalog row", zap.String("item_id", dto.ID), zap.Error(err))
			return nil, NewFetchError(fmt.Errorf("%w: %w", ErrInvalidPayload, err))
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("catalog rows iteration failed", zap.Error(err))
		return nil, NewFetchError(err)
	}

	log.Info("catalog loaded",
		zap.Int("count", len(items)),
		zap.Duration("duration", time.Since(start)),
	)
	return items, nil
}
