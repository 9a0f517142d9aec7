package procedure

import (
	"time"

	"github.com/google/uuid"
)

// Procedure maps to the procedures table. PriceMinUSD/PriceMaxUSD describe the
// typical price band shown on listing pages, not a quote.
type Procedure struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Slug         string    `db:"slug" json:"slug"`
	Name         string    `db:"name" json:"name"`
	Category     string    `db:"category" json:"category"`
	Description  *string   `db:"description" json:"description,omitempty"`
	PriceMinUSD  *int      `db:"price_min_usd" json:"priceMinUsd,omitempty"`
	PriceMaxUSD  *int      `db:"price_max_usd" json:"priceMaxUsd,omitempty"`
	RecoveryDays *int      `db:"recovery_days" json:"recoveryDays,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
