package destination

import (
	"time"

	"github.com/google/uuid"
)

// Destination maps to the destinations table. Code is the short country/city
// code used by clinic listings and enquiry preferences (e.g. "TH", "TR").
type Destination struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Code       string    `db:"code" json:"code"`
	Name       string    `db:"name" json:"name"`
	Country    string    `db:"country" json:"country"`
	Summary    *string   `db:"summary" json:"summary,omitempty"`
	Highlights []string  `db:"highlights" json:"highlights"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
