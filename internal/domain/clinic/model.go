package clinic

import (
	"time"

	"github.com/google/uuid"
)

// Clinic maps to the clinics table. Email and Phone are the notification
// channels for incoming enquiries; either may be absent. OwnerUserID is set
// when a clinic user claims the listing.
type Clinic struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Slug            string    `db:"slug" json:"slug"`
	Name            string    `db:"name" json:"name"`
	City            string    `db:"city" json:"city"`
	DestinationCode string    `db:"destination_code" json:"destinationCode"`
	Description     *string   `db:"description" json:"description,omitempty"`
	Procedures      []string  `db:"procedures" json:"procedures"`
	Accreditations  []string  `db:"accreditations" json:"accreditations"`
	Email           *string   `db:"email" json:"email,omitempty"`
	Phone           *string   `db:"phone" json:"phone,omitempty"`
	OwnerUserID     *string   `db:"owner_user_id" json:"ownerUserId,omitempty"`
	Verified        bool      `db:"verified" json:"verified"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// ContactProfile is the subset of a clinic the enquiry pipeline needs to
// route notifications.
type ContactProfile struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email *string   `json:"email,omitempty"`
	Phone *string   `json:"phone,omitempty"`
}

// SearchFilter narrows clinic listings.
type SearchFilter struct {
	DestinationCode string
	Procedure       string
	Query           string
}
