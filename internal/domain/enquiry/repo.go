package enquiry

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter scopes enquiry reads to what the caller is allowed to see.
type ListFilter struct {
	Status Status
	// PatientUserID restricts to one patient's submissions.
	PatientUserID string
	// ClinicIDs restricts to a set of owned clinics. Empty means no clinic
	// restriction.
	ClinicIDs []uuid.UUID
}

// Repository defines persistence operations for enquiries. Insert goes
// through the adaptive writer; rows are otherwise immutable except status.
type Repository interface {
	Insert(ctx context.Context, e *Enquiry) (*InsertResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Enquiry, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Enquiry, int, error)
	// UpdateStatus moves status from an expected current value. Returns
	// false when the row was not in that state (lost race or stale read).
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)
}
