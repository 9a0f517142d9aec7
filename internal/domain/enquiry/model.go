package enquiry

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the enquiry lifecycle state. Transitions only move forward;
// closed is terminal and reachable from any earlier state.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusViewed    Status = "viewed"
	StatusResponded Status = "responded"
	StatusClosed    Status = "closed"
)

var statusOrder = map[Status]int{
	StatusSubmitted: 0,
	StatusViewed:    1,
	StatusResponded: 2,
	StatusClosed:    3,
}

func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// CanTransition reports whether status may move from one value to a strictly
// later one. Closed never transitions.
func CanTransition(from, to Status) bool {
	fromOrd, okFrom := statusOrder[from]
	toOrd, okTo := statusOrder[to]
	if !okFrom || !okTo {
		return false
	}
	if from == StatusClosed {
		return false
	}
	return toOrd > fromOrd
}

// Accepted enum values for structured intent fields.
var (
	validWillingToTravel = map[string]bool{"yes": true, "no": true, "maybe": true}
	validBudgetRanges    = map[string]bool{"under_5k": true, "5k_10k": true, "10k_25k": true, "over_25k": true}
	validTimelines       = map[string]bool{"asap": true, "1_3_months": true, "3_6_months": true, "6_plus_months": true}
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Enquiry maps to the enquiries table. Immutable after creation except for
// Status.
type Enquiry struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	PatientUserID         *string   `db:"patient_user_id" json:"patientUserId,omitempty"`
	ClinicID              uuid.UUID `db:"clinic_id" json:"clinicId"`
	FullName              string    `db:"full_name" json:"fullName"`
	Email                 string    `db:"email" json:"email"`
	Phone                 string    `db:"phone" json:"phone"`
	ProcedureInterest     string    `db:"procedure_interest" json:"procedureInterest"`
	WillingToTravel       string    `db:"willing_to_travel" json:"willingToTravel"`
	PreferredDestinations []string  `db:"preferred_destinations" json:"preferredDestinations"`
	BudgetRange           *string   `db:"budget_range" json:"budgetRange,omitempty"`
	Timeline              string    `db:"timeline" json:"timeline"`
	Message               *string   `db:"message" json:"message,omitempty"`
	Status                Status    `db:"status" json:"status"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time `db:"updated_at" json:"updatedAt"`
}

// SubmitRequest is the untrusted POST body for a new enquiry.
type SubmitRequest struct {
	ClinicID              string   `json:"clinicId"`
	ProcedureInterest     string   `json:"procedureInterest"`
	WillingToTravel       string   `json:"willingToTravel"`
	PreferredDestinations []string `json:"preferredDestinations"`
	BudgetRange           string   `json:"budgetRange"`
	Timeline              string   `json:"timeline"`
	FullName              string   `json:"fullName"`
	Email                 string   `json:"email"`
	Phone                 string   `json:"phone"`
	Message               string   `json:"message"`
}

// FieldViolation describes one failed validation rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks the request against the submission schema and returns all
// field violations. Pure: no I/O, no side effects.
func (r *SubmitRequest) Validate() []FieldViolation {
	var violations []FieldViolation
	add := func(field, msg string) {
		violations = append(violations, FieldViolation{Field: field, Message: msg})
	}

	if strings.TrimSpace(r.ClinicID) == "" {
		add("clinicId", "clinic id is required")
	}
	if strings.TrimSpace(r.ProcedureInterest) == "" {
		add("procedureInterest", "procedure of interest is required")
	}
	if r.WillingToTravel == "" {
		add("willingToTravel", "travel willingness is required")
	} else if !validWillingToTravel[r.WillingToTravel] {
		add("willingToTravel", "must be one of: yes, no, maybe")
	}
	if r.Timeline == "" {
		add("timeline", "timeline is required")
	} else if !validTimelines[r.Timeline] {
		add("timeline", "must be one of: asap, 1_3_months, 3_6_months, 6_plus_months")
	}
	if strings.TrimSpace(r.FullName) == "" {
		add("fullName", "full name is required")
	}
	if r.Email == "" {
		add("email", "email is required")
	} else if !emailPattern.MatchString(r.Email) {
		add("email", "invalid email address")
	}
	if strings.TrimSpace(r.Phone) == "" {
		add("phone", "phone is required")
	}
	if r.BudgetRange != "" && !validBudgetRanges[r.BudgetRange] {
		add("budgetRange", "must be one of: under_5k, 5k_10k, 10k_25k, over_25k")
	}

	return violations
}

// toEnquiry builds the entity from a validated request. The caller supplies
// the resolved clinic id and optional authenticated patient attribution.
func (r *SubmitRequest) toEnquiry(clinicID uuid.UUID, patientUserID string) *Enquiry {
	e := &Enquiry{
		ClinicID:              clinicID,
		FullName:              strings.TrimSpace(r.FullName),
		Email:                 strings.TrimSpace(r.Email),
		Phone:                 strings.TrimSpace(r.Phone),
		ProcedureInterest:     strings.TrimSpace(r.ProcedureInterest),
		WillingToTravel:       r.WillingToTravel,
		PreferredDestinations: r.PreferredDestinations,
		Timeline:              r.Timeline,
		Status:                StatusSubmitted,
	}
	if patientUserID != "" {
		e.PatientUserID = &patientUserID
	}
	if r.BudgetRange != "" {
		e.BudgetRange = &r.BudgetRange
	}
	if msg := strings.TrimSpace(r.Message); msg != "" {
		e.Message = &msg
	}
	return e
}
