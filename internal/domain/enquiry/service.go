package enquiry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careatlas/careatlas/internal/domain/clinic"
	"github.com/careatlas/careatlas/internal/platform/events"
	"github.com/careatlas/careatlas/internal/platform/metrics"
	"github.com/careatlas/careatlas/internal/platform/notify"
)

// Degraded-delivery codes returned when the enquiry persisted but the
// required clinic email channel failed.
const (
	CodeEmailNotConfigured  = "CLINIC_EMAIL_NOT_CONFIGURED"
	CodeEmailDeliveryFailed = "CLINIC_EMAIL_DELIVERY_FAILED"
)

var (
	ErrClinicNotFound    = errors.New("clinic not found")
	ErrNotFound          = errors.New("enquiry not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError carries the field-level breakdown for a rejected request.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Violations))
}

// PersistError wraps an insert failure from the adaptive writer.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return "failed to save enquiry: " + e.Err.Error() }
func (e *PersistError) Unwrap() error { return e.Err }

// DegradedError reports a saved lead whose clinic email notification did not
// go out. The row exists; the caller must not treat this as data loss.
type DegradedError struct {
	Code      string
	EnquiryID uuid.UUID
}

func (e *DegradedError) Error() string {
	return fmt.Sprintf("enquiry %s saved but clinic not notified (%s)", e.EnquiryID, e.Code)
}

// SubmitResult is the success payload of an intake.
type SubmitResult struct {
	ID        uuid.UUID
	Status    Status
	CreatedAt time.Time
}

// ClinicDirectory resolves notification routing and ownership. Satisfied by
// the clinic service.
type ClinicDirectory interface {
	ContactProfile(ctx context.Context, id uuid.UUID) (*clinic.ContactProfile, error)
	OwnedClinicIDs(ctx context.Context, ownerUserID string) ([]uuid.UUID, error)
}

// NotifyConfig is the deployment-level notification configuration, injected
// once at startup.
type NotifyConfig struct {
	SiteBaseURL string
	// CC addresses added to every clinic lead email.
	CC []string
	// TestMode redirects the clinic lead email to TestRecipient.
	TestMode      bool
	TestRecipient string
}

// Caller identifies the requester for visibility scoping.
type Caller struct {
	UserID string
	Roles  []string
}

func (c Caller) hasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Service runs the enquiry intake pipeline and the dashboard-side reads and
// status transitions.
type Service struct {
	repo      Repository
	clinics   ClinicDirectory
	email     notify.EmailSender
	sms       notify.SMSSender
	smsRetry  *notify.Retrier
	publisher *events.Publisher
	metrics   *metrics.Metrics
	cfg       NotifyConfig
	logger    zerolog.Logger

	// tasks tracks fire-and-forget notification goroutines so tests can
	// await them.
	tasks sync.WaitGroup
}

func NewService(
	repo Repository,
	clinics ClinicDirectory,
	email notify.EmailSender,
	sms notify.SMSSender,
	publisher *events.Publisher,
	m *metrics.Metrics,
	cfg NotifyConfig,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		clinics:   clinics,
		email:     email,
		sms:       sms,
		smsRetry:  notify.NewRetrier(3, 500*time.Millisecond),
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
		logger:    logger,
	}
}

// WaitForNotifications blocks until all in-flight fire-and-forget branches
// finish. Test hook; production callers never wait.
func (s *Service) WaitForNotifications() {
	s.tasks.Wait()
}

func (s *Service) spawn(fn func()) {
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		fn()
	}()
}

// Submit runs the full intake pipeline: validate, resolve the clinic,
// persist, notify. Persistence happens before any notification; the clinic
// email is awaited before a success result is returned.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest, patientUserID string) (*SubmitResult, error) {
	if violations := req.Validate(); len(violations) > 0 {
		s.countSubmission("validation_failed")
		return nil, &ValidationError{Violations: violations}
	}

	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		s.countSubmission("clinic_not_found")
		return nil, ErrClinicNotFound
	}
	profile, err := s.clinics.ContactProfile(ctx, clinicID)
	if err != nil {
		s.countSubmission("clinic_not_found")
		return nil, ErrClinicNotFound
	}

	e := req.toEnquiry(clinicID, patientUserID)
	res, err := s.repo.Insert(ctx, e)
	if err != nil {
		s.countSubmission("persist_failed")
		return nil, &PersistError{Err: err}
	}
	e.ID = res.ID
	e.CreatedAt = res.CreatedAt

	s.publisher.Publish(ctx, events.TypeEnquiryCreated, e.ID.String(), map[string]interface{}{
		"enquiryId": e.ID,
		"clinicId":  e.ClinicID,
		"procedure": e.ProcedureInterest,
	})

	s.dispatchSMS(e, profile)
	s.dispatchPatientEmail(e, profile)

	if err := s.sendClinicEmail(ctx, e, profile); err != nil {
		var degraded *DegradedError
		if errors.As(err, &degraded) {
			s.countSubmission("degraded")
			return nil, degraded
		}
		return nil, err
	}

	s.countSubmission("created")
	return &SubmitResult{ID: e.ID, Status: StatusSubmitted, CreatedAt: e.CreatedAt}, nil
}

// sendClinicEmail is the one notification on the critical path. Missing
// address and delivery failure map to distinct degraded codes.
func (s *Service) sendClinicEmail(ctx context.Context, e *Enquiry, profile *clinic.ContactProfile) error {
	if profile.Email == nil || *profile.Email == "" {
		s.countNotification("clinic_email", "not_configured")
		s.logger.Warn().
			Str("enquiry_id", e.ID.String()).
			Str("clinic_id", e.ClinicID.String()).
			Msg("clinic has no email configured, lead saved without notification")
		return &DegradedError{Code: CodeEmailNotConfigured, EnquiryID: e.ID}
	}

	msg := buildClinicLeadEmail(e, profile.Name, s.cfg.SiteBaseURL, s.cfg.CC)
	msg.To = *profile.Email
	if s.cfg.TestMode {
		msg.To = s.cfg.TestRecipient
	}

	if err := s.email.SendEmail(ctx, msg); err != nil {
		s.countNotification("clinic_email", "failed")
		s.logger.Error().Err(err).
			Str("enquiry_id", e.ID.String()).
			Str("clinic_id", e.ClinicID.String()).
			Msg("clinic lead email delivery failed")
		return &DegradedError{Code: CodeEmailDeliveryFailed, EnquiryID: e.ID}
	}

	s.countNotification("clinic_email", "sent")
	return nil
}

// dispatchSMS fires the best-effort clinic SMS with bounded retry. Never
// blocks the caller, never surfaces an error.
func (s *Service) dispatchSMS(e *Enquiry, profile *clinic.ContactProfile) {
	if profile.Phone == nil || *profile.Phone == "" {
		s.countNotification("sms", "skipped")
		return
	}
	phone := *profile.Phone
	body := buildClinicLeadSMS(e, s.cfg.SiteBaseURL)

	s.spawn(func() {
		err := s.smsRetry.Do(context.Background(), func(ctx context.Context) error {
			return s.sms.SendSMS(ctx, phone, body)
		})
		if err != nil {
			s.countNotification("sms", "failed")
			s.logger.Error().Err(err).
				Str("enquiry_id", e.ID.String()).
				Msg("clinic sms failed after retries")
			return
		}
		s.countNotification("sms", "sent")
	})
}

// dispatchPatientEmail fires the single-attempt confirmation.
func (s *Service) dispatchPatientEmail(e *Enquiry, profile *clinic.ContactProfile) {
	msg := buildPatientConfirmationEmail(e, profile.Name)
	s.spawn(func() {
		if err := s.email.SendEmail(context.Background(), msg); err != nil {
			s.countNotification("patient_email", "failed")
			s.logger.Error().Err(err).
				Str("enquiry_id", e.ID.String()).
				Msg("patient confirmation email failed")
			return
		}
		s.countNotification("patient_email", "sent")
	})
}

// List returns enquiries visible to the caller: patients see their own,
// clinic users see their owned clinics', admins see everything.
func (s *Service) List(ctx context.Context, caller Caller, status Status, limit, offset int) ([]*Enquiry, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}

	f := ListFilter{Status: status}
	switch {
	case caller.hasRole("admin"):
		// unrestricted
	case caller.hasRole("clinic"):
		ids, err := s.clinics.OwnedClinicIDs(ctx, caller.UserID)
		if err != nil {
			return nil, 0, err
		}
		if len(ids) == 0 {
			return []*Enquiry{}, 0, nil
		}
		f.ClinicIDs = ids
	case caller.hasRole("patient"):
		f.PatientUserID = caller.UserID
	default:
		return nil, 0, ErrForbidden
	}

	return s.repo.List(ctx, f, limit, offset)
}

// Get returns one enquiry subject to the same visibility rules as List.
func (s *Service) Get(ctx context.Context, caller Caller, id uuid.UUID) (*Enquiry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if err := s.authorize(ctx, caller, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateStatus applies a forward-only transition on behalf of the owning
// clinic or an admin.
func (s *Service) UpdateStatus(ctx context.Context, caller Caller, id uuid.UUID, to Status) (*Enquiry, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("invalid status: %s", to)
	}
	if caller.hasRole("patient") && !caller.hasRole("admin") && !caller.hasRole("clinic") {
		return nil, ErrForbidden
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if err := s.authorize(ctx, caller, e); err != nil {
		return nil, err
	}
	if !CanTransition(e.Status, to) {
		return nil, ErrInvalidTransition
	}

	ok, err := s.repo.UpdateStatus(ctx, id, e.Status, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Row moved under us; treat like any other rejected transition.
		return nil, ErrInvalidTransition
	}

	s.publisher.Publish(ctx, events.TypeEnquiryStatusChanged, e.ID.String(), map[string]interface{}{
		"enquiryId": e.ID,
		"from":      e.Status,
		"to":        to,
	})

	e.Status = to
	return e, nil
}

func (s *Service) authorize(ctx context.Context, caller Caller, e *Enquiry) error {
	switch {
	case caller.hasRole("admin"):
		return nil
	case caller.hasRole("clinic"):
		ids, err := s.clinics.OwnedClinicIDs(ctx, caller.UserID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if id == e.ClinicID {
				return nil
			}
		}
		return ErrForbidden
	case caller.hasRole("patient"):
		if e.PatientUserID != nil && *e.PatientUserID == caller.UserID {
			return nil
		}
		return ErrForbidden
	default:
		return ErrForbidden
	}
}

func (s *Service) countSubmission(outcome string) {
	if s.metrics != nil {
		s.metrics.EnquiriesSubmitted.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countNotification(channel, result string) {
	if s.metrics != nil {
		s.metrics.NotificationsTotal.WithLabelValues(channel, result).Inc()
	}
}
