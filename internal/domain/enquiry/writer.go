package enquiry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// maxInsertAttempts bounds each adaptive insert loop.
const maxInsertAttempts = 8

// rowQuerier is the single-row insert surface the writer needs. Satisfied by
// pgxpool.Pool and by test fakes.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// ColumnExtractor recognizes an "unknown column" error and names the column.
type ColumnExtractor func(err error) (string, bool)

var undefinedColumnPattern = regexp.MustCompile(`column "([^"]+)"`)

// PgMissingColumn extracts the offending column from a Postgres undefined
// column error (SQLSTATE 42703).
func PgMissingColumn(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "42703" {
		return "", false
	}
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName, true
	}
	if m := undefinedColumnPattern.FindStringSubmatch(pgErr.Message); m != nil {
		return m[1], true
	}
	return "", false
}

// insertPayload is an ordered column/value set for one insert attempt.
type insertPayload struct {
	columns []string
	values  []interface{}
}

func (p *insertPayload) remove(column string) bool {
	for i, c := range p.columns {
		if c == column {
			p.columns = append(p.columns[:i], p.columns[i+1:]...)
			p.values = append(p.values[:i], p.values[i+1:]...)
			return true
		}
	}
	return false
}

func (p *insertPayload) sql() string {
	placeholders := make([]string, len(p.columns))
	for i := range p.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO enquiries (%s) VALUES (%s) RETURNING id, created_at",
		strings.Join(p.columns, ", "), strings.Join(placeholders, ", "))
}

// InsertResult carries the only fields trusted from a successful write.
type InsertResult struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// AdaptiveWriter persists enquiries into a table whose column set may lag
// behind the canonical shape. Unknown-column errors strip the named column
// and retry; when the canonical loop's final error is still column-shaped it
// falls back to the legacy column set with a fresh loop.
type AdaptiveWriter struct {
	db      rowQuerier
	extract ColumnExtractor

	// OnRetry and OnLegacyFallback are optional observability hooks.
	OnRetry          func(column string)
	OnLegacyFallback func()
}

func NewAdaptiveWriter(db rowQuerier, extract ColumnExtractor) *AdaptiveWriter {
	if extract == nil {
		extract = PgMissingColumn
	}
	return &AdaptiveWriter{db: db, extract: extract}
}

// Insert persists the enquiry, adapting the payload to the deployed schema.
func (w *AdaptiveWriter) Insert(ctx context.Context, e *Enquiry) (*InsertResult, error) {
	res, columnShaped, err := w.attemptLoop(ctx, canonicalPayload(e))
	if err == nil {
		return res, nil
	}
	// Legacy fallback covers older schemas only: a canonical failure that is
	// not an unknown-column error is surfaced as-is.
	if !columnShaped {
		return nil, err
	}
	if w.OnLegacyFallback != nil {
		w.OnLegacyFallback()
	}
	res, _, err = w.attemptLoop(ctx, legacyPayload(e))
	return res, err
}

// attemptLoop runs one bounded adaptive loop. columnShaped reports whether
// the returned error is (or wraps) a recognized unknown-column error.
func (w *AdaptiveWriter) attemptLoop(ctx context.Context, payload insertPayload) (*InsertResult, bool, error) {
	var lastErr error
	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		var res InsertResult
		err := w.db.QueryRow(ctx, payload.sql(), payload.values...).Scan(&res.ID, &res.CreatedAt)
		if err == nil {
			return &res, false, nil
		}
		lastErr = err

		column, ok := w.extract(err)
		if !ok {
			return nil, false, err
		}
		if w.OnRetry != nil {
			w.OnRetry(column)
		}
		// A column the payload no longer carries means the store keeps
		// reporting the same error; the attempt bound terminates the loop.
		payload.remove(column)
	}
	return nil, true, fmt.Errorf("enquiry insert retries exhausted after %d attempts: %w", maxInsertAttempts, lastErr)
}

// canonicalPayload is the current full schema shape.
func canonicalPayload(e *Enquiry) insertPayload {
	id := uuid.New()
	return insertPayload{
		columns: []string{
			"id", "patient_user_id", "clinic_id", "full_name", "email", "phone",
			"procedure_interest", "willing_to_travel", "preferred_destinations",
			"budget_range", "timeline", "message", "status",
		},
		values: []interface{}{
			id, e.PatientUserID, e.ClinicID, e.FullName, e.Email, e.Phone,
			e.ProcedureInterest, e.WillingToTravel, e.PreferredDestinations,
			e.BudgetRange, e.Timeline, e.Message, e.Status,
		},
	}
}

// legacyPayload targets the pre-migration table: flat contact fields, the
// procedure under "treatment", the message under "notes", and none of the
// structured intent columns.
func legacyPayload(e *Enquiry) insertPayload {
	id := uuid.New()
	return insertPayload{
		columns: []string{"id", "clinic_id", "name", "email", "phone", "treatment", "notes", "status"},
		values:  []interface{}{id, e.ClinicID, e.FullName, e.Email, e.Phone, e.ProcedureInterest, e.Message, e.Status},
	}
}
