package enquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	err       error
	id        uuid.UUID
	createdAt time.Time
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*uuid.UUID)) = r.id
	*(dest[1].(*time.Time)) = r.createdAt
	return nil
}

func undefinedColumn(name string) error {
	return &pgconn.PgError{
		Code:    "42703",
		Message: fmt.Sprintf(`column "%s" of relation "enquiries" does not exist`, name),
	}
}

// fakeStore simulates a schema missing some columns. ghostColumn, when set,
// is reported as missing on every canonical attempt even though the payload
// never carries it.
type fakeStore struct {
	missing     map[string]bool
	ghostColumn string
	hardErr     error

	attempts [][]string
}

func columnsFromSQL(sql string) []string {
	open := strings.Index(sql, "(")
	closed := strings.Index(sql, ")")
	cols := strings.Split(sql[open+1:closed], ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

func (s *fakeStore) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	cols := columnsFromSQL(sql)
	s.attempts = append(s.attempts, cols)

	if s.hardErr != nil {
		return fakeRow{err: s.hardErr}
	}
	canonical := false
	for _, c := range cols {
		if c == "willing_to_travel" {
			canonical = true
		}
	}
	if s.ghostColumn != "" && canonical {
		return fakeRow{err: undefinedColumn(s.ghostColumn)}
	}
	for _, c := range cols {
		if s.missing[c] {
			return fakeRow{err: undefinedColumn(c)}
		}
	}
	return fakeRow{id: uuid.New(), createdAt: time.Now().UTC()}
}

func testEnquiry() *Enquiry {
	budget := "5k_10k"
	msg := "spring availability"
	return &Enquiry{
		ClinicID:              uuid.New(),
		FullName:              "Jane Doe",
		Email:                 "jane@example.com",
		Phone:                 "+15551234567",
		ProcedureInterest:     "dental implants",
		WillingToTravel:       "yes",
		PreferredDestinations: []string{"TH"},
		BudgetRange:           &budget,
		Timeline:              "1_3_months",
		Message:               &msg,
		Status:                StatusSubmitted,
	}
}

func TestPgMissingColumn(t *testing.T) {
	col, ok := PgMissingColumn(undefinedColumn("budget_range"))
	if !ok || col != "budget_range" {
		t.Errorf("expected budget_range, got %q ok=%v", col, ok)
	}

	if _, ok := PgMissingColumn(errors.New("connection refused")); ok {
		t.Error("expected plain error to not match")
	}
	if _, ok := PgMissingColumn(&pgconn.PgError{Code: "23505"}); ok {
		t.Error("expected non-42703 code to not match")
	}
}

func TestInsert_FirstAttemptSucceeds(t *testing.T) {
	store := &fakeStore{}
	w := NewAdaptiveWriter(store, PgMissingColumn)

	res, err := w.Insert(context.Background(), testEnquiry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID == uuid.Nil || res.CreatedAt.IsZero() {
		t.Error("expected id and created_at from insert")
	}
	if len(store.attempts) != 1 {
		t.Errorf("expected 1 attempt, got %d", len(store.attempts))
	}
}

func TestInsert_StripsMissingColumnsOneAtATime(t *testing.T) {
	store := &fakeStore{missing: map[string]bool{
		"budget_range":           true,
		"preferred_destinations": true,
	}}
	w := NewAdaptiveWriter(store, PgMissingColumn)

	var retried []string
	w.OnRetry = func(col string) { retried = append(retried, col) }

	res, err := w.Insert(context.Background(), testEnquiry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID == uuid.Nil {
		t.Error("expected id from insert")
	}
	if len(store.attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(store.attempts))
	}
	if len(retried) != 2 {
		t.Fatalf("expected 2 retries, got %v", retried)
	}

	final := store.attempts[len(store.attempts)-1]
	for _, c := range final {
		if c == "budget_range" || c == "preferred_destinations" {
			t.Errorf("expected %s stripped from final payload", c)
		}
	}
	// Everything else survives.
	wantKept := []string{"clinic_id", "full_name", "email", "phone", "willing_to_travel", "timeline", "status"}
	for _, want := range wantKept {
		found := false
		for _, c := range final {
			if c == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %s in final payload", want)
		}
	}
}

func TestInsert_DoubleReportTerminatesAtBound(t *testing.T) {
	// The store keeps naming a column the payload never carried. The loop
	// must stop at the attempt bound instead of spinning.
	store := &fakeStore{ghostColumn: "ghost"}
	w := NewAdaptiveWriter(store, PgMissingColumn)

	// Legacy fallback also runs (the final canonical error is column-shaped)
	// and succeeds, since the legacy payload is not canonical-shaped.
	res, err := w.Insert(context.Background(), testEnquiry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil {
		t.Fatal("expected result from legacy fallback")
	}
	// 8 canonical attempts then 1 legacy attempt.
	if len(store.attempts) != maxInsertAttempts+1 {
		t.Fatalf("expected %d attempts, got %d", maxInsertAttempts+1, len(store.attempts))
	}
}

func TestInsert_ExhaustionWithoutLegacySuccess(t *testing.T) {
	store := &fakeStore{
		ghostColumn: "ghost",
		missing:     map[string]bool{"treatment": true, "notes": true, "name": true, "clinic_id": true, "email": true, "phone": true, "status": true, "id": true},
	}
	w := NewAdaptiveWriter(store, PgMissingColumn)

	_, err := w.Insert(context.Background(), testEnquiry())
	if err == nil {
		t.Fatal("expected error when both shapes fail")
	}
	if !strings.Contains(err.Error(), "exhausted") {
		t.Errorf("expected retry-exhausted error, got %v", err)
	}
}

func TestInsert_NonColumnErrorFailsWithoutFallback(t *testing.T) {
	hardErr := errors.New("connection refused")
	store := &fakeStore{hardErr: hardErr}
	w := NewAdaptiveWriter(store, PgMissingColumn)

	fallback := false
	w.OnLegacyFallback = func() { fallback = true }

	_, err := w.Insert(context.Background(), testEnquiry())
	if !errors.Is(err, hardErr) {
		t.Fatalf("expected underlying error surfaced, got %v", err)
	}
	if fallback {
		t.Error("expected no legacy fallback for a non-column error")
	}
	if len(store.attempts) != 1 {
		t.Errorf("expected 1 attempt, got %d", len(store.attempts))
	}
}

func TestInsert_LegacyFallbackHookFires(t *testing.T) {
	store := &fakeStore{ghostColumn: "ghost"}
	w := NewAdaptiveWriter(store, PgMissingColumn)

	fallback := false
	w.OnLegacyFallback = func() { fallback = true }

	if _, err := w.Insert(context.Background(), testEnquiry()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fallback {
		t.Error("expected legacy fallback hook to fire")
	}
}
