package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type mockRepo struct {
	stats    *EnquiryStats
	lastIDs  []uuid.UUID
	queried  bool
	queryErr error
}

func (m *mockRepo) EnquiryStats(_ context.Context, clinicIDs []uuid.UUID) (*EnquiryStats, error) {
	m.queried = true
	m.lastIDs = clinicIDs
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.stats, nil
}

type mockOwnership struct {
	owned map[string][]uuid.UUID
}

func (m *mockOwnership) OwnedClinicIDs(_ context.Context, ownerUserID string) ([]uuid.UUID, error) {
	return m.owned[ownerUserID], nil
}

func newTestService(repo *mockRepo, owned map[string][]uuid.UUID) *Service {
	return NewService(repo, &mockOwnership{owned: owned}, zerolog.Nop())
}

func TestEnquiryStats_AdminUnrestricted(t *testing.T) {
	repo := &mockRepo{stats: &EnquiryStats{Total: 12, ByStatus: map[string]int{"submitted": 7, "viewed": 5}}}
	svc := newTestService(repo, nil)

	stats, err := svc.EnquiryStats(context.Background(), "a1", []string{"admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 12 {
		t.Errorf("expected total 12, got %d", stats.Total)
	}
	if repo.lastIDs != nil {
		t.Errorf("expected unrestricted query, got clinic filter %v", repo.lastIDs)
	}
}

func TestEnquiryStats_ClinicScopedToOwned(t *testing.T) {
	clinicID := uuid.New()
	repo := &mockRepo{stats: &EnquiryStats{Total: 3, ByStatus: map[string]int{"submitted": 3}}}
	svc := newTestService(repo, map[string][]uuid.UUID{"c1": {clinicID}})

	if _, err := svc.EnquiryStats(context.Background(), "c1", []string{"clinic"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.lastIDs) != 1 || repo.lastIDs[0] != clinicID {
		t.Errorf("expected query scoped to owned clinic, got %v", repo.lastIDs)
	}
}

func TestEnquiryStats_ClinicWithoutClinicsGetsEmptyStats(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, nil)

	stats, err := svc.EnquiryStats(context.Background(), "c9", []string{"clinic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 0 || stats.AvgHoursToFirstAction != nil {
		t.Errorf("expected empty stats, got %+v", stats)
	}
	if repo.queried {
		t.Error("expected no aggregation query for ownerless clinic user")
	}
}

func TestEnquiryStats_PatientForbidden(t *testing.T) {
	svc := newTestService(&mockRepo{}, nil)

	_, err := svc.EnquiryStats(context.Background(), "p1", []string{"patient"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
