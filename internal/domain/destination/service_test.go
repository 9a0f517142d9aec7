package destination

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	store map[uuid.UUID]*Destination
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*Destination)}
}

func (m *mockRepo) Create(_ context.Context, d *Destination) error {
	d.ID = uuid.New()
	d.Code = strings.ToUpper(d.Code)
	m.store[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Destination, error) {
	d, ok := m.store[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}

func (m *mockRepo) GetByCode(_ context.Context, code string) (*Destination, error) {
	for _, d := range m.store {
		if d.Code == strings.ToUpper(code) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, d *Destination) error {
	if _, ok := m.store[d.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.store[d.ID] = d
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Destination, int, error) {
	var result []*Destination
	for _, d := range m.store {
		result = append(result, d)
	}
	return result, len(result), nil
}

func TestCreate_Success(t *testing.T) {
	svc := NewService(newMockRepo())
	d := &Destination{Code: "th", Name: "Bangkok", Country: "Thailand"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Code != "TH" {
		t.Errorf("expected code uppercased, got %q", d.Code)
	}
}

func TestCreate_MissingCode(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Create(context.Background(), &Destination{Name: "Bangkok", Country: "Thailand"}); err == nil {
		t.Fatal("expected error for missing code")
	}
}

func TestCreate_MissingName(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Create(context.Background(), &Destination{Code: "TH", Country: "Thailand"}); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestGetByCode_CaseInsensitive(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	d := &Destination{Code: "TR", Name: "Istanbul", Country: "Turkey"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetByCode(context.Background(), "tr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Istanbul" {
		t.Errorf("expected Istanbul, got %s", got.Name)
	}
}

func TestUpdate_MissingName(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Update(context.Background(), &Destination{ID: uuid.New()}); err == nil {
		t.Fatal("expected error for missing name")
	}
}
