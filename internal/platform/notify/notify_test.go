package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRetrier_SucceedsFirstAttempt(t *testing.T) {
	r := NewRetrier(3, 500*time.Millisecond)
	var slept []time.Duration
	r.sleep = func(d time.Duration) { slept = append(slept, d) }

	calls := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if len(slept) != 0 {
		t.Errorf("expected no sleeps, got %v", slept)
	}
}

func TestRetrier_LinearBackoffAndLastError(t *testing.T) {
	r := NewRetrier(3, 500*time.Millisecond)
	var slept []time.Duration
	r.sleep = func(d time.Duration) { slept = append(slept, d) }

	calls := 0
	lastErr := errors.New("attempt 3 failed")
	err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 3 {
			return lastErr
		}
		return errors.New("transient")
	})

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if !errors.Is(err, lastErr) {
		t.Errorf("expected last attempt's error, got %v", err)
	}
	// Backoff grows linearly: base*1 then base*2, no sleep after the last try.
	want := []time.Duration{500 * time.Millisecond, 1000 * time.Millisecond}
	if len(slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), slept)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("sleep %d: expected %v, got %v", i, want[i], slept[i])
		}
	}
}

func TestRetrier_RecoversMidway(t *testing.T) {
	r := NewRetrier(3, time.Millisecond)
	r.sleep = func(time.Duration) {}

	calls := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRetrier_CancelledContext(t *testing.T) {
	r := NewRetrier(3, time.Millisecond)
	r.sleep = func(time.Duration) {}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := r.Do(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("should not run")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no calls after cancel, got %d", calls)
	}
}

func TestSMTPSender_RejectsUnconfigured(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{})
	err := s.SendEmail(context.Background(), EmailMessage{To: "a@b.com", Subject: "hi"})
	if err == nil {
		t.Fatal("expected error for unconfigured sender")
	}
}

func TestTwilioSender_RejectsUnconfigured(t *testing.T) {
	s := NewTwilioSender(TwilioConfig{})
	if err := s.SendSMS(context.Background(), "+15550001111", "hello"); err == nil {
		t.Fatal("expected error for unconfigured sender")
	}
}

func TestTwilioSender_SendsFormEncodedRequest(t *testing.T) {
	var gotContentType, gotTo, gotBody string
	var gotAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_, _, gotAuth = r.BasicAuth()
		r.ParseForm()
		gotTo = r.PostFormValue("To")
		gotBody = r.PostFormValue("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewTwilioSender(TwilioConfig{AccountSID: "AC123", AuthToken: "secret", From: "+15550009999"})
	s.baseURL = srv.URL

	if err := s.SendSMS(context.Background(), "15550001111", "your enquiry was received"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("expected form encoding, got %s", gotContentType)
	}
	if !gotAuth {
		t.Error("expected basic auth on request")
	}
	if gotTo != "+15550001111" {
		t.Errorf("expected normalized phone, got %s", gotTo)
	}
	if gotBody != "your enquiry was received" {
		t.Errorf("unexpected body: %s", gotBody)
	}
}

func TestTwilioSender_APIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code": 21211, "message": "invalid To number"}`))
	}))
	defer srv.Close()

	s := NewTwilioSender(TwilioConfig{AccountSID: "AC123", AuthToken: "secret", From: "+15550009999"})
	s.baseURL = srv.URL

	if err := s.SendSMS(context.Background(), "+15550001111", "x"); err == nil {
		t.Fatal("expected error for API failure")
	}
}

func TestMockSenders_RecordCalls(t *testing.T) {
	email := &MockEmailSender{}
	email.SendEmail(context.Background(), EmailMessage{To: "clinic@example.com", Subject: "New enquiry"})
	if calls := email.Calls(); len(calls) != 1 || calls[0].To != "clinic@example.com" {
		t.Errorf("unexpected email calls: %v", calls)
	}

	sms := &MockSMSSender{FailFirst: 1}
	if err := sms.SendSMS(context.Background(), "+1555", "a"); err == nil {
		t.Error("expected first send to fail")
	}
	if err := sms.SendSMS(context.Background(), "+1555", "b"); err != nil {
		t.Errorf("expected second send to succeed: %v", err)
	}
	if len(sms.Calls()) != 2 {
		t.Errorf("expected 2 recorded calls, got %d", len(sms.Calls()))
	}
}
