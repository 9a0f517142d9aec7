package notify

import (
	"context"
	"sync"
)

// MockEmailSender records sent messages for assertions. Err, when set, is
// returned from every send.
type MockEmailSender struct {
	mu    sync.Mutex
	calls []EmailMessage

	Err error
	// FailFirst makes the first N sends fail before succeeding.
	FailFirst int
}

func (m *MockEmailSender) SendEmail(ctx context.Context, msg EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, msg)
	if m.Err != nil {
		return m.Err
	}
	if m.FailFirst > 0 {
		m.FailFirst--
		return errMockFailure
	}
	return nil
}

func (m *MockEmailSender) Calls() []EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailMessage, len(m.calls))
	copy(out, m.calls)
	return out
}

type SMSCall struct {
	To   string
	Body string
}

// MockSMSSender records sent messages for assertions.
type MockSMSSender struct {
	mu    sync.Mutex
	calls []SMSCall

	Err       error
	FailFirst int
}

func (m *MockSMSSender) SendSMS(ctx context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, SMSCall{To: to, Body: body})
	if m.Err != nil {
		return m.Err
	}
	if m.FailFirst > 0 {
		m.FailFirst--
		return errMockFailure
	}
	return nil
}

func (m *MockSMSSender) Calls() []SMSCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SMSCall, len(m.calls))
	copy(out, m.calls)
	return out
}

type mockError string

func (e mockError) Error() string { return string(e) }

const errMockFailure = mockError("mock send failure")
