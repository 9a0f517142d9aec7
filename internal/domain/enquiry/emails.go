package enquiry

import (
	"fmt"
	"strings"

	"github.com/careatlas/careatlas/internal/platform/notify"
)

// buildClinicLeadEmail composes the required clinic notification. The
// dashboard link points at the clinic portal where the lead lives regardless
// of delivery outcome.
func buildClinicLeadEmail(e *Enquiry, clinicName, siteBaseURL string, cc []string) notify.EmailMessage {
	dashboardURL := fmt.Sprintf("%s/dashboard/enquiries/%s", strings.TrimRight(siteBaseURL, "/"), e.ID)

	subject := fmt.Sprintf("New patient enquiry: %s", e.ProcedureInterest)

	var text strings.Builder
	fmt.Fprintf(&text, "Hello %s,\n\n", clinicName)
	fmt.Fprintf(&text, "You have a new enquiry from %s.\n\n", e.FullName)
	fmt.Fprintf(&text, "Procedure: %s\n", e.ProcedureInterest)
	fmt.Fprintf(&text, "Timeline: %s\n", e.Timeline)
	fmt.Fprintf(&text, "Willing to travel: %s\n", e.WillingToTravel)
	if e.BudgetRange != nil {
		fmt.Fprintf(&text, "Budget: %s\n", *e.BudgetRange)
	}
	if len(e.PreferredDestinations) > 0 {
		fmt.Fprintf(&text, "Preferred destinations: %s\n", strings.Join(e.PreferredDestinations, ", "))
	}
	fmt.Fprintf(&text, "Email: %s\nPhone: %s\n", e.Email, e.Phone)
	if e.Message != nil {
		fmt.Fprintf(&text, "\nMessage:\n%s\n", *e.Message)
	}
	fmt.Fprintf(&text, "\nView and respond in your dashboard:\n%s\n", dashboardURL)

	html := fmt.Sprintf(`<p>Hello %s,</p>
<p>You have a new enquiry from <strong>%s</strong>.</p>
<ul>
<li>Procedure: %s</li>
<li>Timeline: %s</li>
<li>Email: %s</li>
<li>Phone: %s</li>
</ul>
<p><a href="%s">View and respond in your dashboard</a></p>`,
		clinicName, e.FullName, e.ProcedureInterest, e.Timeline, e.Email, e.Phone, dashboardURL)

	return notify.EmailMessage{
		CC:       cc,
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: html,
	}
}

// buildPatientConfirmationEmail composes the best-effort confirmation sent to
// the submitter.
func buildPatientConfirmationEmail(e *Enquiry, clinicName string) notify.EmailMessage {
	subject := fmt.Sprintf("Your enquiry to %s was sent", clinicName)

	text := fmt.Sprintf(`Hello %s,

Thank you for your enquiry about %s. We have passed your details to %s, who
will contact you directly at %s or %s.

The CareAtlas Team
`, e.FullName, e.ProcedureInterest, clinicName, e.Email, e.Phone)

	html := fmt.Sprintf(`<p>Hello %s,</p>
<p>Thank you for your enquiry about <strong>%s</strong>. We have passed your
details to %s, who will contact you directly.</p>
<p>The CareAtlas Team</p>`, e.FullName, e.ProcedureInterest, clinicName)

	return notify.EmailMessage{
		To:       e.Email,
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	}
}

// buildClinicLeadSMS composes the short best-effort SMS ping.
func buildClinicLeadSMS(e *Enquiry, siteBaseURL string) string {
	return fmt.Sprintf("New CareAtlas enquiry: %s (%s). Respond at %s/dashboard",
		e.FullName, e.ProcedureInterest, strings.TrimRight(siteBaseURL, "/"))
}
