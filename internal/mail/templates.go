package mail

import (
	"fmt"
	"html"
	"strings"

	"github.com/conley21p/alpine-outdoor-living/internal/config"
)

// Templates renders the business's transactional email bodies. All string
// inputs are caller-supplied and HTML-escaped before interpolation.
type Templates struct {
	site config.Site
}

// NewTemplates creates a Templates bound to the public site settings.
func NewTemplates(site config.Site) *Templates {
	return &Templates{site: site}
}

// Message is a rendered subject plus body pair ready to hand to a Sender.
type Message struct {
	Subject  string
	BodyHTML string
	BodyText string
}

func (t *Templates) wrap(title, inner string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background:#f4f4f0;font-family:Arial,Helvetica,sans-serif;color:#333;">
  <div style="max-width:600px;margin:0 auto;padding:24px;">
    <div style="background:%s;color:#fff;padding:16px 24px;border-radius:8px 8px 0 0;">
      <h1 style="margin:0;font-size:20px;">%s</h1>
    </div>
    <div style="background:#fff;padding:24px;border-radius:0 0 8px 8px;">
      %s
    </div>
    <p style="font-size:12px;color:#888;margin-top:16px;">
      %s &middot; %s, %s &middot; %s
    </p>
  </div>
</body>
</html>`,
		t.site.BrandPrimary,
		html.EscapeString(title),
		inner,
		html.EscapeString(t.site.BusinessName),
		html.EscapeString(t.site.City),
		html.EscapeString(t.site.State),
		html.EscapeString(t.site.Phone),
	)
}

// NewLeadParams describes a fresh inquiry for the owner notification.
type NewLeadParams struct {
	Name          string
	Email         string
	Phone         string
	ServiceNeeded string
	Message       string
	Source        string
}

// NewLeadNotification is sent to the business owner when a lead arrives.
func (t *Templates) NewLeadNotification(p NewLeadParams) Message {
	rows := []struct{ label, value string }{
		{"Name", p.Name},
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Service", p.ServiceNeeded},
		{"Source", p.Source},
		{"Message", p.Message},
	}
	var b strings.Builder
	b.WriteString(`<table style="width:100%;border-collapse:collapse;">`)
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		fmt.Fprintf(&b,
			`<tr><td style="padding:6px 12px 6px 0;font-weight:bold;vertical-align:top;">%s</td><td style="padding:6px 0;">%s</td></tr>`,
			html.EscapeString(r.label), html.EscapeString(r.value))
	}
	b.WriteString(`</table>`)

	return Message{
		Subject:  fmt.Sprintf("New Lead: %s", p.Name),
		BodyHTML: t.wrap("New Lead Received", b.String()),
		BodyText: fmt.Sprintf("New lead from %s (%s, %s). Service: %s. Message: %s",
			p.Name, p.Email, p.Phone, p.ServiceNeeded, p.Message),
	}
}

// LeadAutoResponse thanks the customer for reaching out.
func (t *Templates) LeadAutoResponse(name string) Message {
	first := name
	if i := strings.IndexByte(name, ' '); i > 0 {
		first = name[:i]
	}
	inner := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Thanks for reaching out to %s! We received your request and will get back to you within one business day.</p>
<p>In the meantime, feel free to call us at %s with any questions.</p>
<p>&mdash; The %s Team</p>`,
		html.EscapeString(first),
		html.EscapeString(t.site.BusinessName),
		html.EscapeString(t.site.Phone),
		html.EscapeString(t.site.BusinessName),
	)
	return Message{
		Subject:  fmt.Sprintf("Thanks for contacting %s!", t.site.BusinessName),
		BodyHTML: t.wrap("We Got Your Request", inner),
		BodyText: fmt.Sprintf("Hi %s, thanks for reaching out to %s! We'll be in touch within one business day. Questions? Call %s.",
			first, t.site.BusinessName, t.site.Phone),
	}
}

// AppointmentParams describes a scheduled visit for the confirmation email.
type AppointmentParams struct {
	Name     string
	Title    string
	When     string
	Location string
}

// AppointmentConfirmation confirms a scheduled appointment with the customer.
func (t *Templates) AppointmentConfirmation(p AppointmentParams) Message {
	inner := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Your appointment with %s is confirmed:</p>
<table style="border-collapse:collapse;">
<tr><td style="padding:4px 12px 4px 0;font-weight:bold;">What</td><td>%s</td></tr>
<tr><td style="padding:4px 12px 4px 0;font-weight:bold;">When</td><td>%s</td></tr>
<tr><td style="padding:4px 12px 4px 0;font-weight:bold;">Where</td><td>%s</td></tr>
</table>
<p>Need to reschedule? Call us at %s.</p>`,
		html.EscapeString(p.Name),
		html.EscapeString(t.site.BusinessName),
		html.EscapeString(p.Title),
		html.EscapeString(p.When),
		html.EscapeString(p.Location),
		html.EscapeString(t.site.Phone),
	)
	return Message{
		Subject:  fmt.Sprintf("Appointment Confirmed: %s", p.When),
		BodyHTML: t.wrap("Appointment Confirmed", inner),
		BodyText: fmt.Sprintf("Hi %s, your appointment (%s) on %s at %s is confirmed. Reschedule: %s.",
			p.Name, p.Title, p.When, p.Location, t.site.Phone),
	}
}

// PaymentApprovalParams carries everything the owner needs to decide on a
// requested payment, including pre-signed approve and deny links.
type PaymentApprovalParams struct {
	Amount     float64
	Vendor     string
	Reason     string
	ExpiresAt  string
	ApproveURL string
	DenyURL    string
}

// PaymentApprovalRequest asks the owner to approve or deny a payment.
func (t *Templates) PaymentApprovalRequest(p PaymentApprovalParams) Message {
	inner := fmt.Sprintf(
		`<p>A payment needs your approval:</p>
<table style="border-collapse:collapse;margin-bottom:16px;">
<tr><td style="padding:4px 12px 4px 0;font-weight:bold;">Amount</td><td>$%.2f</td></tr>
<tr><td style="padding:4px 12px 4px 0;font-weight:bold;">To</td><td>%s</td></tr>
<tr><td style="padding:4px 12px 4px 0;font-weight:bold;">For</td><td>%s</td></tr>
<tr><td style="padding:4px 12px 4px 0;font-weight:bold;">Expires</td><td>%s</td></tr>
</table>
<p>
  <a href="%s" style="display:inline-block;background:#2e7d32;color:#fff;padding:12px 24px;border-radius:6px;text-decoration:none;margin-right:12px;">Approve</a>
  <a href="%s" style="display:inline-block;background:#c62828;color:#fff;padding:12px 24px;border-radius:6px;text-decoration:none;">Deny</a>
</p>
<p style="font-size:12px;color:#888;">If you did not expect this request, deny it and change your agent API key.</p>`,
		p.Amount,
		html.EscapeString(p.Vendor),
		html.EscapeString(p.Reason),
		html.EscapeString(p.ExpiresAt),
		p.ApproveURL,
		p.DenyURL,
	)
	return Message{
		Subject:  fmt.Sprintf("Payment Approval Needed: $%.2f to %s", p.Amount, p.Vendor),
		BodyHTML: t.wrap("Payment Approval Needed", inner),
		BodyText: fmt.Sprintf("Payment approval needed: $%.2f to %s for %s (expires %s). Approve: %s Deny: %s",
			p.Amount, p.Vendor, p.Reason, p.ExpiresAt, p.ApproveURL, p.DenyURL),
	}
}

// EmailApprovalNeeded tells the owner a drafted email is waiting in the queue.
func (t *Templates) EmailApprovalNeeded(recipient, subject, reviewURL string) Message {
	inner := fmt.Sprintf(
		`<p>An outbound email is waiting for your review:</p>
<table style="border-collapse:collapse;margin-bottom:16px;">
<tr><td style="padding:4px 12px 4px 0;font-weight:bold;">To</td><td>%s</td></tr>
<tr><td style="padding:4px 12px 4px 0;font-weight:bold;">Subject</td><td>%s</td></tr>
</table>
<p><a href="%s" style="display:inline-block;background:%s;color:#fff;padding:12px 24px;border-radius:6px;text-decoration:none;">Review in Dashboard</a></p>`,
		html.EscapeString(recipient),
		html.EscapeString(subject),
		reviewURL,
		t.site.BrandPrimary,
	)
	return Message{
		Subject:  fmt.Sprintf("Email Pending Approval: %s", subject),
		BodyHTML: t.wrap("Email Pending Approval", inner),
		BodyText: fmt.Sprintf("An email to %s (%q) is waiting for approval. Review: %s", recipient, subject, reviewURL),
	}
}
