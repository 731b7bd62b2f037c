package crm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/approval"
	"github.com/conley21p/alpine-outdoor-living/internal/audit"
	"github.com/conley21p/alpine-outdoor-living/internal/mail"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/sms"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// How long an approval link stays live.
const paymentApprovalWindow = 48 * time.Hour

// Resolution errors surfaced by Resolve.
var (
	ErrInvalidAction = errors.New("invalid approval action")
	ErrBadSignature  = errors.New("invalid approval signature")
)

// Resolution is the outcome of following an approval link.
type Resolution string

const (
	ResolutionApproved         Resolution = "approved"
	ResolutionDenied           Resolution = "denied"
	ResolutionExpired          Resolution = "expired"
	ResolutionAlreadyProcessed Resolution = "already_processed"
)

// PaymentService manages owner approval of agent-requested payments. The
// service only records decisions; moving money is outside its remit.
type PaymentService struct {
	payments  store.PaymentRequestStore
	signer    *approval.Signer
	mailer    mail.Sender
	templates *mail.Templates
	texter    sms.Sender
	audit     *audit.Writer

	ownerEmail   string
	notifyPhone  string
	baseURL      string
	businessName string
}

// NewPaymentService creates a PaymentService.
func NewPaymentService(
	payments store.PaymentRequestStore,
	signer *approval.Signer,
	mailer mail.Sender,
	templates *mail.Templates,
	texter sms.Sender,
	auditor *audit.Writer,
	ownerEmail, notifyPhone, baseURL, businessName string,
) *PaymentService {
	return &PaymentService{
		payments:     payments,
		signer:       signer,
		mailer:       mailer,
		templates:    templates,
		texter:       texter,
		audit:        auditor,
		ownerEmail:   ownerEmail,
		notifyPhone:  notifyPhone,
		baseURL:      strings.TrimRight(baseURL, "/"),
		businessName: businessName,
	}
}

// RequestParams describes a payment the agent wants authorized.
type RequestParams struct {
	Amount      float64
	Vendor      string
	Reason      string
	Notes       string
	RequestedBy string
}

// Request records a pending payment and notifies the owner by email with
// signed approve and deny links, plus an SMS nudge when configured. The
// link expires after 48 hours.
func (s *PaymentService) Request(ctx context.Context, p RequestParams) (*models.PaymentRequest, error) {
	p.Vendor = strings.TrimSpace(p.Vendor)
	p.Reason = strings.TrimSpace(p.Reason)
	p.RequestedBy = strings.TrimSpace(p.RequestedBy)
	if p.Amount <= 0 {
		return nil, invalidf("amount", "must be greater than zero")
	}
	if p.Vendor == "" {
		return nil, invalidf("vendor", "is required")
	}
	if p.Reason == "" {
		return nil, invalidf("reason", "is required")
	}
	if p.RequestedBy == "" {
		p.RequestedBy = "agent"
	}

	token, err := approval.GenerateToken()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(paymentApprovalWindow)

	req, err := s.payments.CreatePaymentRequest(ctx, models.PaymentRequestCreateParams{
		Amount:        p.Amount,
		Vendor:        p.Vendor,
		Reason:        p.Reason,
		Notes:         p.Notes,
		RequestedBy:   p.RequestedBy,
		ApprovalToken: token,
		ExpiresAt:     expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}

	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "payment_requested",
		EntityType:  models.EntityPayment,
		EntityID:    req.PublicID.String(),
		Description: fmt.Sprintf("Requested $%.2f to %s for %s", p.Amount, p.Vendor, p.Reason),
		Metadata:    audit.PaymentMetadata{ExpiresAt: expiresAt},
	})

	s.notifyOwner(ctx, req)
	return req, nil
}

func (s *PaymentService) approvalURL(token, action string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("action", action)
	if sig := s.signer.Sign(token, action); sig != "" {
		q.Set("sig", sig)
	}
	return s.baseURL + "/api/webhooks/payment-approval?" + q.Encode()
}

func (s *PaymentService) notifyOwner(ctx context.Context, req *models.PaymentRequest) {
	msg := s.templates.PaymentApprovalRequest(mail.PaymentApprovalParams{
		Amount:     req.Amount,
		Vendor:     req.Vendor,
		Reason:     req.Reason,
		ExpiresAt:  req.ExpiresAt.Format("Jan 2, 2006 3:04 PM MST"),
		ApproveURL: s.approvalURL(req.ApprovalToken, approval.ActionApprove),
		DenyURL:    s.approvalURL(req.ApprovalToken, approval.ActionDeny),
	})
	if err := s.mailer.Send(ctx, mail.Email{
		ToEmail:  s.ownerEmail,
		Subject:  msg.Subject,
		BodyHTML: msg.BodyHTML,
		BodyText: msg.BodyText,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send payment approval email", "error", err)
	}

	if s.notifyPhone == "" {
		return
	}
	text := fmt.Sprintf("%s: payment approval needed, $%.2f to %s. Check your email to approve or deny.",
		s.businessName, req.Amount, req.Vendor)
	if err := s.texter.Send(ctx, s.notifyPhone, text); err != nil {
		slog.ErrorContext(ctx, "failed to send payment approval sms", "error", err)
	}
}

// Resolve applies an approval-link decision. Exactly one terminal status
// transition wins: concurrent clicks and replays come back as
// ResolutionAlreadyProcessed without a second audit entry. A click after
// the 48 hour window marks the request expired regardless of action.
func (s *PaymentService) Resolve(ctx context.Context, token, action, signature string) (Resolution, *models.PaymentRequest, error) {
	if action != approval.ActionApprove && action != approval.ActionDeny {
		return "", nil, ErrInvalidAction
	}
	if !s.signer.Verify(token, action, signature) {
		return "", nil, ErrBadSignature
	}

	req, err := s.payments.GetPaymentRequestByToken(ctx, token)
	if err != nil {
		return "", nil, err
	}

	if req.Status != models.PaymentPending {
		return ResolutionAlreadyProcessed, req, nil
	}

	if time.Now().After(req.ExpiresAt) {
		resolved, err := s.payments.ResolvePaymentRequest(ctx, req.ID, models.PaymentExpired)
		if errors.Is(err, store.ErrConflict) {
			return ResolutionAlreadyProcessed, req, nil
		}
		if err != nil {
			return "", nil, err
		}
		s.audit.MustWrite(ctx, audit.Entry{
			Action:      "payment_expired",
			EntityType:  models.EntityPayment,
			EntityID:    resolved.PublicID.String(),
			Description: fmt.Sprintf("Approval link for $%.2f to %s used after expiry", resolved.Amount, resolved.Vendor),
			Metadata:    audit.PaymentMetadata{ExpiresAt: resolved.ExpiresAt, TokenUsed: true},
		})
		return ResolutionExpired, resolved, nil
	}

	status := models.PaymentApproved
	outcome := ResolutionApproved
	if action == approval.ActionDeny {
		status = models.PaymentDenied
		outcome = ResolutionDenied
	}

	resolved, err := s.payments.ResolvePaymentRequest(ctx, req.ID, status)
	if errors.Is(err, store.ErrConflict) {
		return ResolutionAlreadyProcessed, req, nil
	}
	if err != nil {
		return "", nil, err
	}

	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "payment_" + string(outcome),
		EntityType:  models.EntityPayment,
		EntityID:    resolved.PublicID.String(),
		Description: fmt.Sprintf("Payment of $%.2f to %s %s by owner", resolved.Amount, resolved.Vendor, outcome),
		Metadata:    audit.PaymentMetadata{ExpiresAt: resolved.ExpiresAt, TokenUsed: true},
	})
	return outcome, resolved, nil
}

// ResolveByID applies an admin dashboard decision to a pending request,
// with the same single-winner guarantee as the link flow.
func (s *PaymentService) ResolveByID(ctx context.Context, publicID uuid.UUID, approve bool) (Resolution, *models.PaymentRequest, error) {
	req, err := s.payments.GetPaymentRequestByPublicID(ctx, publicID)
	if err != nil {
		return "", nil, err
	}
	if req.Status != models.PaymentPending {
		return ResolutionAlreadyProcessed, req, nil
	}

	status := models.PaymentApproved
	outcome := ResolutionApproved
	if !approve {
		status = models.PaymentDenied
		outcome = ResolutionDenied
	}

	resolved, err := s.payments.ResolvePaymentRequest(ctx, req.ID, status)
	if errors.Is(err, store.ErrConflict) {
		return ResolutionAlreadyProcessed, req, nil
	}
	if err != nil {
		return "", nil, err
	}

	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "payment_" + string(outcome),
		EntityType:  models.EntityPayment,
		EntityID:    resolved.PublicID.String(),
		Description: fmt.Sprintf("Payment of $%.2f to %s %s from dashboard", resolved.Amount, resolved.Vendor, outcome),
		Metadata:    audit.PaymentMetadata{ExpiresAt: resolved.ExpiresAt},
	})
	return outcome, resolved, nil
}

// Get fetches one payment request by public id.
func (s *PaymentService) Get(ctx context.Context, publicID uuid.UUID) (*models.PaymentRequest, error) {
	return s.payments.GetPaymentRequestByPublicID(ctx, publicID)
}

// List returns a page of payment requests, optionally filtered by status.
func (s *PaymentService) List(ctx context.Context, status string, limit, offset int) ([]models.PaymentRequest, int, error) {
	limit, offset = clampPage(limit, offset)
	return s.payments.ListPaymentRequests(ctx, status, limit, offset)
}
