package crm

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/audit"
	mailer "github.com/conley21p/alpine-outdoor-living/internal/mail"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// EmailService runs the outbound email approval queue. Agent-drafted email
// never goes to a customer directly: it waits in the queue until the owner
// approves it, at which point it is sent inline.
type EmailService struct {
	queue     store.EmailQueueStore
	sender    mailer.Sender
	templates *mailer.Templates
	audit     *audit.Writer

	ownerEmail string
	baseURL    string
}

// NewEmailService creates an EmailService.
func NewEmailService(queue store.EmailQueueStore, sender mailer.Sender, templates *mailer.Templates, auditor *audit.Writer, ownerEmail, baseURL string) *EmailService {
	return &EmailService{
		queue:      queue,
		sender:     sender,
		templates:  templates,
		audit:      auditor,
		ownerEmail: ownerEmail,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Queue drafts an email for owner approval and alerts the owner that one
// is waiting.
func (s *EmailService) Queue(ctx context.Context, params models.QueuedEmailCreateParams) (*models.QueuedEmail, error) {
	params.ToEmail = strings.ToLower(strings.TrimSpace(params.ToEmail))
	params.Subject = strings.TrimSpace(params.Subject)
	if params.ToEmail == "" {
		return nil, invalidf("toEmail", "is required")
	}
	if _, err := mail.ParseAddress(params.ToEmail); err != nil {
		return nil, invalidf("toEmail", "is not a valid address")
	}
	if params.Subject == "" {
		return nil, invalidf("subject", "is required")
	}
	if params.BodyHTML == "" && params.BodyText == "" {
		return nil, invalidf("bodyHtml", "either bodyHtml or bodyText is required")
	}

	queued, err := s.queue.CreateQueuedEmail(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to queue email: %w", err)
	}

	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "email_queued",
		EntityType:  models.EntityEmail,
		EntityID:    queued.PublicID.String(),
		Description: fmt.Sprintf("Queued email to %s: %s", queued.ToEmail, queued.Subject),
		Metadata:    audit.EmailMetadata{ToEmail: queued.ToEmail},
	})

	notice := s.templates.EmailApprovalNeeded(queued.ToEmail, queued.Subject, s.baseURL+"/admin/emails")
	if err := s.sender.Send(ctx, mailer.Email{
		ToEmail:  s.ownerEmail,
		Subject:  notice.Subject,
		BodyHTML: notice.BodyHTML,
		BodyText: notice.BodyText,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to notify owner of queued email", "error", err)
	}
	return queued, nil
}

// Approve moves a queued email to approved and sends it immediately. The
// approval is atomic: a concurrent approve or cancel loses and gets
// store.ErrConflict. Failed emails may be approved again for a retry.
// A delivery failure marks the row failed and is reported to the caller.
func (s *EmailService) Approve(ctx context.Context, publicID uuid.UUID) (*models.QueuedEmail, error) {
	queued, err := s.queue.GetQueuedEmailByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	approved, err := s.queue.ApproveQueuedEmail(ctx, queued.ID)
	if err != nil {
		return nil, err
	}

	sendErr := s.sender.Send(ctx, mailer.Email{
		ToEmail:  approved.ToEmail,
		ToName:   approved.ToName,
		Subject:  approved.Subject,
		BodyHTML: approved.BodyHTML,
		BodyText: approved.BodyText,
	})
	if sendErr != nil {
		if err := s.queue.MarkQueuedEmailFailed(ctx, approved.ID, sendErr.Error()); err != nil {
			slog.ErrorContext(ctx, "failed to mark email failed", "error", err)
		}
		s.audit.MustWrite(ctx, audit.Entry{
			Action:      "email_send_failed",
			EntityType:  models.EntityEmail,
			EntityID:    approved.PublicID.String(),
			Description: "Approved email failed to send to " + approved.ToEmail,
			Metadata:    audit.EmailMetadata{ToEmail: approved.ToEmail, Error: sendErr.Error()},
			Status:      models.LogError,
		})
		return nil, fmt.Errorf("email approved but delivery failed: %w", sendErr)
	}

	if err := s.queue.MarkQueuedEmailSent(ctx, approved.ID); err != nil {
		return nil, fmt.Errorf("email sent but status update failed: %w", err)
	}

	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "email_sent",
		EntityType:  models.EntityEmail,
		EntityID:    approved.PublicID.String(),
		Description: "Approved and sent email to " + approved.ToEmail,
		Metadata:    audit.EmailMetadata{ToEmail: approved.ToEmail},
	})

	return s.queue.GetQueuedEmailByPublicID(ctx, publicID)
}

// Cancel drops a pending email from the queue. Only pending_approval rows
// can be cancelled; anything else gets store.ErrConflict.
func (s *EmailService) Cancel(ctx context.Context, publicID uuid.UUID) error {
	queued, err := s.queue.GetQueuedEmailByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if err := s.queue.CancelQueuedEmail(ctx, queued.ID); err != nil {
		return err
	}

	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "email_cancelled",
		EntityType:  models.EntityEmail,
		EntityID:    queued.PublicID.String(),
		Description: "Cancelled queued email to " + queued.ToEmail,
		Metadata:    audit.EmailMetadata{ToEmail: queued.ToEmail},
	})
	return nil
}

// Get fetches one queued email by public id.
func (s *EmailService) Get(ctx context.Context, publicID uuid.UUID) (*models.QueuedEmail, error) {
	return s.queue.GetQueuedEmailByPublicID(ctx, publicID)
}

// List returns a page of queued emails, optionally filtered by status.
func (s *EmailService) List(ctx context.Context, status string, limit, offset int) ([]models.QueuedEmail, int, error) {
	limit, offset = clampPage(limit, offset)
	return s.queue.ListQueuedEmails(ctx, status, limit, offset)
}
