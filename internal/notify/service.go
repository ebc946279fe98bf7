package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/botmitra/whatsbiz-platform/internal/leads"
	"github.com/botmitra/whatsbiz-platform/pkg/logging"
)

// Service sends notifications to the business owner. Delivery failures are
// logged but never surfaced to the chat pipeline.
type Service struct {
	email        EmailSender
	ownerEmail   string
	ownerName    string
	dashboardURL string
	logger       *logging.Logger
}

// NewService creates a notification service. A nil sender disables delivery.
// dashboardURL, when set, is the public base URL linked at the bottom of
// every notification.
func NewService(email EmailSender, ownerEmail, ownerName, dashboardURL string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:        email,
		ownerEmail:   ownerEmail,
		ownerName:    ownerName,
		dashboardURL: strings.TrimRight(dashboardURL, "/"),
		logger:       logger,
	}
}

// NotifyLeadCaptured emails the owner about a freshly captured lead.
func (s *Service) NotifyLeadCaptured(ctx context.Context, lead *leads.Lead) {
	if s.email == nil || s.ownerEmail == "" {
		s.logger.Debug("notify: email not configured, skipping lead notification")
		return
	}

	subject := fmt.Sprintf("New lead captured: %s", lead.Name)
	body := fmt.Sprintf(
		"A new lead was captured by your WhatsApp assistant.\n\nName: %s\nPhone: %s\nRequirement: %s\nSource: %s\nCaptured: %s\n",
		lead.Name,
		lead.Phone,
		lead.Requirement,
		lead.Source,
		lead.CreatedAt.Format("January 2, 2006 at 3:04 PM"),
	)
	if s.dashboardURL != "" {
		body += fmt.Sprintf("\nView your leads: %s/api/leads\n", s.dashboardURL)
	}

	msg := EmailMessage{
		To:      s.ownerEmail,
		ToName:  s.ownerName,
		Subject: subject,
		Body:    body,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: lead notification failed", "error", err, "lead_id", lead.ID)
		return
	}
	s.logger.Info("lead notification sent", "lead_id", lead.ID, "to", s.ownerEmail)
}
