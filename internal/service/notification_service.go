package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/portal-gateway/internal/config"
	"github.com/spec-kit/portal-gateway/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	notify     config.NotificationConfig
	invite     config.InviteConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, notify config.NotificationConfig, invite config.InviteConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		notify:     notify,
		invite:     invite,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventInvitationIssued, n.handleInvitationIssued)
	n.dispatcher.Subscribe(events.EventInvitationRedeemed, n.handleInvitationRedeemed)
	n.dispatcher.Subscribe(events.EventInvitationRevoked, n.handleInvitationRevoked)
}

func (n *NotificationService) handleInvitationIssued(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.InvitationIssuedPayload)
	if !ok {
		return nil
	}
	link := strings.TrimSuffix(n.invite.BaseURL, "/") + "/invite/" + payload.Token
	n.sendEmailNotificationStub(ctx, payload.Email, link)
	return nil
}

func (n *NotificationService) handleInvitationRedeemed(ctx context.Context, event events.Event) error {
	n.logger.Info("InvitationRedeemed", zap.String("token", event.Subject), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleInvitationRevoked(ctx context.Context, event events.Event) error {
	n.logger.Info("InvitationRevoked", zap.String("token", event.Subject))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// sendEmailNotificationStub logs instead of sending real email.
func (n *NotificationService) sendEmailNotificationStub(_ context.Context, to, link string) {
	n.logger.Info("email notification stub",
		zap.String("from", n.notify.EmailFrom),
		zap.String("to", to),
		zap.String("invite_link", link))
}

// sendWebhookNotificationStub logs instead of calling a real webhook.
func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if n.notify.WebhookURL == "" {
		return
	}
	n.logger.Info("webhook notification stub",
		zap.String("url", n.notify.WebhookURL),
		zap.String("event", string(event.Type)))
}
