package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/studiokit/portal/internal/events"
)

// NotificationService logs ticket lifecycle events. It stands in for the
// email/webhook fan-out a production deployment would attach here.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketCommentAdded,
		events.EventTicketAttachmentAdded,
		events.EventTicketAttachmentDeleted,
	} {
		n.dispatcher.Subscribe(eventType, n.logEvent)
	}
}

func (n *NotificationService) logEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor", event.Actor.UserID),
		zap.Any("payload", event.Payload))
	return nil
}
