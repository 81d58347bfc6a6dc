package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/workdesk-labs/work-mediator/internal/events"
)

// AuditService writes an audit trail of mediated turns to the log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTurnMediated, a.handleTurnMediated)
	a.dispatcher.Subscribe(events.EventTicketReady, a.handleTicketReady)
}

func (a *AuditService) handleTurnMediated(ctx context.Context, event events.Event) error {
	a.logger.Info("TurnMediated",
		zap.String("event_id", event.ID),
		zap.String("conversation_id", event.ConversationID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleTicketReady(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketReady",
		zap.String("event_id", event.ID),
		zap.String("conversation_id", event.ConversationID),
		zap.Any("payload", event.Payload))
	return nil
}
