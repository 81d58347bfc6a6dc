package events

import (
	"time"

	"github.com/workdesk-labs/work-mediator/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTurnMediated EventType = "turn_mediated"
	EventTicketReady  EventType = "ticket_ready"
)

// Event represents a domain event emitted by the mediation service.
type Event struct {
	ID             string      `json:"id"`
	Type           EventType   `json:"type"`
	ConversationID string      `json:"conversation_id"`
	Timestamp      time.Time   `json:"timestamp"`
	Payload        interface{} `json:"payload"`
}

// TurnMediatedPayload describes one processed turn.
type TurnMediatedPayload struct {
	State       domain.MediationState `json:"state"`
	Outcome     string                `json:"outcome"`
	Dept        domain.DepartmentKey  `json:"dept,omitempty"`
	IsCompleted bool                  `json:"is_completed"`
	Missing     []string              `json:"missing,omitempty"`
	Duration    time.Duration         `json:"duration"`
}

// TicketReadyPayload is emitted when a turn produces a complete ticket.
type TicketReadyPayload struct {
	Dept      domain.DepartmentKey `json:"dept"`
	Title     string               `json:"title"`
	Grade     domain.TicketGrade   `json:"grade"`
	Deadline  domain.Deadline      `json:"deadline"`
	Receivers []string             `json:"receivers"`
}
