package dto

import (
	"strings"
	"time"

	"github.com/workdesk-labs/work-mediator/internal/domain"
)

// ChatTurn is a history entry on the wire. Timestamps are accepted with
// or without a zone; anything unparseable is dropped.
type ChatTurn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// ChatRequest is the POST /chat payload.
type ChatRequest struct {
	ConversationID       string         `json:"conversation_id"`
	SenderDept           string         `json:"sender_dept"`
	TargetDept           *string        `json:"target_dept"`
	UserInput            string         `json:"user_input"`
	ChatHistory          []ChatTurn     `json:"chat_history"`
	CurrentTicket        *domain.Ticket `json:"current_ticket"`
	RoutingQuestionAsked bool           `json:"routing_question_asked"`
}

// ChatResponse mirrors domain.MediationOutcome.
type ChatResponse struct {
	ConversationID       string                `json:"conversation_id"`
	AIMessage            string                `json:"ai_message"`
	IdentifiedTargetDept *domain.DepartmentKey `json:"identified_target_dept"`
	UpdatedTicket        domain.Ticket         `json:"updated_ticket"`
	IsCompleted          bool                  `json:"is_completed"`
	NextAction           domain.NextAction     `json:"next_action"`
	MissingInfoList      []string              `json:"missing_info_list"`
	RoutingQuestionAsked bool                  `json:"routing_question_asked"`
	Stage                domain.MediationState `json:"stage"`
}

// GuidelineRequest is the POST /guidelines payload.
type GuidelineRequest struct {
	Dept     string   `json:"dept"`
	Snippets []string `json:"snippets"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO timestamps.
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// NewChatResponse builds the wire response from an outcome.
func NewChatResponse(out domain.MediationOutcome) ChatResponse {
	resp := ChatResponse{
		ConversationID:       out.ConversationID,
		AIMessage:            out.AIMessage,
		UpdatedTicket:        out.UpdatedTicket,
		IsCompleted:          out.IsCompleted,
		NextAction:           out.NextAction,
		MissingInfoList:      out.MissingInfo,
		RoutingQuestionAsked: out.RoutingQuestionAsked,
		Stage:                out.State,
	}
	if out.IdentifiedTargetDept != "" {
		dept := out.IdentifiedTargetDept
		resp.IdentifiedTargetDept = &dept
	}
	if resp.MissingInfoList == nil {
		resp.MissingInfoList = []string{}
	}
	if resp.UpdatedTicket.Receivers == nil {
		resp.UpdatedTicket.Receivers = []string{}
	}
	return resp
}
