package service

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/workdesk-labs/work-mediator/internal/domain"
	"github.com/workdesk-labs/work-mediator/internal/llm"
)

// agentReasoning is the JSON object the interview backend must return.
type agentReasoning struct {
	Analysis       string         `json:"analysis"`
	UpdatedTicket  *domain.Ticket `json:"updated_ticket"`
	ResponseToUser *string        `json:"response_to_user"`
}

// parseReasoning strips code fences and decodes exactly one JSON object.
// Every failure is a *domain.ValidationParseError carrying the raw text;
// nothing is ever guessed.
func parseReasoning(raw string) (agentReasoning, error) {
	payload := llm.UnwrapJSON(raw)
	dec := json.NewDecoder(strings.NewReader(payload))

	var out agentReasoning
	if err := dec.Decode(&out); err != nil {
		return agentReasoning{}, &domain.ValidationParseError{Raw: raw, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return agentReasoning{}, &domain.ValidationParseError{Raw: raw, Err: errors.New("trailing data after JSON object")}
	}
	if out.UpdatedTicket == nil {
		return agentReasoning{}, &domain.ValidationParseError{Raw: raw, Err: errors.New("missing updated_ticket")}
	}
	if out.ResponseToUser == nil || strings.TrimSpace(*out.ResponseToUser) == "" {
		return agentReasoning{}, &domain.ValidationParseError{Raw: raw, Err: errors.New("missing response_to_user")}
	}
	return out, nil
}
