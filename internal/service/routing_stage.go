package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/workdesk-labs/work-mediator/internal/domain"
	"github.com/workdesk-labs/work-mediator/internal/llm"
)

type routeKind int

const (
	routeUnknown routeKind = iota
	routeQuestion
	routeDepartment
)

type routeDecision struct {
	kind     routeKind
	question string
	dept     domain.DepartmentKey
}

// parseRouting classifies free-text routing output. A question marker
// wins over everything; an unknown marker or no taxonomy key is unknown.
func parseRouting(raw string) routeDecision {
	text := strings.TrimSpace(raw)
	if idx := strings.Index(text, questionMarker); idx >= 0 {
		if q := strings.TrimSpace(text[idx+len(questionMarker):]); q != "" {
			return routeDecision{kind: routeQuestion, question: q}
		}
		return routeDecision{kind: routeUnknown}
	}
	if strings.Contains(strings.ToUpper(text), unknownMarker) {
		return routeDecision{kind: routeUnknown}
	}
	if dept, ok := domain.FindDepartmentKey(text, false); ok {
		return routeDecision{kind: routeDepartment, dept: dept}
	}
	return routeDecision{kind: routeUnknown}
}

// routingStage classifies the request into a department.
type routingStage struct {
	generator llm.Generator
	fallback  domain.DepartmentKey
	logger    *zap.Logger
}

func (st *routingStage) run(ctx context.Context, conv domain.ConversationContext) (stageResult, error) {
	prompt := llm.Prompt{
		History:     llm.FormatHistory(conv.History, conv.UserInput),
		Instruction: routingInstruction(conv.UserInput, conv.RoutingQuestionAsked),
	}
	raw, err := st.generator.Generate(ctx, prompt, llm.ModeFreeText)
	if err != nil {
		return downstreamFailure(st.logger, conv, "routing", err)
	}

	decision := parseRouting(raw)
	switch decision.kind {
	case routeQuestion:
		if conv.RoutingQuestionAsked {
			dept := st.forceDepartment(decision.question)
			st.logger.Warn("routing asked a second question; forcing department",
				zap.String("conversation_id", conv.ConversationID),
				zap.String("question", decision.question),
				zap.String("dept", string(dept)))
			return routedResult(conv, dept, outcomeForcedRoute), nil
		}
		return stageResult{
			message:      decision.question,
			ticket:       conv.Ticket.Clone(),
			routingAsked: true,
			outcome:      outcomeQuestion,
		}, nil
	case routeDepartment:
		st.logger.Info("routed", zap.String("conversation_id", conv.ConversationID), zap.String("dept", string(decision.dept)))
		return routedResult(conv, decision.dept, outcomeRouted), nil
	default:
		if conv.RoutingQuestionAsked {
			dept := st.forceDepartment(conv.UserInput)
			st.logger.Warn("routing undecided after clarifying question; forcing department",
				zap.String("conversation_id", conv.ConversationID),
				zap.String("reply", raw),
				zap.String("dept", string(dept)))
			return routedResult(conv, dept, outcomeForcedRoute), nil
		}
		return stageResult{
			message: msgAmbiguousIntent,
			ticket:  conv.Ticket.Clone(),
			outcome: outcomeAmbiguous,
		}, nil
	}
}

// forceDepartment picks the first department text mentions, by key or
// Korean label, or the configured fallback.
func (st *routingStage) forceDepartment(text string) domain.DepartmentKey {
	if dept, ok := domain.FindDepartmentKey(text, true); ok {
		return dept
	}
	return st.fallback
}

func routedResult(conv domain.ConversationContext, dept domain.DepartmentKey, outcome stageOutcome) stageResult {
	return stageResult{
		message: fmt.Sprintf(msgRouted, dept),
		ticket:  conv.Ticket.Clone(),
		dept:    dept,
		outcome: outcome,
	}
}
