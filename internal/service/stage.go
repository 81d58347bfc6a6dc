package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/workdesk-labs/work-mediator/internal/domain"
)

// Retriever returns a department's guideline snippets ranked by relevance
// to a query.
type Retriever interface {
	Retrieve(ctx context.Context, dept domain.DepartmentKey, query string, k int) ([]string, error)
}

// MemberDirectory resolves assignees to contact addresses.
type MemberDirectory interface {
	FindEmailByName(ctx context.Context, name string) (string, bool, error)
	FindEmailsByDepartment(ctx context.Context, dept domain.DepartmentKey) ([]string, error)
}

// stageOutcome labels how a stage ended, for logs and metrics.
type stageOutcome string

const (
	outcomeQuestion         stageOutcome = "question"
	outcomeAmbiguous        stageOutcome = "ambiguous_intent"
	outcomeRouted           stageOutcome = "routed"
	outcomeForcedRoute      stageOutcome = "forced_route"
	outcomeAssigned         stageOutcome = "assigned"
	outcomeAssigneeNotFound stageOutcome = "assignee_not_found"
	outcomeDepartmentEmpty  stageOutcome = "department_empty"
	outcomeInterviewed      stageOutcome = "interviewed"
	outcomeParseError       stageOutcome = "validation_parse_error"
	outcomeUnavailable      stageOutcome = "downstream_unavailable"
	outcomeInternal         stageOutcome = "internal_error"
)

// stageResult is what a stage hands back to the orchestrator.
type stageResult struct {
	message      string
	ticket       domain.Ticket
	dept         domain.DepartmentKey
	routingAsked bool
	failed       bool
	outcome      stageOutcome
}

// stage runs one step of the mediation. Expected failures are turned into
// conversational results; a returned error is unexpected.
type stage interface {
	run(ctx context.Context, conv domain.ConversationContext) (stageResult, error)
}

// failedResult keeps the caller's ticket and apologises.
func failedResult(conv domain.ConversationContext, message string, outcome stageOutcome) stageResult {
	return stageResult{
		message: message,
		ticket:  conv.Ticket.Clone(),
		failed:  true,
		outcome: outcome,
	}
}

// downstreamFailure converts an adapter outage into an apology. Any other
// error is passed through for the orchestrator.
func downstreamFailure(logger *zap.Logger, conv domain.ConversationContext, op string, err error) (stageResult, error) {
	if !errors.Is(err, domain.ErrDownstreamUnavailable) {
		return stageResult{}, err
	}
	logger.Error("downstream unavailable",
		zap.String("conversation_id", conv.ConversationID),
		zap.String("op", op),
		zap.Error(err))
	return failedResult(conv, msgApology, outcomeUnavailable), nil
}
