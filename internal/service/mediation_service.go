package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/workdesk-labs/work-mediator/internal/domain"
	"github.com/workdesk-labs/work-mediator/internal/events"
	"github.com/workdesk-labs/work-mediator/internal/llm"
	"github.com/workdesk-labs/work-mediator/internal/observability"
)

// DefaultTopK is how many guideline snippets the interview retrieves.
const DefaultTopK = 5

// MediationService is the orchestrator: it derives the conversation state
// from each request, runs exactly one stage and builds the outcome. It
// holds no per-conversation state.
type MediationService struct {
	routing    stage
	assignee   stage
	interview  stage
	policy     domain.TicketPolicy
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// MediationDependencies bundles the adapters and policy for the service.
type MediationDependencies struct {
	Generator    llm.Generator
	Retriever    Retriever
	Members      MemberDirectory
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Policy       domain.TicketPolicy
	TopK         int
	FallbackDept domain.DepartmentKey
	Now          func() time.Time
}

// NewMediationService constructs the service.
func NewMediationService(deps MediationDependencies) *MediationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	topK := deps.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	fallback := deps.FallbackDept
	if fallback == "" {
		fallback = domain.DepartmentPlanning
	}
	policy := deps.Policy
	if policy.Required == nil {
		policy = domain.DefaultTicketPolicy()
	}

	return &MediationService{
		routing: &routingStage{
			generator: deps.Generator,
			fallback:  fallback,
			logger:    logger,
		},
		assignee: &assigneeStage{
			generator: deps.Generator,
			members:   deps.Members,
			logger:    logger,
		},
		interview: &interviewStage{
			generator: deps.Generator,
			retriever: deps.Retriever,
			policy:    policy,
			topK:      topK,
			now:       now,
			logger:    logger,
		},
		policy:     policy,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Policy returns the completeness policy in use.
func (s *MediationService) Policy() domain.TicketPolicy {
	return s.policy
}

// Mediate processes one conversation turn. Expected failures come back as
// a normal outcome asking the user to retry; only a panic yields an error,
// wrapping domain.ErrUnhandledInternal.
func (s *MediationService) Mediate(ctx context.Context, conv domain.ConversationContext) (out domain.MediationOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("mediation panic",
				zap.String("conversation_id", conv.ConversationID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			out = domain.MediationOutcome{}
			err = fmt.Errorf("%w: %v", domain.ErrUnhandledInternal, r)
		}
	}()

	start := time.Now()
	state := domain.DeriveState(conv.TargetDept, conv.Ticket, s.policy)
	s.logger.Info("processing request",
		zap.String("conversation_id", conv.ConversationID),
		zap.String("sender_dept", conv.SenderDept),
		zap.String("target_dept", string(conv.TargetDept)),
		zap.String("state", string(state)))

	res, stageErr := s.stageFor(state).run(ctx, conv)
	if stageErr != nil {
		s.logger.Error("stage failed",
			zap.String("conversation_id", conv.ConversationID),
			zap.String("state", string(state)),
			zap.Error(stageErr))
		res = failedResult(conv, msgFailure, outcomeInternal)
	}

	out = s.buildOutcome(conv, state, res)
	elapsed := time.Since(start)
	s.metrics.RecordStage(string(state), string(res.outcome), elapsed)
	s.publish(context.WithoutCancel(ctx), out, res.outcome, elapsed)

	s.logger.Info("request processed",
		zap.String("conversation_id", conv.ConversationID),
		zap.String("outcome", string(res.outcome)),
		zap.Bool("completed", out.IsCompleted),
		zap.Duration("elapsed", elapsed))
	return out, nil
}

func (s *MediationService) stageFor(state domain.MediationState) stage {
	switch state {
	case domain.StateRouting:
		return s.routing
	case domain.StateAssignee:
		return s.assignee
	default:
		return s.interview
	}
}

// buildOutcome derives completion from the validator alone. A failed turn
// never reports completion.
func (s *MediationService) buildOutcome(conv domain.ConversationContext, state domain.MediationState, res stageResult) domain.MediationOutcome {
	ticket := res.ticket.Normalize()
	verdict := s.policy.Validate(ticket)
	completed := verdict.Complete && !res.failed

	next := domain.NextActionContinueChat
	switch {
	case completed:
		ticket = ticket.WithCompletionRate(100)
		next = domain.NextActionSuggestSubmit
	case !verdict.Complete && ticket.CompletionRate >= 100:
		ticket = ticket.WithCompletionRate(90)
	}

	dept := res.dept
	if dept == "" {
		dept = conv.TargetDept
	}

	return domain.MediationOutcome{
		ConversationID:       conv.ConversationID,
		AIMessage:            res.message,
		IdentifiedTargetDept: dept,
		UpdatedTicket:        ticket,
		IsCompleted:          completed,
		NextAction:           next,
		MissingInfo:          verdict.Missing,
		RoutingQuestionAsked: conv.RoutingQuestionAsked || res.routingAsked,
		State:                state,
	}
}

func (s *MediationService) publish(ctx context.Context, out domain.MediationOutcome, outcome stageOutcome, elapsed time.Duration) {
	if s.dispatcher == nil {
		return
	}
	now := time.Now().UTC()
	evts := []events.Event{{
		ID:             uuid.NewString(),
		Type:           events.EventTurnMediated,
		ConversationID: out.ConversationID,
		Timestamp:      now,
		Payload: events.TurnMediatedPayload{
			State:       out.State,
			Outcome:     string(outcome),
			Dept:        out.IdentifiedTargetDept,
			IsCompleted: out.IsCompleted,
			Missing:     out.MissingInfo,
			Duration:    elapsed,
		},
	}}
	if out.IsCompleted {
		evts = append(evts, events.Event{
			ID:             uuid.NewString(),
			Type:           events.EventTicketReady,
			ConversationID: out.ConversationID,
			Timestamp:      now,
			Payload: events.TicketReadyPayload{
				Dept:      out.IdentifiedTargetDept,
				Title:     out.UpdatedTicket.Title,
				Grade:     out.UpdatedTicket.Grade,
				Deadline:  out.UpdatedTicket.Deadline,
				Receivers: append([]string{}, out.UpdatedTicket.Receivers...),
			},
		})
	}
	for _, evt := range evts {
		if err := s.dispatcher.Publish(ctx, evt); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(evt.Type)), zap.Error(err))
		}
	}
}
