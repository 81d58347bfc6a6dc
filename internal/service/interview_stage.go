package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/workdesk-labs/work-mediator/internal/domain"
	"github.com/workdesk-labs/work-mediator/internal/llm"
)

// interviewStage fills the remaining ticket slots through guided dialog.
type interviewStage struct {
	generator llm.Generator
	retriever Retriever
	policy    domain.TicketPolicy
	topK      int
	now       func() time.Time
	logger    *zap.Logger
}

func (st *interviewStage) run(ctx context.Context, conv domain.ConversationContext) (stageResult, error) {
	current := conv.Ticket.Clone()
	verdict := st.policy.Validate(current)

	query := guidelineQuery(conv.TargetDept, conv.UserInput)
	snippets, err := st.retriever.Retrieve(ctx, conv.TargetDept, query, st.topK)
	if err != nil {
		return downstreamFailure(st.logger, conv, "guideline retrieval", err)
	}
	if len(snippets) == 0 {
		st.logger.Warn("no guidelines found", zap.String("dept", string(conv.TargetDept)), zap.String("query", query))
	}

	ticketJSON, err := json.Marshal(current)
	if err != nil {
		return stageResult{}, fmt.Errorf("serialize ticket: %w", err)
	}
	missing := missingInstruction(verdict.Missing)
	prompt := llm.Prompt{
		History: llm.FormatHistory(conv.History, conv.UserInput),
		Instruction: interviewInstruction(interviewPromptData{
			Dept:       conv.TargetDept,
			Guidelines: formatGuidelines(snippets),
			Today:      st.now().Format(domain.DeadlineLayout),
			TicketJSON: string(ticketJSON),
			UserInput:  conv.UserInput,
			Missing:    missing,
		}),
	}

	raw, err := st.generator.Generate(ctx, prompt, llm.ModeStructuredJSON)
	if err != nil {
		return downstreamFailure(st.logger, conv, "interview generation", err)
	}

	reasoning, err := parseReasoning(raw)
	if err != nil {
		var parseErr *domain.ValidationParseError
		if errors.As(err, &parseErr) {
			st.logger.Error("structured output malformed",
				zap.String("conversation_id", conv.ConversationID),
				zap.String("raw", parseErr.Raw),
				zap.Error(parseErr.Err))
			return failedResult(conv, msgApology, outcomeParseError), nil
		}
		return stageResult{}, err
	}
	st.logger.Debug("interview analysis",
		zap.String("conversation_id", conv.ConversationID),
		zap.String("analysis", reasoning.Analysis))

	ticket := reasoning.UpdatedTicket.Clone()
	if len(ticket.Receivers) == 0 && len(current.Receivers) > 0 {
		ticket = ticket.WithReceivers(current.Receivers)
	}

	message := *reasoning.ResponseToUser
	final := st.policy.Validate(ticket)
	if final.Complete {
		message += msgSubmitSuffix
	} else {
		st.logger.Info("still missing", zap.String("conversation_id", conv.ConversationID), zap.Strings("missing", final.Missing))
	}

	return stageResult{
		message: message,
		ticket:  ticket,
		outcome: outcomeInterviewed,
	}, nil
}
