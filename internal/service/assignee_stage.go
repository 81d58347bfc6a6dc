package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/workdesk-labs/work-mediator/internal/domain"
	"github.com/workdesk-labs/work-mediator/internal/llm"
)

// noPreference holds lowercased tokens meaning "whole department".
var noPreference = map[string]struct{}{
	"team_common":   {},
	"없음":            {},
	"모름":            {},
	"none":          {},
	"상관없음":          {},
	"don't know":    {},
	"no preference": {},
}

const nameQuotes = " \t\r\n\"'`*“”‘’「」"

// cleanAssigneeName reduces backend output to a bare name token.
func cleanAssigneeName(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if name := strings.Trim(line, nameQuotes); name != "" {
			return name
		}
	}
	return ""
}

func isNoPreference(name string) bool {
	_, ok := noPreference[strings.ToLower(name)]
	return ok
}

// assigneeStage resolves who receives the ticket.
type assigneeStage struct {
	generator llm.Generator
	members   MemberDirectory
	logger    *zap.Logger
}

func (st *assigneeStage) run(ctx context.Context, conv domain.ConversationContext) (stageResult, error) {
	raw, err := st.generator.Generate(ctx, llm.Prompt{Instruction: assigneeInstruction(conv.UserInput)}, llm.ModeFreeText)
	if err != nil {
		return downstreamFailure(st.logger, conv, "assignee extraction", err)
	}
	name := cleanAssigneeName(raw)
	st.logger.Info("assignee extracted",
		zap.String("conversation_id", conv.ConversationID),
		zap.String("dept", string(conv.TargetDept)),
		zap.String("name", name))

	if isNoPreference(name) {
		return st.assignDepartment(ctx, conv)
	}
	return st.assignPerson(ctx, conv, name)
}

func (st *assigneeStage) assignDepartment(ctx context.Context, conv domain.ConversationContext) (stageResult, error) {
	emails, err := st.members.FindEmailsByDepartment(ctx, conv.TargetDept)
	if err != nil {
		return downstreamFailure(st.logger, conv, "department lookup", err)
	}
	if len(emails) == 0 {
		st.logger.Warn("department has no members", zap.String("dept", string(conv.TargetDept)))
		return stageResult{
			message: fmt.Sprintf(msgDeptEmpty, conv.TargetDept),
			ticket:  conv.Ticket.Clone(),
			outcome: outcomeDepartmentEmpty,
		}, nil
	}
	ticket := conv.Ticket.WithReceivers(emails)
	return stageResult{
		message: fmt.Sprintf(msgDeptReceivers, conv.TargetDept, len(ticket.Receivers)) + msgDescribeTask,
		ticket:  ticket,
		outcome: outcomeAssigned,
	}, nil
}

func (st *assigneeStage) assignPerson(ctx context.Context, conv domain.ConversationContext, name string) (stageResult, error) {
	if name == "" {
		return stageResult{message: msgAssigneeBlank, ticket: conv.Ticket.Clone(), outcome: outcomeAssigneeNotFound}, nil
	}
	email, found, err := st.members.FindEmailByName(ctx, name)
	if err != nil {
		return downstreamFailure(st.logger, conv, "member lookup", err)
	}
	if !found {
		return stageResult{
			message: fmt.Sprintf(msgAssigneeMissing, name),
			ticket:  conv.Ticket.Clone(),
			outcome: outcomeAssigneeNotFound,
		}, nil
	}
	return stageResult{
		message: fmt.Sprintf(msgAssigneeFound, name, email) + msgDescribeTask,
		ticket:  conv.Ticket.WithReceivers([]string{email}),
		outcome: outcomeAssigned,
	}, nil
}
