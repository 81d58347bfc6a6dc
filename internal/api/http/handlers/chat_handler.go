package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/workdesk-labs/work-mediator/internal/api/dto"
	"github.com/workdesk-labs/work-mediator/internal/domain"
	apperrors "github.com/workdesk-labs/work-mediator/pkg/util/errorutil"
)

// Mediator processes one conversation turn.
type Mediator interface {
	Mediate(ctx context.Context, conv domain.ConversationContext) (domain.MediationOutcome, error)
}

// ChatHandler serves the mediation endpoint.
type ChatHandler struct {
	mediator Mediator
}

// NewChatHandler constructs handler.
func NewChatHandler(mediator Mediator) *ChatHandler {
	return &ChatHandler{mediator: mediator}
}

// Chat POST /chat.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	conv, err := toConversation(req)
	if err != nil {
		return err
	}

	out, err := h.mediator.Mediate(c.UserContext(), conv)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewChatResponse(out))
}

func toConversation(req dto.ChatRequest) (domain.ConversationContext, error) {
	if strings.TrimSpace(req.UserInput) == "" {
		return domain.ConversationContext{}, apperrors.NewValidationError("user_input required", nil)
	}

	var target domain.DepartmentKey
	if req.TargetDept != nil && strings.TrimSpace(*req.TargetDept) != "" {
		key, ok := domain.ParseDepartmentKey(*req.TargetDept)
		if !ok {
			return domain.ConversationContext{}, apperrors.NewValidationError("unknown target_dept",
				map[string]any{"target_dept": *req.TargetDept})
		}
		target = key
	}

	history := make([]domain.ChatTurn, 0, len(req.ChatHistory))
	for i, turn := range req.ChatHistory {
		role := domain.ChatRole(strings.ToLower(strings.TrimSpace(turn.Role)))
		if !role.Valid() {
			return domain.ConversationContext{}, apperrors.NewValidationError("invalid chat_history role",
				map[string]any{"index": i, "role": turn.Role})
		}
		history = append(history, domain.ChatTurn{
			Role:      role,
			Content:   turn.Content,
			Timestamp: dto.ParseTimestamp(turn.Timestamp),
		})
	}

	ticket := domain.NewTicket()
	if req.CurrentTicket != nil {
		ticket = req.CurrentTicket.Normalize()
	}

	id := strings.TrimSpace(req.ConversationID)
	if id == "" {
		id = uuid.NewString()
	}

	return domain.ConversationContext{
		ConversationID:       id,
		SenderDept:           req.SenderDept,
		TargetDept:           target,
		UserInput:            req.UserInput,
		History:              history,
		Ticket:               ticket,
		RoutingQuestionAsked: req.RoutingQuestionAsked,
	}, nil
}
