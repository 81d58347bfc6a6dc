package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/workdesk-labs/work-mediator/internal/api/dto"
	"github.com/workdesk-labs/work-mediator/internal/domain"
	apperrors "github.com/workdesk-labs/work-mediator/pkg/util/errorutil"
)

// GuidelineStore appends snippets to the retrieval corpus.
type GuidelineStore interface {
	Add(ctx context.Context, dept domain.DepartmentKey, snippets []string) (int, error)
}

// GuidelinesHandler manages the retrieval corpus.
type GuidelinesHandler struct {
	store GuidelineStore
}

// NewGuidelinesHandler constructs handler.
func NewGuidelinesHandler(store GuidelineStore) *GuidelinesHandler {
	return &GuidelinesHandler{store: store}
}

// Add POST /guidelines.
func (h *GuidelinesHandler) Add(c *fiber.Ctx) error {
	var req dto.GuidelineRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, ok := domain.ParseDepartmentKey(req.Dept)
	if !ok {
		return apperrors.NewValidationError("unknown dept", map[string]any{"dept": req.Dept})
	}
	snippets := make([]string, 0, len(req.Snippets))
	for _, s := range req.Snippets {
		if s = strings.TrimSpace(s); s != "" {
			snippets = append(snippets, s)
		}
	}
	if len(snippets) == 0 {
		return apperrors.NewValidationError("snippets required", nil)
	}

	added, err := h.store.Add(c.UserContext(), dept, snippets)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"dept": dept, "added": added}})
}
