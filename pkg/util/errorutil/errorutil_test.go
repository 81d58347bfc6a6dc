package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	de := ToDomainError(fmt.Errorf("wrapped: %w", NewAuthFailure("bad key")))
	assert.Equal(t, "AUTH_FAILURE", de.Code)
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)

	de = ToDomainError(errors.New("db exploded"))
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, "internal server error", de.Message)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)

	de = ToDomainError(fiber.ErrNotFound)
	assert.Equal(t, "NOT_FOUND", de.Code)

	de = ToDomainError(fiber.ErrUnprocessableEntity)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)

	assert.Nil(t, ToDomainError(nil))
}

func TestDomainErrorMessage(t *testing.T) {
	err := NewInternalError(errors.New("cause"))
	assert.Equal(t, "internal server error: cause", err.Error())
	assert.ErrorIs(t, err, errors.Unwrap(err))

	v := NewValidationError("user_input required", map[string]any{"field": "user_input"})
	assert.Equal(t, "user_input required", v.Error())
}
