package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/workdesk-labs/work-mediator/pkg/util/errorutil"
)

// APIKeyHeader carries the shared secret.
const APIKeyHeader = "X-API-Key"

const callerKey = "auth_caller"

// AuthMiddleware accepts either the shared API key or a bearer token
// signed with the shared JWT secret. Either credential may be disabled by
// leaving it unconfigured.
type AuthMiddleware struct {
	apiKey string
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(apiKey string, tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{apiKey: apiKey, tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if key := c.Get(APIKeyHeader); key != "" {
		if !CompareAPIKey(m.apiKey, key) {
			return apperrors.NewAuthFailure("invalid api key")
		}
		c.Locals(callerKey, "api-key")
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" || m.tokens == nil {
		return apperrors.NewAuthFailure("missing credentials")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewAuthFailure("invalid authorization header")
	}
	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewAuthFailure("invalid token")
	}

	c.Locals(callerKey, claims.Caller())
	return c.Next()
}

// CallerFromContext returns who authenticated the request.
func CallerFromContext(c *fiber.Ctx) (string, bool) {
	caller, ok := c.Locals(callerKey).(string)
	return caller, ok
}
