package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/workdesk-labs/work-mediator/pkg/util/errorutil"
)

func newProtectedApp(m *AuthMiddleware) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})
	app.Get("/private", m.Handle, func(c *fiber.Ctx) error {
		caller, _ := CallerFromContext(c)
		return c.SendString(caller)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, headers map[string]string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAPIKeyPlain(t *testing.T) {
	app := newProtectedApp(NewAuthMiddleware("s3cret", nil))
	assert.Equal(t, http.StatusOK, doRequest(t, app, map[string]string{APIKeyHeader: "s3cret"}))
	assert.Equal(t, http.StatusForbidden, doRequest(t, app, map[string]string{APIKeyHeader: "wrong"}))
	assert.Equal(t, http.StatusForbidden, doRequest(t, app, nil))
}

func TestAPIKeyBcrypt(t *testing.T) {
	hash, err := HashAPIKey("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	app := newProtectedApp(NewAuthMiddleware(hash, nil))
	assert.Equal(t, http.StatusOK, doRequest(t, app, map[string]string{APIKeyHeader: "s3cret"}))
	assert.Equal(t, http.StatusForbidden, doRequest(t, app, map[string]string{APIKeyHeader: hash}))
}

func TestAPIKeyUnconfiguredRejectsEverything(t *testing.T) {
	app := newProtectedApp(NewAuthMiddleware("", nil))
	assert.Equal(t, http.StatusForbidden, doRequest(t, app, map[string]string{APIKeyHeader: ""}))
	assert.Equal(t, http.StatusForbidden, doRequest(t, app, map[string]string{APIKeyHeader: "anything"}))
}

func TestBearerToken(t *testing.T) {
	tokens := NewTokenManager("jwt-secret", 5)
	token, _, err := tokens.GenerateToken("backend")
	require.NoError(t, err)

	app := newProtectedApp(NewAuthMiddleware("", tokens))
	assert.Equal(t, http.StatusOK, doRequest(t, app, map[string]string{"Authorization": "Bearer " + token}))
	assert.Equal(t, http.StatusForbidden, doRequest(t, app, map[string]string{"Authorization": "Basic " + token}))
	assert.Equal(t, http.StatusForbidden, doRequest(t, app, map[string]string{"Authorization": "Bearer garbage"}))

	other, _, err := NewTokenManager("other-secret", 5).GenerateToken("backend")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doRequest(t, app, map[string]string{"Authorization": "Bearer " + other}))
}

func TestBearerDisabledWithoutSecret(t *testing.T) {
	token, _, err := NewTokenManager("jwt-secret", 5).GenerateToken("backend")
	require.NoError(t, err)
	app := newProtectedApp(NewAuthMiddleware("s3cret", nil))
	assert.Equal(t, http.StatusForbidden, doRequest(t, app, map[string]string{"Authorization": "Bearer " + token}))
}

func TestParseTokenClaims(t *testing.T) {
	tm := NewTokenManager("jwt-secret", 0)
	token, expiresAt, err := tm.GenerateToken("backend")
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "backend", claims.Service)
	assert.Equal(t, "backend", claims.Subject)
	assert.Equal(t, "backend", claims.Caller())
}

func TestParseTokenRejectsWrongAudience(t *testing.T) {
	tm := NewTokenManager("jwt-secret", 5)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Service: "backend",
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{"someone-else"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte("jwt-secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(raw)
	assert.Error(t, err)
}

func TestParseTokenRequiresExpiry(t *testing.T) {
	tm := NewTokenManager("jwt-secret", 5)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Service:          "backend",
		RegisteredClaims: jwt.RegisteredClaims{Audience: jwt.ClaimStrings{TokenAudience}},
	}).SignedString([]byte("jwt-secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(raw)
	assert.Error(t, err)
}

func TestCompareAPIKey(t *testing.T) {
	assert.True(t, CompareAPIKey("k", "k"))
	assert.False(t, CompareAPIKey("k", "K"))
	assert.False(t, CompareAPIKey("", ""))
}
