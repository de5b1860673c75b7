package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edms/internal/auth"
	"edms/internal/config"
)

const (
	gatewaySecret = "gateway-test-secret"
	loginURL      = "https://hr.example.com/login"
)

func gatewayApp(t *testing.T) *fiber.App {
	t.Helper()
	v := auth.NewVerifier(gatewaySecret, "")
	app := fiber.New()
	app.Use(Gateway(v, config.AuthConfig{LoginURL: loginURL}))

	ok := func(c *fiber.Ctx) error {
		email, _ := c.Locals(VerifiedEmailLocalKey).(string)
		return c.SendString("ok:" + email)
	}
	app.Post("/api/documents", ok)
	app.Get("/api/documents", ok)
	app.Post("/api/admin/documents", ok)
	app.Get("/metrics", ok)
	return app
}

func issueToken(t *testing.T, username string) string {
	t.Helper()
	claims := auth.Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    auth.DefaultIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(gatewaySecret))
	require.NoError(t, err)
	return tok
}

func TestGateway(t *testing.T) {
	app := gatewayApp(t)

	t.Run("valid identity passes and is stored in locals", func(t *testing.T) {
		q := url.Values{"email": {"jdoe@example.com"}, "token": {issueToken(t, "jdoe")}}
		req := httptest.NewRequest(http.MethodPost, "/api/documents?"+q.Encode(), nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("principal mismatch redirects to login", func(t *testing.T) {
		q := url.Values{"email": {"other@example.com"}, "token": {issueToken(t, "jdoe")}}
		req := httptest.NewRequest(http.MethodPost, "/api/documents?"+q.Encode(), nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, loginURL, resp.Header.Get("Location"))
	})

	t.Run("missing token with present email redirects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/documents?email=jdoe%40example.com", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, loginURL, resp.Header.Get("Location"))
	})

	t.Run("missing email with present token redirects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/documents?token="+issueToken(t, "jdoe"), nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusFound, resp.StatusCode)
	})

	t.Run("tampered token redirects", func(t *testing.T) {
		q := url.Values{"email": {"jdoe@example.com"}, "token": {issueToken(t, "jdoe") + "x"}}
		req := httptest.NewRequest(http.MethodPost, "/api/documents?"+q.Encode(), nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusFound, resp.StatusCode)
	})

	t.Run("safe methods pass without identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("admin surface is exempt", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("infrastructure endpoints are exempt", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestGateway_MissingSecretFailsClosed(t *testing.T) {
	v := auth.NewVerifier("", "")
	app := fiber.New()
	app.Use(Gateway(v, config.AuthConfig{LoginURL: loginURL}))
	app.Post("/api/documents", func(c *fiber.Ctx) error { return c.SendString("ok") })

	q := url.Values{"email": {"jdoe@example.com"}, "token": {"anything"}}
	req := httptest.NewRequest(http.MethodPost, "/api/documents?"+q.Encode(), nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestAdminKey(t *testing.T) {
	app := fiber.New()
	app.Use("/api/admin", AdminKey("op-key"))
	app.Get("/api/admin/documents", func(c *fiber.Ctx) error { return c.SendString("ok") })

	t.Run("correct key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/documents", nil)
		req.Header.Set(AdminKeyHeader, "op-key")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/documents", nil)
		req.Header.Set(AdminKeyHeader, "nope")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unconfigured key disables the surface", func(t *testing.T) {
		disabled := fiber.New()
		disabled.Use("/api/admin", AdminKey(""))
		disabled.Get("/api/admin/documents", func(c *fiber.Ctx) error { return c.SendString("ok") })

		req := httptest.NewRequest(http.MethodGet, "/api/admin/documents", nil)
		resp, _ := disabled.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
