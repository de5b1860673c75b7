package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"edms/internal/auth"
	"edms/internal/config"
)

const (
	// VerifiedEmailLocalKey holds the gateway-verified requester email.
	VerifiedEmailLocalKey = "verified_email"
	// VerifiedPrincipalLocalKey holds the token-attested principal name.
	VerifiedPrincipalLocalKey = "verified_principal"
)

// defaultExemptPrefixes lists surfaces the identity gate never covers: the
// administrative surface carries its own key check, infrastructure endpoints
// are unauthenticated by design, and static assets are public.
var defaultExemptPrefixes = []string{
	"/api/admin",
	"/health",
	"/metrics",
	"/docs",
	"/openapi.yaml",
	"/favicon",
	"/assets",
	"/public",
}

// Gateway binds the claimed identity to an externally issued token before any
// handler runs. Identity travels as `email` and `token` query parameters,
// stamped into links by the employee portal.
//
// Reads may be anonymous (the policy evaluator handles them), so safe methods
// pass through unverified. Every mutating request on a non-exempt path must
// present a verifiable identity; any failure is a redirect to the portal
// login page, never a machine-parseable error.
func Gateway(v *auth.Verifier, cfg config.AuthConfig) fiber.Handler {
	prefixes := append([]string{}, defaultExemptPrefixes...)
	prefixes = append(prefixes, cfg.ExemptPrefixes...)

	return func(c *fiber.Ctx) error {
		if exemptPath(c.Path(), prefixes) || safeMethod(c.Method()) {
			return c.Next()
		}

		email := strings.TrimSpace(c.Query("email"))
		token := strings.TrimSpace(c.Query("token"))

		id, err := v.Authenticate(email, token)
		if err != nil {
			return c.Redirect(cfg.LoginURL, fiber.StatusFound)
		}

		c.Locals(VerifiedEmailLocalKey, id.Email)
		c.Locals(VerifiedPrincipalLocalKey, id.Principal)
		return c.Next()
	}
}

func exemptPath(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func safeMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}
