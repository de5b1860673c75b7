package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrVerification is the single error returned for any failed token check.
// Callers must not learn whether the signature, issuer, or identity binding
// failed; the gate fails closed either way.
var ErrVerification = errors.New("token verification failed")

// DefaultIssuer is the issuer the external identity system stamps on tokens.
const DefaultIssuer = "employee-management"

// Claims is the payload extracted from a verified identity token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Identity is a claimed email bound to a cryptographically attested principal.
type Identity struct {
	Email     string
	Principal string
}

// Verifier checks identity tokens issued by the external employee system.
// This service never issues tokens; it only verifies them against the shared
// secret using a single fixed signing algorithm (HS256).
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier constructs a Verifier. An empty issuer falls back to DefaultIssuer.
// An empty secret is accepted here but every verification will fail closed.
func NewVerifier(secret, issuer string) *Verifier {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses and validates the token, returning its claims.
func (v *Verifier) Verify(token string) (*Claims, error) {
	if len(v.secret) == 0 || token == "" {
		return nil, ErrVerification
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrVerification
	}
	return claims, nil
}

// Authenticate binds a claimed email address to a verified token.
//
// Both email and token must be present. The token's principal name must equal
// the local-part of the claimed email exactly; a valid signature issued for a
// different principal is still a deny. This prevents identity spoofing via
// URL manipulation with someone else's token.
func (v *Verifier) Authenticate(email, token string) (*Identity, error) {
	email = strings.TrimSpace(email)
	token = strings.TrimSpace(token)
	if email == "" || token == "" {
		return nil, ErrVerification
	}

	claims, err := v.Verify(token)
	if err != nil {
		return nil, err
	}

	principal := strings.TrimSpace(claims.Username)
	localPart := strings.TrimSpace(strings.SplitN(email, "@", 2)[0])
	if principal == "" || principal != localPart {
		return nil, ErrVerification
	}

	return &Identity{Email: email, Principal: principal}, nil
}
