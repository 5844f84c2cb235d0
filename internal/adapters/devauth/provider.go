// Package devauth provides a config-driven authenticator for local development.
// It mints HS256 tokens that the dev store verifies with the same secret.
package devauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/tripmate/tripmate-client/internal/domain/auth"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// DefaultIssuer is the token issuer when none is configured.
const DefaultIssuer = "tripmate-dev"

// Config controls the dev authenticator.
// Principal and Secret are required.
type Config struct {
	Principal       string
	DisplayName     string
	Email           string
	Secret          string
	Issuer          string
	SessionDuration time.Duration // default 8h when zero
}

// devClaims extends the registered claims with profile hints.
type devClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Authenticator implements ports.Authenticator without any user interaction.
type Authenticator struct {
	principal   domainauth.Principal
	displayName string
	email       string
	secret      []byte
	issuer      string
	duration    time.Duration
	now         func() time.Time
}

var _ ports.Authenticator = (*Authenticator)(nil)

// NewAuthenticator constructs a dev authenticator from Config.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	p := domainauth.Principal(strings.TrimSpace(cfg.Principal))
	if p.IsAnonymous() {
		return nil, errors.New("dev auth: principal is required")
	}
	if cfg.Secret == "" {
		return nil, errors.New("dev auth: secret is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &Authenticator{
		principal:   p,
		displayName: cfg.DisplayName,
		email:       cfg.Email,
		secret:      []byte(cfg.Secret),
		issuer:      issuer,
		duration:    dur,
		now:         time.Now,
	}, nil
}

// Authenticate mints a fresh token for the configured principal.
func (a *Authenticator) Authenticate(ctx context.Context) (domainauth.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domainauth.Identity{}, err
	}
	now := a.now()
	exp := now.Add(a.duration)
	claims := devClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   a.principal.String(),
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Name:  a.displayName,
		Email: a.email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("sign token: %w", err)
	}
	return domainauth.Identity{
		Principal:   a.principal,
		Credential:  signed,
		DisplayName: a.displayName,
		Email:       a.email,
		ExpiresAt:   exp,
	}, nil
}

// Verifier checks tokens minted by Authenticator.
type Verifier struct {
	secret []byte
	issuer string
}

var _ ports.CredentialVerifier = (*Verifier)(nil)

// NewVerifier constructs a Verifier. An empty issuer means DefaultIssuer.
func NewVerifier(secret, issuer string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("dev auth: secret is required")
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &Verifier{secret: []byte(secret), issuer: issuer}, nil
}

// Verify returns the principal a credential was minted for. An empty credential
// is the anonymous principal.
func (v *Verifier) Verify(_ context.Context, credential string) (domainauth.Principal, error) {
	if credential == "" {
		return domainauth.AnonymousPrincipal, nil
	}
	var claims devClaims
	_, err := jwt.ParseWithClaims(credential, &claims, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeForbidden, "invalid credential")
	}
	p := domainauth.Principal(claims.Subject)
	if p.IsAnonymous() {
		return "", apperrors.Forbidden("credential has no subject")
	}
	return p, nil
}
