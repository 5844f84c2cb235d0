// Package oidc authenticates the CLI user against an OpenID Connect provider with
// the OAuth 2.0 device authorization grant.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// DeviceCode is what the user needs to finish logging in on another device.
type DeviceCode struct {
	UserCode                string
	VerificationURI         string
	VerificationURIComplete string
	Expiry                  time.Time
}

// PromptFunc shows a DeviceCode to the user.
type PromptFunc func(ctx context.Context, code DeviceCode) error

// WriterPrompt prints the verification instructions to w.
func WriterPrompt(w io.Writer) PromptFunc {
	return func(_ context.Context, code DeviceCode) error {
		target := code.VerificationURI
		if code.VerificationURIComplete != "" {
			target = code.VerificationURIComplete
		}
		_, err := fmt.Fprintf(w, "To log in, open %s and enter code %s\n", target, code.UserCode)
		return err
	}
}

// ProviderConfig holds configuration for the OIDC authenticator.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string // optional for public clients
	Scope        string
	// IssuerURL is the issuer or its discovery document URL.
	IssuerURL string
	// PrincipalClaim names the claim used as the principal; "sub" when empty.
	PrincipalClaim string
	Prompt         PromptFunc   // defaults to WriterPrompt(os.Stderr)
	HTTPClient     *http.Client // Optional, defaults to a 30s-timeout client
	Logger         *slog.Logger
}

// Provider implements ports.Authenticator using OIDC discovery and the device grant.
type Provider struct {
	config         *oauth2.Config
	httpClient     *http.Client
	prompt         PromptFunc
	principalClaim string
	logger         *slog.Logger

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

var _ ports.Authenticator = (*Provider)(nil)

// NewProvider creates a new OIDC authenticator. It fetches the discovery document.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	prompt := config.Prompt
	if prompt == nil {
		prompt = WriterPrompt(os.Stderr)
	}
	claim := config.PrincipalClaim
	if claim == "" {
		claim = "sub"
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	scope := config.Scope
	if strings.TrimSpace(scope) == "" {
		scope = "openid profile email"
	}

	ctx = oidcContext(ctx, httpClient)
	issuer := strings.TrimSuffix(config.IssuerURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	endpoint := op.Endpoint()
	if endpoint.DeviceAuthURL == "" {
		return nil, errors.New("issuer does not advertise a device authorization endpoint")
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scopes:       strings.Fields(scope),
			Endpoint:     endpoint,
		},
		httpClient:     httpClient,
		prompt:         prompt,
		principalClaim: claim,
		logger:         logger.With("component", "oidc"),
		oidcProvider:   op,
		verifier:       op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
	}, nil
}

func oidcContext(ctx context.Context, c *http.Client) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c)
}

// Authenticate runs the device grant: it shows the user code, polls the token
// endpoint until the user approves, and returns the verified identity. The raw ID
// token is the identity's credential.
func (p *Provider) Authenticate(ctx context.Context) (domainauth.Identity, error) {
	ctx = oidcContext(ctx, p.httpClient)

	da, err := p.config.DeviceAuth(ctx)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("device authorization: %w", err)
	}
	if promptErr := p.prompt(ctx, DeviceCode{
		UserCode:                da.UserCode,
		VerificationURI:         da.VerificationURI,
		VerificationURIComplete: da.VerificationURIComplete,
		Expiry:                  da.Expiry,
	}); promptErr != nil {
		return domainauth.Identity{}, fmt.Errorf("show device code: %w", promptErr)
	}

	token, err := p.config.DeviceAccessToken(ctx, da)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("device access token: %w", err)
	}

	rawID, err := getIDTokenFromToken(token)
	if err != nil {
		return domainauth.Identity{}, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}
	var claims map[string]any
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	fields := mapIDTokenClaims(claims, p.principalClaim)

	if fields.email == "" || fields.name == "" {
		if fillErr := p.fillFromUserInfo(ctx, token, &fields); fillErr != nil {
			p.logger.Debug("userinfo lookup failed", "error", fillErr)
		}
	}
	if fields.principal == "" {
		return domainauth.Identity{}, fmt.Errorf("id_token has no %q claim", p.principalClaim)
	}

	expiresAt := idTok.Expiry
	if expiresAt.IsZero() {
		expiresAt = token.Expiry
	}

	return domainauth.Identity{
		Principal:   domainauth.Principal(fields.principal),
		Credential:  rawID,
		DisplayName: fields.name,
		Email:       fields.email,
		ExpiresAt:   expiresAt,
	}, nil
}

// UserInfo represents the user information from the OIDC userinfo endpoint.
type UserInfo struct {
	Subject           string `json:"sub"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
}

func (p *Provider) fillFromUserInfo(ctx context.Context, token *oauth2.Token, f *idFields) error {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return fmt.Errorf("fetch user info: %w", err)
	}
	var info UserInfo
	if claimsErr := ui.Claims(&info); claimsErr != nil {
		return fmt.Errorf("decode user info: %w", claimsErr)
	}
	fillFromUserInfoClaims(f, info)
	return nil
}

type idFields struct {
	principal string
	name      string
	email     string
}

// mapIDTokenClaims maps raw id token claims into idFields using precedence rules.
func mapIDTokenClaims(claims map[string]any, principalClaim string) idFields {
	str := func(k string) string {
		s, _ := claims[k].(string)
		return s
	}
	return idFields{
		principal: str(principalClaim),
		name:      firstNonEmpty(str("name"), str("preferred_username")),
		email:     str("email"),
	}
}

// fillFromUserInfoClaims fills missing fields from a UserInfo payload.
func fillFromUserInfoClaims(f *idFields, ui UserInfo) {
	if f.name == "" {
		f.name = firstNonEmpty(ui.Name, ui.PreferredUsername)
	}
	if f.email == "" {
		f.email = ui.Email
	}
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// getIDTokenFromToken extracts the id_token from oauth2.Token.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
