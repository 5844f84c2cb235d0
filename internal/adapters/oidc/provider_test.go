package oidc

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tripmate/tripmate-client/internal/domain/auth"
)

const testClientID = "test-client"

type fakeIssuer struct {
	server     *httptest.Server
	key        *rsa.PrivateKey
	noDevice   bool
	claims     jwt.MapClaims
	tokenCalls int
}

func newFakeIssuer(t *testing.T) *fakeIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	f := &fakeIssuer{key: key}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		doc := map[string]any{
			"issuer":                 f.server.URL,
			"authorization_endpoint": f.server.URL + "/auth",
			"token_endpoint":         f.server.URL + "/token",
			"userinfo_endpoint":      f.server.URL + "/userinfo",
			"jwks_uri":               f.server.URL + "/jwks",
		}
		if !f.noDevice {
			doc["device_authorization_endpoint"] = f.server.URL + "/device"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	})
	mux.HandleFunc("/device", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"device_code":      "device-123",
			"user_code":        "ABCD-EFGH",
			"verification_uri": f.server.URL + "/activate",
			"expires_in":       300,
			"interval":         1,
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "device-123", r.Form.Get("device_code"))

		signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, f.claims).SignedString(f.key)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     signed,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(UserInfo{Subject: "alice", Name: "Alice Liddell", Email: "alice@example.com"})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	now := time.Now()
	f.claims = jwt.MapClaims{
		"iss": f.server.URL,
		"aud": testClientID,
		"sub": "alice",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	return f
}

// trust swaps the provider's verifier for one that trusts the issuer's key.
func (f *fakeIssuer) trust(p *Provider) {
	keys := &gooidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&f.key.PublicKey}}
	p.verifier = gooidc.NewVerifier(f.server.URL, keys, &gooidc.Config{ClientID: testClientID})
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	_, err := NewProvider(context.Background(), ProviderConfig{IssuerURL: "http://example.com"})
	assert.EqualError(t, err, "client ID is required")
	_, err = NewProvider(context.Background(), ProviderConfig{ClientID: testClientID})
	assert.EqualError(t, err, "issuer URL is required")
}

func TestNewProvider_RequiresDeviceEndpoint(t *testing.T) {
	f := newFakeIssuer(t)
	f.noDevice = true

	_, err := NewProvider(context.Background(), ProviderConfig{ClientID: testClientID, IssuerURL: f.server.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device authorization endpoint")
}

func TestNewProvider_AcceptsDiscoveryURL(t *testing.T) {
	f := newFakeIssuer(t)

	p, err := NewProvider(context.Background(), ProviderConfig{
		ClientID:  testClientID,
		IssuerURL: f.server.URL + "/.well-known/openid-configuration",
	})
	require.NoError(t, err)
	assert.Equal(t, f.server.URL+"/device", p.config.Endpoint.DeviceAuthURL)
	assert.Equal(t, []string{"openid", "profile", "email"}, p.config.Scopes)
}

func TestAuthenticate_DeviceFlow(t *testing.T) {
	f := newFakeIssuer(t)
	var shown DeviceCode
	p, err := NewProvider(context.Background(), ProviderConfig{
		ClientID:  testClientID,
		IssuerURL: f.server.URL,
		Prompt: func(_ context.Context, code DeviceCode) error {
			shown = code
			return nil
		},
	})
	require.NoError(t, err)
	f.trust(p)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	id, err := p.Authenticate(ctx)
	require.NoError(t, err)

	assert.Equal(t, "ABCD-EFGH", shown.UserCode)
	assert.Equal(t, domainauth.Principal("alice"), id.Principal)
	assert.NotEmpty(t, id.Credential)
	// name and email come from userinfo when the id token lacks them
	assert.Equal(t, "Alice Liddell", id.DisplayName)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), id.ExpiresAt, time.Minute)
	assert.Equal(t, 1, f.tokenCalls)
}

func TestAuthenticate_PrincipalClaim(t *testing.T) {
	f := newFakeIssuer(t)
	f.claims["preferred_username"] = "alice.l"
	f.claims["email"] = "alice@corp.example"
	p, err := NewProvider(context.Background(), ProviderConfig{
		ClientID:       testClientID,
		IssuerURL:      f.server.URL,
		PrincipalClaim: "preferred_username",
		Prompt:         func(context.Context, DeviceCode) error { return nil },
	})
	require.NoError(t, err)
	f.trust(p)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	id, err := p.Authenticate(ctx)
	require.NoError(t, err)
	assert.Equal(t, domainauth.Principal("alice.l"), id.Principal)
	assert.Equal(t, "alice.l", id.DisplayName)
	assert.Equal(t, "alice@corp.example", id.Email)
}

func TestMapIDTokenClaims(t *testing.T) {
	f := mapIDTokenClaims(map[string]any{"sub": "s-1", "preferred_username": "pu", "email": "e@x"}, "sub")
	assert.Equal(t, idFields{principal: "s-1", name: "pu", email: "e@x"}, f)

	f = mapIDTokenClaims(map[string]any{"sub": 42}, "sub")
	assert.Empty(t, f.principal)

	fillFromUserInfoClaims(&f, UserInfo{Name: "N", Email: "m@x"})
	assert.Equal(t, "N", f.name)
	assert.Equal(t, "m@x", f.email)
}

func TestWriterPrompt(t *testing.T) {
	var buf bytesBuffer
	require.NoError(t, WriterPrompt(&buf)(context.Background(), DeviceCode{UserCode: "XY", VerificationURI: "https://x/activate"}))
	assert.Equal(t, "To log in, open https://x/activate and enter code XY\n", buf.String())
}

type bytesBuffer struct{ b []byte }

func (w *bytesBuffer) Write(p []byte) (int, error) { w.b = append(w.b, p...); return len(p), nil }
func (w *bytesBuffer) String() string              { return string(w.b) }
