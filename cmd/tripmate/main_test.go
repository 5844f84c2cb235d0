package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/tripmate-client/config"
	"github.com/tripmate/tripmate-client/internal/bootstrap"
	"github.com/tripmate/tripmate-client/internal/gate"
	"github.com/tripmate/tripmate-client/internal/observability/notify"
	"github.com/tripmate/tripmate-client/internal/session"
)

type cliHarness struct {
	ctx *commandContext
	out *bytes.Buffer
	err *bytes.Buffer
}

func newHarness(t *testing.T, principal string) *cliHarness {
	t.Helper()
	cfg := config.AppConfig{
		Auth: config.AuthConfig{
			Mode:    config.AuthModeDev,
			DevAuth: config.DevAuthConfig{Principal: principal, Secret: "test-secret"},
		},
		Session:  config.SessionConfig{Store: config.SessionStoreMemory},
		Remote:   config.RemoteConfig{Mode: config.RemoteModeMemory},
		DevStore: config.DevStoreConfig{Seed: true, Admins: []string{"root"}},
	}
	cfg.Sanitize()
	cfg.Query.RetryCount = 0

	h := &cliHarness{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := bootstrap.NewApp(context.Background(), bootstrap.AppOptions{
		Config:   cfg,
		Logger:   logger,
		Notifier: notify.NewWriterSink(h.err),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx))

	h.ctx = &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Out:    h.out,
		Err:    h.err,
		App:    app,
	}
	return h
}

func (h *cliHarness) run(t *testing.T, name string, args ...string) error {
	t.Helper()
	h.out.Reset()
	h.err.Reset()
	cmd, ok := commands()[name]
	require.True(t, ok, "command %s", name)
	return cmd.run(h.ctx, args)
}

func (h *cliHarness) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(h.out.Bytes(), v), h.out.String())
}

func TestCLI_TravelerJourney(t *testing.T) {
	h := newHarness(t, "ann")

	require.NoError(t, h.run(t, "whoami"))
	var st stateView
	h.decode(t, &st)
	assert.Equal(t, "unauthenticated", st.State)

	err := h.run(t, "trips")
	require.ErrorIs(t, err, errGateBlocked)
	assert.Contains(t, h.err.String(), "tripmate login")

	require.NoError(t, h.run(t, "login"))
	h.decode(t, &st)
	assert.Equal(t, "needs-profile", st.State)
	assert.Equal(t, "ann", st.Principal)
	assert.Contains(t, h.err.String(), "profile-create")

	assert.Error(t, h.run(t, "login"), "second login is rejected")

	require.NoError(t, h.run(t, "profile-create", "--role", "traveler", "--name", "Ann"))
	h.decode(t, &st)
	assert.Equal(t, "ready", st.State)
	assert.Contains(t, h.err.String(), "Profile created successfully!")

	require.NoError(t, h.run(t, "trip-create",
		"--destination", "Paris", "--type", "family",
		"--start", "2025-06-01", "--end", "2025-06-08",
		"--query", "length(itinerary)"))
	var days int
	h.decode(t, &days)
	assert.Equal(t, 8, days)

	require.NoError(t, h.run(t, "trips", "--query", "[].tripDetails.destination"))
	var dests []string
	h.decode(t, &dests)
	assert.Equal(t, []string{"Paris"}, dests)

	err = h.run(t, "listings-mine")
	require.ErrorIs(t, err, errGateBlocked)
	assert.Contains(t, h.err.String(), "business owners")

	require.NoError(t, h.run(t, "logout"))
	assert.Contains(t, h.err.String(), "Logged out ann")
	require.NoError(t, h.run(t, "whoami"))
	h.decode(t, &st)
	assert.Equal(t, "unauthenticated", st.State)
}

func TestCLI_BusinessListings(t *testing.T) {
	h := newHarness(t, "bob")
	require.NoError(t, h.run(t, "login"))
	require.NoError(t, h.run(t, "profile-create", "--role", "business", "--name", "Bob's Tours"))

	require.NoError(t, h.run(t, "listing-create",
		"--id", "bob-1", "--name", "Bob's Bikes", "--category", "other",
		"--destination", "Goa", "--description", "Scooter rental", "--contact", "bob@example.com",
		"--promo", "10% off"))

	require.NoError(t, h.run(t, "listing-update", "--id", "bob-1", "--name", "Bob's Bikes & Boards"))
	require.NoError(t, h.run(t, "listings-mine", "--query", "[].name"))
	var names []string
	h.decode(t, &names)
	assert.Equal(t, []string{"Bob's Bikes & Boards"}, names)

	require.NoError(t, h.run(t, "listings", "--search", "goa", "--query", "[].id"))
	var ids []string
	h.decode(t, &ids)
	assert.Contains(t, ids, "bob-1")
	assert.Len(t, ids, 3, "two seeded Goa listings plus bob's")

	require.NoError(t, h.run(t, "listings", "--category", "hotel", "--query", "[].name"))
	h.decode(t, &names)
	assert.Equal(t, []string{"Hotel Lumiere"}, names)

	require.NoError(t, h.run(t, "dashboard", "--query", "myListings[].id"))
	h.decode(t, &ids)
	assert.Equal(t, []string{"bob-1"}, ids)

	require.NoError(t, h.run(t, "listing-delete", "--id", "bob-1"))
	require.NoError(t, h.run(t, "listings-mine"))
	var mine []any
	h.decode(t, &mine)
	assert.Empty(t, mine)

	err := h.run(t, "listing-update", "--id", "missing", "--name", "x")
	assert.Error(t, err)
}

func TestCLI_AdminCommands(t *testing.T) {
	h := newHarness(t, "root")

	require.NoError(t, h.run(t, "role"))
	var rv roleView
	h.decode(t, &rv)
	assert.Equal(t, "guest", string(rv.Role))
	assert.False(t, rv.Admin)

	require.NoError(t, h.run(t, "login"))
	require.NoError(t, h.run(t, "role"))
	h.decode(t, &rv)
	assert.True(t, rv.Admin)

	require.NoError(t, h.run(t, "admin-profiles", "--query", "length(@)"))
	var n int
	h.decode(t, &n)
	assert.Equal(t, 2, n, "the two seeded business owners")

	require.NoError(t, h.run(t, "admin-assign-role", "--principal", "carol", "--role", "admin"))
	assert.Error(t, h.run(t, "admin-assign-role", "--principal", "carol", "--role", "superuser"))
	assert.Error(t, h.run(t, "admin-profile", "--principal", "nobody"))
}

func TestCLI_AdminCommandsRequireAdmin(t *testing.T) {
	h := newHarness(t, "ann")
	require.NoError(t, h.run(t, "login"))
	err := h.run(t, "admin-profiles")
	require.ErrorIs(t, err, errGateBlocked)
	assert.Contains(t, h.err.String(), "administrators")
}

func TestApplyQuery(t *testing.T) {
	in := []map[string]any{{"name": "a", "n": 1}, {"name": "b", "n": 2}}
	out, err := applyQuery(in, "[?n > `1`].name")
	require.NoError(t, err)
	assert.Equal(t, []any{"b"}, out)

	_, err = applyQuery(in, "[?")
	assert.Error(t, err)
}

func TestAdmit(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, admit(&buf, gate.Admit{}))

	err := admit(&buf, gate.RequireRole(session.NeedsProfile{Principal: "ann"}, gate.CapabilityTraveler))
	assert.ErrorIs(t, err, errGateBlocked)
	assert.Contains(t, buf.String(), "profile-create")
}

func TestPrintUsageListsCommands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))
	for name := range commands() {
		assert.Contains(t, buf.String(), name)
	}
}

func TestTripFlagsDetails(t *testing.T) {
	_, err := tripFlags{Destination: "Paris", TripType: "solo", Start: "June", End: "2025-06-02"}.details()
	assert.Error(t, err)

	d, err := tripFlags{Destination: "Paris", TripType: "solo", Start: "2025-06-01", End: "2025-06-02"}.details()
	require.NoError(t, err)
	assert.False(t, d.Interests.IsSpecified())
}
