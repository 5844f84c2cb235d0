package devseed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/tripmate-client/internal/adapters/memstore"
	"github.com/tripmate/tripmate-client/internal/domain/auth"
)

func TestRun_SeedsAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(memstore.Options{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, Run(ctx, store, logger))
	require.NoError(t, Run(ctx, store, logger), "second run tolerates existing records")

	all, err := store.ForCaller(auth.AnonymousPrincipal).GetAllPromotedListings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, auth.Principal("seed-lumiere"), all[0].Owner)

	prof, err := store.ForCaller("seed-goa").GetCallerUserProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, prof)
	assert.Equal(t, "Coastal Getaways", prof.Name)
}
