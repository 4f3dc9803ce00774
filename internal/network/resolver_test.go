package network

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/storage"
	"discoverme-mcp/internal/types"
)

func setupResolver(t *testing.T) (*Resolver, *storage.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()

	profiles := []*types.Profile{
		{ID: "sophie", Name: "Sophie Martin"},
		{ID: "marc", Name: "Marc Dubois"},
		{ID: "ana", Name: "Ana Costa"},
	}
	for _, p := range profiles {
		require.NoError(t, store.CreateProfile(ctx, p))
	}

	return NewResolver(store, "sophie", logging.NewNoOpLogger()), store
}

func TestResolver_ConnectionsRoundTrip(t *testing.T) {
	resolver, store := setupResolver(t)
	ctx := context.Background()

	require.NoError(t, store.AddConnection(ctx, &types.Connection{
		ID:             "c1",
		OwnerID:        "sophie",
		ConnectedID:    "marc",
		Relationship:   "1st",
		ConnectedSince: time.Date(2022, 3, 15, 10, 30, 0, 0, time.UTC),
	}))

	views, err := resolver.Connections(ctx, "sophie")
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, types.ProfileID("marc"), views[0].ProfileID)
	assert.Equal(t, "Marc Dubois", views[0].Name)
	assert.Equal(t, "1st", views[0].Relationship)
	// date-only rendering drops the time component
	assert.Equal(t, "2022-03-15", views[0].ConnectedSince)
}

func TestResolver_UnknownProfileHasEmptyNetwork(t *testing.T) {
	resolver, _ := setupResolver(t)
	ctx := context.Background()

	connections, err := resolver.Connections(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, connections)

	recommendations, err := resolver.Recommendations(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, recommendations)

	network, err := resolver.Network(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, network.Connections)
	assert.Empty(t, network.Recommendations)
}

func TestResolver_DanglingEdgeResolvesToUnknownUser(t *testing.T) {
	resolver, store := setupResolver(t)
	ctx := context.Background()

	require.NoError(t, store.AddConnection(ctx, &types.Connection{
		ID:             "c1",
		OwnerID:        "sophie",
		ConnectedID:    "deleted-profile",
		Relationship:   "2nd",
		ConnectedSince: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	views, err := resolver.Connections(ctx, "sophie")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, UnknownUserName, views[0].Name)
}

func TestResolver_EmptyIDUsesDefaultProfile(t *testing.T) {
	resolver, store := setupResolver(t)
	ctx := context.Background()

	require.NoError(t, store.AddConnection(ctx, &types.Connection{
		ID:             "c1",
		OwnerID:        "sophie",
		ConnectedID:    "ana",
		Relationship:   "1st",
		ConnectedSince: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
	}))

	views, err := resolver.Connections(ctx, "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Ana Costa", views[0].Name)

	network, err := resolver.Network(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, types.ProfileID("sophie"), network.ProfileID)
}

func TestResolver_Recommendations(t *testing.T) {
	resolver, store := setupResolver(t)
	ctx := context.Background()

	require.NoError(t, store.AddRecommendation(ctx, &types.Recommendation{
		ID:       "r1",
		OwnerID:  "sophie",
		AuthorID: "marc",
		Text:     "Sophie ships reliable systems.",
		Date:     time.Date(2023, 6, 1, 14, 0, 0, 0, time.UTC),
	}))

	views, err := resolver.Recommendations(ctx, "sophie")
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, types.ProfileID("marc"), views[0].AuthorID)
	assert.Equal(t, "Marc Dubois", views[0].Name)
	assert.Equal(t, "2023-06-01", views[0].Date)
	assert.Equal(t, "Sophie ships reliable systems.", views[0].Text)
}

func TestResolver_NetworkBundlesBoth(t *testing.T) {
	resolver, store := setupResolver(t)
	ctx := context.Background()

	require.NoError(t, store.AddConnection(ctx, &types.Connection{
		ID: "c1", OwnerID: "sophie", ConnectedID: "marc", Relationship: "1st",
		ConnectedSince: time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.AddRecommendation(ctx, &types.Recommendation{
		ID: "r1", OwnerID: "sophie", AuthorID: "ana", Text: "Great teammate",
		Date: time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
	}))

	network, err := resolver.Network(ctx, "sophie")
	require.NoError(t, err)
	require.Len(t, network.Connections, 1)
	require.Len(t, network.Recommendations, 1)
	assert.Equal(t, "Marc Dubois", network.Connections[0].Name)
	assert.Equal(t, "Ana Costa", network.Recommendations[0].Name)
}
