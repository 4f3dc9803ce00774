package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/storage"
)

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	seeder := NewSeeder(store, logging.NewNoOpLogger())

	summary, err := seeder.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, len(Profiles()), summary.ProfilesCreated)
	assert.Equal(t, len(Connections()), summary.ConnectionsCreated)
	assert.Equal(t, len(Recommendations()), summary.RecommendationsCreated)
	assert.Zero(t, summary.ProfilesSkipped)

	sophie, err := store.GetProfile(ctx, "sophie-martin")
	require.NoError(t, err)
	assert.Equal(t, "Sophie Martin", sophie.Name)
	assert.Contains(t, sophie.SkillNames(), "React")
	assert.Contains(t, sophie.SkillNames(), "Go")

	marc, err := store.GetProfile(ctx, "marc-dubois")
	require.NoError(t, err)
	assert.Contains(t, marc.SkillNames(), "Go")
	assert.NotContains(t, marc.SkillNames(), "React")
}

func TestSeeder_RunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	seeder := NewSeeder(store, logging.NewNoOpLogger())

	_, err := seeder.Run(ctx)
	require.NoError(t, err)

	second, err := seeder.Run(ctx)
	require.NoError(t, err)

	assert.Zero(t, second.ProfilesCreated)
	assert.Equal(t, len(Profiles()), second.ProfilesSkipped)
	assert.Zero(t, second.ConnectionsCreated)
	assert.Zero(t, second.RecommendationsCreated)
	assert.Equal(t, len(Recommendations()), second.RecommendationsSkipped)

	// no duplicated recommendations
	recs, err := store.FindRecommendationsByOwner(ctx, "sophie-martin")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestSeedDataIsValid(t *testing.T) {
	for _, p := range Profiles() {
		profile := p
		assert.NoError(t, profile.Validate(), "profile %s", profile.ID)
	}
	for _, c := range Connections() {
		conn := c
		assert.NoError(t, conn.Validate(), "connection %s", conn.ID)
	}
	for _, r := range Recommendations() {
		rec := r
		assert.NoError(t, rec.Validate(), "recommendation %s", rec.ID)
	}
}
