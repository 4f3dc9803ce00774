package interaction

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/storage"
)

func newService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewService(store, logging.NewNoOpLogger()), store
}

func TestRequestIntroduction(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	result, err := svc.RequestIntroduction(ctx, IntroductionRequest{
		UserID:  "sophie",
		AgentID: "agent-1",
		Reason:  "hiring for a Go role",
		Message: "Would love to talk.",
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.RequestID, "req_"))
	assert.NotEmpty(t, result.Message)
}

func TestRequestIntroduction_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.RequestIntroduction(ctx, IntroductionRequest{AgentID: "agent-1", Reason: "hi"})
	assert.Error(t, err)

	_, err = svc.RequestIntroduction(ctx, IntroductionRequest{UserID: "sophie", Reason: "   "})
	assert.Error(t, err)
}

func TestRecommendProfile_Persists(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	result, err := svc.RecommendProfile(ctx, ProfileRecommendation{
		UserID:        "sophie",
		RecommenderID: "marc",
		Skills:        []string{"Go", "React"},
		Message:       "Outstanding engineer",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.RecommendationID, "rec_"))

	recs, err := store.FindRecommendationsByOwner(ctx, "sophie")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, result.RecommendationID, recs[0].ID)
	assert.Contains(t, recs[0].Text, "Outstanding engineer")
	assert.Contains(t, recs[0].Text, "Go, React")
}

func TestRecommendProfile_Validation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.RecommendProfile(context.Background(), ProfileRecommendation{
		UserID: "sophie", RecommenderID: "marc", Message: "  ",
	})
	assert.Error(t, err)
}

func TestSendMessage(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	result, err := svc.SendMessage(ctx, "sophie", "agent-1", "Hello!")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.RequestID, "msg_"))

	_, err = svc.SendMessage(ctx, "", "agent-1", "Hello!")
	assert.Error(t, err)

	_, err = svc.SendMessage(ctx, "sophie", "agent-1", "   ")
	assert.Error(t, err)
}

func TestIDsAreUnique(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		result, err := svc.SendMessage(ctx, "sophie", "agent-1", "Hello!")
		require.NoError(t, err)
		assert.False(t, seen[result.RequestID])
		seen[result.RequestID] = true
	}
}
