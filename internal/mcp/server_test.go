package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discoverme-mcp/internal/config"
	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/seed"
	"discoverme-mcp/internal/storage"
)

func newTestServer(t *testing.T) *DiscoverMeServer {
	t.Helper()

	store := storage.NewMemoryStore()
	_, err := seed.NewSeeder(store, logging.NewNoOpLogger()).Run(context.Background())
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Storage.Provider = "memory"
	cfg.Profile.DefaultProfileID = "sophie-martin"

	srv, err := NewServer(cfg, store, logging.NewNoOpLogger())
	require.NoError(t, err)
	return srv
}

func TestHandlePing(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.handlePing(context.Background(), map[string]interface{}{})
	require.NoError(t, err)

	m := result.(map[string]interface{})
	assert.Equal(t, "pong", m["message"])
	assert.Equal(t, "ok", m["store"])
}

func TestHandleGetProfile(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleGetProfile(ctx, map[string]interface{}{})
	require.NoError(t, err)

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Sophie Martin")

	_, err = srv.handleGetProfile(ctx, map[string]interface{}{"profile_id": "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile not found")
}

func TestHandleGetSkills(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.handleGetSkills(context.Background(), map[string]interface{}{"profile_id": "marc-dubois"})
	require.NoError(t, err)

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Go")
	assert.Contains(t, string(data), "PostgreSQL")
}

func TestHandleCheckAvailability(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleCheckAvailability(ctx, map[string]interface{}{
		"date": "2026-03-02", // a Monday
		"time": "10:00",
	})
	require.NoError(t, err)
	data, _ := json.Marshal(result)
	assert.Contains(t, string(data), `"available":true`)

	_, err = srv.handleCheckAvailability(ctx, map[string]interface{}{"time": "10:00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date parameter is required")
}

func TestHandleSearchByName(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.handleSearchByName(context.Background(), map[string]interface{}{
		"query": "sophie",
		"limit": float64(5),
	})
	require.NoError(t, err)

	m := result.(map[string]interface{})
	assert.Equal(t, 1, m["count"])
}

func TestHandleSearchBySkills(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleSearchBySkills(ctx, map[string]interface{}{
		"skills": []interface{}{"React", "Go"},
	})
	require.NoError(t, err)
	m := result.(map[string]interface{})
	// Sophie (both), Marc (Go), John (React)
	assert.Equal(t, 3, m["count"])

	result, err = srv.handleSearchBySkills(ctx, map[string]interface{}{
		"skills":    []interface{}{"React", "Go"},
		"match_all": true,
	})
	require.NoError(t, err)
	m = result.(map[string]interface{})
	assert.Equal(t, 1, m["count"])

	// missing skills degrade to an empty result, not an error
	result, err = srv.handleSearchBySkills(ctx, map[string]interface{}{})
	require.NoError(t, err)
	m = result.(map[string]interface{})
	assert.Equal(t, 0, m["count"])
}

func TestHandleAdvancedSearch(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.handleAdvancedSearch(context.Background(), map[string]interface{}{
		"company": "TechCo",
	})
	require.NoError(t, err)

	m := result.(map[string]interface{})
	// Sophie (TechCo Global) and Ana (TechCo)
	assert.Equal(t, 2, m["count"])
}

func TestHandleFindSimilarProfiles(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleFindSimilarProfiles(ctx, map[string]interface{}{
		"profile_id": "sophie-martin",
	})
	require.NoError(t, err)
	m := result.(map[string]interface{})
	assert.Greater(t, m["count"], 0)

	_, err = srv.handleFindSimilarProfiles(ctx, map[string]interface{}{"profile_id": "ghost"})
	require.Error(t, err)

	_, err = srv.handleFindSimilarProfiles(ctx, map[string]interface{}{})
	require.Error(t, err)
}

func TestHandleFindExperts(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.handleFindExperts(context.Background(), map[string]interface{}{
		"skills": []interface{}{"Go"},
	})
	require.NoError(t, err)

	m := result.(map[string]interface{})
	// Sophie (18) and Marc (30) pass the endorsement floor
	assert.Equal(t, 2, m["count"])
}

func TestHandleInteractions(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	intro, err := srv.handleRequestIntroduction(ctx, map[string]interface{}{
		"user_id": "sophie-martin",
		"reason":  "hiring",
	})
	require.NoError(t, err)
	data, _ := json.Marshal(intro)
	assert.Contains(t, string(data), "req_")

	rec, err := srv.handleRecommendProfile(ctx, map[string]interface{}{
		"user_id":        "marc-dubois",
		"recommender_id": "sophie-martin",
		"message":        "Excellent Go engineer",
	})
	require.NoError(t, err)
	data, _ = json.Marshal(rec)
	assert.Contains(t, string(data), "rec_")

	msg, err := srv.handleSendMessage(ctx, map[string]interface{}{
		"user_id": "sophie-martin",
		"content": "Hello!",
	})
	require.NoError(t, err)
	data, _ = json.Marshal(msg)
	assert.Contains(t, string(data), "msg_")

	_, err = srv.handleSendMessage(ctx, map[string]interface{}{"user_id": "sophie-martin"})
	require.Error(t, err)
}

func TestHandleNetworkTools(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	network, err := srv.handleGetNetwork(ctx, map[string]interface{}{"profile_id": "sophie-martin"})
	require.NoError(t, err)
	data, _ := json.Marshal(network)
	assert.Contains(t, string(data), "Marc Dubois")

	connections, err := srv.handleGetConnections(ctx, map[string]interface{}{"profile_id": "sophie-martin"})
	require.NoError(t, err)
	m := connections.(map[string]interface{})
	assert.Equal(t, 3, m["count"])

	recommendations, err := srv.handleGetRecommendations(ctx, map[string]interface{}{"profile_id": "sophie-martin"})
	require.NoError(t, err)
	m = recommendations.(map[string]interface{})
	assert.Equal(t, 2, m["count"])

	// unknown profiles have empty networks
	empty, err := srv.handleGetConnections(ctx, map[string]interface{}{"profile_id": "ghost"})
	require.NoError(t, err)
	m = empty.(map[string]interface{})
	assert.Equal(t, 0, m["count"])
}

func TestHandleResourceRead(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		uri      string
		contains string
	}{
		{"profile://user", "Sophie Martin"},
		{"skills://user", "React"},
		{"experience://user", "TechCo Global"},
		{"education://user", "Tech University"},
		{"profile://user/title", "Fullstack Engineer"},
		{"network://user/sophie-martin", "Marc Dubois"},
		{"connections://user/marc-dubois", "Ana Costa"},
		{"recommendations://user/jane-smith", "interfaces users love"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			contents, err := srv.handleResourceRead(ctx, tt.uri)
			require.NoError(t, err)
			require.Len(t, contents, 1)
			assert.Contains(t, contents[0].Text, tt.contains)
		})
	}
}

func TestHandleResourceRead_InvalidURIs(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.handleResourceRead(ctx, "not-a-uri")
	assert.Error(t, err)

	_, err = srv.handleResourceRead(ctx, "wallet://user")
	assert.Error(t, err)

	_, err = srv.handleResourceRead(ctx, "profile://someone-else")
	assert.Error(t, err)

	_, err = srv.handleResourceRead(ctx, "profile://user/salary")
	assert.Error(t, err)
}
