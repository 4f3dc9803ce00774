package mcp

import (
	"context"
	"errors"
	"fmt"

	mcp "github.com/fredcamaral/gomcp-sdk"

	"discoverme-mcp/internal/interaction"
	"discoverme-mcp/internal/search"
	"discoverme-mcp/internal/storage"
	"discoverme-mcp/internal/types"
)

// Parameter extraction helpers. MCP arguments arrive as loosely typed JSON;
// numbers always decode as float64.

func stringParam(params map[string]interface{}, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func requiredStringParam(params map[string]interface{}, key string) (string, error) {
	v := stringParam(params, key)
	if v == "" {
		return "", fmt.Errorf("%s parameter is required and must be a non-empty string", key)
	}
	return v, nil
}

func intParam(params map[string]interface{}, key string, fallback int) int {
	if v, ok := params[key].(float64); ok {
		return int(v)
	}
	return fallback
}

func floatParam(params map[string]interface{}, key string) float64 {
	if v, ok := params[key].(float64); ok {
		return v
	}
	return 0
}

func boolParam(params map[string]interface{}, key string) bool {
	v, _ := params[key].(bool)
	return v
}

func stringSliceParam(params map[string]interface{}, key string) []string {
	raw, ok := params[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func profileIDParam(params map[string]interface{}) types.ProfileID {
	return types.ProfileID(stringParam(params, "profile_id"))
}

func (ds *DiscoverMeServer) registerTools() {
	ds.registerProfileTools()
	ds.registerSearchTools()
	ds.registerInteractionTools()
	ds.registerNetworkTools()
	ds.logger.Info("MCP tools registered")
}

func (ds *DiscoverMeServer) registerProfileTools() {
	ds.mcpServer.AddTool(mcp.NewTool(
		"ping",
		"Health check. Returns pong and the store status.",
		mcp.ObjectSchema("No parameters", map[string]interface{}{}, []string{}),
	), mcp.ToolHandlerFunc(ds.handlePing))

	ds.mcpServer.AddTool(mcp.NewTool(
		"get_profile",
		"Get the full professional profile card: name, title, skills, experience, education and contact details. Omit profile_id for the default profile.",
		mcp.ObjectSchema("Profile lookup parameters", map[string]interface{}{
			"profile_id": mcp.StringParam("Profile identifier; defaults to the configured profile", false),
		}, []string{}),
	), mcp.ToolHandlerFunc(ds.handleGetProfile))

	ds.mcpServer.AddTool(mcp.NewTool(
		"get_skills",
		"List a profile's skill names.",
		mcp.ObjectSchema("Skill lookup parameters", map[string]interface{}{
			"profile_id": mcp.StringParam("Profile identifier; defaults to the configured profile", false),
		}, []string{}),
	), mcp.ToolHandlerFunc(ds.handleGetSkills))

	ds.mcpServer.AddTool(mcp.NewTool(
		"check_availability",
		"Check whether the profile owner is available at a given date and time. Availability follows the weekday 9:00-18:00 rule.",
		mcp.ObjectSchema("Availability parameters", map[string]interface{}{
			"date":       mcp.StringParam("Date in YYYY-MM-DD format", true),
			"time":       mcp.StringParam("Time in HH:MM format", true),
			"profile_id": mcp.StringParam("Profile identifier; defaults to the configured profile", false),
		}, []string{"date", "time"}),
	), mcp.ToolHandlerFunc(ds.handleCheckAvailability))

	ds.mcpServer.AddTool(mcp.NewTool(
		"request_contact",
		"Record a request to contact the profile owner.",
		mcp.ObjectSchema("Contact request parameters", map[string]interface{}{
			"reason":     mcp.StringParam("Why you want to get in touch", true),
			"method":     mcp.StringParam("Preferred contact method, e.g. email or phone", true),
			"profile_id": mcp.StringParam("Profile identifier; defaults to the configured profile", false),
		}, []string{"reason", "method"}),
	), mcp.ToolHandlerFunc(ds.handleRequestContact))
}

func (ds *DiscoverMeServer) registerSearchTools() {
	ds.mcpServer.AddTool(mcp.NewTool(
		"search_by_name",
		"Find profiles whose name contains the query, ranked by relevance. An empty query matches everyone.",
		mcp.ObjectSchema("Name search parameters", map[string]interface{}{
			"query": mcp.StringParam("Name or name fragment to search for", false),
			"limit": mcp.NumberParam("Maximum number of results", false),
		}, []string{}),
	), mcp.ToolHandlerFunc(ds.handleSearchByName))

	ds.mcpServer.AddTool(mcp.NewTool(
		"search_by_skills",
		"Find profiles by skill names, ranked by how many of the requested skills they hold.",
		mcp.ObjectSchema("Skill search parameters", map[string]interface{}{
			"skills":    mcp.ArraySchema("Skill names to look for", map[string]interface{}{"type": "string"}),
			"match_all": mcp.BooleanParam("Require every listed skill instead of any", false),
			"limit":     mcp.NumberParam("Maximum number of results", false),
		}, []string{"skills"}),
	), mcp.ToolHandlerFunc(ds.handleSearchBySkills))

	ds.mcpServer.AddTool(mcp.NewTool(
		"advanced_search",
		"Search profiles with combined filters: keywords, company, position and minimum years of experience. Filters are conjunctive.",
		mcp.ObjectSchema("Advanced search parameters", map[string]interface{}{
			"keywords":             mcp.StringParam("Text matched against name and headline", false),
			"company":              mcp.StringParam("Company name fragment matched against experience", false),
			"position":             mcp.StringParam("Role title fragment matched against experience", false),
			"location":             mcp.StringParam("Reserved; not evaluated yet", false),
			"min_experience_years": mcp.NumberParam("Minimum total years of experience", false),
			"limit":                mcp.NumberParam("Maximum number of results", false),
		}, []string{}),
	), mcp.ToolHandlerFunc(ds.handleAdvancedSearch))

	ds.mcpServer.AddTool(mcp.NewTool(
		"find_similar_profiles",
		"Find profiles sharing skills with a given profile, ranked by overlap.",
		mcp.ObjectSchema("Similarity parameters", map[string]interface{}{
			"profile_id": mcp.StringParam("Subject profile identifier", true),
			"limit":      mcp.NumberParam("Maximum number of results", false),
		}, []string{"profile_id"}),
	), mcp.ToolHandlerFunc(ds.handleFindSimilarProfiles))

	ds.mcpServer.AddTool(mcp.NewTool(
		"find_experts",
		"Find profiles with well-endorsed expertise in the requested skills.",
		mcp.ObjectSchema("Expert search parameters", map[string]interface{}{
			"skills": mcp.ArraySchema("Skill names to find experts for", map[string]interface{}{"type": "string"}),
			"limit":  mcp.NumberParam("Maximum number of results", false),
		}, []string{"skills"}),
	), mcp.ToolHandlerFunc(ds.handleFindExperts))
}

func (ds *DiscoverMeServer) registerInteractionTools() {
	ds.mcpServer.AddTool(mcp.NewTool(
		"request_introduction",
		"Ask a profile owner for an introduction.",
		mcp.ObjectSchema("Introduction parameters", map[string]interface{}{
			"user_id":  mcp.StringParam("Target profile identifier", true),
			"agent_id": mcp.StringParam("Identifier of the requesting agent", false),
			"reason":   mcp.StringParam("Why the introduction is requested", true),
			"message":  mcp.StringParam("Message to pass along", false),
		}, []string{"user_id", "reason"}),
	), mcp.ToolHandlerFunc(ds.handleRequestIntroduction))

	ds.mcpServer.AddTool(mcp.NewTool(
		"recommend_profile",
		"Write a recommendation for a profile, optionally naming skills.",
		mcp.ObjectSchema("Recommendation parameters", map[string]interface{}{
			"user_id":        mcp.StringParam("Profile receiving the recommendation", true),
			"recommender_id": mcp.StringParam("Profile writing the recommendation", true),
			"skills":         mcp.ArraySchema("Skills being endorsed", map[string]interface{}{"type": "string"}),
			"message":        mcp.StringParam("Recommendation text", true),
		}, []string{"user_id", "recommender_id", "message"}),
	), mcp.ToolHandlerFunc(ds.handleRecommendProfile))

	ds.mcpServer.AddTool(mcp.NewTool(
		"send_message",
		"Send a direct message to a profile owner.",
		mcp.ObjectSchema("Message parameters", map[string]interface{}{
			"user_id":   mcp.StringParam("Target profile identifier", true),
			"sender_id": mcp.StringParam("Identifier of the sender", false),
			"content":   mcp.StringParam("Message body", true),
		}, []string{"user_id", "content"}),
	), mcp.ToolHandlerFunc(ds.handleSendMessage))
}

func (ds *DiscoverMeServer) registerNetworkTools() {
	ds.mcpServer.AddTool(mcp.NewTool(
		"get_network",
		"Get a profile's network: connections and received recommendations.",
		mcp.ObjectSchema("Network parameters", map[string]interface{}{
			"profile_id": mcp.StringParam("Profile identifier; defaults to the configured profile", false),
		}, []string{}),
	), mcp.ToolHandlerFunc(ds.handleGetNetwork))

	ds.mcpServer.AddTool(mcp.NewTool(
		"get_connections",
		"List a profile's first-degree connections.",
		mcp.ObjectSchema("Connection parameters", map[string]interface{}{
			"profile_id": mcp.StringParam("Profile identifier; defaults to the configured profile", false),
		}, []string{}),
	), mcp.ToolHandlerFunc(ds.handleGetConnections))

	ds.mcpServer.AddTool(mcp.NewTool(
		"get_recommendations",
		"List the recommendations a profile has received.",
		mcp.ObjectSchema("Recommendation list parameters", map[string]interface{}{
			"profile_id": mcp.StringParam("Profile identifier; defaults to the configured profile", false),
		}, []string{}),
	), mcp.ToolHandlerFunc(ds.handleGetRecommendations))
}

// Tool handlers

func (ds *DiscoverMeServer) handlePing(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	status := "ok"
	if err := ds.store.HealthCheck(ctx); err != nil {
		ds.logger.WarnContext(ctx, "Store health check failed", "error", err)
		status = "degraded"
	}
	return map[string]interface{}{
		"message": "pong",
		"server":  serverName,
		"version": serverVersion,
		"store":   status,
	}, nil
}

func (ds *DiscoverMeServer) handleGetProfile(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	view, err := ds.profiles.Get(ctx, profileIDParam(params))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("profile not found")
	}
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (ds *DiscoverMeServer) handleGetSkills(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	skills, err := ds.profiles.Section(ctx, profileIDParam(params), "skills")
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("profile not found")
	}
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"skills": skills}, nil
}

func (ds *DiscoverMeServer) handleCheckAvailability(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	date, err := requiredStringParam(params, "date")
	if err != nil {
		return nil, err
	}
	timeOfDay, err := requiredStringParam(params, "time")
	if err != nil {
		return nil, err
	}
	return ds.profiles.CheckAvailability(ctx, profileIDParam(params), date, timeOfDay)
}

func (ds *DiscoverMeServer) handleRequestContact(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	reason, err := requiredStringParam(params, "reason")
	if err != nil {
		return nil, err
	}
	method, err := requiredStringParam(params, "method")
	if err != nil {
		return nil, err
	}
	return ds.profiles.RequestContact(ctx, profileIDParam(params), reason, method)
}

func (ds *DiscoverMeServer) handleSearchByName(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	query := stringParam(params, "query")
	limit := intParam(params, "limit", ds.cfg.Search.DefaultLimit)
	results := ds.searches.SearchByName(ctx, query, limit)
	return map[string]interface{}{
		"query":   query,
		"count":   len(results),
		"results": results,
	}, nil
}

func (ds *DiscoverMeServer) handleSearchBySkills(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	skills := stringSliceParam(params, "skills")
	matchAll := boolParam(params, "match_all")
	limit := intParam(params, "limit", ds.cfg.Search.DefaultLimit)
	results := ds.searches.SearchBySkills(ctx, skills, matchAll, limit)
	return map[string]interface{}{
		"skills":    skills,
		"match_all": matchAll,
		"count":     len(results),
		"results":   results,
	}, nil
}

func (ds *DiscoverMeServer) handleAdvancedSearch(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	p := search.AdvancedParams{
		Keywords:           stringParam(params, "keywords"),
		Company:            stringParam(params, "company"),
		Position:           stringParam(params, "position"),
		Location:           stringParam(params, "location"),
		MinExperienceYears: floatParam(params, "min_experience_years"),
		Limit:              intParam(params, "limit", ds.cfg.Search.DefaultLimit),
	}
	results := ds.searches.AdvancedSearch(ctx, p)
	return map[string]interface{}{
		"count":   len(results),
		"results": results,
	}, nil
}

func (ds *DiscoverMeServer) handleFindSimilarProfiles(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	id, err := requiredStringParam(params, "profile_id")
	if err != nil {
		return nil, err
	}
	limit := intParam(params, "limit", ds.cfg.Search.DefaultLimit)

	results, err := ds.recommender.SimilarProfiles(ctx, types.ProfileID(id), limit)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("profile not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"profile_id": id,
		"count":      len(results),
		"results":    results,
	}, nil
}

func (ds *DiscoverMeServer) handleFindExperts(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	skills := stringSliceParam(params, "skills")
	limit := intParam(params, "limit", ds.cfg.Search.DefaultLimit)

	results, err := ds.recommender.Experts(ctx, skills, limit)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"skills":  skills,
		"count":   len(results),
		"results": results,
	}, nil
}

func (ds *DiscoverMeServer) handleRequestIntroduction(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	userID, err := requiredStringParam(params, "user_id")
	if err != nil {
		return nil, err
	}
	reason, err := requiredStringParam(params, "reason")
	if err != nil {
		return nil, err
	}
	return ds.interactions.RequestIntroduction(ctx, interaction.IntroductionRequest{
		UserID:  types.ProfileID(userID),
		AgentID: stringParam(params, "agent_id"),
		Reason:  reason,
		Message: stringParam(params, "message"),
	})
}

func (ds *DiscoverMeServer) handleRecommendProfile(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	userID, err := requiredStringParam(params, "user_id")
	if err != nil {
		return nil, err
	}
	recommenderID, err := requiredStringParam(params, "recommender_id")
	if err != nil {
		return nil, err
	}
	message, err := requiredStringParam(params, "message")
	if err != nil {
		return nil, err
	}
	return ds.interactions.RecommendProfile(ctx, interaction.ProfileRecommendation{
		UserID:        types.ProfileID(userID),
		RecommenderID: types.ProfileID(recommenderID),
		Skills:        stringSliceParam(params, "skills"),
		Message:       message,
	})
}

func (ds *DiscoverMeServer) handleSendMessage(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	userID, err := requiredStringParam(params, "user_id")
	if err != nil {
		return nil, err
	}
	content, err := requiredStringParam(params, "content")
	if err != nil {
		return nil, err
	}
	return ds.interactions.SendMessage(ctx, types.ProfileID(userID), stringParam(params, "sender_id"), content)
}

func (ds *DiscoverMeServer) handleGetNetwork(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	return ds.networks.Network(ctx, profileIDParam(params))
}

func (ds *DiscoverMeServer) handleGetConnections(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	connections, err := ds.networks.Connections(ctx, profileIDParam(params))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"count":       len(connections),
		"connections": connections,
	}, nil
}

func (ds *DiscoverMeServer) handleGetRecommendations(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	recommendations, err := ds.networks.Recommendations(ctx, profileIDParam(params))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"count":           len(recommendations),
		"recommendations": recommendations,
	}, nil
}
