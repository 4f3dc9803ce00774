package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/storage"
	"discoverme-mcp/internal/types"
)

// Service runs the three search modes over the store. Searches are reads:
// store failures degrade to an empty result set and a logged diagnostic
// rather than an error surfaced to the caller.
type Service struct {
	store        storage.Store
	scorer       *Scorer
	logger       logging.Logger
	defaultLimit int
	now          func() time.Time
}

// NewService creates a search service with the given scoring weights.
func NewService(store storage.Store, weights Weights, defaultLimit int, logger logging.Logger) *Service {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &Service{
		store:        store,
		scorer:       NewScorer(weights),
		logger:       logger.WithComponent("search"),
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// AdvancedParams are the filters accepted by AdvancedSearch. Zero values
// disable a filter.
type AdvancedParams struct {
	// Keywords matches name, headline or any skill name, case-insensitively.
	Keywords string
	// Company matches any experience entry's company as a substring.
	Company string
	// Position matches the headline or any experience entry's title as a
	// substring.
	Position string
	// Location is accepted for interface compatibility but not evaluated;
	// profiles carry no location field yet.
	Location string
	// MinExperienceYears excludes profiles with less total experience,
	// computed over fixed 365-day years.
	MinExperienceYears float64
	// Limit caps the result count; zero uses the service default.
	Limit int
}

// SearchByName finds profiles whose name contains the query substring. An
// empty query matches every profile. Results are sorted by descending
// relevance before the limit is applied; ties keep store order.
func (s *Service) SearchByName(ctx context.Context, query string, limit int) []types.SearchResult {
	profiles, err := s.store.FindProfilesByName(ctx, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "Name search failed, returning empty result", "query", query, "error", err)
		return []types.SearchResult{}
	}

	qc := QueryContext{NameQuery: query}
	results := make([]types.SearchResult, 0, len(profiles))
	for i := range profiles {
		results = append(results, s.toResult(&profiles[i], qc, nil))
	}
	return s.rank(results, limit)
}

// SearchBySkills finds profiles by skill names with ANY or ALL semantics. An
// empty skill list is an invalid query and yields an empty result.
func (s *Service) SearchBySkills(ctx context.Context, skills []string, matchAll bool, limit int) []types.SearchResult {
	if len(skills) == 0 {
		s.logger.DebugContext(ctx, "Skill search with no skills, returning empty result")
		return []types.SearchResult{}
	}

	profiles, err := s.store.FindProfilesBySkills(ctx, skills, matchAll)
	if err != nil {
		s.logger.ErrorContext(ctx, "Skill search failed, returning empty result", "skills", strings.Join(skills, ","), "error", err)
		return []types.SearchResult{}
	}

	qc := QueryContext{SkillsQuery: skills}
	results := make([]types.SearchResult, 0, len(profiles))
	for i := range profiles {
		results = append(results, s.toResult(&profiles[i], qc, MatchingSkills(&profiles[i], skills)))
	}
	return s.rank(results, limit)
}

// AdvancedSearch applies the conjunctive filters, then ranks what remains.
// With no filters set it returns the first limit profiles by relevance.
func (s *Service) AdvancedSearch(ctx context.Context, params AdvancedParams) []types.SearchResult {
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Advanced search failed, returning empty result", "error", err)
		return []types.SearchResult{}
	}

	now := s.now()
	qc := QueryContext{NameQuery: params.Keywords, Company: params.Company}
	var results []types.SearchResult
	for i := range profiles {
		if !matchesAdvanced(&profiles[i], &params, now) {
			continue
		}
		results = append(results, s.toResult(&profiles[i], qc, nil))
	}
	return s.rank(results, params.Limit)
}

// matchesAdvanced applies the cheap string filters before the experience
// aggregation.
func matchesAdvanced(p *types.Profile, params *AdvancedParams, now time.Time) bool {
	if params.Keywords != "" {
		kw := strings.ToLower(params.Keywords)
		if !strings.Contains(strings.ToLower(p.Name), kw) &&
			!strings.Contains(strings.ToLower(p.Headline), kw) &&
			!ProfileHasSkill(p, params.Keywords) {
			return false
		}
	}
	if params.Company != "" && !profileWorkedAt(p, params.Company) {
		return false
	}
	if params.Position != "" {
		pos := strings.ToLower(params.Position)
		held := strings.Contains(strings.ToLower(p.Headline), pos)
		for i := range p.Experience {
			if held {
				break
			}
			if strings.Contains(strings.ToLower(p.Experience[i].Title), pos) {
				held = true
			}
		}
		if !held {
			return false
		}
	}
	if params.MinExperienceYears > 0 && p.TotalExperienceYears(now) < params.MinExperienceYears {
		return false
	}
	return true
}

// rank sorts by descending score (stable, so ties keep store order) and
// truncates to the limit.
func (s *Service) rank(results []types.SearchResult, limit int) []types.SearchResult {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []types.SearchResult{}
	}
	return results
}

func (s *Service) toResult(p *types.Profile, qc QueryContext, matching []string) types.SearchResult {
	return types.SearchResult{
		ProfileID:      p.ID,
		Name:           p.Name,
		Headline:       p.Headline,
		Skills:         p.Skills,
		Experience:     p.Experience,
		Education:      p.Education,
		RelevanceScore: s.scorer.Score(p, qc),
		MatchingSkills: matching,
		OpenToWork:     p.OpenToWork,
		ProfileViews:   p.ProfileViews,
	}
}
