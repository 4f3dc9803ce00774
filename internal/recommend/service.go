// Package recommend suggests profiles: people similar to a given profile by
// shared skills, and experts for a requested skill set.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/storage"
	"discoverme-mcp/internal/types"
)

// minExpertEndorsements is the endorsement floor a skill must reach before
// its holder counts as an expert in it.
const minExpertEndorsements = 5

// Service computes profile suggestions over the store.
type Service struct {
	store  storage.Store
	logger logging.Logger
}

// NewService creates a recommendation service.
func NewService(store storage.Store, logger logging.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.WithComponent("recommend"),
	}
}

// SimilarProfiles finds profiles sharing at least one skill with the subject,
// scored by the fraction of the subject's skills they share.
func (s *Service) SimilarProfiles(ctx context.Context, profileID types.ProfileID, limit int) ([]types.SearchResult, error) {
	subject, err := s.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subject profile %s: %w", profileID, err)
	}

	subjectSkills := make(map[string]bool, len(subject.Skills))
	for i := range subject.Skills {
		subjectSkills[strings.ToLower(subject.Skills[i].Name)] = true
	}

	candidates, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	denominator := len(subject.Skills)
	if denominator == 0 {
		denominator = 1
	}

	var results []types.SearchResult
	for i := range candidates {
		c := &candidates[i]
		if c.ID == subject.ID {
			continue
		}

		var shared []string
		for j := range c.Skills {
			if subjectSkills[strings.ToLower(c.Skills[j].Name)] {
				shared = append(shared, c.Skills[j].Name)
			}
		}
		if len(shared) == 0 {
			continue
		}

		results = append(results, types.SearchResult{
			ProfileID:      c.ID,
			Name:           c.Name,
			Headline:       c.Headline,
			Skills:         c.Skills,
			RelevanceScore: float64(len(shared)) / float64(denominator),
			MatchingSkills: shared,
			OpenToWork:     c.OpenToWork,
		})
	}

	return rank(results, limit), nil
}

// Experts finds profiles whose skill names contain a requested skill as a
// case-insensitive substring, with enough endorsements to count as expertise,
// scored by the fraction of requested skills covered.
func (s *Service) Experts(ctx context.Context, skills []string, limit int) ([]types.SearchResult, error) {
	if len(skills) == 0 {
		return []types.SearchResult{}, nil
	}

	candidates, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var results []types.SearchResult
	for i := range candidates {
		c := &candidates[i]

		var expertise []string
		for j := range c.Skills {
			sk := &c.Skills[j]
			if sk.Endorsements < minExpertEndorsements {
				continue
			}
			name := strings.ToLower(sk.Name)
			for _, skill := range skills {
				if strings.Contains(name, strings.ToLower(skill)) {
					expertise = append(expertise, sk.Name)
					break
				}
			}
		}
		if len(expertise) == 0 {
			continue
		}

		// Score by covered request tokens, not matched profile skills: one
		// token can match several skill names.
		covered := 0
		for _, skill := range skills {
			needle := strings.ToLower(skill)
			for j := range c.Skills {
				if c.Skills[j].Endorsements >= minExpertEndorsements &&
					strings.Contains(strings.ToLower(c.Skills[j].Name), needle) {
					covered++
					break
				}
			}
		}

		results = append(results, types.SearchResult{
			ProfileID:      c.ID,
			Name:           c.Name,
			Headline:       c.Headline,
			Skills:         c.Skills,
			RelevanceScore: float64(covered) / float64(len(skills)),
			MatchingSkills: expertise,
			OpenToWork:     c.OpenToWork,
		})
	}

	return rank(results, limit), nil
}

func rank(results []types.SearchResult, limit int) []types.SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []types.SearchResult{}
	}
	return results
}
