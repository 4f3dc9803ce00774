// Package search implements the profile search subsystem: name, skill and
// advanced searches over the store, ranked by a deterministic relevance
// scorer.
package search

import (
	"strings"

	"discoverme-mcp/internal/types"
)

// QueryContext carries the optional scoring signals a search mode chooses to
// apply. Absent signals contribute nothing.
type QueryContext struct {
	// NameQuery scores a case-insensitive substring match against the
	// profile name.
	NameQuery string
	// SkillsQuery scores the fraction of queried skills the profile holds,
	// matched as case-insensitive substrings of its skill names.
	SkillsQuery []string
	// Company scores a substring match against any experience entry's
	// company.
	Company string
}

// Weights is the relevance scoring weight table. Every search mode applies
// the same table, so a given profile/query pair always scores identically.
type Weights struct {
	Base         float64
	NameMatch    float64
	SkillRatio   float64
	CompanyMatch float64
	OpenToWork   float64
}

// DefaultWeights returns the standard scoring table.
func DefaultWeights() Weights {
	return Weights{
		Base:         0.5,
		NameMatch:    0.3,
		SkillRatio:   0.3,
		CompanyMatch: 0.2,
		OpenToWork:   0.1,
	}
}

// Scorer computes relevance scores. It is pure and deterministic: the same
// profile and query context always produce the same score.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given weight table.
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score returns the relevance of a profile for the query context, clamped to
// [0, 1]. Every profile starts at the base weight; each present signal adds
// its bonus.
func (s *Scorer) Score(p *types.Profile, qc QueryContext) float64 {
	score := s.weights.Base

	if qc.NameQuery != "" &&
		strings.Contains(strings.ToLower(p.Name), strings.ToLower(qc.NameQuery)) {
		score += s.weights.NameMatch
	}

	if len(qc.SkillsQuery) > 0 {
		matched := 0
		for _, q := range qc.SkillsQuery {
			if ProfileHasSkill(p, q) {
				matched++
			}
		}
		score += float64(matched) / float64(len(qc.SkillsQuery)) * s.weights.SkillRatio
	}

	if qc.Company != "" && profileWorkedAt(p, qc.Company) {
		score += s.weights.CompanyMatch
	}

	if p.OpenToWork {
		score += s.weights.OpenToWork
	}

	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

// MatchingSkills returns the profile's skill names matched by the query, in
// the profile's order. A skill is listed at most once even when several query
// tokens match it.
func MatchingSkills(p *types.Profile, query []string) []string {
	var matched []string
	for i := range p.Skills {
		name := strings.ToLower(p.Skills[i].Name)
		for _, q := range query {
			if strings.Contains(name, strings.ToLower(q)) {
				matched = append(matched, p.Skills[i].Name)
				break
			}
		}
	}
	return matched
}

// ProfileHasSkill reports whether the query token is a case-insensitive
// substring of any of the profile's skill names, so "java" finds both "Java"
// and "JavaScript".
func ProfileHasSkill(p *types.Profile, token string) bool {
	needle := strings.ToLower(token)
	for i := range p.Skills {
		if strings.Contains(strings.ToLower(p.Skills[i].Name), needle) {
			return true
		}
	}
	return false
}

// profileWorkedAt reports whether any experience entry's company contains the
// given substring, case-insensitively.
func profileWorkedAt(p *types.Profile, company string) bool {
	needle := strings.ToLower(company)
	for i := range p.Experience {
		if strings.Contains(strings.ToLower(p.Experience[i].Company), needle) {
			return true
		}
	}
	return false
}
