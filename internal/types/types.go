// Package types provides the core domain types for the DiscoverMe server:
// profiles, connections, recommendations, and the transient search results
// produced by the search subsystem.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// millisPerYear is the fixed 365-day year used for experience math.
// Calendar-aware leap-year handling is deliberately not applied; total
// experience is an approximation, not an accounting figure.
const millisPerYear = 1000 * 60 * 60 * 24 * 365

// ProfileID identifies a profile. IDs are opaque strings (UUIDs in practice).
type ProfileID string

// Validate ensures the ProfileID is usable as a document key.
func (p ProfileID) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return errors.New("profile_id cannot be empty")
	}
	if len(p) > 100 {
		return fmt.Errorf("profile_id must be 100 characters or less, got %d", len(p))
	}
	return nil
}

// String returns the string representation
func (p ProfileID) String() string {
	return string(p)
}

// IsEmpty returns true if the ProfileID is empty
func (p ProfileID) IsEmpty() bool {
	return strings.TrimSpace(string(p)) == ""
}

// Skill is a named competency on a profile.
type Skill struct {
	Name         string `json:"name"`
	Level        string `json:"level,omitempty"`
	Endorsements int    `json:"endorsements"`
}

// Experience is a single professional engagement. A nil EndDate means the
// position is current.
type Experience struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `json:"description,omitempty"`
}

// DurationYears returns the length of the engagement in fractional 365-day
// years, using now for open-ended positions.
func (e *Experience) DurationYears(now time.Time) float64 {
	end := now
	if e.EndDate != nil {
		end = *e.EndDate
	}
	millis := end.Sub(e.StartDate).Milliseconds()
	if millis < 0 {
		return 0
	}
	return float64(millis) / float64(millisPerYear)
}

// Education is a degree or training entry. A nil EndYear means in progress.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartYear   int    `json:"start_year"`
	EndYear     *int   `json:"end_year,omitempty"`
}

// Profile is a professional record. Skills, experience and education keep
// their insertion order; no sorting is guaranteed by the store.
type Profile struct {
	ID             ProfileID      `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Avatar         string         `json:"avatar,omitempty"`
	Headline       string         `json:"headline,omitempty"`
	OpenToWork     bool           `json:"open_to_work"`
	Hiring         bool           `json:"hiring"`
	Skills         []Skill        `json:"skills"`
	Experience     []Experience   `json:"experience"`
	Education      []Education    `json:"education"`
	ProfileViews   int            `json:"profile_views"`
	ActionCounters map[string]int `json:"action_counters,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Validate checks the invariants a profile must satisfy before storage.
func (p *Profile) Validate() error {
	if err := p.ID.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name cannot be empty")
	}
	for i := range p.Skills {
		if p.Skills[i].Name == "" {
			return fmt.Errorf("skill %d has empty name", i)
		}
		if p.Skills[i].Endorsements < 0 {
			return fmt.Errorf("skill %q has negative endorsements", p.Skills[i].Name)
		}
	}
	for i := range p.Experience {
		if p.Experience[i].Title == "" || p.Experience[i].Company == "" {
			return fmt.Errorf("experience %d is missing title or company", i)
		}
	}
	return nil
}

// TotalExperienceYears sums the durations of all experience entries in
// fractional 365-day years. Derived, never stored.
func (p *Profile) TotalExperienceYears(now time.Time) float64 {
	total := 0.0
	for i := range p.Experience {
		total += p.Experience[i].DurationYears(now)
	}
	return total
}

// SkillNames returns the profile's skill names in insertion order.
func (p *Profile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for i := range p.Skills {
		names = append(names, p.Skills[i].Name)
	}
	return names
}

// Connection is a directed first-degree edge between two profiles.
// The (OwnerID, ConnectedID) pair is unique: no duplicate edges.
type Connection struct {
	ID             string    `json:"id"`
	OwnerID        ProfileID `json:"owner_id"`
	ConnectedID    ProfileID `json:"connected_id"`
	Relationship   string    `json:"relationship"`
	ConnectedSince time.Time `json:"connected_since"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks connection invariants.
func (c *Connection) Validate() error {
	if err := c.OwnerID.Validate(); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	if err := c.ConnectedID.Validate(); err != nil {
		return fmt.Errorf("invalid connected_id: %w", err)
	}
	if c.OwnerID == c.ConnectedID {
		return errors.New("connection cannot point at its own owner")
	}
	return nil
}

// Recommendation is a free-text endorsement written by one profile about
// another. Multiple recommendations per recipient are allowed.
type Recommendation struct {
	ID        string    `json:"id"`
	OwnerID   ProfileID `json:"owner_id"`
	AuthorID  ProfileID `json:"author_id"`
	Text      string    `json:"text"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks recommendation invariants.
func (r *Recommendation) Validate() error {
	if err := r.OwnerID.Validate(); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	if err := r.AuthorID.Validate(); err != nil {
		return fmt.Errorf("invalid author_id: %w", err)
	}
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("recommendation text cannot be empty")
	}
	return nil
}

// SearchResult is the transient, JSON-serializable record returned by the
// search subsystem. It is constructed per query and never persisted.
type SearchResult struct {
	ProfileID      ProfileID    `json:"id"`
	Name           string       `json:"name"`
	Headline       string       `json:"headline,omitempty"`
	Skills         []Skill      `json:"skills"`
	Experience     []Experience `json:"experience,omitempty"`
	Education      []Education  `json:"education,omitempty"`
	RelevanceScore float64      `json:"relevance_score"`
	MatchingSkills []string     `json:"matching_skills,omitempty"`
	OpenToWork     bool         `json:"open_to_work"`
	ProfileViews   int          `json:"profile_views,omitempty"`
}
