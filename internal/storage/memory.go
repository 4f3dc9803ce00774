package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"discoverme-mcp/internal/types"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs the demo mode and
// the test suites; insertion order is preserved for all listings.
type MemoryStore struct {
	mu              sync.RWMutex
	profiles        map[types.ProfileID]*types.Profile
	profileOrder    []types.ProfileID
	connections     []types.Connection
	recommendations []types.Recommendation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[types.ProfileID]*types.Profile),
	}
}

// FindProfilesByName returns profiles whose name contains substring,
// case-insensitively.
func (m *MemoryStore) FindProfilesByName(ctx context.Context, substring string) ([]types.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(substring)
	var out []types.Profile
	for _, id := range m.profileOrder {
		p := m.profiles[id]
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, cloneProfile(p))
		}
	}
	return out, nil
}

// FindProfilesBySkills returns profiles matching the skill names with ANY or
// ALL semantics. An empty name list matches nothing.
func (m *MemoryStore) FindProfilesBySkills(ctx context.Context, names []string, matchAll bool) ([]types.Profile, error) {
	if len(names) == 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []types.Profile
	for _, id := range m.profileOrder {
		p := m.profiles[id]
		if profileMatchesSkills(p, names, matchAll) {
			out = append(out, cloneProfile(p))
		}
	}
	return out, nil
}

// ListProfiles returns every profile in insertion order.
func (m *MemoryStore) ListProfiles(ctx context.Context) ([]types.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Profile, 0, len(m.profileOrder))
	for _, id := range m.profileOrder {
		out = append(out, cloneProfile(m.profiles[id]))
	}
	return out, nil
}

// GetProfile returns a profile by ID.
func (m *MemoryStore) GetProfile(ctx context.Context, id types.ProfileID) (*types.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := cloneProfile(p)
	return &clone, nil
}

// CreateProfile stores a new profile.
func (m *MemoryStore) CreateProfile(ctx context.Context, profile *types.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.profiles[profile.ID]; exists {
		return ErrDuplicate
	}

	clone := cloneProfile(profile)
	now := time.Now().UTC()
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now

	m.profiles[profile.ID] = &clone
	m.profileOrder = append(m.profileOrder, profile.ID)
	return nil
}

// UpdateProfile replaces a stored profile.
func (m *MemoryStore) UpdateProfile(ctx context.Context, profile *types.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.profiles[profile.ID]
	if !ok {
		return ErrNotFound
	}

	clone := cloneProfile(profile)
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now().UTC()
	m.profiles[profile.ID] = &clone
	return nil
}

// IncrementCounter bumps a named action counter.
func (m *MemoryStore) IncrementCounter(ctx context.Context, id types.ProfileID, counter string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok {
		return ErrNotFound
	}
	if p.ActionCounters == nil {
		p.ActionCounters = make(map[string]int)
	}
	p.ActionCounters[counter]++
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// IncrementProfileViews bumps the view count.
func (m *MemoryStore) IncrementProfileViews(ctx context.Context, id types.ProfileID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.ProfileViews++
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// FindConnectionsByOwner returns the owner's edges in insertion order.
func (m *MemoryStore) FindConnectionsByOwner(ctx context.Context, ownerID types.ProfileID) ([]types.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []types.Connection
	for i := range m.connections {
		if m.connections[i].OwnerID == ownerID {
			out = append(out, m.connections[i])
		}
	}
	return out, nil
}

// AddConnection stores an edge, rejecting duplicate (owner, connected) pairs.
func (m *MemoryStore) AddConnection(ctx context.Context, conn *types.Connection) error {
	if err := conn.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.connections {
		if m.connections[i].OwnerID == conn.OwnerID && m.connections[i].ConnectedID == conn.ConnectedID {
			return ErrDuplicate
		}
	}

	stored := *conn
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	m.connections = append(m.connections, stored)
	return nil
}

// FindRecommendationsByOwner returns the recipient's recommendations in
// insertion order.
func (m *MemoryStore) FindRecommendationsByOwner(ctx context.Context, ownerID types.ProfileID) ([]types.Recommendation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []types.Recommendation
	for i := range m.recommendations {
		if m.recommendations[i].OwnerID == ownerID {
			out = append(out, m.recommendations[i])
		}
	}
	return out, nil
}

// AddRecommendation stores a recommendation.
func (m *MemoryStore) AddRecommendation(ctx context.Context, rec *types.Recommendation) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *rec
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	m.recommendations = append(m.recommendations, stored)
	return nil
}

// HealthCheck always succeeds for the in-memory store.
func (m *MemoryStore) HealthCheck(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

// profileMatchesSkills applies ANY/ALL skill matching. A requested name
// matches when it is a case-insensitive substring of any of the profile's
// skill names, so "java" finds "JavaScript" holders too.
func profileMatchesSkills(p *types.Profile, names []string, matchAll bool) bool {
	matched := 0
	for _, name := range names {
		needle := strings.ToLower(name)
		for i := range p.Skills {
			if strings.Contains(strings.ToLower(p.Skills[i].Name), needle) {
				matched++
				break
			}
		}
	}
	if matchAll {
		return matched == len(names)
	}
	return matched > 0
}

// cloneProfile deep-copies a profile so callers cannot mutate stored state.
func cloneProfile(p *types.Profile) types.Profile {
	clone := *p

	if p.Skills != nil {
		clone.Skills = make([]types.Skill, len(p.Skills))
		copy(clone.Skills, p.Skills)
	}
	if p.Experience != nil {
		clone.Experience = make([]types.Experience, len(p.Experience))
		copy(clone.Experience, p.Experience)
	}
	if p.Education != nil {
		clone.Education = make([]types.Education, len(p.Education))
		copy(clone.Education, p.Education)
	}
	if p.ActionCounters != nil {
		clone.ActionCounters = make(map[string]int, len(p.ActionCounters))
		for k, v := range p.ActionCounters {
			clone.ActionCounters[k] = v
		}
	}
	return clone
}
