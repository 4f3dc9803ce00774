// Package storage provides the profile document store behind the DiscoverMe
// server: a SQLite-backed implementation, an in-memory implementation for
// tests and demo mode, and an optional Redis read-through cache.
package storage

import (
	"context"
	"errors"

	"discoverme-mcp/internal/types"
)

// Sentinel errors returned by stores. Callers match with errors.Is.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("record already exists")
)

// Store is the document store consumed by the search, network, profile and
// recommendation services. Implementations must be safe for concurrent use.
type Store interface {
	// FindProfilesByName returns profiles whose name contains the given
	// substring, case-insensitively. An empty substring matches everything.
	FindProfilesByName(ctx context.Context, substring string) ([]types.Profile, error)

	// FindProfilesBySkills returns profiles matching the given skill names,
	// case-insensitively. With matchAll, a profile must carry every listed
	// skill; otherwise one match suffices. An empty list matches nothing.
	FindProfilesBySkills(ctx context.Context, names []string, matchAll bool) ([]types.Profile, error)

	// ListProfiles returns every stored profile in insertion order.
	ListProfiles(ctx context.Context) ([]types.Profile, error)

	// GetProfile returns the profile with the given ID, or ErrNotFound.
	GetProfile(ctx context.Context, id types.ProfileID) (*types.Profile, error)

	// CreateProfile stores a new profile. ErrDuplicate on an existing ID.
	CreateProfile(ctx context.Context, profile *types.Profile) error

	// UpdateProfile replaces a stored profile. ErrNotFound when absent.
	UpdateProfile(ctx context.Context, profile *types.Profile) error

	// IncrementCounter atomically bumps a named action counter on a profile.
	IncrementCounter(ctx context.Context, id types.ProfileID, counter string) error

	// IncrementProfileViews atomically bumps a profile's view count.
	IncrementProfileViews(ctx context.Context, id types.ProfileID) error

	// FindConnectionsByOwner returns the first-degree edges owned by a
	// profile, in insertion order. Unknown owner yields an empty slice.
	FindConnectionsByOwner(ctx context.Context, ownerID types.ProfileID) ([]types.Connection, error)

	// AddConnection stores an edge. ErrDuplicate when the (owner, connected)
	// pair already exists.
	AddConnection(ctx context.Context, conn *types.Connection) error

	// FindRecommendationsByOwner returns the recommendations received by a
	// profile, in insertion order.
	FindRecommendationsByOwner(ctx context.Context, ownerID types.ProfileID) ([]types.Recommendation, error)

	// AddRecommendation stores a recommendation.
	AddRecommendation(ctx context.Context, rec *types.Recommendation) error

	// HealthCheck verifies the store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}
