// Package network resolves a profile's first-degree connections and received
// recommendations into display-ready views.
package network

import (
	"context"
	"errors"
	"fmt"

	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/storage"
	"discoverme-mcp/internal/types"
)

// UnknownUserName is shown when an edge references a profile that no longer
// resolves.
const UnknownUserName = "unknown user"

const dateLayout = "2006-01-02"

// ConnectionView is a resolved connection edge.
type ConnectionView struct {
	ProfileID      types.ProfileID `json:"id"`
	Name           string          `json:"name"`
	Relationship   string          `json:"relationship"`
	ConnectedSince string          `json:"connected_since"`
}

// RecommendationView is a resolved recommendation with its author's name.
type RecommendationView struct {
	AuthorID types.ProfileID `json:"author_id"`
	Name     string          `json:"name"`
	Date     string          `json:"date"`
	Text     string          `json:"text"`
}

// NetworkView bundles a profile's connections and recommendations.
type NetworkView struct {
	ProfileID       types.ProfileID      `json:"profile_id"`
	Connections     []ConnectionView     `json:"connections"`
	Recommendations []RecommendationView `json:"recommendations"`
}

// Resolver builds network views over the store.
type Resolver struct {
	store            storage.Store
	logger           logging.Logger
	defaultProfileID types.ProfileID
}

// NewResolver creates a resolver. Requests with an empty profile ID fall back
// to defaultProfileID.
func NewResolver(store storage.Store, defaultProfileID types.ProfileID, logger logging.Logger) *Resolver {
	return &Resolver{
		store:            store,
		logger:           logger.WithComponent("network"),
		defaultProfileID: defaultProfileID,
	}
}

func (r *Resolver) resolveID(profileID types.ProfileID) types.ProfileID {
	if profileID.IsEmpty() {
		return r.defaultProfileID
	}
	return profileID
}

// resolveName looks up the display name for an edge endpoint. Missing
// profiles resolve to the unknown-user sentinel rather than failing the whole
// listing.
func (r *Resolver) resolveName(ctx context.Context, id types.ProfileID) (string, error) {
	p, err := r.store.GetProfile(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return UnknownUserName, nil
	}
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// Connections lists a profile's first-degree connections. An unknown profile
// has no edges and yields an empty slice, not an error.
func (r *Resolver) Connections(ctx context.Context, profileID types.ProfileID) ([]ConnectionView, error) {
	id := r.resolveID(profileID)

	edges, err := r.store.FindConnectionsByOwner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load connections for %s: %w", id, err)
	}

	views := make([]ConnectionView, 0, len(edges))
	for i := range edges {
		name, err := r.resolveName(ctx, edges[i].ConnectedID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve connection %s: %w", edges[i].ConnectedID, err)
		}
		if name == UnknownUserName {
			r.logger.WarnContext(ctx, "Connection points at missing profile", "owner_id", id, "connected_id", edges[i].ConnectedID)
		}
		views = append(views, ConnectionView{
			ProfileID:      edges[i].ConnectedID,
			Name:           name,
			Relationship:   edges[i].Relationship,
			ConnectedSince: edges[i].ConnectedSince.Format(dateLayout),
		})
	}
	return views, nil
}

// Recommendations lists the recommendations a profile has received, with
// author names resolved.
func (r *Resolver) Recommendations(ctx context.Context, profileID types.ProfileID) ([]RecommendationView, error) {
	id := r.resolveID(profileID)

	recs, err := r.store.FindRecommendationsByOwner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations for %s: %w", id, err)
	}

	views := make([]RecommendationView, 0, len(recs))
	for i := range recs {
		name, err := r.resolveName(ctx, recs[i].AuthorID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve author %s: %w", recs[i].AuthorID, err)
		}
		views = append(views, RecommendationView{
			AuthorID: recs[i].AuthorID,
			Name:     name,
			Date:     recs[i].Date.Format(dateLayout),
			Text:     recs[i].Text,
		})
	}
	return views, nil
}

// Network bundles connections and recommendations for a profile.
func (r *Resolver) Network(ctx context.Context, profileID types.ProfileID) (*NetworkView, error) {
	id := r.resolveID(profileID)

	connections, err := r.Connections(ctx, id)
	if err != nil {
		return nil, err
	}
	recommendations, err := r.Recommendations(ctx, id)
	if err != nil {
		return nil, err
	}

	return &NetworkView{
		ProfileID:       id,
		Connections:     connections,
		Recommendations: recommendations,
	}, nil
}
