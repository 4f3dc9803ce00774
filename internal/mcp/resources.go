package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcp "github.com/fredcamaral/gomcp-sdk"
	"github.com/fredcamaral/gomcp-sdk/protocol"

	"discoverme-mcp/internal/storage"
	"discoverme-mcp/internal/types"
)

func (ds *DiscoverMeServer) registerResources() {
	resources := []struct {
		uri         string
		name        string
		description string
	}{
		{"profile://user", "Profile", "The full professional profile card"},
		{"skills://user", "Skills", "The profile's skill names"},
		{"experience://user", "Experience", "The profile's work history"},
		{"education://user", "Education", "The profile's education history"},
		{"profile://user/{section}", "Profile Section", "A single profile section: name, title, skills, experience, education, contact or bio"},
		{"network://user/{profileID}", "Network", "A profile's connections and received recommendations"},
		{"connections://user/{profileID}", "Connections", "A profile's first-degree connections"},
		{"recommendations://user/{profileID}", "Recommendations", "The recommendations a profile has received"},
	}

	for _, res := range resources {
		resource := mcp.NewResource(res.uri, res.name, res.description, "application/json")
		ds.mcpServer.AddResource(resource, mcp.ResourceHandlerFunc(ds.handleResourceRead))
	}

	ds.logger.Info("MCP resources registered", "count", len(resources))
}

// handleResourceRead dispatches on the URI scheme. All resource URIs take the
// form scheme://user or scheme://user/{argument}.
func (ds *DiscoverMeServer) handleResourceRead(ctx context.Context, uri string) ([]protocol.Content, error) {
	scheme, rest, found := strings.Cut(uri, "://")
	if !found {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}

	parts := strings.SplitN(rest, "/", 2)
	if parts[0] != "user" {
		return nil, fmt.Errorf("unknown resource host in URI: %s", uri)
	}
	arg := ""
	if len(parts) == 2 {
		arg = parts[1]
	}

	switch scheme {
	case "profile":
		if arg == "" {
			return ds.readProfileResource(ctx)
		}
		return ds.readSectionResource(ctx, arg)
	case "skills", "experience", "education":
		return ds.readSectionResource(ctx, scheme)
	case "network":
		view, err := ds.networks.Network(ctx, types.ProfileID(arg))
		if err != nil {
			return nil, err
		}
		return jsonContent(view)
	case "connections":
		connections, err := ds.networks.Connections(ctx, types.ProfileID(arg))
		if err != nil {
			return nil, err
		}
		return jsonContent(connections)
	case "recommendations":
		recommendations, err := ds.networks.Recommendations(ctx, types.ProfileID(arg))
		if err != nil {
			return nil, err
		}
		return jsonContent(recommendations)
	default:
		return nil, fmt.Errorf("unknown resource scheme in URI: %s", uri)
	}
}

func (ds *DiscoverMeServer) readProfileResource(ctx context.Context) ([]protocol.Content, error) {
	view, err := ds.profiles.Get(ctx, "")
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no profile available")
	}
	if err != nil {
		return nil, err
	}
	return jsonContent(view)
}

func (ds *DiscoverMeServer) readSectionResource(ctx context.Context, section string) ([]protocol.Content, error) {
	value, err := ds.profiles.Section(ctx, "", section)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no profile available")
	}
	if err != nil {
		return nil, err
	}
	return jsonContent(map[string]interface{}{section: value})
}
