// Package mcp assembles the DiscoverMe MCP server: it wires the profile,
// search, network, interaction and recommendation services to MCP tools and
// resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcp "github.com/fredcamaral/gomcp-sdk"
	"github.com/fredcamaral/gomcp-sdk/protocol"
	"github.com/fredcamaral/gomcp-sdk/server"
	"github.com/fredcamaral/gomcp-sdk/transport"

	"discoverme-mcp/internal/config"
	"discoverme-mcp/internal/interaction"
	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/network"
	"discoverme-mcp/internal/profile"
	"discoverme-mcp/internal/recommend"
	"discoverme-mcp/internal/search"
	"discoverme-mcp/internal/storage"
	"discoverme-mcp/internal/types"
)

const (
	serverName    = "discoverme"
	serverVersion = "1.0.0"
)

// DiscoverMeServer exposes the profile services over MCP.
type DiscoverMeServer struct {
	cfg       *config.Config
	store     storage.Store
	mcpServer *server.Server
	logger    logging.Logger

	profiles     *profile.Service
	searches     *search.Service
	networks     *network.Resolver
	interactions *interaction.Service
	recommender  *recommend.Service
}

// NewServer builds the server and registers every tool and resource.
func NewServer(cfg *config.Config, store storage.Store, logger logging.Logger) (*DiscoverMeServer, error) {
	mcpServer := mcp.NewServer(serverName, serverVersion)
	if mcpServer == nil {
		return nil, fmt.Errorf("failed to create MCP server instance")
	}

	weights := search.Weights{
		Base:         cfg.Search.BaseWeight,
		NameMatch:    cfg.Search.NameMatchWeight,
		SkillRatio:   cfg.Search.SkillRatioWeight,
		CompanyMatch: cfg.Search.CompanyMatchWeight,
		OpenToWork:   cfg.Search.OpenToWorkWeight,
	}
	defaultID := types.ProfileID(cfg.Profile.DefaultProfileID)

	ds := &DiscoverMeServer{
		cfg:          cfg,
		store:        store,
		mcpServer:    mcpServer,
		logger:       logger.WithComponent("mcp"),
		profiles:     profile.NewService(store, defaultID, logger),
		searches:     search.NewService(store, weights, cfg.Search.DefaultLimit, logger),
		networks:     network.NewResolver(store, defaultID, logger),
		interactions: interaction.NewService(store, logger),
		recommender:  recommend.NewService(store, logger),
	}

	ds.registerTools()
	ds.registerResources()

	return ds, nil
}

// MCPServer returns the underlying protocol server.
func (ds *DiscoverMeServer) MCPServer() *server.Server {
	return ds.mcpServer
}

// ServeStdio runs the server on the stdio transport until the context ends.
func (ds *DiscoverMeServer) ServeStdio(ctx context.Context) error {
	ds.mcpServer.SetTransport(transport.NewStdioTransport())
	ds.logger.Info("Serving MCP over stdio")
	return ds.mcpServer.Start(ctx)
}

// HandleRequest processes a single JSON-RPC request (the HTTP mode entry
// point).
func (ds *DiscoverMeServer) HandleRequest(ctx context.Context, req *protocol.JSONRPCRequest) *protocol.JSONRPCResponse {
	return ds.mcpServer.HandleRequest(ctx, req)
}

// HealthCheck reports whether the backing store is reachable.
func (ds *DiscoverMeServer) HealthCheck(ctx context.Context) error {
	return ds.store.HealthCheck(ctx)
}

// Close releases the backing store.
func (ds *DiscoverMeServer) Close() error {
	return ds.store.Close()
}

// jsonContent renders a resource payload as MCP text content.
func jsonContent(v interface{}) ([]protocol.Content, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode resource: %w", err)
	}
	return []protocol.Content{protocol.NewContent(string(data))}, nil
}
