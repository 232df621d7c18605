// Package mcp exposes the geospatial toolset over the Model Context Protocol
// so any MCP-capable client or agent can call the engine's operations.
package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/reforestai/geokit/internal/log"
	"github.com/reforestai/geokit/internal/tools"
)

// Server wraps the MCP SDK server and the geospatial toolset.
type Server struct {
	mcpServer *mcp.Server
	toolset   *tools.GeoToolset
	logger    log.Logger
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Toolset *tools.GeoToolset
	Logger  log.Logger
}

// NewServer creates an MCP server with every engine operation registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Toolset == nil {
		return nil, fmt.Errorf("toolset is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		toolset: cfg.Toolset,
		logger:  cfg.Logger,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}
	return s, nil
}

// Run starts the MCP server on the given transport. It blocks until the
// context is canceled or the transport closes.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("MCP server starting")
	return s.mcpServer.Run(ctx, transport)
}

// registerTools registers one MCP tool per operation in the registration
// table. Descriptions come from the table so front-ends never drift apart.
func (s *Server) registerTools() error {
	descriptions := make(map[string]string)
	for _, op := range tools.Operations() {
		descriptions[op.Name] = op.Description
	}

	if err := register[tools.ListFilesInput](s, descriptions, tools.OpListFiles, s.handleListFiles); err != nil {
		return err
	}
	if err := register[tools.QueryFeaturesInput](s, descriptions, tools.OpQueryFeatures, s.handleQueryFeatures); err != nil {
		return err
	}
	if err := register[tools.TransformFeaturesInput](s, descriptions, tools.OpTransform, s.handleTransformFeatures); err != nil {
		return err
	}
	if err := register[tools.ReadAttributesInput](s, descriptions, tools.OpAttributes, s.handleReadAttributes); err != nil {
		return err
	}
	if err := register[tools.CombineCollectionsInput](s, descriptions, tools.OpCombine, s.handleCombineCollections); err != nil {
		return err
	}
	if err := register[tools.SelectByGeometryInput](s, descriptions, tools.OpSelect, s.handleSelectByGeometry); err != nil {
		return err
	}
	if err := register[tools.EnrichGeometryInput](s, descriptions, tools.OpEnrich, s.handleEnrichGeometry); err != nil {
		return err
	}
	if err := register[tools.ReprojectFeaturesInput](s, descriptions, tools.OpReproject, s.handleReprojectFeatures); err != nil {
		return err
	}
	return nil
}

// register infers the input schema from the input struct and registers a
// single tool. A name missing from the registration table is a bug, not a
// runtime condition.
func register[In any](s *Server, descriptions map[string]string, name string, handler mcp.ToolHandlerFor[In, any]) error {
	description, ok := descriptions[name]
	if !ok {
		return fmt.Errorf("operation %q is not in the registration table", name)
	}

	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", name, err)
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}, handler)
	return nil
}
