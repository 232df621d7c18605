package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/reforestai/geokit/internal/tools"
)

// handleListFiles handles the list_files MCP tool call.
func (s *Server) handleListFiles(ctx context.Context, req *mcp.CallToolRequest, input tools.ListFilesInput) (*mcp.CallToolResult, any, error) {
	result, err := s.toolset.ListFiles(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.OpListFiles, err)
	}
	return resultToMCP(result), nil, nil
}

// handleQueryFeatures handles the query_features MCP tool call.
func (s *Server) handleQueryFeatures(ctx context.Context, req *mcp.CallToolRequest, input tools.QueryFeaturesInput) (*mcp.CallToolResult, any, error) {
	result, err := s.toolset.QueryFeatures(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.OpQueryFeatures, err)
	}
	return resultToMCP(result), nil, nil
}

// handleTransformFeatures handles the transform_features MCP tool call.
func (s *Server) handleTransformFeatures(ctx context.Context, req *mcp.CallToolRequest, input tools.TransformFeaturesInput) (*mcp.CallToolResult, any, error) {
	result, err := s.toolset.TransformFeatures(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.OpTransform, err)
	}
	return resultToMCP(result), nil, nil
}

// handleReadAttributes handles the read_attributes MCP tool call.
func (s *Server) handleReadAttributes(ctx context.Context, req *mcp.CallToolRequest, input tools.ReadAttributesInput) (*mcp.CallToolResult, any, error) {
	result, err := s.toolset.ReadAttributes(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.OpAttributes, err)
	}
	return resultToMCP(result), nil, nil
}

// handleCombineCollections handles the combine_collections MCP tool call.
func (s *Server) handleCombineCollections(ctx context.Context, req *mcp.CallToolRequest, input tools.CombineCollectionsInput) (*mcp.CallToolResult, any, error) {
	result, err := s.toolset.CombineCollections(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.OpCombine, err)
	}
	return resultToMCP(result), nil, nil
}

// handleSelectByGeometry handles the select_by_geometry MCP tool call.
func (s *Server) handleSelectByGeometry(ctx context.Context, req *mcp.CallToolRequest, input tools.SelectByGeometryInput) (*mcp.CallToolResult, any, error) {
	result, err := s.toolset.SelectByGeometry(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.OpSelect, err)
	}
	return resultToMCP(result), nil, nil
}

// handleEnrichGeometry handles the enrich_geometry MCP tool call.
func (s *Server) handleEnrichGeometry(ctx context.Context, req *mcp.CallToolRequest, input tools.EnrichGeometryInput) (*mcp.CallToolResult, any, error) {
	result, err := s.toolset.EnrichGeometry(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.OpEnrich, err)
	}
	return resultToMCP(result), nil, nil
}

// handleReprojectFeatures handles the reproject_features MCP tool call.
func (s *Server) handleReprojectFeatures(ctx context.Context, req *mcp.CallToolRequest, input tools.ReprojectFeaturesInput) (*mcp.CallToolResult, any, error) {
	result, err := s.toolset.ReprojectFeatures(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.OpReproject, err)
	}
	return resultToMCP(result), nil, nil
}
