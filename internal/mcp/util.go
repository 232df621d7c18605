package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/reforestai/geokit/internal/tools"
)

// resultToMCP converts a tool envelope to an MCP call result. The whole
// envelope is serialized so clients always see the same {status, ...} shape
// regardless of transport.
func resultToMCP(result tools.Result) *mcp.CallToolResult {
	b, err := json.Marshal(result)
	if err != nil {
		// The envelope is built from sanitizer-clean values, so this only
		// fires on a programming error.
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("marshal result: %v", err)}},
			IsError: true,
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
		IsError: result.Status == tools.StatusError,
	}
}
