// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// createResources creates and returns all MCP resource definitions with their handlers.
//
// The function defines the following resources:
//   - config://template: Example configuration file showing the expected structure
//   - info://version: Server version and capability metadata
//   - docs://euvd-api: Documentation of the upstream EUVD API endpoints
//   - status://server-status: Current server health and capability information
//
// Resources are registered with the server through the ServerBuilder's
// WithResources method during initialization.
func createResources() []server.ServerResource {
	return []server.ServerResource{
		{
			Resource: mcp.NewResource("config://template", "Configuration Template",
				mcp.WithResourceDescription("Example configuration showing the expected structure and defaults"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleConfigResource,
		},
		{
			Resource: mcp.NewResource("info://version", "Server Version",
				mcp.WithResourceDescription("Server version and capability metadata"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleVersionResource,
		},
		{
			Resource: mcp.NewResource("docs://euvd-api", "EUVD API Documentation",
				mcp.WithResourceDescription("Documentation of the upstream EU Vulnerability Database API"),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: handleEUVDAPIDocsResource,
		},
		{
			Resource: mcp.NewResource("status://server-status", "Server Status",
				mcp.WithResourceDescription("Current server health and operational status"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleStatusResource,
		},
	}
}
