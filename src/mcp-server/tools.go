// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createTools creates and returns all MCP tool definitions with their handlers.
// It organizes tools into two categories: those that don't touch the vulnerability
// database and those that query upstream through the VulnerabilityFinder.
//
// Returns:
//   - A slice of ToolDefinition for tools without finder dependencies
//   - A slice of ToolDefinitionWithFinder for tools that query the EUVD API
//
// The function defines the following tools:
//   - get_last_vulnerabilities: Latest published vulnerabilities
//   - get_exploited_vulnerabilities: Latest actively exploited vulnerabilities
//   - get_critical_vulnerabilities: Latest critical-severity vulnerabilities
//   - search_vulnerabilities: Filtered search over the whole database
//   - get_vulnerability_by_id: Single record lookup by EUVD identifier
//   - get_advisory_by_id: Single advisory lookup by identifier
//   - get_resource_usage: Server resource usage statistics
//
// Each tool includes proper parameter definitions, descriptions, and default values
// as required by the MCP specification.
func createTools() ([]ToolDefinition, []ToolDefinitionWithFinder) {
	// Tools that don't need the finder
	tools := []ToolDefinition{
		{
			Tool: mcp.NewTool("get_resource_usage",
				mcp.WithDescription("Get current resource usage statistics including memory, GC, and CPU information"),
				mcp.WithBoolean("detailed",
					mcp.Description("Include detailed memory breakdown (default: false)"),
					mcp.DefaultBool(false),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'json' or 'markdown' (default: 'json')"),
					mcp.DefaultString("json"),
				),
			),
			Handler: handleGetResourceUsage,
			Role:    "resourceMonitor",
		},
	}

	// Tools that query the vulnerability database
	toolsWithFinder := []ToolDefinitionWithFinder{
		{
			Tool: mcp.NewTool("get_last_vulnerabilities",
				mcp.WithDescription("Get the latest vulnerabilities published in the EU Vulnerability Database (upstream caps the list at 8 records)"),
				mcp.WithString("format",
					mcp.Description("Output format: 'json' or 'markdown' (default: 'json')"),
					mcp.DefaultString("json"),
				),
			),
			Handler: handleGetLastVulnerabilities,
			Role:    "latestLister",
		},
		{
			Tool: mcp.NewTool("get_exploited_vulnerabilities",
				mcp.WithDescription("Get the latest vulnerabilities known to be actively exploited"),
				mcp.WithString("format",
					mcp.Description("Output format: 'json' or 'markdown' (default: 'json')"),
					mcp.DefaultString("json"),
				),
			),
			Handler: handleGetExploitedVulnerabilities,
			Role:    "exploitedLister",
		},
		{
			Tool: mcp.NewTool("get_critical_vulnerabilities",
				mcp.WithDescription("Get the latest vulnerabilities above the critical severity threshold"),
				mcp.WithString("format",
					mcp.Description("Output format: 'json' or 'markdown' (default: 'json')"),
					mcp.DefaultString("json"),
				),
			),
			Handler: handleGetCriticalVulnerabilities,
			Role:    "criticalLister",
		},
		{
			Tool: mcp.NewTool("search_vulnerabilities",
				mcp.WithDescription("Search the EU Vulnerability Database with optional filters; all parameters are optional and combine with AND semantics"),
				mcp.WithNumber("from_score",
					mcp.Description("Minimum CVSS base score (0-10)"),
				),
				mcp.WithNumber("to_score",
					mcp.Description("Maximum CVSS base score (0-10)"),
				),
				mcp.WithNumber("from_epss",
					mcp.Description("Minimum EPSS exploitation probability (0-1)"),
				),
				mcp.WithNumber("to_epss",
					mcp.Description("Maximum EPSS exploitation probability (0-1)"),
				),
				mcp.WithString("from_date",
					mcp.Description("Earliest publication date, ISO format YYYY-MM-DD"),
				),
				mcp.WithString("to_date",
					mcp.Description("Latest publication date, ISO format YYYY-MM-DD"),
				),
				mcp.WithString("from_updated_date",
					mcp.Description("Earliest update date, ISO format YYYY-MM-DD"),
				),
				mcp.WithString("to_updated_date",
					mcp.Description("Latest update date, ISO format YYYY-MM-DD"),
				),
				mcp.WithString("product",
					mcp.Description("Product name to match (e.g. 'Windows 10')"),
				),
				mcp.WithString("vendor",
					mcp.Description("Vendor name to match (e.g. 'Microsoft')"),
				),
				mcp.WithString("assigner",
					mcp.Description("Assigning CNA to match (e.g. 'mitre')"),
				),
				mcp.WithBoolean("exploited",
					mcp.Description("Restrict to (non-)exploited vulnerabilities"),
				),
				mcp.WithString("text",
					mcp.Description("Free-text search over descriptions and identifiers"),
				),
				mcp.WithNumber("page",
					mcp.Description("Zero-based result page (default: 0)"),
				),
				mcp.WithNumber("size",
					mcp.Description("Page size, 1-100 (default: upstream default)"),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'json' or 'markdown' (default: 'json')"),
					mcp.DefaultString("json"),
				),
			),
			Handler: handleSearchVulnerabilities,
			Role:    "searcher",
		},
		{
			Tool: mcp.NewTool("get_vulnerability_by_id",
				mcp.WithDescription("Look up a single vulnerability record by its EUVD identifier"),
				mcp.WithString("enisa_id",
					mcp.Required(),
					mcp.Description("EUVD identifier (e.g. 'EUVD-2024-45012')"),
				),
			),
			Handler: handleGetVulnerabilityByID,
			Role:    "recordLookup",
		},
		{
			Tool: mcp.NewTool("get_advisory_by_id",
				mcp.WithDescription("Look up a single security advisory by its identifier"),
				mcp.WithString("advisory_id",
					mcp.Required(),
					mcp.Description("Advisory identifier (e.g. 'cisco-sa-ata19x-multi-RDTEqRsy')"),
				),
			),
			Handler: handleGetAdvisoryByID,
			Role:    "advisoryLookup",
		},
	}

	return tools, toolsWithFinder
}
