// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	euvdclient "github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/client"
	"github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/olekukonko/tablewriter"
)

// handleGetLastVulnerabilities returns the latest vulnerabilities published upstream.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the output format option
//   - finder: The EUVD lookup interface
//
// Returns:
//   - The tool execution result containing the vulnerability list
//   - An error if rendering fails (upstream failures become tool error results)
//
// Upstream caps this listing at 8 records; there is no pagination.
func handleGetLastVulnerabilities(ctx context.Context, request mcp.CallToolRequest, finder VulnerabilityFinder) (*mcp.CallToolResult, error) {
	list, err := finder.LastVulnerabilities(ctx)
	if err != nil {
		return toolErrorResult("listing latest vulnerabilities", err), nil
	}
	return renderVulnerabilities("Latest Vulnerabilities", list.Items, request.GetString("format", "json"))
}

// handleGetExploitedVulnerabilities returns the latest actively exploited vulnerabilities.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the output format option
//   - finder: The EUVD lookup interface
//
// Returns:
//   - The tool execution result containing the vulnerability list
//   - An error if rendering fails (upstream failures become tool error results)
func handleGetExploitedVulnerabilities(ctx context.Context, request mcp.CallToolRequest, finder VulnerabilityFinder) (*mcp.CallToolResult, error) {
	list, err := finder.ExploitedVulnerabilities(ctx)
	if err != nil {
		return toolErrorResult("listing exploited vulnerabilities", err), nil
	}
	return renderVulnerabilities("Exploited Vulnerabilities", list.Items, request.GetString("format", "json"))
}

// handleGetCriticalVulnerabilities returns the latest critical-severity vulnerabilities.
// The severity threshold is applied upstream and is opaque to this server.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the output format option
//   - finder: The EUVD lookup interface
//
// Returns:
//   - The tool execution result containing the vulnerability list
//   - An error if rendering fails (upstream failures become tool error results)
func handleGetCriticalVulnerabilities(ctx context.Context, request mcp.CallToolRequest, finder VulnerabilityFinder) (*mcp.CallToolResult, error) {
	list, err := finder.CriticalVulnerabilities(ctx)
	if err != nil {
		return toolErrorResult("listing critical vulnerabilities", err), nil
	}
	return renderVulnerabilities("Critical Vulnerabilities", list.Items, request.GetString("format", "json"))
}

// handleSearchVulnerabilities runs a filtered search over the vulnerability database.
// It translates the tool arguments into SearchFilters; validation happens inside the
// API layer before any network call, so bad ranges come back as validation errors.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing filter arguments
//   - finder: The EUVD lookup interface
//
// Returns:
//   - The tool execution result containing the search result page
//   - An error if rendering fails (upstream failures become tool error results)
func handleSearchVulnerabilities(ctx context.Context, request mcp.CallToolRequest, finder VulnerabilityFinder) (*mcp.CallToolResult, error) {
	filters := searchFiltersFromRequest(request)

	result, err := finder.Search(ctx, filters)
	if err != nil {
		return toolErrorResult("searching vulnerabilities", err), nil
	}

	format := request.GetString("format", "json")
	if format == "markdown" {
		var buf strings.Builder
		fmt.Fprintf(&buf, "# Search Results\n\n")
		fmt.Fprintf(&buf, "**Total:** %d | **Page:** %d | **Page size:** %d | **Pages:** %d\n\n",
			result.Total, result.Page, result.Size, result.TotalPages)
		buf.WriteString(formatVulnerabilityTable(result.Items))
		return mcp.NewToolResultText(buf.String()), nil
	}

	out, err := json.MarshalIndent(searchResponse{
		Total:      result.Total,
		Page:       result.Page,
		Size:       result.Size,
		TotalPages: result.TotalPages,
		Count:      result.Len(),
		Items:      result.Items,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleGetVulnerabilityByID looks up a single vulnerability record by EUVD identifier.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the required enisa_id argument
//   - finder: The EUVD lookup interface
//
// Returns:
//   - The tool execution result containing the record as indented JSON
//   - An error if rendering fails (upstream failures become tool error results)
//
// A well-formed identifier that matches nothing yields a not_found tool error.
func handleGetVulnerabilityByID(ctx context.Context, request mcp.CallToolRequest, finder VulnerabilityFinder) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("enisa_id")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("enisa_id parameter required: %v", err)), nil
	}

	vuln, err := finder.VulnerabilityByID(ctx, id)
	if err != nil {
		return toolErrorResult("looking up "+id, err), nil
	}

	out, err := json.MarshalIndent(vuln, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vulnerability: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleGetAdvisoryByID looks up a single security advisory by identifier.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the required advisory_id argument
//   - finder: The EUVD lookup interface
//
// Returns:
//   - The tool execution result containing the advisory as indented JSON
//   - An error if rendering fails (upstream failures become tool error results)
func handleGetAdvisoryByID(ctx context.Context, request mcp.CallToolRequest, finder VulnerabilityFinder) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("advisory_id")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("advisory_id parameter required: %v", err)), nil
	}

	advisory, err := finder.AdvisoryByID(ctx, id)
	if err != nil {
		return toolErrorResult("looking up advisory "+id, err), nil
	}

	out, err := json.MarshalIndent(advisory, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal advisory: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleGetResourceUsage provides current server resource usage statistics.
// It collects memory, GC, and system information with optional detailed breakdown.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing detail and format options
//
// Returns:
//   - The tool execution result containing resource usage in JSON or markdown format
//   - An error if data collection or formatting fails
func handleGetResourceUsage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	detailed := request.GetBool("detailed", false)
	format := request.GetString("format", "json")

	data := CollectResourceUsage(detailed)

	if format == "markdown" {
		return mcp.NewToolResultText(FormatResourceUsageAsMarkdown(data)), nil
	}

	jsonOutput, err := FormatResourceUsageAsJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format resource usage: %v", err)), nil
	}
	return mcp.NewToolResultText(jsonOutput), nil
}

// searchFiltersFromRequest translates tool arguments into SearchFilters.
// Absent arguments stay unset so the parameter builder omits them from the query.
func searchFiltersFromRequest(request mcp.CallToolRequest) euvdclient.SearchFilters {
	var filters euvdclient.SearchFilters
	args := request.GetArguments()

	if v, ok := args["from_score"].(float64); ok {
		filters.FromScore = &v
	}
	if v, ok := args["to_score"].(float64); ok {
		filters.ToScore = &v
	}
	if v, ok := args["from_epss"].(float64); ok {
		filters.FromEpss = &v
	}
	if v, ok := args["to_epss"].(float64); ok {
		filters.ToEpss = &v
	}
	if v, ok := args["exploited"].(bool); ok {
		filters.Exploited = &v
	}
	if v, ok := args["page"].(float64); ok {
		page := int(v)
		filters.Page = &page
	}
	if v, ok := args["size"].(float64); ok {
		size := int(v)
		filters.Size = &size
	}

	filters.FromDate = request.GetString("from_date", "")
	filters.ToDate = request.GetString("to_date", "")
	filters.FromUpdatedDate = request.GetString("from_updated_date", "")
	filters.ToUpdatedDate = request.GetString("to_updated_date", "")
	filters.Product = request.GetString("product", "")
	filters.Vendor = request.GetString("vendor", "")
	filters.Assigner = request.GetString("assigner", "")
	filters.Text = request.GetString("text", "")

	return filters
}

// listResponse is the JSON envelope for the parameterless list tools.
type listResponse struct {
	Count int                    `json:"count"`
	Items []models.Vulnerability `json:"items"`
}

// searchResponse is the JSON envelope for search_vulnerabilities.
type searchResponse struct {
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Size       int                    `json:"size"`
	TotalPages int                    `json:"totalPages"`
	Count      int                    `json:"count"`
	Items      []models.Vulnerability `json:"items"`
}

// renderVulnerabilities formats a vulnerability list as JSON or markdown tool output.
func renderVulnerabilities(title string, items []models.Vulnerability, format string) (*mcp.CallToolResult, error) {
	if format == "markdown" {
		var buf strings.Builder
		fmt.Fprintf(&buf, "# %s\n\n", title)
		fmt.Fprintf(&buf, "**Records:** %d\n\n", len(items))
		buf.WriteString(formatVulnerabilityTable(items))
		return mcp.NewToolResultText(buf.String()), nil
	}

	out, err := json.MarshalIndent(listResponse{Count: len(items), Items: items}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vulnerability list: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

// formatVulnerabilityTable renders vulnerabilities as a markdown table using tablewriter.
func formatVulnerabilityTable(items []models.Vulnerability) string {
	var buf strings.Builder

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"ID", "SCORE", "EPSS", "EXPLOITED", "PUBLISHED", "DESCRIPTION"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAutoWrapText(false)
	for _, v := range items {
		table.Append([]string{
			v.ID,
			formatOptionalScore(v.BaseScore),
			formatOptionalScore(v.Epss),
			fmt.Sprintf("%t", v.Exploited),
			v.DatePublished,
			truncateText(v.Description, 80),
		})
	}
	table.Render()

	buf.WriteString("\n")
	return buf.String()
}

// formatOptionalScore renders a nullable score, keeping absent values visible as n/a.
func formatOptionalScore(score *float64) string {
	if score == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *score)
}

// truncateText shortens long descriptions so table rows stay readable.
func truncateText(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

// toolErrorResult converts an API layer failure into a tool error result naming
// the error kind, so a failed call degrades into a readable message instead of
// crashing the host session.
func toolErrorResult(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s failed (%s): %v", action, euvdclient.KindOf(err), err))
}
