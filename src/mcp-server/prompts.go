// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// createPrompts creates and returns all MCP prompt definitions with their handlers
func createPrompts() []server.ServerPrompt {
	return []server.ServerPrompt{
		{
			Prompt: mcp.NewPrompt("triage_vulnerability",
				mcp.WithPromptDescription("Guided triage workflow for a single vulnerability record"),
				mcp.WithArgument("enisa_id",
					mcp.ArgumentDescription("EUVD identifier of the vulnerability to triage (e.g. 'EUVD-2024-45012')"),
				),
			),
			Handler: handleTriageVulnerabilityPrompt,
		},
		{
			Prompt: mcp.NewPrompt("vendor_exposure_report",
				mcp.WithPromptDescription("Build an exposure report for a vendor's products from recent vulnerability data"),
				mcp.WithArgument("vendor",
					mcp.ArgumentDescription("Vendor name to report on (e.g. 'Microsoft')"),
				),
				mcp.WithArgument("min_score",
					mcp.ArgumentDescription("Minimum CVSS base score to include (default: 7.0)"),
				),
			),
			Handler: handleVendorExposureReportPrompt,
		},
	}
}
