// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleTriageVulnerabilityPrompt handles the vulnerability triage workflow prompt
func handleTriageVulnerabilityPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	enisaID := request.Params.Arguments["enisa_id"]

	messages := []mcp.PromptMessage{
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(fmt.Sprintf(`I'll help you triage the vulnerability %s.

Let's start by pulling the full record:`, enisaID)),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`1. First, fetch the complete vulnerability record.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Use the "get_vulnerability_by_id" tool with the enisa_id argument to retrieve the record including scores, affected products, and references.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`2. Check whether the vulnerability is being actively exploited.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Use the "get_exploited_vulnerabilities" tool and check whether the record appears there, and look at the record's exploited flag and EPSS probability.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`3. Follow any linked advisories for vendor guidance.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Use the "get_advisory_by_id" tool for each advisory reference on the record to get remediation details.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(`4. Summarize severity, exploitation likelihood, affected products, and recommended remediation priority.`),
		),
	}

	return mcp.NewGetPromptResult(
		"Vulnerability Triage Workflow",
		messages,
	), nil
}

// handleVendorExposureReportPrompt handles the vendor exposure report prompt
func handleVendorExposureReportPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	vendor := request.Params.Arguments["vendor"]
	minScore := request.Params.Arguments["min_score"]
	if minScore == "" {
		minScore = "7.0"
	}

	messages := []mcp.PromptMessage{
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(fmt.Sprintf(`I'll build an exposure report for %s covering vulnerabilities with a base score of %s or higher.`, vendor, minScore)),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(fmt.Sprintf(`Use the "search_vulnerabilities" tool with vendor=%q and from_score=%s to collect the relevant records.`, vendor, minScore)),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Then narrow to actively exploited issues by repeating the search with exploited=true.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(`Key things to report:
• Total number of matching vulnerabilities and how many are exploited
• The highest-severity records with their affected products
• EPSS probabilities indicating likely near-term exploitation
• Advisory links for the records that have vendor guidance`),
		),
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(`Based on the results, I'll summarize the vendor's current exposure and suggest a patching order.`),
		),
	}

	return mcp.NewGetPromptResult(
		"Vendor Exposure Report",
		messages,
	), nil
}
