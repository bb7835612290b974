// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the European Union
// Vulnerability Database (EUVD) client. It implements a Cobra-based CLI with
// subcommands for the curated listings (last, exploited, critical), filtered
// search, single-record lookups by EUVD or advisory identifier, and a serve
// command that starts the MCP stdio server. Output is rendered as ASCII
// tables by default or as indented JSON with the --json flag. The package
// handles context cancellation and integrates with the logger package for
// status output and error reporting.
package cli
