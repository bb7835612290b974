// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver provides the [MCP] server framework for the [EUVD] vulnerability database.
// It implements the Model Context Protocol ([MCP]) server with tools for querying recent,
// critical, and exploited vulnerabilities, running filtered searches, and fetching individual
// vulnerability or advisory records. The package uses a builder pattern for server construction
// and ships an in-memory transport bridge for Google ADK agents.
//
// [EUVD]: https://euvd.enisa.europa.eu
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
