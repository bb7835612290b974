// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	euvdclient "github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/client"
	"github.com/H0llyW00dzZ/euvd-mcp/src/mcp-server/templates"
	"github.com/H0llyW00dzZ/euvd-mcp/src/version"
	"github.com/mark3labs/mcp-go/server"
)

var appVersion = version.Version // default version

// GetVersion returns the current version of the MCP server.
//
// GetVersion provides access to the server's version string, which is set
// during server initialization via the Run function. This allows other
// components to access the version information for logging, user-agent
// strings, or API responses.
//
// Returns:
//   - string: The current server version (e.g., "0.3.1")
//
// The version is initially set to the default from the version package,
// but can be overridden when calling Run() with a specific version string.
func GetVersion() string {
	return appVersion
}

// Run starts the MCP server exposing the EU Vulnerability Database tools.
//
// Run initializes and starts the MCP server with all vulnerability query
// capabilities: latest/exploited/critical listings, filtered search, and
// single-record lookups. The server supports graceful shutdown and closes
// the upstream session on exit.
//
// Parameters:
//   - version: Version string to set for the server (e.g., "0.3.1")
//
// Returns:
//   - error: Server startup or runtime error, or graceful shutdown signal
//
// Configuration:
//   - Loads config from EUVD_MCP_CONFIG_FILE environment variable
//   - Falls back to default config if environment variable not set
//   - Individual settings overridable via EUVD_BASE_URL, EUVD_TIMEOUT,
//     EUVD_MAX_RETRIES, and EUVD_USER_AGENT
//
// Server Lifecycle:
//  1. Load configuration from environment
//  2. Build the EUVD API manager from the loaded settings
//  3. Set up signal handling for graceful shutdown
//  4. Build MCP server using ServerBuilder pattern
//  5. Start stdio server with context cancellation support
//  6. Wait for either server error or shutdown signal
//
// Graceful Shutdown:
//   - Responds to SIGINT (Ctrl+C) and SIGTERM signals
//   - Cancels context to stop in-flight upstream requests
//   - Releases the upstream HTTP session
//   - Returns context.Canceled error on signal-based shutdown
//
// Error Handling:
//   - Configuration errors: Wrapped with "failed to load config" prefix
//   - Server build errors: Wrapped with "failed to build server" prefix
//   - Shutdown errors: Wrapped with "server shutdown" prefix
func Run(version string) error {
	// Set the version for GetVersion
	appVersion = version

	// Load configuration
	config, err := loadConfig(os.Getenv("EUVD_MCP_CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Build the upstream API manager; released on exit
	manager := euvdclient.New(config.ClientConfig())
	defer manager.Close()

	// Create tools (called once and reused)
	tools, toolsWithFinder := createTools()

	// Load server instructions with tool information
	instructions, err := loadInstructions(tools, toolsWithFinder)
	if err != nil {
		return fmt.Errorf("failed to load instructions: %w", err)
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create MCP server using ServerBuilder for better testability
	s, err := NewServerBuilder().
		WithConfig(config).
		WithEmbed(templates.MagicEmbed).
		WithVersion(version).
		WithFinder(manager).
		WithTools(tools...).
		WithToolsWithFinder(toolsWithFinder...).
		WithResources(createResources()...).
		WithPrompts(createPrompts()...).
		WithInstructions(instructions).
		WithPopulate().
		Build()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	// Create stdio server to connect with our context
	stdioServer := server.NewStdioServer(s)

	// Start server with graceful shutdown support
	errChan := make(chan error, 1)
	go func() {
		errChan <- stdioServer.Listen(ctx, os.Stdin, os.Stdout)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		// Graceful shutdown triggered by signal
		return fmt.Errorf("server shutdown: %w", ctx.Err())
	}
}
