// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"

	euvdclient "github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/client"
	"github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/models"
	"github.com/H0llyW00dzZ/euvd-mcp/src/mcp-server/templates"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerConfig holds configuration for the [MCP] server, including version, config, and embedded filesystem.
// It is used to initialize the server with necessary dependencies and settings.
//
// Fields:
//   - Version: The server version string (e.g., "1.0.0")
//   - Config: Pointer to the server configuration containing upstream API settings
//   - Embed: Embedded filesystem for static resources like templates and documentation
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerConfig struct {
	Version string
	Config  *Config
	Embed   templates.EmbedFS
}

// VulnerabilityFinder defines the interface for EUVD lookup operations.
// It is the seam between the MCP tool handlers and the API access layer,
// satisfied by [euvdclient.Manager] and by test doubles.
//
// Methods:
//   - LastVulnerabilities: Latest published vulnerabilities
//   - ExploitedVulnerabilities: Latest actively exploited vulnerabilities
//   - CriticalVulnerabilities: Latest vulnerabilities above the upstream critical threshold
//   - Search: Filtered search over the whole database
//   - VulnerabilityByID: Single record lookup by EUVD identifier
//   - AdvisoryByID: Single advisory lookup by identifier
//   - Close: Releases the underlying HTTP session
//
// Example usage:
//
//	list, err := finder.LastVulnerabilities(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, id := range list.IDs() { ... }
type VulnerabilityFinder interface {
	LastVulnerabilities(ctx context.Context) (models.VulnerabilityList, error)
	ExploitedVulnerabilities(ctx context.Context) (models.VulnerabilityList, error)
	CriticalVulnerabilities(ctx context.Context) (models.VulnerabilityList, error)
	Search(ctx context.Context, filters euvdclient.SearchFilters) (models.SearchResult, error)
	VulnerabilityByID(ctx context.Context, id string) (models.Vulnerability, error)
	AdvisoryByID(ctx context.Context, id string) (models.Advisory, error)
	Close()
}

// Manager must keep satisfying the finder seam.
var _ VulnerabilityFinder = (*euvdclient.Manager)(nil)

// ToolHandler defines the signature for tool handlers that matches [MCP] server expectations.
// It processes tool calls and returns results.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP tool call request containing arguments and metadata
//
// Returns:
//   - The tool execution result or an error if the tool failed
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ToolHandlerWithFinder defines tool handlers that require access to the EUVD API layer.
// It extends ToolHandler with a VulnerabilityFinder parameter for tools that query upstream.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP tool call request containing arguments and metadata
//   - finder: The EUVD lookup interface backing the tool
//
// Returns:
//   - The tool execution result or an error if the tool failed
//
// This type is used for every tool that talks to the vulnerability database.
type ToolHandlerWithFinder func(ctx context.Context, request mcp.CallToolRequest, finder VulnerabilityFinder) (*mcp.CallToolResult, error)

// ResourceHandler defines the signature for resource handlers that provide static or dynamic resources.
// It processes resource read requests and returns the resource contents.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP resource read request containing the resource URI
//
// Returns:
//   - A slice of resource contents or an error if the resource cannot be read
//
// Resource handlers can return multiple content items for complex resources.
type ResourceHandler = func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error)

// PromptHandler defines the signature for prompt handlers that provide predefined prompts.
// It processes prompt requests and returns prompt content with optional arguments.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP prompt request containing the prompt name and arguments
//
// Returns:
//   - The prompt result containing messages and description, or an error if the prompt is not found
//
// Prompt handlers are used for guided workflows like vulnerability triage or vendor exposure reports.
type PromptHandler = func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error)

// ToolDefinition holds a tool definition and its handler.
// It pairs an MCP tool specification with its implementation function.
//
// Fields:
//   - Tool: The MCP tool definition containing name, description, and input schema
//   - Handler: The function that implements the tool's logic
//   - Role: Short label describing the tool's responsibility, used in the rendered instructions
//
// This struct is used when registering tools that don't need the EUVD API layer.
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler ToolHandler
	Role    string
}

// ToolDefinitionWithFinder holds a tool definition that requires EUVD API access.
// It pairs an MCP tool specification with a handler that receives the VulnerabilityFinder.
//
// Fields:
//   - Tool: The MCP tool definition containing name, description, and input schema
//   - Handler: The function that implements the tool's logic with finder access
//   - Role: Short label describing the tool's responsibility, used in the rendered instructions
//
// The handler receives the finder in addition to the standard context and request.
type ToolDefinitionWithFinder struct {
	Tool    mcp.Tool
	Handler ToolHandlerWithFinder
	Role    string
}

// ServerDependencies holds all dependencies needed to create the MCP server.
// It consolidates all required components for server initialization using the builder pattern.
//
// Fields:
//   - Config: Server configuration containing upstream API settings
//   - Embed: Embedded filesystem for static resources and templates
//   - Version: Server version string for identification
//   - Finder: The EUVD lookup interface backing the query tools
//   - Tools: List of tool definitions without finder requirements
//   - ToolsWithFinder: List of tool definitions that query the vulnerability database
//   - Resources: List of static and dynamic resources provided by the server
//   - Prompts: List of predefined prompts for guided workflows
//   - Instructions: Server instructions rendered for connecting clients
//
// This struct is used internally by ServerBuilder and should not be instantiated directly.
type ServerDependencies struct {
	Config          *Config
	Embed           templates.EmbedFS
	Version         string
	Finder          VulnerabilityFinder
	Tools           []ToolDefinition
	ToolsWithFinder []ToolDefinitionWithFinder
	Resources       []server.ServerResource
	Prompts         []server.ServerPrompt
	Instructions    string
	Populate        bool
}

// ServerBuilder helps construct the [MCP] server with proper dependencies using a fluent interface.
// It implements the builder pattern to configure and create MCP servers with all required components.
//
// The builder allows chaining configuration methods and provides default implementations
// for common dependencies. Use NewServerBuilder() to create an instance, chain configuration
// methods, and call Build() to create the server.
//
// Example:
//
//	builder := NewServerBuilder().
//	    WithConfig(config).
//	    WithVersion("1.0.0").
//	    WithFinder(manager).
//	    WithDefaultTools()
//	server, err := builder.Build()
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerBuilder struct{ deps ServerDependencies }

// NewServerBuilder creates a new server builder with default empty dependencies.
// It initializes a ServerBuilder instance that can be configured using the fluent interface methods.
//
// Returns:
//   - A pointer to a new ServerBuilder instance ready for configuration
//
// The returned builder has no dependencies configured and should be chained with
// configuration methods before calling Build().
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithConfig sets the server configuration containing upstream API settings.
//
// Parameters:
//   - config: Pointer to the server configuration (can be nil for defaults)
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithConfig(config *Config) *ServerBuilder {
	b.deps.Config = config
	return b
}

// WithEmbed sets the embedded filesystem for static resources and templates.
// It configures the server with an embedded filesystem containing templates and documentation.
//
// Parameters:
//   - embed: The embedded filesystem (typically templates.MagicEmbed)
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// The embedded filesystem is used to serve static resources like the EUVD API
// documentation and instruction templates. If not set, some resources may not be available.
func (b *ServerBuilder) WithEmbed(embed templates.EmbedFS) *ServerBuilder {
	b.deps.Embed = embed
	return b
}

// WithVersion sets the server version string used for identification.
//
// Parameters:
//   - version: The server version string (e.g., "1.0.0" or "v1.2.3")
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithFinder sets the EUVD lookup interface backing the query tools.
//
// Parameters:
//   - finder: The VulnerabilityFinder implementation (typically a *euvdclient.Manager)
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// The finder must be set before Build() when any tools-with-finder are registered;
// Build() fails otherwise. The caller keeps ownership and is responsible for Close().
func (b *ServerBuilder) WithFinder(finder VulnerabilityFinder) *ServerBuilder {
	b.deps.Finder = finder
	return b
}

// WithTools adds tool definitions to the server that don't require EUVD API access.
// It registers multiple tools that can be called by MCP clients.
//
// Parameters:
//   - tools: Variable number of ToolDefinition structs containing tool specs and handlers
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// Tools added with this method do not receive the VulnerabilityFinder parameter.
// Use WithToolsWithFinder for tools that query the vulnerability database.
func (b *ServerBuilder) WithTools(tools ...ToolDefinition) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithToolsWithFinder adds tool definitions that query the vulnerability database.
// It registers multiple tools whose handlers receive the VulnerabilityFinder.
//
// Parameters:
//   - tools: Variable number of ToolDefinitionWithFinder structs containing tool specs and handlers
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// Use WithTools for tools that don't need EUVD API access.
func (b *ServerBuilder) WithToolsWithFinder(tools ...ToolDefinitionWithFinder) *ServerBuilder {
	b.deps.ToolsWithFinder = append(b.deps.ToolsWithFinder, tools...)
	return b
}

// WithResources adds static and dynamic resources to the MCP server.
// It registers resources that can be read by MCP clients using resource URIs.
//
// Parameters:
//   - resources: Variable number of server.ServerResource structs containing resource specs and handlers
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// Resources can provide static content (like documentation) or dynamic content
// (like server status). Clients access resources using URIs like "info://version".
func (b *ServerBuilder) WithResources(resources ...server.ServerResource) *ServerBuilder {
	b.deps.Resources = append(b.deps.Resources, resources...)
	return b
}

// WithPrompts adds predefined prompts to the MCP server for guided workflows.
// It registers prompts that provide structured interactions for common tasks.
//
// Parameters:
//   - prompts: Variable number of server.ServerPrompt structs containing prompt specs and handlers
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// Prompts are used for workflows like vulnerability triage or vendor exposure reports,
// providing clients with predefined conversation starters and argument schemas.
func (b *ServerBuilder) WithPrompts(prompts ...server.ServerPrompt) *ServerBuilder {
	b.deps.Prompts = append(b.deps.Prompts, prompts...)
	return b
}

// WithInstructions sets the server instructions surfaced to connecting clients.
//
// Parameters:
//   - instructions: Rendered instruction text (typically from loadInstructions)
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithInstructions(instructions string) *ServerBuilder {
	b.deps.Instructions = instructions
	return b
}

// WithPopulate enables metadata cache population during Build().
// The cache backs the info://version and status://server-status resources,
// which report the registered tools, resources, and prompts.
//
// Returns:
//   - The ServerBuilder instance for method chaining
func (b *ServerBuilder) WithPopulate() *ServerBuilder {
	b.deps.Populate = true
	return b
}

// WithDefaultTools adds the default EUVD query tools to the server.
// It automatically registers all standard vulnerability tools using createTools.
//
// Returns:
//   - The ServerBuilder instance for method chaining
//
// This includes tools for latest/exploited/critical listings, filtered search,
// single-record lookups, and server resource usage. The tools are added to both
// the regular tools list and tools-with-finder list as appropriate.
func (b *ServerBuilder) WithDefaultTools() *ServerBuilder {
	tools, toolsWithFinder := createTools()
	b.deps.Tools = append(b.deps.Tools, tools...)
	b.deps.ToolsWithFinder = append(b.deps.ToolsWithFinder, toolsWithFinder...)
	return b
}

// Build creates the [MCP] server with all configured dependencies.
// It validates the configuration and constructs a fully configured MCP server instance.
//
// Returns:
//   - A pointer to the configured MCPServer instance
//   - An error if the configuration is invalid or server creation fails
//
// The method registers all tools, resources, and prompts, and returns a ready-to-use
// server. The server will handle MCP protocol communication and route requests to the
// appropriate handlers.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	if len(b.deps.ToolsWithFinder) > 0 && b.deps.Finder == nil {
		return nil, fmt.Errorf("server builder: %d tools need a finder but none was configured", len(b.deps.ToolsWithFinder))
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
	}
	if b.deps.Instructions != "" {
		opts = append(opts, server.WithInstructions(b.deps.Instructions))
	}

	s := server.NewMCPServer(
		"EUVD Vulnerability Database",
		b.deps.Version,
		opts...,
	)

	// Populate the metadata cache backing the capability resources
	if b.deps.Populate {
		serverCache := getServerCache()
		populateToolMetadataCache(serverCache, b.deps.Tools, b.deps.ToolsWithFinder)
		populatePromptMetadataCache(serverCache, b.deps.Prompts)
		populateResourceMetadataCache(serverCache, b.deps.Resources)
	}

	// Add tools
	for _, tool := range b.deps.Tools {
		s.AddTool(tool.Tool, tool.Handler)
	}

	// Add tools that need the finder (wrap the handler)
	for _, tool := range b.deps.ToolsWithFinder {
		handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return tool.Handler(ctx, request, b.deps.Finder)
		}
		s.AddTool(tool.Tool, handler)
	}

	// Add resources
	for _, resource := range b.deps.Resources {
		s.AddResource(resource.Resource, resource.Handler)
	}

	// Add prompts
	for _, prompt := range b.deps.Prompts {
		s.AddPrompt(prompt.Prompt, prompt.Handler)
	}

	return s, nil
}
