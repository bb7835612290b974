// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"fmt"
	"time"

	euvdclient "github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/client"
	"github.com/H0llyW00dzZ/euvd-mcp/src/logger"
	mcpserver "github.com/H0llyW00dzZ/euvd-mcp/src/mcp-server"
	"github.com/spf13/cobra"
)

var (
	// OperationPerformed indicates that a lookup command ran to completion.
	OperationPerformed bool
	// OperationPerformedSuccessfully indicates the whole CLI invocation
	// finished without error.
	OperationPerformedSuccessfully bool
)

var (
	baseURL     string
	timeoutSecs int
	maxRetries  int
	jsonOutput  bool

	// search flags; pointer semantics are recovered via Changed() so that
	// an unset flag places no constraint on the query.
	fromScore       float64
	toScore         float64
	fromEpss        float64
	toEpss          float64
	fromDate        string
	toDate          string
	fromUpdatedDate string
	toUpdatedDate   string
	product         string
	vendor          string
	assigner        string
	exploited       bool
	searchText      string
	page            int
	pageSize        int
)

var cliLog logger.Logger

// Execute runs the root command, wiring every subcommand to the vulnerability
// database client. It returns the first error encountered so the caller can
// decide the exit code.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	cliLog = log

	rootCmd := &cobra.Command{
		Use:           "euvd-mcp",
		Short:         "European Union Vulnerability Database (EUVD) lookup and MCP server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", euvdclient.DefaultBaseURL, "upstream EUVD service root")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 30, "HTTP timeout per attempt in seconds")
	rootCmd.PersistentFlags().IntVar(&maxRetries, "max-retries", 3, "total attempts per request including the first")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON instead of a table")

	rootCmd.AddCommand(
		newListCommand("last", "Show the latest vulnerabilities",
			func(ctx context.Context, m *euvdclient.Manager) (any, error) {
				list, err := m.LastVulnerabilities(ctx)
				return &list, err
			}),
		newListCommand("exploited", "Show the latest actively exploited vulnerabilities",
			func(ctx context.Context, m *euvdclient.Manager) (any, error) {
				list, err := m.ExploitedVulnerabilities(ctx)
				return &list, err
			}),
		newListCommand("critical", "Show the latest critical-severity vulnerabilities",
			func(ctx context.Context, m *euvdclient.Manager) (any, error) {
				list, err := m.CriticalVulnerabilities(ctx)
				return &list, err
			}),
		newSearchCommand(),
		newGetCommand(),
		newAdvisoryCommand(),
		newServeCommand(version),
	)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		OperationPerformedSuccessfully = true
	}
	return err
}

// clientConfig assembles the client configuration from the persistent flags.
func clientConfig() euvdclient.Config {
	return euvdclient.Config{
		BaseURL:     baseURL,
		Timeout:     time.Duration(timeoutSecs) * time.Second,
		MaxAttempts: maxRetries,
	}
}

// newListCommand builds one of the parameterless listing subcommands. The
// fetch callback returns either a *models.VulnerabilityList or a
// *models.SearchResult; rendering dispatches on the concrete type.
func newListCommand(use, short string, fetch func(context.Context, *euvdclient.Manager) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := euvdclient.New(clientConfig())
			defer manager.Close()

			result, err := fetch(cmd.Context(), manager)
			if err != nil {
				return cliError("fetching vulnerabilities", err)
			}
			OperationPerformed = true
			return renderResult(cmd.OutOrStdout(), result, jsonOutput)
		},
	}
}

// newSearchCommand builds the search subcommand with one flag per filter.
func newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the vulnerability database with optional filters",
		Args:  cobra.NoArgs,
		RunE:  execSearch,
	}

	cmd.Flags().Float64Var(&fromScore, "from-score", 0, "minimum CVSS base score (0-10)")
	cmd.Flags().Float64Var(&toScore, "to-score", 0, "maximum CVSS base score (0-10)")
	cmd.Flags().Float64Var(&fromEpss, "from-epss", 0, "minimum EPSS score (0-1)")
	cmd.Flags().Float64Var(&toEpss, "to-epss", 0, "maximum EPSS score (0-1)")
	cmd.Flags().StringVar(&fromDate, "from-date", "", "published on or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to-date", "", "published on or before (YYYY-MM-DD)")
	cmd.Flags().StringVar(&fromUpdatedDate, "from-updated-date", "", "updated on or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toUpdatedDate, "to-updated-date", "", "updated on or before (YYYY-MM-DD)")
	cmd.Flags().StringVar(&product, "product", "", "filter by product name")
	cmd.Flags().StringVar(&vendor, "vendor", "", "filter by vendor name")
	cmd.Flags().StringVar(&assigner, "assigner", "", "filter by assigning organization")
	cmd.Flags().BoolVar(&exploited, "exploited", false, "filter by known exploitation status")
	cmd.Flags().StringVar(&searchText, "text", "", "free-text search over descriptions")
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&pageSize, "size", 0, "page size (1-100)")

	return cmd
}

// execSearch translates the search flags into a filter set and runs the query.
// Only flags the user actually set become constraints; validation happens in
// the client before any request is sent.
func execSearch(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	filters := euvdclient.SearchFilters{
		FromDate:        fromDate,
		ToDate:          toDate,
		FromUpdatedDate: fromUpdatedDate,
		ToUpdatedDate:   toUpdatedDate,
		Product:         product,
		Vendor:          vendor,
		Assigner:        assigner,
		Text:            searchText,
	}
	if flags.Changed("from-score") {
		filters.FromScore = &fromScore
	}
	if flags.Changed("to-score") {
		filters.ToScore = &toScore
	}
	if flags.Changed("from-epss") {
		filters.FromEpss = &fromEpss
	}
	if flags.Changed("to-epss") {
		filters.ToEpss = &toEpss
	}
	if flags.Changed("exploited") {
		filters.Exploited = &exploited
	}
	if flags.Changed("page") {
		filters.Page = &page
	}
	if flags.Changed("size") {
		filters.Size = &pageSize
	}

	manager := euvdclient.New(clientConfig())
	defer manager.Close()

	result, err := manager.Search(cmd.Context(), filters)
	if err != nil {
		return cliError("searching vulnerabilities", err)
	}
	OperationPerformed = true
	return renderResult(cmd.OutOrStdout(), &result, jsonOutput)
}

// newGetCommand builds the single-record lookup subcommand.
func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get EUVD-ID",
		Short: "Look up a single vulnerability by EUVD identifier (e.g. EUVD-2024-45012)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := euvdclient.New(clientConfig())
			defer manager.Close()

			vuln, err := manager.VulnerabilityByID(cmd.Context(), args[0])
			if err != nil {
				return cliError("looking up vulnerability", err)
			}
			OperationPerformed = true
			return renderVulnerabilityDetail(cmd.OutOrStdout(), &vuln, jsonOutput)
		},
	}
}

// newAdvisoryCommand builds the advisory lookup subcommand.
func newAdvisoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "advisory ID",
		Short: "Look up a single advisory by its identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := euvdclient.New(clientConfig())
			defer manager.Close()

			adv, err := manager.AdvisoryByID(cmd.Context(), args[0])
			if err != nil {
				return cliError("looking up advisory", err)
			}
			OperationPerformed = true
			return renderAdvisoryDetail(cmd.OutOrStdout(), &adv, jsonOutput)
		},
	}
}

// newServeCommand builds the subcommand that starts the MCP stdio server.
// The server owns stdin/stdout for JSON-RPC framing, so all table flags are
// ignored here; diagnostics go to the configured server logger.
func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP stdio server exposing the vulnerability database tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliLog.Println("Starting MCP stdio server...")
			return mcpserver.Run(version)
		},
	}
}

// cliError annotates a client failure with the action and its error kind so
// the shell user sees which stage failed and why.
func cliError(action string, err error) error {
	return fmt.Errorf("%s failed (%s): %w", action, euvdclient.KindOf(err), err)
}
