// Package main implements vibemcp, an MCP server that exposes the vibe-tools
// CLI as a set of tools over stdio.
//
// Usage:
//
//	vibemcp                      # serve MCP on stdin/stdout
//	vibemcp serve -c vibemcp.yaml
//	vibemcp tools                # list registered tools
//	vibemcp describe browser_automation
//	vibemcp render github '{"subcommand":"pr","number":42,"directory":"/repo"}'
//	vibemcp call ask '{"query":"What is 2+2?"}'
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vibemcp/internal/config"
	"vibemcp/internal/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool
	workspace  string
	timeout    time.Duration

	// Set by PersistentPreRunE
	cfg      *config.Config
	logger   *zap.Logger
	logLevel zap.AtomicLevel
)

var rootCmd = &cobra.Command{
	Use:   "vibemcp",
	Short: "vibemcp - MCP server for the vibe-tools CLI",
	Long: `vibemcp exposes vibe-tools (repo, ask, plan, doc, github, web search,
YouTube analysis, browser automation and MCP management) as MCP tools.

Each tool call runs one vibe-tools process in the requested project
directory and returns its stdout and stderr. stdout of this process carries
the MCP protocol; all logging goes to stderr.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd, loaded)
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded

		logger, logLevel, err = logging.New(logging.Options{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			File:    cfg.Logging.File,
			Verbose: verbose,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync() // Best effort; stderr sync fails on some platforms
		}
	},
	RunE: runServe,
}

// applyFlags lets command-line flags win over file and environment settings.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	if workspace != "" {
		c.Execution.WorkingDirectory = workspace
	}
	if cmd.Flags().Changed("timeout") {
		c.Execution.DefaultTimeout = timeout.String()
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the vibemcp version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vibemcp %s (server %s %s)\n", version, cfg.Server.Name, cfg.Server.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML, or TOML by .toml extension)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Default working directory for tool processes")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", config.DefaultTimeout, "Per-call timeout for vibe-tools processes")

	rootCmd.AddCommand(
		serveCmd,
		toolsCmd,
		describeCmd,
		renderCmd,
		callCmd,
		versionCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
