// Package main provides the studtrack CLI entry point.
// studtrack is the command-line interface for the StudTrack meeting
// analytics engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/studtrack/studtrack-cli/cmd"
	"github.com/studtrack/studtrack-cli/config"
	"github.com/studtrack/studtrack-cli/pkg/buildinfo"
	"github.com/studtrack/studtrack-cli/pkg/logging"
	"github.com/studtrack/studtrack-cli/pkg/metrics"
)

// Global flags and state.
var (
	cfgFile     string
	debug       bool
	logJSON     bool
	skipInvalid bool
	showMetrics bool

	// deps is shared by every analysis command and populated in
	// PersistentPreRunE once flags are parsed.
	deps = cmd.DefaultDeps()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "studtrack",
	Short: "StudTrack CLI - Meeting analytics engine",
	Long: `studtrack analyzes structured meeting records.

It ingests a JSON or YAML document of online and offline meetings, computes
per-participant engagement metrics, detects spam-like chat behavior, and
generates text reports.

COMMON WORKFLOWS:
  Full report:     studtrack report meetings.json
  Quick overview:  studtrack summary meetings.json
  Chat patterns:   studtrack chat meetings.json
  Activities:      studtrack activity meetings.json
  Raw aggregates:  studtrack views meetings.json -o json

DISCOVERY:
  studtrack <command> --help   Flags and examples for any command
  studtrack version            Build information`,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		// Skip initialization for commands that don't need it.
		if c.Name() == "version" || c.Name() == "help" || c.Name() == "completion" {
			return nil
		}

		var (
			cfg *config.CLIConfig
			err error
		)
		if cfgFile != "" {
			cfg, err = config.LoadConfigFromPath(cfgFile)
		} else {
			cfg, err = config.LoadConfig()
		}
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		// Override with command-line flags.
		if debug {
			cfg.Debug = true
		}
		if logJSON {
			cfg.LogJSON = true
		}
		if skipInvalid {
			cfg.SkipInvalid = true
		}

		level := logging.LevelInfo
		if cfg.Debug {
			level = logging.LevelDebug
		}
		deps.Config = cfg
		deps.Logger = logging.NewLogger(&logging.Config{
			Level:       level,
			ServiceName: "studtrack",
			JSONFormat:  cfg.LogJSON,
			NoColor:     !term.IsTerminal(int(os.Stderr.Fd())),
		})
		deps.Metrics = metrics.NewPipeline()

		return nil
	},
	PersistentPostRunE: func(c *cobra.Command, args []string) error {
		if showMetrics && deps.Metrics != nil {
			fmt.Fprintln(os.Stderr, "--- pipeline metrics ---")
			return deps.Metrics.Dump(os.Stderr)
		}
		return nil
	},
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the version, commit hash, and build time of the studtrack CLI.

Examples:
  studtrack version`,
	RunE: func(c *cobra.Command, args []string) error {
		info := buildinfo.Get()
		out := c.OutOrStdout()
		fmt.Fprintf(out, "studtrack version %s\n", info.Version)
		fmt.Fprintf(out, "  commit:     %s\n", info.Commit)
		fmt.Fprintf(out, "  built:      %s\n", info.BuildTime)
		fmt.Fprintf(out, "  go version: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.studtrack/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&skipInvalid, "skip-invalid", false, "skip malformed meetings instead of aborting the batch")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "show-metrics", false, "dump pipeline counters after the run")

	rootCmd.AddCommand(cmd.NewReportCommand(deps))
	rootCmd.AddCommand(cmd.NewSummaryCommand(deps))
	rootCmd.AddCommand(cmd.NewChatCommand(deps))
	rootCmd.AddCommand(cmd.NewActivityCommand(deps))
	rootCmd.AddCommand(cmd.NewViewsCommand(deps))
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
