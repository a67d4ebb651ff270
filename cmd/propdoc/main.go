package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/gnana997/propdoc/pkg/util"
	"github.com/gnana997/propdoc/pkg/workspace"
)

const version = "0.1.0-dev"

// app carries what every command shares: the loaded project config and
// the logger built from it.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	strictParse  bool
	exportPolicy string
	mergePolicy  string
	maxDepth     int

	config *ProjectConfig
	logger *slog.Logger
	stderr io.Writer
}

func newApp(stderr io.Writer) *app {
	return &app{stderr: stderr}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	return newApp(stderr).rootCmd(stdout)
}

func (a *app) rootCmd(stdout io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "propdoc",
		Short: "propdoc - prop documentation for UI component libraries",
		Long: `propdoc - prop documentation for UI component libraries.

propdoc reads TypeScript and JavaScript component sources, follows imported
and spread prop types across files, and reports each component's props with
their types, requiredness and descriptions.

Examples:
  propdoc doc src/Button.tsx         # Document the components of one file
  propdoc scan src                   # Write a catalog for a whole library
  propdoc inspect Button             # Show a component from the catalog
  propdoc serve                      # Start the MCP server on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(a.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", defaultConfigPath, "project config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (text, json)")
	flags.BoolVar(&a.strictParse, "strict-parse", false, "fail when an imported file does not parse")
	flags.StringVar(&a.exportPolicy, "export-policy", "", "export policy (conservative, strict)")
	flags.StringVar(&a.mergePolicy, "merge-policy", "", "merge policy (local-wins, imported-wins)")
	flags.IntVar(&a.maxDepth, "max-depth", 0, "maximum import chain depth")

	rootCmd.AddCommand(
		newDocCmd(a),
		newValueCmd(a),
		newScanCmd(a),
		newInspectCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// init loads the project config and applies the flags that were set on
// top of it.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := loadProjectConfig(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if flags.Changed("strict-parse") {
		cfg.StrictParse = a.strictParse
	}
	if flags.Changed("export-policy") {
		cfg.ExportPolicy = a.exportPolicy
	}
	if flags.Changed("merge-policy") {
		cfg.MergePolicy = a.mergePolicy
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = a.maxDepth
	}
	a.config = cfg

	logCfg := cfg.loggerConfig()
	logCfg.Output = a.stderr
	a.logger = util.NewLogger(logCfg)
	return nil
}

// openWorkspace builds a workspace from the project config. Callers close it.
func (a *app) openWorkspace() (*workspace.Workspace, error) {
	cfg, err := a.config.workspaceConfig()
	if err != nil {
		return nil, errors.WithHint(err, "check "+a.configPath)
	}
	cfg.FileCache.Logger = a.logger
	return workspace.New(cfg, a.logger), nil
}

func (a *app) closeWorkspace(ws *workspace.Workspace) {
	if err := ws.Close(); err != nil {
		a.logger.Warn("Failed to close workspace", "error", err)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "propdoc %s\n", version)
		},
	}
}

// printError writes err and any hints attached to it.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
