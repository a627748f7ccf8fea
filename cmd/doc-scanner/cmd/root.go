package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/doc-scanner/internal/config"
	"github.com/ironsheep/doc-scanner/internal/scanner"
	"github.com/ironsheep/doc-scanner/internal/server"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	cfgFile string
	verbose bool
	loader  *config.Loader
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCommand builds the doc-scanner command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{loader: config.NewLoader()}

	root := &cobra.Command{
		Use:   "doc-scanner",
		Short: "Find documents in photographs and straighten them into pages",
		Long: `doc-scanner locates the outline of a photographed document, corrects the
perspective, and writes an upright page (A4 at 200 ppi, 1654x2339, by default).

Configuration is read from doc-scanner.yaml (in ., $XDG_CONFIG_HOME/doc-scanner
or ~/.config/doc-scanner, and /etc/doc-scanner), DOC_SCANNER_* environment
variables, and flags, in increasing order of precedence.

Examples:
  doc-scanner rectify receipt.jpg
  doc-scanner rectify receipt.jpg page.png --fill-color "#FFFFFF"
  doc-scanner batch scans/ --out-dir pages --workers 4
  doc-scanner detect receipt.jpg
  doc-scanner serve`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is doc-scanner.yaml on the search path)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.Bool("strict", false, "fail on degenerate document corners instead of warping anyway")
	flags.String("fill-color", "#000000", "color for page areas outside the photograph")
	flags.Int("page-width", 0, "output page width in pixels (default 1654)")
	flags.Int("page-height", 0, "output page height in pixels (default 2339)")
	flags.String("suffix", "_rectified", "suffix added to input names for output files")
	flags.String("format", "", "output format (png, jpg, ...); default keeps the input format")

	a.bind(flags.Lookup, map[string]string{
		"log_level":        "log-level",
		"log_format":       "log-format",
		"scan.strict":      "strict",
		"scan.fill_color":  "fill-color",
		"scan.page_width":  "page-width",
		"scan.page_height": "page-height",
		"output.suffix":    "suffix",
		"output.format":    "format",
	})

	root.AddCommand(
		newRectifyCommand(a),
		newBatchCommand(a),
		newDetectCommand(a),
		newServeCommand(a, version),
	)
	return root
}

// Execute runs the command line and reports errors on stderr.
func Execute(version string) error {
	root := NewRootCommand(version)
	err := root.ExecuteContext(context.Background())
	if err != nil {
		root.PrintErrln("Error:", err)
	}
	return err
}

// bind ties flags to configuration keys. Unchanged flags fall back to the
// config file, environment and defaults.
func (a *app) bind(lookup func(string) *pflag.Flag, keys map[string]string) {
	for key, name := range keys {
		if err := a.loader.BindPFlag(key, lookup(name)); err != nil {
			panic(err)
		}
	}
}

// init loads the configuration and installs the logger on stderr.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := a.loader.LoadWithFile(a.cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(cmd.ErrOrStderr())
	slog.SetDefault(a.logger)

	if used := a.loader.GetConfigFileUsed(); used != "" {
		a.logger.Debug("loaded configuration", "file", used)
	}
	return nil
}

// newScanner builds a Scanner from the loaded configuration.
func (a *app) newScanner() (*scanner.Scanner, error) {
	opts, err := a.cfg.ScannerOptions(a.logger)
	if err != nil {
		return nil, err
	}
	return scanner.New(opts), nil
}

// newServer builds the MCP server from the loaded configuration.
func (a *app) newServer() (*server.Server, error) {
	sc, err := a.newScanner()
	if err != nil {
		return nil, err
	}
	return server.New(
		server.WithScanner(sc),
		server.WithLogger(a.logger),
		server.WithOutputSuffix(a.cfg.Output.Suffix),
	), nil
}
