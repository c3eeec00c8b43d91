// Package cmd provides the CLI commands for zeroindex.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zero-assistant/zeroindex/internal/config"
	"github.com/zero-assistant/zeroindex/internal/logging"
	"github.com/zero-assistant/zeroindex/pkg/version"
)

// Shared command state, populated by the persistent pre-run.
var (
	cfg            *config.Config
	cfgPath        string
	debugMode      bool
	jsonOutput     bool
	noColor        bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the zeroindex CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zeroindex",
		Short: "Local document index with BM25 retrieval",
		Long: `ZeroIndex ingests documents (PDF, Word, PowerPoint, spreadsheets,
plain text, and images via OCR) into per-namespace indexes and answers
keyword queries ranked with BM25.

Indexes live on local disk; nothing leaves the machine except the
optional vision OCR fallback.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("zeroindex version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultFileName,
		"Path to the config file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false,
		"Enable debug logging")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Emit machine-readable JSON output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")

	cmd.PersistentPreRunE = setup
	cmd.PersistentPostRun = teardown

	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads .env, the config file, and logging before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	// A missing .env is fine; it only supplies API keys for vision OCR.
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return err
	}

	logCfg := logging.Config{
		Level:         cfg.Logging.Level,
		FilePath:      cfg.Logging.File,
		WriteToStderr: cfg.Logging.File == "",
	}
	if debugMode {
		logCfg.Level = "debug"
		logCfg.WriteToStderr = true
	}

	loggingCleanup, err = logging.SetupDefault(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// addNamespaceFlag registers --namespace with --user as an alias; the
// original tool namespaced indexes per user and scripts still pass it.
func addNamespaceFlag(cmd *cobra.Command, namespace *string, usage string) {
	cmd.Flags().StringVarP(namespace, "namespace", "n", "default", usage)
	cmd.Flags().StringVar(namespace, "user", "default", usage)
	_ = cmd.Flags().MarkHidden("user")
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// logErr logs a command failure before it propagates to cobra.
func logErr(err error, msg string, args ...any) error {
	slog.Error(msg, append(args, "error", err)...)
	return err
}
