// Package cli wires the distillation pipelines to cobra subcommands.
// Every fatal condition prints one clear message and a non-zero exit;
// stack traces would defeat the point of a noise-reduction tool.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"xcdistill/src/config"
	"xcdistill/src/model"
	"xcdistill/src/util"
)

// Handler handles CLI commands
type Handler struct {
	cfg        *config.Config
	configPath string
	rootCmd    *cobra.Command
}

// New creates a new CLI handler
func New() *Handler {
	h := &Handler{}
	h.setupCommands()
	return h
}

func (h *Handler) setupCommands() {
	h.rootCmd = &cobra.Command{
		Use:   "xcdistill",
		Short: "Build-output distillation pipeline",
		Long: "Distills verbose build, test, and sanitizer output into compact,\n" +
			"actionable reports sized for an automated remediation agent.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return h.loadConfig()
		},
	}

	h.rootCmd.PersistentFlags().StringVarP(&h.configPath, "config", "c", "",
		"Path to configuration file")

	h.rootCmd.AddCommand(h.discoverCmd())
	h.rootCmd.AddCommand(h.compileCmd())
	h.rootCmd.AddCommand(h.testCmd())
	h.rootCmd.AddCommand(h.tsanCmd())
	h.rootCmd.AddCommand(h.lintCmd())
	h.rootCmd.AddCommand(h.rulesCmd())
	h.rootCmd.AddCommand(h.versionCmd())
}

func (h *Handler) loadConfig() error {
	loader := config.NewLoader()
	cfg, err := loader.Load(h.configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	h.cfg = cfg

	util.SetDefaultLogger(cfg.Logging)
	util.Debug("Configuration loaded (log level: %s)", cfg.Logging.Level)

	return nil
}

// Execute runs the CLI
func (h *Handler) Execute() error {
	return h.rootCmd.Execute()
}

// Run is the main entry point. A policy violation exits non-zero after its
// report has already been printed; other errors print one message first.
func Run() {
	handler := New()
	if err := handler.Execute(); err != nil {
		var policyErr *model.PolicyError
		if !errors.As(err, &policyErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// readInput reads a named file, or stdin when path is empty. hint is
// printed when stdin is an interactive terminal, since these commands
// expect piped toolchain output.
func readInput(path, hint string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading input file: %w", err)
		}
		return string(data), nil
	}

	if info, err := os.Stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
		return "", errors.New(hint)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
