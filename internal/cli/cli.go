// Package cli implements the command-line interface for txclean.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"txclean/internal/config"
	"txclean/internal/logging"
	"txclean/pkg/version"
)

var (
	// Global flags
	cfgFile      string
	inputPath    string
	logLevel     string
	applyWorkers int

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "txclean",
		Short: "Batch cleaner for raw retail transaction feeds",
		Long: `txclean turns a raw, inconsistent retail transactions feed into a
canonical record set plus a rejection ledger.

Records pass through identity resolution (sentinel filtering, first-wins
deduplication), per-field normalization (dates, names, countries, product
placeholders, sign correction), and two-pass statistical imputation. Every
excluded record is ledgered with a stage and reason code so input and output
row counts always reconcile.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./txclean.{yaml,json})")
	rootCmd.PersistentFlags().StringVar(&inputPath, "input", "",
		"raw transactions CSV path (overrides source.path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&applyWorkers, "workers", 0,
		"apply-pass workers (overrides runtime.apply_workers)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// CLI flags take precedence over file values.
	if inputPath != "" {
		cfg.Source.Path = inputPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if applyWorkers > 0 {
		cfg.Runtime.ApplyWorkers = applyWorkers
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Pretty: true})
	return nil
}

// lint validates the loaded config, printing findings; it returns an error
// when any finding is severity error.
func lint() error {
	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		return fmt.Errorf("configuration is invalid")
	}
	return nil
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := lint(); err != nil {
			return err
		}
		cmd.Println("configuration is valid")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
