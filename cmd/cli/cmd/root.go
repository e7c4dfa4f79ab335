// Package cmd provides the CLI commands for cloudcart.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cloudcart/internal/app"
	"cloudcart/internal/config"
	"cloudcart/internal/logging"
)

var (
	cfgFile   string
	envFile   string
	ratesFile string
	verbose   bool
	noColor   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cloudcart",
	Short: "Estimate AWS costs for an architecture cart",
	Long: `cloudcart prices a cart of AWS services (EC2, S3, RDS, data transfer)
against a static rate table and, with a Gemini API key, asks a language
model to explain and optimize the result.

Examples:
  cloudcart estimate architecture.yaml
  cloudcart estimate --format markdown --hidden architecture.hcl
  cloudcart advise optimize architecture.json
  cloudcart serve`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cloudcart/config.json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load before reading config")
	rootCmd.PersistentFlags().StringVar(&ratesFile, "rates", "", "rate table JSON overriding the embedded one")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
}

func initConfig(cmd *cobra.Command, _ []string) error {
	config.LoadDotEnv(envFile)

	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if ratesFile != "" {
		cfg.Pricing.RateTablePath = ratesFile
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	return nil
}

// buildApp constructs the engine and advisor from the active config
func buildApp() (*app.App, error) {
	return app.New(config.Get())
}

// colorEnabled reports whether w is a terminal that should get ANSI colors
func colorEnabled(w io.Writer) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cloudcart version %s (pricing snapshot %s)\n", app.Version, a.Rates.Snapshot())
		return nil
	},
}
