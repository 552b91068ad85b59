// Package cmd implements the CLI commands for termscan using Cobra.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/termscan/config"
)

var (
	cfgFile string
	verbose bool

	// cfg is the effective configuration, loaded before every command runs.
	cfg config.Config
)

// flagKeys maps command flags onto configuration keys. Only flags the
// running command actually defines are bound.
var flagKeys = map[string]string{
	"log-format":     "log.format",
	"title":          "report.title",
	"name":           "report.name",
	"output_dir":     "report.output_dir",
	"timeout":        "fetch.timeout",
	"respect-robots": "fetch.respect_robots",
	"addr":           "server.addr",
	"store":          "store.backend",
}

var rootCmd = &cobra.Command{
	Use:   "termscan",
	Short: "termscan - find the rights and terms of use on a web page",
	Long: `termscan fetches a web page, splits its text into sentences, picks out
the sentences that talk about rights and terms of use, and renders them as
a short PDF report.

Usage:
  termscan report <url>
  termscan analyze <url> --out sections.json
  termscan render --in sections.json --format pdf
  termscan serve --addr :8080`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.termscan/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".termscan"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig binds the running command's flags over the file and env
// layers, decodes the result and configures logging.
func loadConfig(cmd *cobra.Command, _ []string) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}

	loaded, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = loaded
	return setupLogging(cfg.Log)
}

func setupLogging(lc config.LogConfig) error {
	zerolog.TimeFieldFormat = time.RFC3339
	if lc.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return nil
}
