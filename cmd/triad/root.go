package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/triadlabs/triad/pkg/arena/config"
)

var (
	cfgFile string
	verbose bool
	logger  zerolog.Logger
)

// RootCmd is the root command for triad
var RootCmd = &cobra.Command{
	Use:   "triad",
	Short: "triad compares one prompt across multiple LLM backends",
	Long: `triad sends a single prompt to up to three independently-hosted
language-model backends and shows their responses side by side, with
per-model latency, token usage, and failure classification.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.triad.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))

	RootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".triad")
	}

	viper.SetDefault("max_models", 3)
	viper.SetDefault("max_concurrency", 3)
	viper.SetDefault("retry_attempts", 2)
	viper.SetDefault("retry_delay", "1s")

	viper.SetEnvPrefix("TRIAD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// buildConfig assembles the engine configuration from viper
func buildConfig() (config.Config, error) {
	var providers []config.ProviderConfig
	if err := viper.UnmarshalKey("providers", &providers); err != nil {
		return config.Config{}, errors.Wrap(err, "invalid providers configuration")
	}

	cfg := config.New(
		config.WithMaxModels(viper.GetInt("max_models")),
		config.WithMaxConcurrency(viper.GetInt("max_concurrency")),
		config.WithRetry(viper.GetInt("retry_attempts"), viper.GetDuration("retry_delay")),
	)

	if viper.IsSet("tiers") {
		tiers := config.DefaultTiers()
		tiers.Quick = durationOr("tiers.quick", tiers.Quick)
		tiers.Standard = durationOr("tiers.standard", tiers.Standard)
		tiers.Extended = durationOr("tiers.extended", tiers.Extended)
		tiers.Default = durationOr("tiers.default", tiers.Default)
		if viper.IsSet("tiers.quick_threshold") {
			tiers.QuickThreshold = viper.GetInt("tiers.quick_threshold")
		}
		if viper.IsSet("tiers.standard_threshold") {
			tiers.StandardThreshold = viper.GetInt("tiers.standard_threshold")
		}
		cfg = cfg.WithOptions(config.WithTiers(tiers))
	}

	cfg.Providers = providers
	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return fallback
}

// dataDir returns the directory holding the comparison database
func dataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine home directory")
	}
	return filepath.Join(home, ".triad"), nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of triad",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("triad v0.1.0")
	},
}
