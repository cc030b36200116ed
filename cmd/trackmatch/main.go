// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the trackmatch CLI, which resolves
// playlist tracks against an external catalog with auditable precision
// guarantees.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trackmatch/internal/secrets"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the trackmatch CLI.
var rootCmd = &cobra.Command{
	Use:   "trackmatch",
	Short: "Resolve playlist tracks against an external music catalog",
	Long: `trackmatch resolves locally-known tracks (title, artists, optional remix
label) against an external catalog. For each track it plans a sequence of
search queries, retrieves candidates through escalating strategies, scores
them, applies hard precision guards, and emits an auditable disposition:
matched, flagged for review, or unmatched.

Every query, candidate, and decision is recorded so a run can be reproduced
and any disposition diagnosed after the fact.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./trackmatch.yaml or ~/.config/trackmatch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("trackmatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "trackmatch"))
		}
	}

	viper.SetEnvPrefix("TRACKMATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges the config file over the documented defaults and
// validates the result. A validation error is fatal before any track is
// processed.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	// Config structs are tagged for YAML, so point the decoder at those
	// tags and squash the inlined HTTP settings.
	decodeYAMLTags := func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
		dc.Squash = true
	}
	if err := viper.Unmarshal(&cfg, decodeYAMLTags); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
