// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the papergrab CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/esaruoho/papergrab/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds key files loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the papergrab CLI.
var rootCmd = &cobra.Command{
	Use:   "papergrab",
	Short: "Fetch scholarly PDFs by DOI or article page URL",
	Long: `papergrab turns paper identifiers into PDFs on disk. Give it a DOI, a
doi.org link, or an article page URL; it extracts the DOI when needed,
resolves it through a configurable mirror list, validates the download,
and records what it fetched in a local library.

Each stage is also exposed as its own subcommand: extract finds a DOI
on a page, resolve maps a DOI to a PDF URL, fetch runs the whole
pipeline, and library inspects past acquisitions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./papergrab.yaml or ~/.config/papergrab/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("papergrab")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "papergrab"))
		}
	}

	viper.SetEnvPrefix("PAPERGRAB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
