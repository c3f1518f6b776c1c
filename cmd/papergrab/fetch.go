package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/esaruoho/papergrab/internal/fetch"
	"github.com/esaruoho/papergrab/internal/library"
	"github.com/esaruoho/papergrab/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "papergrab/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [identifiers...]",
	Short: "Download paper PDFs from DOIs or article page URLs",
	Long: `Fetch resolves paper identifiers (DOIs, doi.org links, or article page
URLs) to PDF files through the mirror list, downloads and validates them,
and writes a metadata record next to each PDF. Existing papers are
skipped.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")
	fetchCmd.Flags().Duration("mirror-timeout", 0, "timeout for a single mirror attempt (default 30s)")
	fetchCmd.Flags().StringSlice("mirror", nil, "mirror base URL, repeatable, in priority order")
	fetchCmd.Flags().String("output-dir", "papers", "directory for PDFs and metadata records")
	fetchCmd.Flags().String("library-dir", "library", "directory for the acquisition index")
	fetchCmd.Flags().Bool("no-library", false, "do not record fetches in the acquisition index")
	fetchCmd.Flags().String("mailto", "", "contact address for CrossRef polite-pool requests")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more paper identifiers (DOIs or article page URLs)")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	mirrorTimeout, _ := cmd.Flags().GetDuration("mirror-timeout")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	libraryDir, _ := cmd.Flags().GetString("library-dir")
	noLibrary, _ := cmd.Flags().GetBool("no-library")
	mailto, _ := cmd.Flags().GetString("mailto")

	httpCfg := types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: defaultUserAgent,
	}
	client := &http.Client{
		Timeout: httpCfg.Timeout,
	}

	p := &fetch.Pipeline{
		Client:  client,
		Extract: extractConfig(httpCfg),
		Mirror:  mirrorConfig(cmd, httpCfg, mirrorTimeout),
		Fetch: types.FetchConfig{
			HTTPConfig:     httpCfg,
			OutputDir:      outputDir,
			DownloadDelay:  delay,
			CrossRefMailto: secretDefault("crossref-mailto", mailto),
		},
	}

	if !noLibrary {
		store, err := library.Open(types.LibraryConfig{LibraryDir: libraryDir})
		if err != nil {
			return err
		}
		defer store.Close()
		p.Library = store
	}

	result := p.FetchBatch(context.Background(), args, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed", result.Failed)
	}
	return nil
}

// extractConfig builds the extraction settings, letting the config file
// replace the built-in ignored-domain list.
func extractConfig(httpCfg types.HTTPConfig) types.ExtractConfig {
	ignored := viper.GetStringSlice("ignored_domains")
	if len(ignored) == 0 {
		ignored = types.DefaultIgnoredDomains
	}
	return types.ExtractConfig{
		HTTPConfig:     httpCfg,
		IgnoredDomains: ignored,
	}
}

// mirrorConfig builds the mirror settings. Priority: --mirror flags, then
// the config file, then the built-in list.
func mirrorConfig(cmd *cobra.Command, httpCfg types.HTTPConfig, mirrorTimeout time.Duration) types.MirrorConfig {
	mirrors, _ := cmd.Flags().GetStringSlice("mirror")
	if len(mirrors) == 0 {
		mirrors = viper.GetStringSlice("mirrors")
	}
	if len(mirrors) == 0 {
		mirrors = types.DefaultMirrors
	}
	return types.MirrorConfig{
		HTTPConfig:    httpCfg,
		Mirrors:       mirrors,
		MirrorTimeout: mirrorTimeout,
	}
}
