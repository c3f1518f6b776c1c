package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/esaruoho/papergrab/internal/extract"
	"github.com/esaruoho/papergrab/internal/fetch"
	"github.com/esaruoho/papergrab/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [url-or-file]",
	Short: "Extract a DOI from an article page",
	Long: `Extract finds the DOI on an article page and prints it. The argument is
either a page URL, which is downloaded first, or a path to a saved HTML
file. For saved files, --page-url supplies the address the page came
from so URL-based extraction and the ignored-domain check still apply.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	extractCmd.Flags().String("page-url", "", "original page URL when extracting from a saved HTML file")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	pageURL, _ := cmd.Flags().GetString("page-url")

	httpCfg := types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: defaultUserAgent,
	}
	cfg := extractConfig(httpCfg)

	target := args[0]

	var doi string
	if isHTTPURL(target) {
		p := &fetch.Pipeline{
			Client:  &http.Client{Timeout: httpCfg.Timeout},
			Extract: cfg,
		}
		var err error
		doi, err = p.ExtractFromPage(context.Background(), target)
		if err != nil {
			return err
		}
	} else {
		html, err := os.ReadFile(target)
		if err != nil {
			return fmt.Errorf("reading page file: %w", err)
		}
		doi = extract.FromPage(pageURL, string(html), cfg)
		if doi == "" {
			return fmt.Errorf("no DOI found in %s", target)
		}
	}

	fmt.Println(doi)
	return nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
