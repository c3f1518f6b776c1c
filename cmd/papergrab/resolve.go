package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/esaruoho/papergrab/internal/extract"
	"github.com/esaruoho/papergrab/internal/mirror"
	"github.com/esaruoho/papergrab/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [doi]",
	Short: "Resolve a DOI to a PDF URL through the mirror list",
	Long: `Resolve queries each mirror in priority order until one serves a PDF or
a page that references one, then prints the PDF URL. Nothing is
downloaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	resolveCmd.Flags().Duration("mirror-timeout", 0, "timeout for a single mirror attempt (default 30s)")
	resolveCmd.Flags().StringSlice("mirror", nil, "mirror base URL, repeatable, in priority order")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	doi := extract.Clean(args[0])
	if !extract.IsDOI(doi) {
		return fmt.Errorf("not a DOI: %q", args[0])
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	mirrorTimeout, _ := cmd.Flags().GetDuration("mirror-timeout")

	httpCfg := types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: defaultUserAgent,
	}
	client := &http.Client{Timeout: httpCfg.Timeout}

	res, err := mirror.Resolve(context.Background(), client, doi, mirrorConfig(cmd, httpCfg, mirrorTimeout), os.Stderr)
	if err != nil {
		return err
	}

	fmt.Println(res.PDFURL)
	return nil
}
