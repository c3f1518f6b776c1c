// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/esaruoho/papergrab/internal/extract"
	"github.com/esaruoho/papergrab/internal/library"
	"github.com/esaruoho/papergrab/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect the acquisition index (list, show)",
	Long: `Library reads the local SQLite index of acquired papers. Use list to see
everything fetched so far, or show to print the full record for one DOI.`,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all acquired papers, newest first",
	RunE:  runLibraryList,
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.List()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-32s  %-50s  %-20s  %s\n", "DOI", "Title", "Fetched", "Mirror")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))
	for _, r := range recs {
		title := r.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fetched := ""
		if !r.FetchedAt.IsZero() {
			fetched = r.FetchedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(os.Stdout, "%-32s  %-50s  %-20s  %s\n", r.DOI, title, fetched, r.Mirror)
	}
	fmt.Fprintf(os.Stdout, "\n%d paper(s)\n", len(recs))
	return nil
}

var libraryShowCmd = &cobra.Command{
	Use:   "show [doi]",
	Short: "Print the full record for one DOI",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryShow,
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
	doi := extract.Clean(args[0])

	store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(doi)
	if err != nil {
		return fmt.Errorf("no record for %s", doi)
	}

	out, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func openLibrary(cmd *cobra.Command) (*library.Store, error) {
	libraryDir, _ := cmd.Flags().GetString("library-dir")
	return library.Open(types.LibraryConfig{LibraryDir: libraryDir})
}

func init() {
	libraryCmd.PersistentFlags().String("library-dir", "library", "directory for the acquisition index")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryShowCmd)

	rootCmd.AddCommand(libraryCmd)
}
