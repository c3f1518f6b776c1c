// Package fetch downloads a resolved PDF, validates its content, and
// persists it to disk.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/esaruoho/papergrab/pkg/types"
)

// pdfMagic is the canonical file signature a payload must start with.
var pdfMagic = []byte("%PDF-")

// Filename derives a filesystem-safe name from a DOI: the path separator
// becomes an underscore, characters outside the allowed set are stripped,
// and the standard extension is appended. The transform is idempotent.
func Filename(doi string) string {
	name := strings.ReplaceAll(doi, "/", "_")
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, name)
	if !strings.HasSuffix(name, ".pdf") {
		name += ".pdf"
	}
	return name
}

// SavePDF fetches the resolved address, validates the declared content type
// and the payload signature, and writes the file into cfg.OutputDir. It
// returns the written path. On any validation failure no file is written.
func SavePDF(ctx context.Context, client *http.Client, pdfURL, doi string, cfg types.FetchConfig, w io.Writer) (string, error) {
	// Preliminary metadata-only check. Some servers misreport here, so a
	// disagreement only produces a diagnostic, never an abort.
	preflight(ctx, client, pdfURL, cfg, w)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, pdfURL)
	}

	ct := resp.Header.Get("Content-Type")
	if !acceptedContentType(ct) {
		return "", fmt.Errorf("wrong content type %q from %s", ct, pdfURL)
	}

	prefix := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(resp.Body, prefix); err != nil {
		return "", fmt.Errorf("invalid content: payload shorter than the %q signature", pdfMagic)
	}
	if !bytes.Equal(prefix, pdfMagic) {
		return "", fmt.Errorf("invalid content: payload does not start with %q", pdfMagic)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	destPath := filepath.Join(cfg.OutputDir, Filename(doi))
	if err := writeAtomic(destPath, prefix, resp.Body); err != nil {
		return "", err
	}
	return destPath, nil
}

// preflight issues a HEAD request and logs a diagnostic when the declared
// content type disagrees with what is expected.
func preflight(ctx context.Context, client *http.Client, pdfURL string, cfg types.FetchConfig, w io.Writer) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, pdfURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !acceptedContentType(ct) {
		fmt.Fprintf(w, "  note: preliminary check reports content type %q for %s\n", ct, pdfURL)
	}
}

// acceptedContentType allows the target file type and the generic binary
// type some servers declare instead.
func acceptedContentType(ct string) bool {
	lower := strings.ToLower(ct)
	return strings.Contains(lower, "pdf") || strings.Contains(lower, "octet-stream")
}

// writeAtomic writes prefix then the remaining body to a temporary file and
// renames it into place, so a failed download leaves nothing behind.
func writeAtomic(destPath string, prefix []byte, body io.Reader) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".papergrab-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(prefix)
	if writeErr == nil {
		_, writeErr = io.Copy(tmpFile, body)
	}
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
