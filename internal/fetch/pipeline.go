// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/esaruoho/papergrab/internal/extract"
	"github.com/esaruoho/papergrab/internal/library"
	"github.com/esaruoho/papergrab/internal/mirror"
	"github.com/esaruoho/papergrab/pkg/types"
)

// maxPageBytes bounds how much of an article page is read when extracting
// a DOI from it.
const maxPageBytes = 5 << 20

// Pipeline bundles the collaborators for end-to-end acquisition: identify
// the DOI, resolve it through the mirrors, download and validate the PDF,
// then record metadata.
type Pipeline struct {
	Client  *http.Client
	Extract types.ExtractConfig
	Mirror  types.MirrorConfig
	Fetch   types.FetchConfig

	// Library, when set, receives a record of each successful fetch.
	Library *library.Store
}

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Papers     []*types.PaperRecord
}

// Total returns the total number of identifiers processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any identifiers failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FetchOne acquires a single paper. The identifier may be a DOI (bare,
// doi:-prefixed, or a resolver URL) or an article page URL to extract the
// DOI from. If the target PDF already exists on disk the download is
// skipped; the skipped return value reports that.
func (p *Pipeline) FetchOne(ctx context.Context, identifier string, w io.Writer) (rec *types.PaperRecord, skipped bool, err error) {
	doi, err := p.identify(ctx, identifier, w)
	if err != nil {
		return nil, false, err
	}

	destPath := filepath.Join(p.Fetch.OutputDir, Filename(doi))
	if _, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", doi)
		r, readErr := ReadMetadata(MetadataPath(destPath))
		if readErr != nil {
			r = &types.PaperRecord{DOI: doi, PDFPath: destPath}
		}
		return r, true, nil
	}

	res, err := mirror.Resolve(ctx, p.Client, doi, p.Mirror, w)
	if err != nil {
		return nil, false, fmt.Errorf("resolving %s: %w", doi, err)
	}

	fmt.Fprintf(w, "downloading: %s (via %s)\n", doi, res.Mirror)
	pdfPath, err := SavePDF(ctx, p.Client, res.PDFURL, doi, p.Fetch, w)
	if err != nil {
		return nil, false, fmt.Errorf("downloading %s: %w", doi, err)
	}

	rec = &types.PaperRecord{
		DOI:       doi,
		SourceURL: res.PDFURL,
		Mirror:    res.Mirror,
		PDFPath:   pdfPath,
		FetchedAt: time.Now().UTC(),
	}

	if err := fetchCrossRefMetadata(ctx, p.Client, doi, rec, p.Fetch, w); err != nil {
		fmt.Fprintf(w, "  warning: CrossRef metadata fetch failed: %v\n", err)
	}

	if err := WriteMetadata(rec, MetadataPath(pdfPath)); err != nil {
		return nil, false, fmt.Errorf("writing metadata for %s: %w", doi, err)
	}

	if p.Library != nil {
		if err := p.Library.Record(rec); err != nil {
			fmt.Fprintf(w, "  warning: recording %s in library failed: %v\n", doi, err)
		}
	}

	return rec, false, nil
}

// FetchBatch processes multiple identifiers, printing per-item status and
// returning a summary. It continues after individual failures and applies
// a delay between consecutive downloads.
func (p *Pipeline) FetchBatch(ctx context.Context, identifiers []string, w io.Writer) BatchResult {
	var result BatchResult
	for i, id := range identifiers {
		if i > 0 && p.Fetch.DownloadDelay > 0 {
			time.Sleep(p.Fetch.DownloadDelay)
		}
		rec, wasSkipped, err := p.FetchOne(ctx, id, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
		result.Papers = append(result.Papers, rec)
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// identify turns the input into a cleaned DOI: directly when it already is
// one, or by fetching an article page and running extraction over it.
func (p *Pipeline) identify(ctx context.Context, identifier string, w io.Writer) (string, error) {
	if doi := extract.Clean(identifier); extract.IsDOI(doi) {
		return doi, nil
	}

	u, err := url.Parse(identifier)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("unrecognized identifier %q (expected a DOI or an article page URL)", identifier)
	}

	// The page address alone may carry the DOI; skip the page fetch then.
	if doi := extract.FromURL(identifier); doi != "" {
		return doi, nil
	}

	doi, err := p.ExtractFromPage(ctx, identifier)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(w, "extracted: %s (from %s)\n", doi, identifier)
	return doi, nil
}

// ExtractFromPage downloads an article page and runs the DOI extractor
// over its URL and HTML.
func (p *Pipeline) ExtractFromPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.Extract.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("reading page: %w", err)
	}

	doi := extract.FromPage(pageURL, string(body), p.Extract)
	if doi == "" {
		return "", fmt.Errorf("no DOI found on %s", pageURL)
	}
	return doi, nil
}
