// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mirror resolves a DOI to a direct PDF URL through an ordered
// list of mirror sites.
//
// Mirrors are tried strictly in list order and each mirror is attempted
// exactly once per resolution: no backoff, no per-mirror retry, no caching
// of the last working mirror. A failure inside one attempt never aborts
// the resolution; only exhaustion of the whole list does, and the error
// reported then is the last mirror's, not an aggregate.
package mirror

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/esaruoho/papergrab/pkg/types"
)

// maxBodyBytes bounds how much of a mirror's HTML response is read when
// scanning for an embedded PDF reference.
const maxBodyBytes = 2 << 20

const defaultMirrorTimeout = 30 * time.Second

// challengeMarkers identify anti-automation interstitial pages. A body
// containing any of them fails the mirror with a specific diagnostic.
var challengeMarkers = []string{
	"just a moment",
	"attention required",
	"cf-browser-verification",
	"cf_chl",
	"challenge-platform",
	"captcha",
}

// Resolution is the outcome of a successful mirror lookup.
type Resolution struct {
	// PDFURL is the resolved absolute address of the PDF.
	PDFURL string

	// Mirror is the base URL of the mirror that produced it.
	Mirror string
}

// Resolve iterates the configured mirrors in fixed order and returns the
// first resolved PDF address. Per-mirror failures are logged to w and the
// loop moves on; when every mirror fails, the returned error wraps the
// most recent one.
func Resolve(ctx context.Context, client *http.Client, doi string, cfg types.MirrorConfig, w io.Writer) (Resolution, error) {
	if len(cfg.Mirrors) == 0 {
		return Resolution{}, fmt.Errorf("no mirrors configured")
	}

	var lastErr error
	for _, base := range cfg.Mirrors {
		res, err := tryMirror(ctx, client, base, doi, cfg)
		if err != nil {
			lastErr = err
			fmt.Fprintf(w, "mirror %s: %v\n", base, err)
			continue
		}
		return res, nil
	}
	return Resolution{}, fmt.Errorf("all %d mirrors failed: %w", len(cfg.Mirrors), lastErr)
}

// tryMirror performs the single attempt this mirror gets: fetch
// <base>/<doi>, accept a direct PDF response, or scan the returned HTML
// for an embedded PDF reference.
func tryMirror(ctx context.Context, client *http.Client, base, doi string, cfg types.MirrorConfig) (Resolution, error) {
	base = strings.TrimRight(base, "/")

	timeout := cfg.MirrorTimeout
	if timeout <= 0 {
		timeout = defaultMirrorTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/"+doi, nil)
	if err != nil {
		return Resolution{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return Resolution{}, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	// Some mirrors redirect straight to the file; the response's own
	// (post-redirect) address is the result.
	if isPDFContentType(resp.Header.Get("Content-Type")) {
		return Resolution{PDFURL: resp.Request.URL.String(), Mirror: base}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Resolution{}, fmt.Errorf("reading response: %w", err)
	}

	if marker := challengeMarker(string(body)); marker != "" {
		return Resolution{}, fmt.Errorf("anti-automation challenge page (%q)", marker)
	}

	ref := ScanPDFRef(string(body))
	if ref == "" {
		return Resolution{}, fmt.Errorf("no PDF reference found in response (HTTP %d)", resp.StatusCode)
	}
	return Resolution{PDFURL: ResolveRef(base, ref), Mirror: base}, nil
}

// ResolveRef turns a scanned reference into an absolute URL against the
// mirror base: protocol-relative references get https, root-relative ones
// are prefixed with the base, absolute ones pass through, and anything
// else is treated as relative to the base root.
func ResolveRef(base, ref string) string {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		return ref
	case strings.HasPrefix(ref, "/"):
		return base + ref
	default:
		return base + "/" + ref
	}
}

func isPDFContentType(ct string) bool {
	return strings.Contains(strings.ToLower(ct), "application/pdf")
}

// challengeMarker returns the first challenge marker present in body, or
// the empty string.
func challengeMarker(body string) string {
	lower := strings.ToLower(body)
	for _, m := range challengeMarkers {
		if strings.Contains(lower, m) {
			return m
		}
	}
	return ""
}
