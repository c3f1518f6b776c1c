// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract locates a scholarly article's DOI in a page's URL and HTML.
//
// Extraction runs six ordered heuristics and short-circuits at the first
// syntactically valid match: citation metadata tags, the page URL itself,
// JSON-LD blocks, resolver hyperlinks, inline script key/value pairs, and
// finally visible text scoped to likely metadata containers. The whole page
// body is never scanned indiscriminately; the narrowing is what keeps false
// positives out.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/esaruoho/papergrab/pkg/types"
)

// doiPattern matches a full cleaned identifier: "10.<registrant>/<suffix>".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// doiInText matches a DOI embedded in surrounding text or markup.
var doiInText = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"'&]+`)

// trailingPunct lists sentence and bracket punctuation stripped from the
// end of a candidate before validation.
const trailingPunct = ".,;:!?)]}"

// resolverPrefixes are stripped (case-insensitively) from candidate values
// found in metadata tags and structured data.
var resolverPrefixes = []string{
	"doi:",
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi.org/",
	"dx.doi.org/",
}

// IsDOI reports whether s is a syntactically valid cleaned identifier.
func IsDOI(s string) bool {
	return doiPattern.MatchString(s)
}

// Clean normalizes a candidate identifier: trims whitespace, strips a
// "doi:" or resolver-URL prefix, and removes trailing punctuation.
// Clean is idempotent.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, p := range resolverPrefixes {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	return strings.TrimRight(s, trailingPunct)
}

// FromPage extracts at most one DOI from a page. It returns the empty
// string when no identifier is found or when the page's host is on the
// ignore list.
func FromPage(pageURL, html string, cfg types.ExtractConfig) string {
	if ignoredHost(pageURL, cfg.IgnoredDomains) {
		return ""
	}

	tiers := []func() string{
		func() string { return fromMetaTags(html) },
		func() string { return FromURL(pageURL) },
		func() string { return fromJSONLD(html) },
		func() string { return fromAnchors(html) },
		func() string { return fromScripts(html) },
		func() string { return fromTextContainers(html) },
	}
	for _, tier := range tiers {
		if doi := tier(); doi != "" {
			return doi
		}
	}
	return ""
}

// ignoredHost reports whether the URL's host equals, or is a subdomain of,
// an entry in the ignore list.
func ignoredHost(pageURL string, ignored []string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range ignored {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// metaTagNames is the fixed allowlist of publisher-standard citation tag
// names, matched case-insensitively.
var metaTagNames = map[string]bool{
	"citation_doi":         true,
	"dc.identifier":        true,
	"dc.identifier.doi":    true,
	"prism.doi":            true,
	"bepress_citation_doi": true,
	"doi":                  true,
}

var (
	metaTag  = regexp.MustCompile(`(?is)<meta\b[^>]*>`)
	attrPair = regexp.MustCompile(`(?i)\b(name|content)\s*=\s*["']([^"']*)["']`)
)

// fromMetaTags reads the content attribute of known citation metadata tags.
func fromMetaTags(html string) string {
	for _, tag := range metaTag.FindAllString(html, -1) {
		var name, content string
		for _, m := range attrPair.FindAllStringSubmatch(tag, -1) {
			switch strings.ToLower(m[1]) {
			case "name":
				name = strings.ToLower(m[2])
			case "content":
				content = m[2]
			}
		}
		if !metaTagNames[name] || content == "" {
			continue
		}
		if doi := Clean(content); IsDOI(doi) {
			return doi
		}
	}
	return ""
}

var (
	resolverURL = regexp.MustCompile(`(?i)(?:dx\.)?doi\.org/(10\.\d{4,9}/[^\s?#"']+)`)
	pathDOI     = regexp.MustCompile(`(?i)/(?:doi|article|abs|full|pdf)/(10\.\d{4,9}/[^\s?#"']+)`)
)

// FromURL matches a DOI embedded in an address: either the doi.org resolver
// form or a publisher path like "/doi/10.x/...", "/article/10.x/...".
func FromURL(pageURL string) string {
	if unescaped, err := url.PathUnescape(pageURL); err == nil {
		pageURL = unescaped
	}
	for _, re := range []*regexp.Regexp{resolverURL, pathDOI} {
		if m := re.FindStringSubmatch(pageURL); m != nil {
			if doi := Clean(m[1]); IsDOI(doi) {
				return doi
			}
		}
	}
	return ""
}

var anchorHref = regexp.MustCompile(`(?i)href\s*=\s*["']([^"']*doi\.org/[^"']+)["']`)

// fromAnchors scans hyperlink targets for resolver URLs.
func fromAnchors(html string) string {
	for _, m := range anchorHref.FindAllStringSubmatch(html, -1) {
		if r := resolverURL.FindStringSubmatch(m[1]); r != nil {
			if doi := Clean(r[1]); IsDOI(doi) {
				return doi
			}
		}
	}
	return ""
}

var (
	scriptBlock = regexp.MustCompile(`(?is)<script\b[^>]*>(.*?)</script>`)
	scriptDOI   = regexp.MustCompile(`(?i)["']?doi["']?\s*[:=]\s*["'](10\.\d{4,9}/[^"']+)["']`)
)

// fromScripts matches a loose doi: "10.x/..." key/value pair in inline
// script text.
func fromScripts(html string) string {
	for _, block := range scriptBlock.FindAllStringSubmatch(html, -1) {
		if m := scriptDOI.FindStringSubmatch(block[1]); m != nil {
			if doi := Clean(m[1]); IsDOI(doi) {
				return doi
			}
		}
	}
	return ""
}

// metaContainer captures the leading text of elements whose class or id
// names a likely metadata container. The capture is bounded so a missing
// close tag cannot drag in the rest of the page.
var metaContainer = regexp.MustCompile(
	`(?is)<(?:div|span|p|li|section|td|dd)\b[^>]*(?:class|id)\s*=\s*["'][^"']*(?:doi|citation|article-meta|metadata|pub-id)[^"']*["'][^>]*>(.{0,1000}?.{0,1000}?)</(?:div|span|p|li|section|td|dd)\b`)

var anyTag = regexp.MustCompile(`(?s)<[^>]*>`)

// fromTextContainers is the last resort: visible text, but only inside a
// fixed allowlist of container name heuristics.
func fromTextContainers(html string) string {
	for _, m := range metaContainer.FindAllStringSubmatch(html, -1) {
		text := anyTag.ReplaceAllString(m[1], " ")
		for _, cand := range doiInText.FindAllString(text, -1) {
			if doi := Clean(cand); IsDOI(doi) {
				return doi
			}
		}
	}
	return ""
}
