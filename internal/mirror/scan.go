// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mirror

import (
	"regexp"
	"strings"
)

// The scan tiers, in priority order. First match at the highest tier wins;
// there is no scoring or multi-candidate comparison.
var refMatchers = []func(body string) string{
	matchIframeSrc,
	matchEmbedPDF,
	matchEmbedAny,
	matchObjectData,
	matchOnclickHref,
	matchScriptURL,
	matchAnyPDFAttr,
}

// ScanPDFRef scans a mirror's HTML response for an embedded PDF reference.
// It returns the raw reference with the fragment stripped and the HTML
// ampersand entity decoded, or the empty string when nothing matched.
func ScanPDFRef(body string) string {
	for _, match := range refMatchers {
		if ref := match(body); ref != "" {
			return cleanRef(ref)
		}
	}
	return ""
}

// cleanRef strips a URL fragment and decodes "&amp;".
func cleanRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.Index(ref, "#"); i >= 0 {
		ref = ref[:i]
	}
	return strings.ReplaceAll(ref, "&amp;", "&")
}

var (
	iframeSrc = regexp.MustCompile(`(?is)<iframe\b[^>]*\bsrc\s*=\s*["']([^"']+)["']`)
	embedTag  = regexp.MustCompile(`(?is)<embed\b[^>]*>`)
	srcAttr   = regexp.MustCompile(`(?i)\bsrc\s*=\s*["']([^"']+)["']`)
	pdfType   = regexp.MustCompile(`(?i)\btype\s*=\s*["']application/pdf["']`)
	objData   = regexp.MustCompile(`(?is)<object\b[^>]*\bdata\s*=\s*["']([^"']+)["']`)
	// The viewer page assigns the download address inside an inline
	// handler: onclick="location.href='//mirror/file.pdf?download=true'".
	onclickHref = regexp.MustCompile(`(?is)onclick\s*=\s*"[^"]*?location\.href\s*=\s*\\?'([^']*\.pdf[^']*?)\\?'`)
	scriptText  = regexp.MustCompile(`(?is)<script\b[^>]*>(.*?)</script>`)
	absolutePDF = regexp.MustCompile(`(?i)https?://[^\s"'<>]+\.pdf[^\s"'<>]*`)
	anyPDFAttr  = regexp.MustCompile(`(?i)=\s*["']([^"']+\.pdf[^"']*)["']`)
)

func matchIframeSrc(body string) string {
	if m := iframeSrc.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	return ""
}

// matchEmbedPDF finds an <embed> explicitly typed application/pdf,
// regardless of attribute order.
func matchEmbedPDF(body string) string {
	for _, tag := range embedTag.FindAllString(body, -1) {
		if !pdfType.MatchString(tag) {
			continue
		}
		if m := srcAttr.FindStringSubmatch(tag); m != nil {
			return m[1]
		}
	}
	return ""
}

// matchEmbedAny falls back to the first <embed> of any type.
func matchEmbedAny(body string) string {
	for _, tag := range embedTag.FindAllString(body, -1) {
		if m := srcAttr.FindStringSubmatch(tag); m != nil {
			return m[1]
		}
	}
	return ""
}

// matchObjectData accepts an <object data=...> only when the value itself
// looks like a PDF path.
func matchObjectData(body string) string {
	if m := objData.FindStringSubmatch(body); m != nil {
		if strings.Contains(strings.ToLower(m[1]), ".pdf") {
			return m[1]
		}
	}
	return ""
}

func matchOnclickHref(body string) string {
	if m := onclickHref.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	return ""
}

// matchScriptURL looks for an absolute PDF URL in inline script text.
func matchScriptURL(body string) string {
	for _, block := range scriptText.FindAllStringSubmatch(body, -1) {
		if m := absolutePDF.FindString(block[1]); m != "" {
			return m
		}
	}
	return ""
}

// matchAnyPDFAttr is the last resort: any attribute value anywhere in the
// body that carries a .pdf address.
func matchAnyPDFAttr(body string) string {
	if m := anyPDFAttr.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	return ""
}
