// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"regexp"
)

// jsonLDBlock matches embedded structured-data scripts.
var jsonLDBlock = regexp.MustCompile(
	`(?is)<script\b[^>]*type\s*=\s*["']application/ld\+json["'][^>]*>(.*?)</script>`)

// jsonLDKeys is the fixed set of key names checked, in order, at every
// object in the structured-data tree.
var jsonLDKeys = []string{"doi", "DOI", "@id", "identifier", "sameAs"}

// fromJSONLD parses every JSON-LD block on the page and walks it for a DOI.
// Malformed blocks are skipped silently; a parse failure is never fatal to
// the overall extraction.
func fromJSONLD(html string) string {
	for _, block := range jsonLDBlock.FindAllStringSubmatch(html, -1) {
		var v any
		if err := json.Unmarshal([]byte(block[1]), &v); err != nil {
			continue
		}
		if doi := walkJSONLD(v); doi != "" {
			return doi
		}
	}
	return ""
}

// walkJSONLD recursively searches arrays and objects. At each object the
// known keys are checked first; string values are cleaned and validated,
// nested values are descended into, and only then are the remaining
// children walked.
func walkJSONLD(v any) string {
	switch t := v.(type) {
	case map[string]any:
		for _, k := range jsonLDKeys {
			child, ok := t[k]
			if !ok {
				continue
			}
			if s, ok := child.(string); ok {
				if doi := Clean(s); IsDOI(doi) {
					return doi
				}
				continue
			}
			if doi := walkJSONLD(child); doi != "" {
				return doi
			}
		}
		for k, child := range t {
			if isJSONLDKey(k) {
				continue
			}
			if doi := walkJSONLD(child); doi != "" {
				return doi
			}
		}
	case []any:
		for _, child := range t {
			if doi := walkJSONLD(child); doi != "" {
				return doi
			}
		}
	}
	return ""
}

func isJSONLDKey(k string) bool {
	for _, key := range jsonLDKeys {
		if k == key {
			return true
		}
	}
	return false
}
