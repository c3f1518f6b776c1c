// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/esaruoho/papergrab/pkg/types"
)

func testCfg() types.ExtractConfig {
	return types.ExtractConfig{
		IgnoredDomains: types.DefaultIgnoredDomains,
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare", "10.1038/nature12373", "10.1038/nature12373"},
		{"doi prefix", "doi:10.1038/nature12373", "10.1038/nature12373"},
		{"doi prefix uppercase", "DOI:10.1038/nature12373", "10.1038/nature12373"},
		{"resolver https", "https://doi.org/10.1038/nature12373", "10.1038/nature12373"},
		{"resolver dx", "http://dx.doi.org/10.1038/nature12373", "10.1038/nature12373"},
		{"trailing period", "10.1038/nature12373.", "10.1038/nature12373"},
		{"trailing bracket", "10.1038/nature12373)", "10.1038/nature12373"},
		{"trailing mixed", "10.1038/nature12373).", "10.1038/nature12373"},
		{"whitespace", "  10.1038/nature12373  ", "10.1038/nature12373"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
			// Cleaning must be idempotent.
			if again := Clean(got); again != got {
				t.Errorf("Clean(Clean(%q)) = %q, want %q", tt.input, again, got)
			}
		})
	}
}

func TestIsDOI(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"10.1038/nature12373", true},
		{"10.1145/1234567.1234568", true},
		{"10.123/too-short-registrant", false},
		{"11.1038/nature12373", false},
		{"10.1038", false},
		{"", false},
		{"10.1038/with space", false},
	}
	for _, tt := range tests {
		if got := IsDOI(tt.input); got != tt.want {
			t.Errorf("IsDOI(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFromPageMetaTags(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"citation_doi",
			`<head><meta name="citation_doi" content="10.1038/nature12373"></head>`,
			"10.1038/nature12373",
		},
		{
			"dc.identifier with doi prefix",
			`<meta name="dc.identifier" content="doi:10.1126/science.1234567">`,
			"10.1126/science.1234567",
		},
		{
			"resolver url content",
			`<meta name="DC.Identifier" content="https://doi.org/10.1000/xyz123">`,
			"10.1000/xyz123",
		},
		{
			"reversed attribute order",
			`<meta content="10.1038/nature12373" name="citation_doi">`,
			"10.1038/nature12373",
		},
		{
			"unknown tag name ignored",
			`<meta name="description" content="10.1038/nature12373">`,
			"",
		},
		{
			"invalid content ignored",
			`<meta name="citation_doi" content="not-a-doi">`,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPage("https://journal.example.org/article", tt.html, testCfg())
			if got != tt.want {
				t.Errorf("FromPage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromPageURL(t *testing.T) {
	tests := []struct {
		name    string
		pageURL string
		want    string
	}{
		{"resolver", "https://doi.org/10.1038/nature12373", "10.1038/nature12373"},
		{"resolver dx", "https://dx.doi.org/10.1038/nature12373", "10.1038/nature12373"},
		{"publisher doi path", "https://journals.example.org/doi/10.1021/acs.nanolett.1c01234", "10.1021/acs.nanolett.1c01234"},
		{"abs path", "https://pubs.example.org/abs/10.1063/5.0123456", "10.1063/5.0123456"},
		{"escaped slash", "https://example.org/article/10.1038%2Fnature12373", "10.1038/nature12373"},
		{"query stripped", "https://doi.org/10.1038/nature12373?download=true", "10.1038/nature12373"},
		{"no doi", "https://journal.example.org/news/today", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPage(tt.pageURL, "<html></html>", testCfg())
			if got != tt.want {
				t.Errorf("FromPage(%q) = %q, want %q", tt.pageURL, got, tt.want)
			}
		})
	}
}

func TestFromPageIgnoredDomain(t *testing.T) {
	// Valid metadata everywhere, but the host is on the ignore list.
	html := `<meta name="citation_doi" content="10.1038/nature12373">`
	for _, pageURL := range []string{
		"https://scholar.google.com/scholar?q=nature12373",
		"https://www.google.com/search?q=doi",
		"https://sci-hub.se/10.1038/nature12373",
		"https://twitter.com/some/status",
	} {
		if got := FromPage(pageURL, html, testCfg()); got != "" {
			t.Errorf("FromPage(%q) = %q, want none", pageURL, got)
		}
	}
}

func TestFromPageJSONLD(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"doi key",
			`<script type="application/ld+json">{"@type":"ScholarlyArticle","doi":"10.1038/nature12373"}</script>`,
			"10.1038/nature12373",
		},
		{
			"@id resolver url",
			`<script type="application/ld+json">{"@id":"https://doi.org/10.1126/science.abc1234"}</script>`,
			"10.1126/science.abc1234",
		},
		{
			"nested in graph array",
			`<script type="application/ld+json">{"@graph":[{"@type":"WebPage"},{"@type":"ScholarlyArticle","identifier":"doi:10.1000/nested"}]}</script>`,
			"10.1000/nested",
		},
		{
			"sameAs list",
			`<script type="application/ld+json">{"sameAs":["https://example.org/a","https://doi.org/10.5555/sameas1"]}</script>`,
			"10.5555/sameas1",
		},
		{
			"malformed block skipped, later block wins",
			`<script type="application/ld+json">{broken</script>` +
				`<script type="application/ld+json">{"doi":"10.1038/second"}</script>`,
			"10.1038/second",
		},
		{
			"no candidate keys",
			`<script type="application/ld+json">{"name":"10.1038/nature12373"}</script>`,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPage("https://journal.example.org/article", tt.html, testCfg())
			if got != tt.want {
				t.Errorf("FromPage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromPageAnchors(t *testing.T) {
	html := `<body><a href="https://doi.org/10.1073/pnas.2026322118">Cite this</a></body>`
	got := FromPage("https://journal.example.org/article", html, testCfg())
	if got != "10.1073/pnas.2026322118" {
		t.Errorf("FromPage = %q, want %q", got, "10.1073/pnas.2026322118")
	}
}

func TestFromPageScripts(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"quoted key colon",
			`<script>var article = {"doi": "10.1002/anie.202012345"};</script>`,
			"10.1002/anie.202012345",
		},
		{
			"bare key equals",
			`<script>doi = '10.1109/TPAMI.2020.123456';</script>`,
			"10.1109/TPAMI.2020.123456",
		},
		{
			"case insensitive",
			`<script>config.DOI: "10.1038/s41586-024-07487-w"</script>`,
			"10.1038/s41586-024-07487-w",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPage("https://journal.example.org/article", tt.html, testCfg())
			if got != tt.want {
				t.Errorf("FromPage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromPageTextContainers(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"doi class",
			`<span class="article-doi">DOI: 10.1016/j.cell.2021.01.001</span>`,
			"10.1016/j.cell.2021.01.001",
		},
		{
			"citation id with nested tags",
			`<div id="citation-block"><b>Cite:</b> Smith et al. 10.1093/nar/gkab123.</div>`,
			"10.1093/nar/gkab123",
		},
		{
			"doi outside allowlisted container ignored",
			`<div class="sidebar-news">unrelated 10.9999/should.not.match text</div>`,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPage("https://journal.example.org/article", tt.html, testCfg())
			if got != tt.want {
				t.Errorf("FromPage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromPagePriorityOrder(t *testing.T) {
	// Metadata tags outrank the page URL; the URL outranks JSON-LD.
	html := `<meta name="citation_doi" content="10.1111/meta.wins">` +
		`<script type="application/ld+json">{"doi":"10.3333/jsonld.loses"}</script>`
	got := FromPage("https://doi.org/10.2222/url.loses", html, testCfg())
	if got != "10.1111/meta.wins" {
		t.Errorf("FromPage = %q, want meta tier to win", got)
	}

	got = FromPage("https://doi.org/10.2222/url.wins",
		`<script type="application/ld+json">{"doi":"10.3333/jsonld.loses"}</script>`, testCfg())
	if got != "10.2222/url.wins" {
		t.Errorf("FromPage = %q, want URL tier to win", got)
	}
}

func TestFromPageNothingFound(t *testing.T) {
	html := `<html><body><p>A page about numbers like 3.14159 and 10.5 percent.</p></body></html>`
	if got := FromPage("https://journal.example.org/article", html, testCfg()); got != "" {
		t.Errorf("FromPage = %q, want none", got)
	}
}
