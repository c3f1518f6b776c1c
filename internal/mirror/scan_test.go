// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mirror

import "testing"

func TestScanPDFRef(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"iframe src",
			`<html><iframe id="pdf" src="//mirror.example/storage/1/a.pdf#navpanes=0"></iframe></html>`,
			"//mirror.example/storage/1/a.pdf",
		},
		{
			"embed typed pdf",
			`<embed type="application/pdf" src="/storage/123/x.pdf">`,
			"/storage/123/x.pdf",
		},
		{
			"embed typed pdf reversed attrs",
			`<embed src="/storage/123/x.pdf" type="application/pdf">`,
			"/storage/123/x.pdf",
		},
		{
			"embed untyped fallback",
			`<embed src="/storage/9/y.pdf">`,
			"/storage/9/y.pdf",
		},
		{
			"object data pdf path",
			`<object data="/files/z.pdf" type="application/octet-stream"></object>`,
			"/files/z.pdf",
		},
		{
			"object data non-pdf rejected",
			`<object data="/viewer.swf"></object>`,
			"",
		},
		{
			"onclick handler",
			`<button onclick="location.href='//mirror.example/downloads/2024/a.pdf?download=true'">save</button>`,
			"//mirror.example/downloads/2024/a.pdf?download=true",
		},
		{
			"onclick handler escaped quotes",
			`<button onclick="location.href=\'/downloads/b.pdf?download=true\'">save</button>`,
			"/downloads/b.pdf?download=true",
		},
		{
			"script absolute url",
			`<script>var src = "https://mirror.example/storage/7/c.pdf";</script>`,
			"https://mirror.example/storage/7/c.pdf",
		},
		{
			"any attribute last resort",
			`<a data-file="/d/e.pdf">download</a>`,
			"/d/e.pdf",
		},
		{
			"ampersand entity decoded",
			`<iframe src="/storage/1/a.pdf?x=1&amp;y=2"></iframe>`,
			"/storage/1/a.pdf?x=1&y=2",
		},
		{
			"iframe outranks embed",
			`<embed type="application/pdf" src="/embed.pdf"><iframe src="/frame.pdf"></iframe>`,
			"/frame.pdf",
		},
		{
			"typed embed outranks untyped",
			`<embed src="/untyped.pdf"><embed type="application/pdf" src="/typed.pdf">`,
			"/typed.pdf",
		},
		{
			"nothing found",
			`<html><body>article not available</body></html>`,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScanPDFRef(tt.body)
			if got != tt.want {
				t.Errorf("ScanPDFRef = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveRef(t *testing.T) {
	const base = "https://mirror.example"
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"protocol relative", "//mirror.example/a.pdf", "https://mirror.example/a.pdf"},
		{"root relative", "/storage/123/x.pdf", "https://mirror.example/storage/123/x.pdf"},
		{"absolute https", "https://other.example/b.pdf", "https://other.example/b.pdf"},
		{"absolute http", "http://other.example/b.pdf", "http://other.example/b.pdf"},
		{"bare relative", "storage/c.pdf", "https://mirror.example/storage/c.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRef(base, tt.ref)
			if got != tt.want {
				t.Errorf("ResolveRef(%q, %q) = %q, want %q", base, tt.ref, got, tt.want)
			}
		})
	}
}
