package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "papergrab/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DefaultMirrors is the built-in mirror priority order. The config file can
// replace it; the resolver never reorders it at runtime.
var DefaultMirrors = []string{
	"https://sci-hub.se",
	"https://sci-hub.st",
	"https://sci-hub.ru",
}

// DefaultIgnoredDomains lists hosts on which DOI extraction is skipped
// entirely: search engines, aggregators, social platforms, and the mirror
// network itself. Subdomains of a listed host are also skipped.
var DefaultIgnoredDomains = []string{
	"google.com",
	"scholar.google.com",
	"bing.com",
	"duckduckgo.com",
	"yandex.com",
	"baidu.com",
	"facebook.com",
	"twitter.com",
	"x.com",
	"linkedin.com",
	"reddit.com",
	"sci-hub.se",
	"sci-hub.st",
	"sci-hub.ru",
}

// ExtractConfig holds settings for the DOI extraction stage.
type ExtractConfig struct {
	HTTPConfig `yaml:",inline"`

	// IgnoredDomains lists hosts where extraction short-circuits to
	// "none found" regardless of page content.
	IgnoredDomains []string `json:"ignored_domains" yaml:"ignored_domains"`
}

// MirrorConfig holds settings for the mirror resolution stage.
type MirrorConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mirrors is the ordered list of mirror base URLs. Each mirror is
	// tried at most once per resolution, in list order.
	Mirrors []string `json:"mirrors" yaml:"mirrors"`

	// MirrorTimeout bounds a single mirror attempt so an unresponsive
	// mirror cannot stall the whole resolution (default 30s).
	MirrorTimeout time.Duration `json:"mirror_timeout" yaml:"mirror_timeout"`
}

// FetchConfig holds settings for the download and validation stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is the directory PDFs and metadata records are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DownloadDelay is the delay between consecutive downloads in a batch
	// (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// CrossRefMailto is an optional contact address appended to CrossRef
	// API requests for the polite pool.
	CrossRefMailto string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty"`
}

// LibraryConfig holds settings for the acquisition library.
type LibraryConfig struct {
	// LibraryDir is the directory holding the SQLite index (papergrab.db).
	LibraryDir string `json:"library_dir" yaml:"library_dir"`
}

// Config groups all stage configurations.
type Config struct {
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Mirror  MirrorConfig  `json:"mirror" yaml:"mirror"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Library LibraryConfig `json:"library" yaml:"library"`
}
