// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PaperRecord holds metadata and file paths for a fetched paper.
type PaperRecord struct {
	// DOI is the identifier the paper was fetched by (e.g. "10.1038/nature12373").
	DOI string `json:"doi" yaml:"doi"`

	// SourceURL is the resolved direct PDF URL the file was downloaded from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Mirror is the base URL of the mirror that served the PDF.
	Mirror string `json:"mirror,omitempty" yaml:"mirror,omitempty"`

	// PDFPath is the local filesystem path to the downloaded PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// Title is the paper title, when CrossRef metadata was available.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Date is the publication date.
	Date time.Time `json:"date,omitempty" yaml:"date,omitempty"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// FetchedAt records when the download completed.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}
