// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esaruoho/papergrab/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.LibraryConfig{LibraryDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord() *types.PaperRecord {
	return &types.PaperRecord{
		DOI:       "10.1038/nature12373",
		Title:     "A sample paper",
		Authors:   []string{"Alice Smith", "Bob Jones"},
		Date:      time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		Abstract:  "An abstract.",
		SourceURL: "https://mirror.example/storage/1/a.pdf",
		Mirror:    "https://mirror.example",
		PDFPath:   "/papers/10.1038_nature12373.pdf",
		FetchedAt: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t)

	rec := sampleRecord()
	require.NoError(t, s.Record(rec))

	got, err := s.Get(rec.DOI)
	require.NoError(t, err)
	assert.Equal(t, rec.DOI, got.DOI)
	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, rec.Authors, got.Authors)
	assert.True(t, got.Date.Equal(rec.Date))
	assert.Equal(t, rec.SourceURL, got.SourceURL)
	assert.Equal(t, rec.Mirror, got.Mirror)
	assert.Equal(t, rec.PDFPath, got.PDFPath)
	assert.True(t, got.FetchedAt.Equal(rec.FetchedAt))
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("10.9999/absent")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecordReplacesExisting(t *testing.T) {
	s := openTestStore(t)

	rec := sampleRecord()
	require.NoError(t, s.Record(rec))

	rec.Title = "Updated title"
	require.NoError(t, s.Record(rec))

	got, err := s.Get(rec.DOI)
	require.NoError(t, err)
	assert.Equal(t, "Updated title", got.Title)

	recs, err := s.List()
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestListOrdering(t *testing.T) {
	s := openTestStore(t)

	older := sampleRecord()
	older.DOI = "10.1000/older"
	older.FetchedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(older))

	newer := sampleRecord()
	newer.DOI = "10.1000/newer"
	newer.FetchedAt = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(newer))

	recs, err := s.List()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "10.1000/newer", recs[0].DOI)
	assert.Equal(t, "10.1000/older", recs[1].DOI)
}

func TestEmptyAuthorsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	rec := sampleRecord()
	rec.DOI = "10.1000/no-authors"
	rec.Authors = nil
	require.NoError(t, s.Record(rec))

	got, err := s.Get(rec.DOI)
	require.NoError(t, err)
	assert.Nil(t, got.Authors)
}
