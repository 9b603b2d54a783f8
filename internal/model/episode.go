package model

import "strings"

// CatalogRow is one episode row read from the podcast application's catalog.
//
// CleanedEpisodeTitle is empty when the catalog has no cleaned title for the
// episode (NULL or whitespace only).
type CatalogRow struct {
	// EpisodeID is the opaque identifier shared with the cache file name.
	EpisodeID string

	// PodcastTitle is the title of the show the episode belongs to.
	PodcastTitle string

	// CleanedEpisodeTitle is the application's display title for the episode.
	CleanedEpisodeTitle string
}

// HasCleanedTitle reports whether the row carries a usable episode title.
func (r CatalogRow) HasCleanedTitle() bool {
	return strings.TrimSpace(r.CleanedEpisodeTitle) != ""
}

// CacheEntry is one downloaded audio file found in the application's cache.
//
// Example:
//
//	entry := NewCacheEntry("/cache", "abc.mp3", ".mp3")
//	// entry.EpisodeID == "abc"
//	// entry.SourcePath == "/cache/abc.mp3"
type CacheEntry struct {
	// FileName is the base name of the file on disk.
	FileName string

	// EpisodeID is FileName with the container extension removed.
	EpisodeID string

	// SourcePath is the absolute path of the cached file.
	SourcePath string
}

// TitleSource identifies which step of the title cascade produced a display title.
type TitleSource int

const (
	// TitleFromCatalog means the catalog's cleaned episode title was used.
	TitleFromCatalog TitleSource = iota

	// TitleFromEmbeddedTag means the title was read from the file's own ID3 tag.
	TitleFromEmbeddedTag

	// TitleFromEpisodeID means neither source had a title and the raw id was used.
	TitleFromEpisodeID
)

// String returns a short name for logs and tables.
func (s TitleSource) String() string {
	switch s {
	case TitleFromCatalog:
		return "catalog"
	case TitleFromEmbeddedTag:
		return "embedded"
	case TitleFromEpisodeID:
		return "episode-id"
	default:
		return "unknown"
	}
}

// ResolvedEpisode is a cache entry joined with its catalog row (if any) and
// carrying the final names used for export.
//
// PodcastTitle and DisplayTitle are never empty once the correlator has
// produced the value. DestinationPath is empty until the layout plan runs.
type ResolvedEpisode struct {
	EpisodeID  string
	SourcePath string

	// PodcastTitle is the catalog podcast title or the unknown-podcast fallback.
	PodcastTitle string

	// DisplayTitle is the resolved human readable episode title.
	DisplayTitle string

	// TitleSource records which cascade step produced DisplayTitle.
	TitleSource TitleSource

	// Catalog is the matched catalog row, nil when the file is not in the catalog.
	Catalog *CatalogRow

	// DestinationPath is the absolute output path assigned by the layout plan.
	DestinationPath string
}

// Matched reports whether the episode was found in the catalog.
func (e *ResolvedEpisode) Matched() bool {
	return e.Catalog != nil
}
