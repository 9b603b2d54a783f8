package model

import (
	"path/filepath"
	"strings"
)

// ExportGroup is the set of episodes sharing one podcast title.
//
// Members keep the order in which their cache entries were discovered.
// Dir is the group's output directory and Playlist the playlist file name
// without extension, both assigned by the layout plan. Distinct podcast
// titles can share a Dir once sanitized.
type ExportGroup struct {
	PodcastTitle string
	Dir          string
	Playlist     string
	Members      []*ResolvedEpisode
}

// Len returns the number of episodes in the group.
func (g *ExportGroup) Len() int {
	return len(g.Members)
}

// NewCacheEntry builds a CacheEntry for fileName inside dir.
//
// The episode id is fileName with ext removed from its end. The match is
// case-sensitive and no other normalisation is applied.
func NewCacheEntry(dir, fileName, ext string) CacheEntry {
	return CacheEntry{
		FileName:   fileName,
		EpisodeID:  strings.TrimSuffix(fileName, ext),
		SourcePath: filepath.Join(dir, fileName),
	}
}
