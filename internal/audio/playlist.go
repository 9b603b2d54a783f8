package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/podcasts-export/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines carrying the episode title.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// ParsePlaylistFormat maps a config value to a PlaylistFormat, defaulting to M3U.
func ParsePlaylistFormat(value string) PlaylistFormat {
	if strings.EqualFold(strings.TrimSpace(value), "pls") {
		return FormatPLS
	}
	return FormatM3U
}

// Extension returns the file extension for the format, including the dot.
func (f PlaylistFormat) Extension() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// PlaylistCreator generates one playlist per exported podcast.
//
// Entries are relative file names, so the playlist is written next to the
// episodes it lists. Only members that were actually exported should be
// passed in.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(group.PodcastTitle, exported)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Tech Talk - Episode 1
//	// Episode 1.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended only affects M3U output.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the configured playlist format.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist generates playlist content for a podcast's episodes.
func (p *PlaylistCreator) CreatePlaylist(podcastTitle string, episodes []*model.ResolvedEpisode) string {
	if p.format == FormatPLS {
		return p.createPLS(episodes)
	}
	return p.createM3U(podcastTitle, episodes)
}

// createM3U generates an M3U playlist. Durations are not known, so
// extended entries use -1.
func (p *PlaylistCreator) createM3U(podcastTitle string, episodes []*model.ResolvedEpisode) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, ep := range episodes {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s - %s\n", podcastTitle, ep.DisplayTitle))
		}
		sb.WriteString(filepath.Base(ep.DestinationPath) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist:
//
//	[playlist]
//	File1=Episode 1.mp3
//	Title1=Episode 1
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(episodes []*model.ResolvedEpisode) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, ep := range episodes {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, filepath.Base(ep.DestinationPath)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, ep.DisplayTitle))
		sb.WriteString(fmt.Sprintf("Length%d=-1\n", idx))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(episodes)))
	sb.WriteString("Version=2\n")

	return sb.String()
}
