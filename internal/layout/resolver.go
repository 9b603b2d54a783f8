// Package layout turns podcast and episode titles into destination paths.
//
// Every exported file lands exactly two levels below the output directory:
//
//	<output>/<podcast>/<episode><ext>
//
// Both segments are sanitized (ioutils.SanitizeFileName) and then truncated
// to the configured length, so titles containing separators, reserved names
// or control characters never add or escape a directory level.
package layout

import (
	"fmt"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/podcasts-export/internal/io"
	"github.com/handiism/podcasts-export/internal/model"
)

// Options configures a Resolver.
type Options struct {
	// Root is the output directory.
	Root string

	// Ext is appended to every file name, including the dot.
	Ext string

	// MaxNameLength caps each segment in runes. Zero disables truncation.
	MaxNameLength int

	// Unique enables " (n)" suffixes for names that collide within a directory.
	Unique bool

	// FallbackDir is used when a podcast title sanitizes to nothing.
	FallbackDir string
}

// Resolver builds destination paths under a root directory.
type Resolver struct {
	opts Options
}

// NewResolver creates a Resolver.
func NewResolver(opts Options) *Resolver {
	return &Resolver{opts: opts}
}

// Root returns the output directory.
func (r *Resolver) Root() string {
	return r.opts.Root
}

// Dir returns the directory for a podcast.
func (r *Resolver) Dir(podcastTitle string) string {
	return filepath.Join(r.opts.Root, r.segment(podcastTitle, r.opts.FallbackDir))
}

// Path returns the destination for one episode. fallback replaces a display
// title that sanitizes to nothing.
func (r *Resolver) Path(podcastTitle, displayTitle, fallback string) string {
	return filepath.Join(r.Dir(podcastTitle), r.fileName(displayTitle, fallback))
}

// Plan assigns Dir and Playlist to every group and DestinationPath to every
// member.
//
// Names are tracked per output directory, not per group, because different
// podcast titles can sanitize to the same directory. Without Unique, members
// whose names collide share a path and the later one overwrites the earlier
// on export. With Unique the second and later claimants get " (2)", " (3)"
// and so on, compared case-insensitively so the plan also holds on
// case-insensitive file systems. Playlists in a shared directory are
// suffixed the same way.
func (r *Resolver) Plan(groups []*model.ExportGroup) {
	files := map[string]map[string]bool{}
	playlists := map[string]map[string]bool{}

	for _, group := range groups {
		group.Dir = r.Dir(group.PodcastTitle)
		dirKey := strings.ToLower(group.Dir)
		if files[dirKey] == nil {
			files[dirKey] = map[string]bool{}
			playlists[dirKey] = map[string]bool{}
		}

		group.Playlist = r.claim(playlists[dirKey], filepath.Base(group.Dir))
		for _, episode := range group.Members {
			name := r.claim(files[dirKey], r.segment(episode.DisplayTitle, episode.EpisodeID))
			episode.DestinationPath = filepath.Join(group.Dir, name+r.opts.Ext)
		}
	}
}

// claim returns base, or with Unique the first suffixed variant of base not
// yet in used, and records the result.
func (r *Resolver) claim(used map[string]bool, base string) string {
	if !r.opts.Unique {
		return base
	}
	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		name = r.withSuffix(base, n)
	}
	used[strings.ToLower(name)] = true
	return name
}

// Collisions returns the destination paths claimed by more than one member,
// across all groups. Paths are compared case-insensitively.
func Collisions(groups []*model.ExportGroup) map[string][]*model.ResolvedEpisode {
	byPath := map[string][]*model.ResolvedEpisode{}
	for _, group := range groups {
		for _, episode := range group.Members {
			key := strings.ToLower(episode.DestinationPath)
			byPath[key] = append(byPath[key], episode)
		}
	}

	result := map[string][]*model.ResolvedEpisode{}
	for _, episodes := range byPath {
		if len(episodes) > 1 {
			result[episodes[0].DestinationPath] = episodes
		}
	}
	return result
}

func (r *Resolver) fileName(title, fallback string) string {
	return r.segment(title, fallback) + r.opts.Ext
}

// segment sanitizes and truncates title, falling back to fallback and then
// to "_" when nothing usable is left.
func (r *Resolver) segment(title, fallback string) string {
	for _, candidate := range []string{title, fallback} {
		name := ioutils.TruncateName(ioutils.SanitizeFileName(candidate), r.opts.MaxNameLength)
		if name != "" {
			return name
		}
	}
	return "_"
}

// withSuffix appends " (n)", shortening base so the result still fits.
func (r *Resolver) withSuffix(base string, n int) string {
	suffix := fmt.Sprintf(" (%d)", n)
	if r.opts.MaxNameLength > 0 {
		base = ioutils.TruncateName(base, r.opts.MaxNameLength-len(suffix))
	}
	return base + suffix
}
