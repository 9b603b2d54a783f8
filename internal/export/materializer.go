package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/handiism/podcasts-export/internal/audio"
	ioutils "github.com/handiism/podcasts-export/internal/io"
	"github.com/handiism/podcasts-export/internal/model"
)

const tempPattern = ".podcasts-export-*.tmp"

// Materializer copies one episode to its destination and retags the copy.
type Materializer struct {
	tagger *audio.Tagger
	genre  string
}

// NewMaterializer creates a Materializer writing genre into every file.
func NewMaterializer(tagger *audio.Tagger, genre string) *Materializer {
	return &Materializer{tagger: tagger, genre: genre}
}

// Materialize exports episode to episode.DestinationPath and returns the
// number of bytes copied.
//
// The source is copied to a hidden temporary file next to the destination,
// tagged there and renamed over the destination. An existing file at the
// destination is replaced and nothing is left behind on failure.
func (m *Materializer) Materialize(ctx context.Context, episode *model.ResolvedEpisode) (int64, error) {
	if episode.DestinationPath == "" {
		return 0, fmt.Errorf("episode %s has no destination", episode.EpisodeID)
	}
	dir := filepath.Dir(episode.DestinationPath)
	if err := ioutils.EnsureDir(dir); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	n, err := ioutils.CopyFile(ctx, episode.SourcePath, tmpPath)
	if err != nil {
		return 0, fmt.Errorf("copy: %w", err)
	}

	tags := audio.Tags{
		Title:  episode.DisplayTitle,
		Artist: episode.PodcastTitle,
		Album:  episode.PodcastTitle,
		Genre:  m.genre,
	}
	if err := m.tagger.WriteTags(ctx, tmpPath, tags); err != nil {
		return 0, err
	}

	if err := os.Rename(tmpPath, episode.DestinationPath); err != nil {
		return 0, fmt.Errorf("rename: %w", err)
	}
	committed = true
	return n, nil
}
