package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/podcasts-export/internal/audio"
	"github.com/handiism/podcasts-export/internal/model"
	"github.com/handiism/podcasts-export/internal/testsupport"
)

func TestMaterializer_Materialize(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "cache", "abc.mp3")
	testsupport.WriteMP3(t, source, "Cache Title")

	episode := &model.ResolvedEpisode{
		EpisodeID:       "abc",
		SourcePath:      source,
		PodcastTitle:    "Tech Talk",
		DisplayTitle:    "Episode 1",
		DestinationPath: filepath.Join(dir, "out", "Tech Talk", "Episode 1.mp3"),
	}

	m := NewMaterializer(audio.NewTagger(nil), "Podcast")
	n, err := m.Materialize(context.Background(), episode)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if n == 0 {
		t.Error("Materialize() copied 0 bytes")
	}

	got := testsupport.ReadTags(t, episode.DestinationPath)
	want := testsupport.Tags{Title: "Episode 1", Artist: "Tech Talk", Album: "Tech Talk", Genre: "Podcast"}
	if got != want {
		t.Errorf("tags = %+v, want %+v", got, want)
	}
	if src := testsupport.ReadTags(t, source); src.Title != "Cache Title" {
		t.Errorf("source title changed to %q", src.Title)
	}
	if info, err := os.Stat(episode.DestinationPath); err != nil || info.Mode().Perm() != 0o644 {
		t.Errorf("destination mode = %v, %v; want 0644", info, err)
	}
}

func TestMaterializer_UnicodeTitleOnV23Source(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "cache", "abc.mp3")
	testsupport.WriteMP3V23(t, source, "Cache Title")

	episode := &model.ResolvedEpisode{
		EpisodeID:       "abc",
		SourcePath:      source,
		PodcastTitle:    "日本語ポッドキャスト",
		DisplayTitle:    "It’s — 日本語",
		DestinationPath: filepath.Join(dir, "out", "Show", "Episode.mp3"),
	}

	if _, err := NewMaterializer(audio.NewTagger(nil), "Podcast").Materialize(context.Background(), episode); err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	got := testsupport.ReadTags(t, episode.DestinationPath)
	want := testsupport.Tags{Title: episode.DisplayTitle, Artist: episode.PodcastTitle, Album: episode.PodcastTitle, Genre: "Podcast"}
	if got != want {
		t.Errorf("tags = %+v, want %+v", got, want)
	}
}

func TestMaterializer_Overwrites(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "abc.mp3")
	testsupport.WriteMP3(t, source, "")
	dest := filepath.Join(dir, "out", "Show", "Title.mp3")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dest, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	episode := &model.ResolvedEpisode{EpisodeID: "abc", SourcePath: source, PodcastTitle: "Show", DisplayTitle: "Title", DestinationPath: dest}
	m := NewMaterializer(audio.NewTagger(nil), "Podcast")
	for i := 0; i < 2; i++ {
		if _, err := m.Materialize(context.Background(), episode); err != nil {
			t.Fatalf("run %d: Materialize() error = %v", i, err)
		}
	}

	if !testsupport.HasAudioPayload(t, dest) {
		t.Error("destination does not hold the exported audio")
	}
	assertNoTempFiles(t, filepath.Dir(dest))
	entries, err := os.ReadDir(filepath.Dir(dest))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestMaterializer_MissingSourceLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out", "Show", "Title.mp3")
	episode := &model.ResolvedEpisode{
		EpisodeID:       "gone",
		SourcePath:      filepath.Join(dir, "gone.mp3"),
		PodcastTitle:    "Show",
		DisplayTitle:    "Title",
		DestinationPath: dest,
	}

	_, err := NewMaterializer(audio.NewTagger(nil), "Podcast").Materialize(context.Background(), episode)
	if err == nil {
		t.Fatal("Materialize() error = nil, want copy error")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("destination exists after failure: %v", statErr)
	}
	assertNoTempFiles(t, filepath.Dir(dest))
}

func TestMaterializer_NoDestination(t *testing.T) {
	_, err := NewMaterializer(audio.NewTagger(nil), "Podcast").Materialize(context.Background(), &model.ResolvedEpisode{EpisodeID: "x"})
	if err == nil {
		t.Error("Materialize() error = nil for an unplanned episode")
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".podcasts-export-") {
			t.Errorf("temp file %s left behind", entry.Name())
		}
	}
}
