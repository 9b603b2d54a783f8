package audio

import (
	"strings"
	"testing"

	"github.com/handiism/podcasts-export/internal/model"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist("Tech Talk", createTestEpisodes())

	if strings.Contains(content, "#EXTM3U") {
		t.Error("plain M3U should not contain #EXTM3U")
	}
	if !strings.Contains(content, "Episode 1.mp3\n") {
		t.Error("M3U should contain the episode filename")
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist("Tech Talk", createTestEpisodes())

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,Tech Talk - Episode 2: The Sequel\n") {
		t.Errorf("Extended M3U should carry the untruncated title, got:\n%s", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist("Tech Talk", createTestEpisodes())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File2=Episode 2_ The Sequel.mp3") {
		t.Error("PLS should contain File2=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		value string
		want  PlaylistFormat
		ext   string
	}{
		{"m3u", FormatM3U, ".m3u"},
		{"PLS", FormatPLS, ".pls"},
		{"", FormatM3U, ".m3u"},
	}

	for _, tt := range tests {
		got := ParsePlaylistFormat(tt.value)
		if got != tt.want {
			t.Errorf("ParsePlaylistFormat(%q) = %v, want %v", tt.value, got, tt.want)
		}
		if got.Extension() != tt.ext {
			t.Errorf("Extension() = %q, want %q", got.Extension(), tt.ext)
		}
	}
}

func createTestEpisodes() []*model.ResolvedEpisode {
	return []*model.ResolvedEpisode{
		{
			EpisodeID:       "abc",
			PodcastTitle:    "Tech Talk",
			DisplayTitle:    "Episode 1",
			DestinationPath: "/export/Tech Talk/Episode 1.mp3",
		},
		{
			EpisodeID:       "def",
			PodcastTitle:    "Tech Talk",
			DisplayTitle:    "Episode 2: The Sequel",
			DestinationPath: "/export/Tech Talk/Episode 2_ The Sequel.mp3",
		},
	}
}
