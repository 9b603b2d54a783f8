package audio

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"

	ioutils "github.com/handiism/podcasts-export/internal/io"
	"github.com/handiism/podcasts-export/internal/testsupport"
)

func TestTagger_ReadTitle(t *testing.T) {
	dir := t.TempDir()
	tagged := filepath.Join(dir, "tagged.mp3")
	untagged := filepath.Join(dir, "untagged.mp3")
	garbage := filepath.Join(dir, "garbage.mp3")
	v23 := filepath.Join(dir, "v23.mp3")
	v1 := filepath.Join(dir, "v1.mp3")
	testsupport.WriteMP3(t, tagged, "Raw Recording")
	testsupport.WriteMP3(t, untagged, "")
	testsupport.WriteGarbage(t, garbage)
	testsupport.WriteMP3V23(t, v23, "Café Recording")
	testsupport.WriteMP3V1(t, v1, []byte("Caf\xe9 Talk  "))

	tests := []struct {
		name   string
		path   string
		want   string
		wantOK bool
	}{
		{"tagged", tagged, "Raw Recording", true},
		{"id3v2.3 tag", v23, "Café Recording", true},
		{"id3v1 only", v1, "Café Talk", true},
		{"no tag", untagged, "", false},
		{"not an mp3", garbage, "", false},
		{"missing file", filepath.Join(dir, "missing.mp3"), "", false},
	}

	tagger := NewTagger(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tagger.ReadTitle(tt.path)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ReadTitle() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTagger_WriteTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.mp3")
	testsupport.WriteMP3(t, path, "Old Title")

	want := Tags{Title: "Episode 1", Artist: "Tech Talk", Album: "Tech Talk", Genre: "Podcast"}
	if err := NewTagger(nil).WriteTags(context.Background(), path, want); err != nil {
		t.Fatalf("WriteTags() error = %v", err)
	}

	got := testsupport.ReadTags(t, path)
	if got.Title != want.Title || got.Artist != want.Artist || got.Album != want.Album || got.Genre != want.Genre {
		t.Errorf("tags = %+v, want %+v", got, want)
	}
	if n := testsupport.CommentCount(t, path); n != 1 {
		t.Errorf("comment frames = %d, want 1 (other frames must survive)", n)
	}
	if !testsupport.HasAudioPayload(t, path) {
		t.Error("audio payload was not preserved")
	}
}

func TestTagger_WriteTagsOnUntaggedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.mp3")
	testsupport.WriteMP3(t, path, "")

	tags := Tags{Title: "Ünïcödé / Title", Artist: "Show", Album: "Show", Genre: "Podcast"}
	if err := NewTagger(nil).WriteTags(context.Background(), path, tags); err != nil {
		t.Fatalf("WriteTags() error = %v", err)
	}
	if got := testsupport.ReadTags(t, path); got.Title != tags.Title {
		t.Errorf("Title = %q, want %q", got.Title, tags.Title)
	}
	if !testsupport.HasAudioPayload(t, path) {
		t.Error("audio payload was not preserved")
	}
}

func TestTagger_WriteTagsUnicodeOnV23Tag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.mp3")
	testsupport.WriteMP3V23(t, path, "Old Title")

	want := Tags{Title: "It’s — 日本語", Artist: "Café ☕ Show", Album: "Café ☕ Show", Genre: "Podcast"}
	if err := NewTagger(nil).WriteTags(context.Background(), path, want); err != nil {
		t.Fatalf("WriteTags() error = %v", err)
	}

	got := testsupport.ReadTags(t, path)
	if got.Title != want.Title || got.Artist != want.Artist || got.Album != want.Album || got.Genre != want.Genre {
		t.Errorf("tags = %+v, want %+v", got, want)
	}
	if v := testsupport.TagVersion(t, path); v != 3 {
		t.Errorf("tag version = %d, want 3", v)
	}
	if n := testsupport.CommentCount(t, path); n != 1 {
		t.Errorf("comment frames = %d, want 1", n)
	}
	if !testsupport.HasAudioPayload(t, path) {
		t.Error("audio payload was not preserved")
	}
	if title, ok := NewTagger(nil).ReadTitle(path); !ok || title != want.Title {
		t.Errorf("ReadTitle() = (%q, %v), want (%q, true)", title, ok, want.Title)
	}
}

func TestTagger_WriteTagsMissingFile(t *testing.T) {
	err := NewTagger(nil).WriteTags(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"), Tags{Title: "x"})
	if !errors.Is(err, ErrTagWrite) {
		t.Errorf("error = %v, want ErrTagWrite", err)
	}
}

func TestTagger_NormalizesArtwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.mp3")
	testsupport.WriteMP3(t, path, "")

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 400, 400))); err != nil {
		t.Fatal(err)
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/png",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     buf.Bytes(),
	})
	if err := tag.Save(); err != nil {
		t.Fatal(err)
	}
	tag.Close()

	tagger := NewTagger(ioutils.NewImageService(100, true))
	if err := tagger.WriteTags(context.Background(), path, Tags{Title: "t", Artist: "a", Album: "a", Genre: "Podcast"}); err != nil {
		t.Fatalf("WriteTags() error = %v", err)
	}

	tag, err = id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()

	frames := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(frames) != 1 {
		t.Fatalf("picture frames = %d, want 1", len(frames))
	}
	pic := frames[0].(id3v2.PictureFrame)
	if pic.MimeType != "image/jpeg" {
		t.Errorf("MimeType = %q, want image/jpeg", pic.MimeType)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(pic.Picture))
	if err != nil {
		t.Fatalf("decode picture: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 100 {
		t.Errorf("picture size = %dx%d, want 100x100", cfg.Width, cfg.Height)
	}
}
