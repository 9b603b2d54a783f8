package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
)

// Tags mirrors the identity frames checked by export tests.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Genre  string
}

// audioPayload stands in for MPEG audio frames; id3v2 never decodes it.
var audioPayload = bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x64, 0x00, 0x00}, 512)

// WriteMP3 creates an MP3-like file at path. When title is non-empty an
// ID3v2.4 tag carrying that title is written in front of the audio payload.
func WriteMP3(t testing.TB, path, title string) {
	t.Helper()
	writeMP3(t, path, title, 4)
}

// WriteMP3V23 is WriteMP3 with an ID3v2.3 tag, whose default text encoding
// is ISO-8859-1.
func WriteMP3V23(t testing.TB, path, title string) {
	t.Helper()
	writeMP3(t, path, title, 3)
}

// WriteMP3V1 creates an MP3-like file at path with no ID3v2 tag and an
// ID3v1 trailer whose title is latin1, given as raw ISO-8859-1 bytes.
func WriteMP3V1(t testing.TB, path string, latin1 []byte) {
	t.Helper()

	trailer := make([]byte, 128)
	copy(trailer, "TAG")
	copy(trailer[3:33], latin1)

	data := append(append([]byte{}, audioPayload...), trailer...)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeMP3(t testing.TB, path, title string, version byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if title != "" {
		tag := id3v2.NewEmptyTag()
		tag.SetVersion(version)
		tag.SetTitle(title)
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    tag.DefaultEncoding(),
			Language:    "eng",
			Description: "note",
			Text:        "kept",
		})
		if _, err := tag.WriteTo(f); err != nil {
			t.Fatalf("write tag to %s: %v", path, err)
		}
	}
	if _, err := f.Write(audioPayload); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TagVersion returns the ID3v2 version of the tag in the file at path.
func TagVersion(t testing.TB, path string) byte {
	t.Helper()

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tag %s: %v", path, err)
	}
	defer tag.Close()

	return tag.Version()
}

// WriteGarbage creates a file at path that carries no ID3 tag at all.
func WriteGarbage(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("definitely not an mp3"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadTags returns the four identity frames of the file at path.
func ReadTags(t testing.TB, path string) Tags {
	t.Helper()

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tag %s: %v", path, err)
	}
	defer tag.Close()

	return Tags{
		Title:  tag.Title(),
		Artist: tag.Artist(),
		Album:  tag.Album(),
		Genre:  tag.Genre(),
	}
}

// CommentCount returns how many COMM frames the file at path carries.
func CommentCount(t testing.TB, path string) int {
	t.Helper()

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tag %s: %v", path, err)
	}
	defer tag.Close()

	return len(tag.GetFrames(tag.CommonID("Comments")))
}

// HasAudioPayload reports whether the file at path still ends with the
// payload written by WriteMP3.
func HasAudioPayload(t testing.TB, path string) bool {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return bytes.HasSuffix(data, audioPayload)
}
