package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2"
	"golang.org/x/text/encoding/charmap"

	ioutils "github.com/handiism/podcasts-export/internal/io"
)

// ErrTagWrite is wrapped by every error returned from WriteTags.
var ErrTagWrite = errors.New("tag write failed")

// id3v1Size is the length of the ID3v1 trailer at the end of a file.
const id3v1Size = 128

// Tags holds the ID3 text frames rewritten on every exported episode.
//
// Example:
//
//	tags := Tags{
//	    Title:  "Episode 1",  // TIT2
//	    Artist: "Tech Talk",  // TPE1
//	    Album:  "Tech Talk",  // TALB
//	    Genre:  "Podcast",    // TCON
//	}
type Tags struct {
	Title  string
	Artist string
	Album  string
	Genre  string
}

// Tagger reads and writes ID3 tags on MP3 files.
//
// Tagger uses the id3v2 library's read-modify-write cycle, so frames other
// than the four in Tags (chapters, comments, artwork) survive a rewrite.
// When an ImageService is attached, oversized embedded artwork is also
// normalised during WriteTags.
//
// Example:
//
//	tagger := NewTagger(nil)
//
//	title, ok := tagger.ReadTitle("/cache/abc.mp3")
//
//	err := tagger.WriteTags(ctx, "/export/Tech Talk/Episode 1.mp3", Tags{...})
//	if err != nil {
//	    log.Printf("Failed to tag: %v", err)
//	}
type Tagger struct {
	artwork *ioutils.ImageService
}

// NewTagger creates a new Tagger.
//
// artwork may be nil, in which case embedded pictures are left untouched.
func NewTagger(artwork *ioutils.ImageService) *Tagger {
	return &Tagger{artwork: artwork}
}

// ReadTitle returns the title embedded in the file at path: the ID3v2 TIT2
// frame, or the ID3v1 title when there is no usable v2 title.
//
// This is best effort: a missing file, a file without a tag, a tag that
// cannot be parsed or an empty title all report ok == false.
func (t *Tagger) ReadTitle(path string) (string, bool) {
	if title := readV2Title(path); title != "" {
		return title, true
	}
	if title := readV1Title(path); title != "" {
		return title, true
	}
	return "", false
}

func readV2Title(path string) string {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Title"}})
	if err != nil {
		return ""
	}
	defer tag.Close()

	return strings.TrimSpace(tag.Title())
}

// readV1Title reads the 30-byte ISO-8859-1 title of an ID3v1 trailer.
func readV1Title(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.Size() < id3v1Size {
		return ""
	}
	trailer := make([]byte, id3v1Size)
	if _, err := f.ReadAt(trailer, info.Size()-id3v1Size); err != nil {
		return ""
	}
	if !bytes.HasPrefix(trailer, []byte("TAG")) {
		return ""
	}

	raw := trailer[3:33]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	title, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(title))
}

// WriteTags overwrites the title, artist, album and genre frames of the
// file at path and saves it in place.
//
// This method:
//  1. Opens the file and parses its existing tag (an empty tag if none)
//  2. Sets TIT2, TPE1, TALB and TCON unconditionally, in UTF-16 for
//     ID3v2.3 tags and UTF-8 for ID3v2.4
//  3. Normalises embedded artwork if an ImageService is configured
//  4. Saves the tag, rewriting the file
//
// Every returned error wraps ErrTagWrite.
func (t *Tagger) WriteTags(ctx context.Context, path string, tags Tags) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrTagWrite, path, err)
	}
	defer tag.Close()

	// v2.3 tags default to ISO-8859-1, which cannot hold most titles.
	enc := id3v2.EncodingUTF8
	if tag.Version() < 4 {
		enc = id3v2.EncodingUTF16
	}
	tag.AddTextFrame(tag.CommonID("Title"), enc, tags.Title)
	tag.AddTextFrame(tag.CommonID("Artist"), enc, tags.Artist)
	tag.AddTextFrame(tag.CommonID("Album/Movie/Show title"), enc, tags.Album)
	tag.AddTextFrame(tag.CommonID("Content type"), enc, tags.Genre)

	if t.artwork != nil {
		if err := t.normalizeArtwork(ctx, tag); err != nil {
			return fmt.Errorf("%w: artwork %s: %v", ErrTagWrite, path, err)
		}
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrTagWrite, path, err)
	}
	return nil
}

// normalizeArtwork replaces attached pictures that the ImageService changes.
// Pictures it cannot decode are kept as they are.
func (t *Tagger) normalizeArtwork(ctx context.Context, tag *id3v2.Tag) error {
	pictureID := tag.CommonID("Attached picture")
	frames := tag.GetFrames(pictureID)
	if len(frames) == 0 {
		return nil
	}

	replaced := make([]id3v2.PictureFrame, 0, len(frames))
	dirty := false
	for _, f := range frames {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		out, mime, changed, err := t.artwork.Normalize(ctx, pic.Picture)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			replaced = append(replaced, pic)
			continue
		}
		if changed {
			pic.Picture = out
			pic.MimeType = mime
			dirty = true
		}
		replaced = append(replaced, pic)
	}

	if !dirty {
		return nil
	}
	tag.DeleteFrames(pictureID)
	for _, pic := range replaced {
		tag.AddAttachedPicture(pic)
	}
	return nil
}
