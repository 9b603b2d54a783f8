package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageService_Normalize(t *testing.T) {
	tests := []struct {
		name        string
		data        func(t *testing.T) []byte
		maxSize     int
		toJPG       bool
		wantChanged bool
		wantMime    string
		wantW       int
		wantH       int
	}{
		{"small jpeg untouched", func(t *testing.T) []byte { return encodeJPEG(t, 100, 100) }, 500, true, false, "image/jpeg", 100, 100},
		{"large png resized to jpeg", func(t *testing.T) []byte { return encodePNG(t, 800, 400) }, 200, true, true, "image/jpeg", 200, 100},
		{"small png converted", func(t *testing.T) []byte { return encodePNG(t, 50, 50) }, 200, true, true, "image/jpeg", 50, 50},
		{"large png stays png", func(t *testing.T) []byte { return encodePNG(t, 300, 600) }, 150, false, true, "image/png", 75, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewImageService(tt.maxSize, tt.toJPG)
			out, mime, changed, err := svc.Normalize(context.Background(), tt.data(t))
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if mime != tt.wantMime {
				t.Errorf("mime = %q, want %q", mime, tt.wantMime)
			}
			cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("decode output: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImageService_NormalizeRejectsGarbage(t *testing.T) {
	svc := NewImageService(100, true)
	if _, _, _, err := svc.Normalize(context.Background(), []byte("not an image")); err == nil {
		t.Error("expected decode error")
	}
}
