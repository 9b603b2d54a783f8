package ioutils

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file", "normal-file"},
		{"file:with:colons", "file_with_colons"},
		{"file<with>brackets", "file_with_brackets"},
		{"file/with\\slashes", "file_with_slashes"},
		{"file|with|pipes", "file_with_pipes"},
		{"file?with*wildcards", "file_with_wildcards"},
		{"file\"with\"quotes", "file_with_quotes"},
		{"nul\x00byte", "nul_byte"},
		{"trailing dots...", "trailing dots"},
		{"...leading dots", "leading dots"},
		{"multiple   spaces", "multiple spaces"},
		{"  padded  ", "padded"},
		{"..", ""},
		{"../../etc/passwd", "_.._etc_passwd"},
		{"CON", "_CON"},
		{"lpt1.txt", "_lpt1.txt"},
		{"Console", "Console"},
		{"Café", "Café"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "Episode 1", 50, "Episode 1"},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdefgh", 5, "abcde"},
		{"cut trims trailing space", "abcd efgh", 5, "abcd"},
		{"cut trims trailing dot", "abcd.efgh", 5, "abcd"},
		{"runes not bytes", "ééééééé", 3, "ééé"},
		{"disabled", "abcdefgh", 0, "abcdefgh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateName(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("TruncateName(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
			if tt.maxLen > 0 && utf8.RuneCountInString(got) > tt.maxLen {
				t.Errorf("result %q longer than %d", got, tt.maxLen)
			}
		})
	}
}

func TestSanitizeThenTruncate_Boundaries(t *testing.T) {
	// Sanitising never grows a name except for the reserved-name prefix, so a
	// name that only becomes illegal after sanitising stays within the limit.
	illegal := strings.Repeat("/", 10) + strings.Repeat("a", 40)
	got := TruncateName(SanitizeFileName(illegal), 50)
	if strings.ContainsAny(got, "/\\") || utf8.RuneCountInString(got) != 50 {
		t.Errorf("illegal-at-boundary name = %q", got)
	}

	// A name that is only too long before sanitising: trailing dots push it
	// over the limit and are stripped by sanitising, so nothing is cut.
	long := strings.Repeat("b", 48) + "......"
	got = TruncateName(SanitizeFileName(long), 50)
	if got != strings.Repeat("b", 48) {
		t.Errorf("too-long-before-sanitise name = %q", got)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp3")
	dst := filepath.Join(dir, "dst.mp3")
	content := bytes.Repeat([]byte("frame"), 1000)
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("stale content that is longer than nothing"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := CopyFile(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("copied %d bytes, want %d", n, len(content))
	}
	got, _ := os.ReadFile(dst)
	if !bytes.Equal(got, content) {
		t.Error("destination content differs from source")
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	if _, err := CopyFile(context.Background(), filepath.Join(dir, "nope.mp3"), filepath.Join(dir, "out.mp3")); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestCopyFile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CopyFile(ctx, "a", "b"); err == nil {
		t.Error("expected context error")
	}
}

func TestEnsureDir_Concurrent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "c")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- EnsureDir(target)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("EnsureDir() error = %v", err)
		}
	}
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}
