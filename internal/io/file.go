// Package ioutils provides file system utilities for podcasts-export.
//
// This package contains functions for:
//   - File copying
//   - Filename sanitization and truncation
//   - Directory creation
//
// All functions that accept a context.Context check it before doing work,
// though file operations themselves may not be interruptible.
package ioutils

import (
	"context"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	invalidChars    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\x7f]`)
	multipleSpaces  = regexp.MustCompile(`\s+`)
	reservedDevices = regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[1-9]|lpt[1-9])(\..*)?$`)
)

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The source file must exist and be readable.
// It returns the number of bytes copied.
//
// Example:
//
//	n, err := CopyFile(ctx, "/cache/abc.mp3", "/export/Tech Talk/Episode 1.mp3")
func CopyFile(ctx context.Context, src, dst string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	sourceFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer sourceFile.Close()

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	defer destFile.Close()

	n, err := io.Copy(destFile, sourceFile)
	if err != nil {
		return n, err
	}
	return n, destFile.Close()
}

// SanitizeFileName makes name safe to use as a single path segment.
//
// The following transformations are applied:
//   - Unicode is normalised to NFC
//   - Invalid characters (<>:"/\|?* and control chars) → underscore
//   - Multiple whitespace → single space
//   - Leading and trailing whitespace and dots → removed
//   - Reserved device names (CON, NUL, COM1...) → prefixed with underscore
//
// The result may be empty when name has no usable characters.
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")  // Returns "Song_ Part 1_2"
//	SanitizeFileName("..hidden.. ")     // Returns "hidden"
//	SanitizeFileName("con")             // Returns "_con"
func SanitizeFileName(name string) string {
	name = norm.NFC.String(name)
	name = invalidChars.ReplaceAllString(name, "_")
	name = multipleSpaces.ReplaceAllString(name, " ")
	name = trimSegment(name)

	if reservedDevices.MatchString(name) {
		name = "_" + name
	}
	return name
}

// TruncateName cuts name to at most maxLen characters (runes, not bytes) and
// trims any whitespace or dots left at the new end.
//
// Apply it after SanitizeFileName so the result stays a valid segment.
//
// Example:
//
//	TruncateName("A very long episode title", 6) // Returns "A very"
func TruncateName(name string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(name) <= maxLen {
		return name
	}
	runes := []rune(name)
	return trimSegment(string(runes[:maxLen]))
}

func trimSegment(name string) string {
	return strings.Trim(name, " \t.")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x). If the directory
// already exists, including when another goroutine created it concurrently,
// no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
