// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - File copying
//   - Filename sanitization and truncation for cross-platform compatibility
//   - Directory creation
//   - Cover art resizing and format conversion
//
// # File Operations
//
//	// Copy a file, returns bytes written
//	n, err := ioutils.CopyFile(ctx, "/cache/abc.mp3", "/export/abc.mp3")
//
//	// Ensure directory exists (safe to call concurrently)
//	err := ioutils.EnsureDir("/export/Tech Talk")
//
// # Filename Sanitization
//
// Sanitize first, then truncate, so the length limit applies to the name that
// actually lands on disk:
//
//	safe := ioutils.TruncateName(ioutils.SanitizeFileName("Part 1/2: Intro"), 50)
//	// "Part 1_2_ Intro"
//
// # Image Processing
//
// The ImageService shrinks embedded artwork:
//
//	svc := ioutils.NewImageService(1000, true)
//	out, mime, changed, err := svc.Normalize(ctx, pictureBytes)
package ioutils
