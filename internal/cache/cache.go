// Package cache enumerates downloaded episode files in the Podcasts
// application's cache directory.
package cache

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/handiism/podcasts-export/internal/model"
)

// ErrCacheDirectoryUnavailable is wrapped when the cache directory cannot be listed.
var ErrCacheDirectoryUnavailable = errors.New("cache directory unavailable")

// List returns one entry per regular file in dir whose name ends with ext.
//
// Matching is case-sensitive and entries come back in file name order.
// Subdirectories and a bare ext with no episode id are skipped.
func List(dir, ext string) ([]model.CacheEntry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheDirectoryUnavailable, err)
	}

	var entries []model.CacheEntry
	for _, item := range items {
		name := item.Name()
		if !item.Type().IsRegular() || !strings.HasSuffix(name, ext) || len(name) == len(ext) {
			continue
		}
		entries = append(entries, model.NewCacheEntry(dir, name, ext))
	}
	return entries, nil
}
