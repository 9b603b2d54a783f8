// Package config provides configuration management for podcasts-export.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Path expansion (~ and relative paths)
//   - The dated output directory for a run
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Exports to ~/Downloads/PodcastsExport/YYYY.MM.DD
//	// Episode names capped at 50 characters
//	// ID3 genre set to "Podcast"
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.toml")
//	if err != nil {
//	    // Parse or validation error; a missing file yields defaults
//	}
//
// # Saving Settings
//
//	settings.Paths.OutputRoot = "/Volumes/Backup/Podcasts"
//	err := settings.Save("/path/to/config.toml")
package config
