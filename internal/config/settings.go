package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths holds the locations of the podcast application's data and the export root.
type Paths struct {
	// ContainerDir is the application's group container. Empty means auto-detect.
	ContainerDir string `toml:"container_dir"`

	// DatabasePath overrides <container>/Documents/MTLibrary.sqlite.
	DatabasePath string `toml:"database_path"`

	// CacheDir overrides <container>/Library/Cache.
	CacheDir string `toml:"cache_dir"`

	// OutputRoot is where exports are written.
	OutputRoot string `toml:"output_root"`
}

// Export holds naming and scheduling options for a run.
type Export struct {
	DatedSubfolder      bool   `toml:"dated_subfolder"`
	FileExtension       string `toml:"file_extension"`
	MaxNameLength       int    `toml:"max_name_length"`
	UniqueNames         bool   `toml:"unique_names"`
	UnknownPodcastTitle string `toml:"unknown_podcast_title"`
	Genre               string `toml:"genre"`
	MaxConcurrentGroups int    `toml:"max_concurrent_groups"`
	MaxConcurrentFiles  int    `toml:"max_concurrent_files"`
	RevealOutput        bool   `toml:"reveal_output"`

	// Playlist settings
	CreatePlaylist bool   `toml:"create_playlist"`
	PlaylistFormat string `toml:"playlist_format"` // m3u, pls
	M3UExtended    bool   `toml:"m3u_extended"`
}

// Artwork controls optional normalisation of embedded cover art.
type Artwork struct {
	Normalize    bool `toml:"normalize"`
	MaxSize      int  `toml:"max_size"`
	ConvertToJPG bool `toml:"convert_to_jpg"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Settings holds all configuration options.
type Settings struct {
	Paths   Paths   `toml:"paths"`
	Export  Export  `toml:"export"`
	Artwork Artwork `toml:"artwork"`
	Logging Logging `toml:"logging"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		Paths: Paths{
			OutputRoot: filepath.Join(homeDir, "Downloads", "PodcastsExport"),
		},
		Export: Export{
			DatedSubfolder:      true,
			FileExtension:       ".mp3",
			MaxNameLength:       50,
			UniqueNames:         false,
			UnknownPodcastTitle: "Unknown Artist",
			Genre:               "Podcast",
			MaxConcurrentGroups: 4,
			MaxConcurrentFiles:  2,
			RevealOutput:        true,

			CreatePlaylist: false,
			PlaylistFormat: "m3u",
			M3UExtended:    true,
		},
		Artwork: Artwork{
			Normalize:    false,
			MaxSize:      1000,
			ConvertToJPG: true,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	return ExpandPath("~/.config/podcasts-export/config.toml")
}

// Load reads settings from a TOML file.
//
// A missing file is not an error: defaults are returned. Paths are expanded
// and the result is validated.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := settings.normalize(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Validate checks option ranges.
func (s *Settings) Validate() error {
	if s.Export.MaxConcurrentGroups < 1 {
		return fmt.Errorf("export.max_concurrent_groups must be at least 1, got %d", s.Export.MaxConcurrentGroups)
	}
	if s.Export.MaxConcurrentFiles < 1 {
		return fmt.Errorf("export.max_concurrent_files must be at least 1, got %d", s.Export.MaxConcurrentFiles)
	}
	if s.Export.MaxNameLength < 8 {
		return fmt.Errorf("export.max_name_length must be at least 8, got %d", s.Export.MaxNameLength)
	}
	if !strings.HasPrefix(s.Export.FileExtension, ".") || len(s.Export.FileExtension) < 2 {
		return fmt.Errorf("export.file_extension must start with a dot, got %q", s.Export.FileExtension)
	}
	if strings.TrimSpace(s.Export.UnknownPodcastTitle) == "" {
		return errors.New("export.unknown_podcast_title must not be empty")
	}
	switch s.Export.PlaylistFormat {
	case "m3u", "pls":
	default:
		return fmt.Errorf("export.playlist_format: unsupported value %q", s.Export.PlaylistFormat)
	}
	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", s.Logging.Format)
	}
	if s.Artwork.Normalize && s.Artwork.MaxSize < 1 {
		return fmt.Errorf("artwork.max_size must be positive, got %d", s.Artwork.MaxSize)
	}
	if strings.TrimSpace(s.Paths.OutputRoot) == "" {
		return errors.New("paths.output_root must not be empty")
	}
	return nil
}

// OutputDir returns the directory this run exports into.
//
// With DatedSubfolder enabled the directory is OutputRoot/YYYY.MM.DD for the
// given time.
func (s *Settings) OutputDir(now time.Time) string {
	if !s.Export.DatedSubfolder {
		return s.Paths.OutputRoot
	}
	return filepath.Join(s.Paths.OutputRoot, now.Format("2006.01.02"))
}

func (s *Settings) normalize() error {
	for _, p := range []*string{&s.Paths.ContainerDir, &s.Paths.DatabasePath, &s.Paths.CacheDir, &s.Paths.OutputRoot, &s.Logging.File} {
		expanded, err := ExpandPath(strings.TrimSpace(*p))
		if err != nil {
			return err
		}
		*p = expanded
	}
	s.Export.FileExtension = strings.TrimSpace(s.Export.FileExtension)
	s.Export.PlaylistFormat = strings.ToLower(strings.TrimSpace(s.Export.PlaylistFormat))
	s.Logging.Format = strings.ToLower(strings.TrimSpace(s.Logging.Format))
	s.Logging.Level = strings.ToLower(strings.TrimSpace(s.Logging.Level))
	return nil
}

// ExpandPath resolves a leading ~ and makes the path absolute. Empty stays empty.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
