package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/podcasts-export/internal/config"
)

// SettingsOption allows callers to customize the generated test settings.
type SettingsOption func(*settingsBuilder)

type settingsBuilder struct {
	t        testing.TB
	baseDir  string
	settings *config.Settings
}

// NewSettings produces settings pointing at a fake Podcasts group container
// inside a per-test temp directory. The cache directory exists and is empty;
// no catalog is written. Reveal is disabled.
func NewSettings(t testing.TB, opts ...SettingsOption) *config.Settings {
	t.Helper()

	base := t.TempDir()
	settings := config.DefaultSettings()
	settings.Paths.ContainerDir = filepath.Join(base, "Group Containers", "243LU875E5.groups.com.apple.podcasts")
	settings.Paths.OutputRoot = filepath.Join(base, "export")
	settings.Export.DatedSubfolder = false
	settings.Export.RevealOutput = false

	if err := os.MkdirAll(CacheDir(settings), 0o755); err != nil {
		t.Fatalf("mkdir cache: %v", err)
	}

	builder := &settingsBuilder{t: t, baseDir: base, settings: settings}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.settings
}

// WithUniqueNames enables collision suffixing.
func WithUniqueNames() SettingsOption {
	return func(b *settingsBuilder) {
		b.settings.Export.UniqueNames = true
	}
}

// WithPlaylist enables playlist creation in the given format.
func WithPlaylist(format string) SettingsOption {
	return func(b *settingsBuilder) {
		b.settings.Export.CreatePlaylist = true
		b.settings.Export.PlaylistFormat = format
	}
}

// CacheDir returns the cache directory inside the fake container.
func CacheDir(settings *config.Settings) string {
	return filepath.Join(settings.Paths.ContainerDir, "Library", "Cache")
}

// CatalogPath returns the catalog location inside the fake container.
func CatalogPath(settings *config.Settings) string {
	return filepath.Join(settings.Paths.ContainerDir, "Documents", "MTLibrary.sqlite")
}
