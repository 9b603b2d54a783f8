package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/podcasts-export/internal/audio"
	"github.com/handiism/podcasts-export/internal/cache"
	"github.com/handiism/podcasts-export/internal/catalog"
	"github.com/handiism/podcasts-export/internal/config"
	"github.com/handiism/podcasts-export/internal/correlate"
	ioutils "github.com/handiism/podcasts-export/internal/io"
	"github.com/handiism/podcasts-export/internal/layout"
	"github.com/handiism/podcasts-export/internal/library"
	"github.com/handiism/podcasts-export/internal/model"
)

// LockFileName is created in the output root while an export runs.
const LockFileName = ".podcasts-export.lock"

// ErrExportLocked is returned by Start when another export holds the lock.
var ErrExportLocked = errors.New("another export is already running")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents an export progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Failure describes one episode that could not be exported.
type Failure struct {
	EpisodeID   string
	Source      string
	Destination string
	Err         error
}

// Result summarises a finished run.
type Result struct {
	RunID     string
	OutputDir string
	Exported  int
	Failed    []Failure
	Bytes     int64
	Playlists int
	Duration  time.Duration
}

// Option customises a Manager.
type Option func(*Manager)

// WithLocator replaces the default application data locator.
func WithLocator(locator *library.Locator) Option {
	return func(m *Manager) { m.locator = locator }
}

// WithClock replaces time.Now, which decides the dated output folder.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager coordinates a podcast export.
type Manager struct {
	settings     *config.Settings
	logger       *zap.Logger
	runID        string
	locator      *library.Locator
	tagger       *audio.Tagger
	materializer *Materializer
	playlist     *audio.PlaylistCreator
	now          func() time.Time

	paths     *library.Paths
	outputDir string
	groups    []*model.ExportGroup

	totalBytes    int64
	copiedBytes   int64
	totalFiles    int32
	processed     int32
	exportedFiles int32

	failures   []Failure
	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new export Manager. logger and onProgress may be nil.
func NewManager(settings *config.Settings, logger *zap.Logger, onProgress func(ProgressEvent), opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	var artwork *ioutils.ImageService
	if settings.Artwork.Normalize {
		artwork = ioutils.NewImageService(settings.Artwork.MaxSize, settings.Artwork.ConvertToJPG)
	}
	tagger := audio.NewTagger(artwork)
	runID := uuid.NewString()

	m := &Manager{
		settings:     settings,
		logger:       logger.With(zap.String("run_id", runID)),
		runID:        runID,
		tagger:       tagger,
		materializer: NewMaterializer(tagger, settings.Export.Genre),
		playlist:     audio.NewPlaylistCreator(audio.ParsePlaylistFormat(settings.Export.PlaylistFormat), settings.Export.M3UExtended),
		now:          time.Now,
		onProgress:   onProgress,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.locator == nil {
		m.locator = library.NewLocator("")
	}
	return m
}

// Initialize locates the application data, reads the catalog and cache,
// resolves every episode and plans destination paths.
//
// An unreadable catalog is logged and treated as empty. A missing container
// or unreadable cache directory is returned as an error.
func (m *Manager) Initialize(ctx context.Context) error {
	paths, err := m.locator.Locate(m.settings.Paths)
	if err != nil {
		return err
	}
	m.paths = paths
	m.logger.Info("located podcasts library",
		zap.String("database", paths.DatabasePath),
		zap.String("cache", paths.CacheDir))

	rows, err := catalog.NewReader(paths.DatabasePath).Read(ctx)
	if err != nil {
		m.logger.Warn("catalog unavailable, continuing without it", zap.Error(err))
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not read podcasts database: %v", err), Level: LevelWarning})
		rows = nil
	}

	entries, err := cache.List(paths.CacheDir, m.settings.Export.FileExtension)
	if err != nil {
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d cached episodes, %d catalog entries", len(entries), len(rows)), Level: LevelInfo})

	correlator := correlate.NewCorrelator(m.tagger, m.settings.Export.UnknownPodcastTitle, m.logger)
	episodes := correlator.Resolve(ctx, rows, entries)
	if err := ctx.Err(); err != nil {
		return err
	}
	m.groups = correlate.Group(episodes)

	m.outputDir = m.settings.OutputDir(m.now())
	resolver := layout.NewResolver(layout.Options{
		Root:          m.outputDir,
		Ext:           m.settings.Export.FileExtension,
		MaxNameLength: m.settings.Export.MaxNameLength,
		Unique:        m.settings.Export.UniqueNames,
		FallbackDir:   m.settings.Export.UnknownPodcastTitle,
	})
	resolver.Plan(m.groups)

	for path, claimants := range layout.Collisions(m.groups) {
		m.logger.Warn("episodes share a destination, later files overwrite earlier ones",
			zap.String("destination", path),
			zap.Int("episodes", len(claimants)))
	}

	m.calculateTotals()
	for _, group := range m.groups {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Found podcast: %s (%d episodes)", group.PodcastTitle, group.Len()), Level: LevelVerbose})
	}
	return nil
}

// Start exports every planned episode and returns the run summary.
//
// Groups and the members of each group are exported concurrently within
// the configured limits. A failed episode is logged and recorded in
// Result.Failed; it never stops the run. Start returns an error only when
// the output cannot be prepared, the lock is held elsewhere or ctx is done.
func (m *Manager) Start(ctx context.Context) (*Result, error) {
	if m.paths == nil {
		return nil, errors.New("manager not initialized")
	}
	started := time.Now()

	if err := ioutils.EnsureDir(m.settings.Paths.OutputRoot); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}
	lock := flock.New(filepath.Join(m.settings.Paths.OutputRoot, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrExportLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			m.logger.Warn("failed to release export lock", zap.Error(err))
		}
	}()

	if err := ioutils.EnsureDir(m.outputDir); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	m.logger.Info("export started",
		zap.String("output", m.outputDir),
		zap.Int("groups", len(m.groups)),
		zap.Int32("files", m.totalFiles))

	var playlists int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.Export.MaxConcurrentGroups)
	for _, group := range m.groups {
		g.Go(func() error {
			if m.exportGroup(gctx, group) {
				atomic.AddInt32(&playlists, 1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     m.runID,
		OutputDir: m.outputDir,
		Exported:  int(atomic.LoadInt32(&m.exportedFiles)),
		Failed:    m.Failures(),
		Bytes:     atomic.LoadInt64(&m.copiedBytes),
		Playlists: int(playlists),
		Duration:  time.Since(started),
	}
	if err := ctx.Err(); err != nil {
		m.logger.Warn("export cancelled", zap.Int("exported", result.Exported))
		return result, err
	}

	m.logger.Info("export finished",
		zap.String("output", result.OutputDir),
		zap.Int("exported", result.Exported),
		zap.Int("failed", len(result.Failed)),
		zap.Int64("bytes", result.Bytes),
		zap.Duration("duration", result.Duration))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Exported podcasts to %s", result.OutputDir), Level: LevelSuccess})
	return result, nil
}

// GetProgress returns current export progress.
func (m *Manager) GetProgress() (copied, total int64, filesProcessed, filesTotal int32) {
	return atomic.LoadInt64(&m.copiedBytes), m.totalBytes,
		atomic.LoadInt32(&m.processed), m.totalFiles
}

// Groups returns the planned export groups.
func (m *Manager) Groups() []*model.ExportGroup {
	return m.groups
}

// OutputDir returns the directory this run exports into.
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// RunID returns the identifier attached to every log line of this run.
func (m *Manager) RunID() string {
	return m.runID
}

// Failures returns a copy of the failures recorded so far.
func (m *Manager) Failures() []Failure {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Failure(nil), m.failures...)
}

func (m *Manager) calculateTotals() {
	m.totalFiles, m.totalBytes = 0, 0
	for _, group := range m.groups {
		for _, episode := range group.Members {
			m.totalFiles++
			if info, err := os.Stat(episode.SourcePath); err == nil {
				m.totalBytes += info.Size()
			}
		}
	}
}

// exportGroup materializes every member of group and reports whether a
// playlist was written.
func (m *Manager) exportGroup(ctx context.Context, group *model.ExportGroup) bool {
	if err := ioutils.EnsureDir(group.Dir); err != nil {
		for _, episode := range group.Members {
			m.fail(episode, fmt.Errorf("create directory: %w", err))
		}
		return false
	}

	exported := make([]bool, len(group.Members))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.Export.MaxConcurrentFiles)
	for i, episode := range group.Members {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			n, err := m.materializer.Materialize(ctx, episode)
			if err != nil {
				if ctx.Err() == nil {
					m.fail(episode, err)
				}
				return nil // Continue with other episodes
			}
			exported[i] = true
			atomic.AddInt64(&m.copiedBytes, n)
			atomic.AddInt32(&m.exportedFiles, 1)
			atomic.AddInt32(&m.processed, 1)
			m.logger.Debug("exported episode",
				zap.String("episode_id", episode.EpisodeID),
				zap.String("destination", episode.DestinationPath),
				zap.Stringer("title_source", episode.TitleSource))
			m.progress(ProgressEvent{Message: fmt.Sprintf("Exported: %s", filepath.Base(episode.DestinationPath)), Level: LevelVerbose})
			return nil
		})
	}
	_ = g.Wait()

	var members []*model.ResolvedEpisode
	for i, episode := range group.Members {
		if exported[i] {
			members = append(members, episode)
		}
	}
	if len(members) < len(group.Members) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished %s, some episodes failed", group.PodcastTitle), Level: LevelWarning})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Exported podcast: %s", group.PodcastTitle), Level: LevelSuccess})
	}

	if !m.settings.Export.CreatePlaylist || len(members) == 0 {
		return false
	}
	name := group.Playlist
	if name == "" {
		name = filepath.Base(group.Dir)
	}
	playlistPath := filepath.Join(group.Dir, name+m.playlist.Format().Extension())
	content := m.playlist.CreatePlaylist(group.PodcastTitle, members)
	if err := os.WriteFile(playlistPath, []byte(content), 0o644); err != nil {
		m.logger.Warn("failed to write playlist", zap.String("path", playlistPath), zap.Error(err))
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return false
	}
	return true
}

func (m *Manager) fail(episode *model.ResolvedEpisode, err error) {
	m.mu.Lock()
	m.failures = append(m.failures, Failure{
		EpisodeID:   episode.EpisodeID,
		Source:      episode.SourcePath,
		Destination: episode.DestinationPath,
		Err:         err,
	})
	m.mu.Unlock()
	atomic.AddInt32(&m.processed, 1)

	m.logger.Error("failed to export episode",
		zap.String("episode_id", episode.EpisodeID),
		zap.String("source", episode.SourcePath),
		zap.String("destination", episode.DestinationPath),
		zap.Error(err))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Error exporting %s: %v", episode.DisplayTitle, err), Level: LevelError})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
