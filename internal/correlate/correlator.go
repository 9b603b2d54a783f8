package correlate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/handiism/podcasts-export/internal/model"
)

// TitleReader reads the title embedded in an audio file.
//
// A missing file, missing tag or empty title reports ok == false.
type TitleReader interface {
	ReadTitle(path string) (title string, ok bool)
}

// titleStep produces a candidate display title, or ok == false.
type titleStep struct {
	source  model.TitleSource
	resolve func() (string, bool)
}

// Correlator resolves cache entries into episodes.
type Correlator struct {
	titles         TitleReader
	unknownPodcast string
	logger         *zap.Logger
}

// NewCorrelator creates a Correlator. unknownPodcast is the podcast title used
// for entries without a catalog row. logger may be nil.
func NewCorrelator(titles TitleReader, unknownPodcast string, logger *zap.Logger) *Correlator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Correlator{
		titles:         titles,
		unknownPodcast: unknownPodcast,
		logger:         logger,
	}
}

// Resolve returns one episode per entry, in entry order.
//
// When the catalog holds several rows for one episode id the first wins.
// Resolve stops early and returns what it has when ctx is cancelled.
func (c *Correlator) Resolve(ctx context.Context, rows []model.CatalogRow, entries []model.CacheEntry) []*model.ResolvedEpisode {
	index := make(map[string]*model.CatalogRow, len(rows))
	for i := range rows {
		if _, seen := index[rows[i].EpisodeID]; !seen {
			index[rows[i].EpisodeID] = &rows[i]
		}
	}

	episodes := make([]*model.ResolvedEpisode, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		episodes = append(episodes, c.resolve(entry, index[entry.EpisodeID]))
	}
	return episodes
}

func (c *Correlator) resolve(entry model.CacheEntry, row *model.CatalogRow) *model.ResolvedEpisode {
	episode := &model.ResolvedEpisode{
		EpisodeID:    entry.EpisodeID,
		SourcePath:   entry.SourcePath,
		PodcastTitle: c.unknownPodcast,
		Catalog:      row,
	}
	if row != nil && strings.TrimSpace(row.PodcastTitle) != "" {
		episode.PodcastTitle = row.PodcastTitle
	}

	steps := []titleStep{
		{model.TitleFromCatalog, func() (string, bool) {
			if row == nil || !row.HasCleanedTitle() {
				return "", false
			}
			return strings.TrimSpace(row.CleanedEpisodeTitle), true
		}},
		{model.TitleFromEmbeddedTag, func() (string, bool) {
			return c.titles.ReadTitle(entry.SourcePath)
		}},
		{model.TitleFromEpisodeID, func() (string, bool) {
			return entry.EpisodeID, true
		}},
	}
	for _, step := range steps {
		if title, ok := step.resolve(); ok && title != "" {
			episode.DisplayTitle = title
			episode.TitleSource = step.source
			break
		}
	}

	if episode.TitleSource != model.TitleFromCatalog {
		c.logger.Debug("catalog title unavailable",
			zap.String("episode_id", entry.EpisodeID),
			zap.Bool("catalog_match", row != nil),
			zap.Stringer("title_source", episode.TitleSource))
	}
	return episode
}

// Group partitions episodes by podcast title.
//
// Groups appear in the order their first member was seen and members keep
// their relative order.
func Group(episodes []*model.ResolvedEpisode) []*model.ExportGroup {
	var groups []*model.ExportGroup
	byTitle := make(map[string]*model.ExportGroup)
	for _, episode := range episodes {
		group, ok := byTitle[episode.PodcastTitle]
		if !ok {
			group = &model.ExportGroup{PodcastTitle: episode.PodcastTitle}
			byTitle[episode.PodcastTitle] = group
			groups = append(groups, group)
		}
		group.Members = append(group.Members, episode)
	}
	return groups
}
