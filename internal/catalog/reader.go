package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/handiism/podcasts-export/internal/model"
)

// ErrCatalogUnavailable is wrapped by every error returned from Read.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

const episodeQuery = `
SELECT e.ZUUID, p.ZTITLE, e.ZCLEANEDTITLE
FROM ZMTEPISODE e
JOIN ZMTPODCAST p ON e.ZPODCASTUUID = p.ZUUID
ORDER BY e.Z_PK`

// Reader queries episode rows from a catalog file.
type Reader struct {
	path string
}

// NewReader creates a Reader for the database at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Path returns the database location.
func (r *Reader) Path() string {
	return r.path
}

// Read returns every episode joined to its podcast.
//
// Rows without an episode id are skipped. A NULL podcast title or cleaned
// title is returned as an empty string.
func (r *Reader) Read(ctx context.Context) ([]model.CatalogRow, error) {
	// sql.Open on a missing file would create it.
	if _, err := os.Stat(r.path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	db, err := sql.Open("sqlite", r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrCatalogUnavailable, r.path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, fmt.Errorf("%w: apply pragma: %v", ErrCatalogUnavailable, err)
	}

	rows, err := db.QueryContext(ctx, episodeQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query episodes: %v", ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var result []model.CatalogRow
	for rows.Next() {
		var id, podcast, title sql.NullString
		if err := rows.Scan(&id, &podcast, &title); err != nil {
			return nil, fmt.Errorf("%w: scan episode: %v", ErrCatalogUnavailable, err)
		}
		if strings.TrimSpace(id.String) == "" {
			continue
		}
		result = append(result, model.CatalogRow{
			EpisodeID:           id.String,
			PodcastTitle:        strings.TrimSpace(podcast.String),
			CleanedEpisodeTitle: title.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate episodes: %v", ErrCatalogUnavailable, err)
	}
	return result, nil
}
