package testsupport

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/handiism/podcasts-export/internal/model"
)

var catalogSchema = []string{
	`CREATE TABLE ZMTPODCAST (
        Z_PK INTEGER PRIMARY KEY,
        ZUUID VARCHAR,
        ZTITLE VARCHAR
    )`,
	`CREATE TABLE ZMTEPISODE (
        Z_PK INTEGER PRIMARY KEY,
        ZUUID VARCHAR,
        ZPODCASTUUID VARCHAR,
        ZCLEANEDTITLE VARCHAR
    )`,
}

// WriteCatalog creates a SQLite file at path shaped like the Podcasts
// application's MTLibrary.sqlite and fills it with rows. Rows with an empty
// CleanedEpisodeTitle get a NULL title.
func WriteCatalog(t testing.TB, path string, rows []model.CatalogRow) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open catalog %s: %v", path, err)
	}
	defer db.Close()

	for _, stmt := range catalogSchema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create catalog schema: %v", err)
		}
	}

	podcasts := map[string]string{}
	for i, row := range rows {
		podcastUUID, ok := podcasts[row.PodcastTitle]
		if !ok {
			podcastUUID = fmt.Sprintf("podcast-%d", len(podcasts)+1)
			podcasts[row.PodcastTitle] = podcastUUID
			if _, err := db.Exec(`INSERT INTO ZMTPODCAST (ZUUID, ZTITLE) VALUES (?, ?)`, podcastUUID, row.PodcastTitle); err != nil {
				t.Fatalf("insert podcast: %v", err)
			}
		}

		var title any
		if row.CleanedEpisodeTitle != "" {
			title = row.CleanedEpisodeTitle
		}
		if _, err := db.Exec(
			`INSERT INTO ZMTEPISODE (Z_PK, ZUUID, ZPODCASTUUID, ZCLEANEDTITLE) VALUES (?, ?, ?, ?)`,
			i+1, row.EpisodeID, podcastUUID, title,
		); err != nil {
			t.Fatalf("insert episode: %v", err)
		}
	}
}
