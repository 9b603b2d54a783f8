// Package model defines the data structures shared by the export pipeline.
//
// # Catalog rows and cache entries
//
// CatalogRow is read from the podcast application's SQLite catalog and
// CacheEntry describes one downloaded file in its cache directory. Both are
// keyed by the same opaque episode identifier:
//
//	entry := model.NewCacheEntry(cacheDir, "abc.mp3", ".mp3")
//	fmt.Println(entry.EpisodeID) // "abc"
//
// # Resolved episodes and groups
//
// The correlator joins the two into ResolvedEpisode values and partitions
// them into ExportGroup buckets keyed by podcast title:
//
//	for _, group := range groups {
//	    fmt.Println(group.PodcastTitle, group.Len())
//	}
//
// Everything in this package lives for a single run only.
package model
