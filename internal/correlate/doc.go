// Package correlate joins cache entries to catalog rows and groups the
// result by podcast.
//
// Each cache entry yields exactly one ResolvedEpisode. Its display title
// comes from the first step that produces a value:
//
//  1. the catalog's cleaned episode title
//  2. the title embedded in the file's ID3 tag
//  3. the episode id
//
// The embedded tag is only read when the catalog has no title.
//
//	c := correlate.NewCorrelator(tagger, "Unknown Artist", logger)
//	episodes := c.Resolve(ctx, rows, entries)
//	groups := correlate.Group(episodes)
package correlate
