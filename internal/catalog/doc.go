// Package catalog reads episode metadata from the Podcasts application's
// MTLibrary.sqlite database.
//
// The database is owned by the Podcasts application and is only ever
// queried; the connection is opened with query_only and closed before Read
// returns.
//
//	rows, err := catalog.NewReader(dbPath).Read(ctx)
//	if errors.Is(err, catalog.ErrCatalogUnavailable) {
//	    // degrade to an empty catalog
//	}
package catalog
