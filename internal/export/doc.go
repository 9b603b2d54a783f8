// Package export provides the orchestration logic for copying cached
// podcast episodes into a browsable folder tree.
//
// # Manager
//
// The Manager coordinates the entire export:
//
//  1. Locate the Podcasts group container
//  2. Read the episode catalog (an unreadable catalog counts as empty)
//  3. List cached episode files
//  4. Resolve titles and group episodes by podcast
//  5. Plan destination paths
//  6. Copy and retag files concurrently
//  7. Generate playlists (optional)
//
// # Basic Usage
//
//	manager := export.NewManager(settings, logger, func(event export.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := manager.Start(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Exported %d episodes to %s\n", result.Exported, result.OutputDir)
//
// # Concurrency
//
// The Manager uses configurable concurrency limits:
//   - MaxConcurrentGroups: How many podcasts to export in parallel
//   - MaxConcurrentFiles: How many episodes per podcast to export in parallel
//
// Only one export may write below an output root at a time; Start returns
// ErrExportLocked otherwise.
//
// # Failures
//
// A file that cannot be copied or tagged is logged with its source and
// destination, recorded in Result.Failed and skipped. The rest of the run
// carries on.
package export
