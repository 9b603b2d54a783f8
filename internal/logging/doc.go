// Package logging builds the zap loggers used by the CLI and the TUI.
//
//	logger, err := logging.NewFromSettings(settings, true, verbose)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
// Per-file failures are logged at error level with source, destination and
// error fields so every skipped file produces one line on stderr.
package logging
