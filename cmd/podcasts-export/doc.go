// Command podcasts-export copies episodes downloaded by the Podcasts app into
// a folder tree named after each podcast, retagging every file on the way.
//
// Usage:
//
//	podcasts-export [--config path] [--output dir] [--dry-run] [--verbose] [--no-reveal]
//	podcasts-export config init [--path path] [--overwrite]
//
// Files land in <output_root>/YYYY.MM.DD/<podcast>/<episode>.mp3. Episodes
// that fail to export are logged and listed at the end; the run itself still
// succeeds.
package main
