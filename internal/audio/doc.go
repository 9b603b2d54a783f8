// Package audio provides MP3 tag reading and writing and playlist
// generation for exported episodes.
//
// # ID3 Tagging
//
// Use the Tagger to read the embedded title of a cached file and to rewrite
// the identity frames of an exported copy:
//
//	tagger := audio.NewTagger(nil)
//	title, ok := tagger.ReadTitle("/cache/abc.mp3")
//	err := tagger.WriteTags(ctx, dst, audio.Tags{
//	    Title: "Episode 1", Artist: "Tech Talk", Album: "Tech Talk", Genre: "Podcast",
//	})
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true)
//	content := creator.CreatePlaylist(group.PodcastTitle, exported)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
package audio
