// Package library finds the Podcasts application's data on disk.
//
// The application keeps its catalog and downloaded episodes in a group
// container under ~/Library/Group Containers whose name contains
// "groups.com.apple.podcasts":
//
//	<container>/Documents/MTLibrary.sqlite   episode catalog
//	<container>/Library/Cache                downloaded episode files
//
// Every location can be overridden through config.Paths.
package library
