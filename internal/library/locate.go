package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/podcasts-export/internal/config"
)

// ContainerMarker is the substring identifying the Podcasts group container.
const ContainerMarker = "groups.com.apple.podcasts"

// ErrContainerNotFound is wrapped when no Podcasts group container can be found.
var ErrContainerNotFound = errors.New("podcasts container not found")

// Paths are the resolved application data locations for one run.
type Paths struct {
	ContainerDir string
	DatabasePath string
	CacheDir     string
}

// Locator resolves Paths from configuration and the group containers directory.
type Locator struct {
	groupContainersDir string
}

// NewLocator creates a Locator scanning groupContainersDir. An empty value
// means ~/Library/Group Containers.
func NewLocator(groupContainersDir string) *Locator {
	if groupContainersDir == "" {
		home, _ := os.UserHomeDir()
		groupContainersDir = filepath.Join(home, "Library", "Group Containers")
	}
	return &Locator{groupContainersDir: groupContainersDir}
}

// Locate resolves Paths with the default Locator.
func Locate(paths config.Paths) (*Paths, error) {
	return NewLocator("").Locate(paths)
}

// Locate fills in every location not set in paths.
//
// The container is only searched for when the database or cache location
// still depends on it. An explicitly configured container must exist.
func (l *Locator) Locate(paths config.Paths) (*Paths, error) {
	result := &Paths{
		ContainerDir: paths.ContainerDir,
		DatabasePath: paths.DatabasePath,
		CacheDir:     paths.CacheDir,
	}
	if result.DatabasePath != "" && result.CacheDir != "" {
		return result, nil
	}

	if result.ContainerDir == "" {
		dir, err := l.findContainer()
		if err != nil {
			return nil, err
		}
		result.ContainerDir = dir
	} else if info, err := os.Stat(result.ContainerDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrContainerNotFound, result.ContainerDir)
	}

	if result.DatabasePath == "" {
		result.DatabasePath = filepath.Join(result.ContainerDir, "Documents", "MTLibrary.sqlite")
	}
	if result.CacheDir == "" {
		result.CacheDir = filepath.Join(result.ContainerDir, "Library", "Cache")
	}
	return result, nil
}

// findContainer returns the first directory, in name order, whose name
// contains ContainerMarker.
func (l *Locator) findContainer() (string, error) {
	entries, err := os.ReadDir(l.groupContainersDir)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrContainerNotFound, l.groupContainersDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.Contains(entry.Name(), ContainerMarker) {
			return filepath.Join(l.groupContainersDir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: no entry containing %q in %s", ErrContainerNotFound, ContainerMarker, l.groupContainersDir)
}
