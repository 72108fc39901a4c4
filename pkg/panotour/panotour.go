// Package panotour exports a panorama tour as multi-resolution cube tiles plus a viewer scene-graph.
package panotour

import (
	"errors"
	"fmt"
)

// Config holds configuration for an export run.
type Config struct {
	OutDir   string
	TileSize int
	// Quality is the JPEG quality for tiles.
	Quality int
	// Workers bounds how many faces are tiled at once; 1 is fully serial.
	Workers int
	// ViewerDir holds the viewer runtime files to copy next to tour.html.
	ViewerDir string
	// TitleFromAuthor writes the author into the default title slot, as older exports did.
	TitleFromAuthor bool
}

const (
	DefaultTileSize = 256
	DefaultQuality  = 85
)

func (c *Config) tileSize() int {
	if c.TileSize <= 0 {
		return DefaultTileSize
	}
	return c.TileSize
}

func (c *Config) quality() int {
	if c.Quality <= 0 {
		return DefaultQuality
	}
	return c.Quality
}

func (c *Config) workers() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}

// ErrCancelled is returned when an export stops early at the caller's request.
// It is not a failure: tiles already written are left in place and tour.js is not written.
var ErrCancelled = errors.New("export cancelled")

// ImageLoadError means a scene's panorama could not be turned into cube faces.
type ImageLoadError struct {
	SceneID string
	Err     error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("load image for scene %q: %v", e.SceneID, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// TileWriteError means a tile could not be written.
type TileWriteError struct {
	Path string
	Err  error
}

func (e *TileWriteError) Error() string {
	return fmt.Sprintf("write tile %s: %v", e.Path, e.Err)
}

func (e *TileWriteError) Unwrap() error { return e.Err }
