package panotour

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

// faceMasks name the tiles of each cube face, in face order. %y is the row, %x the column.
var faceMasks = [6]string{"f%y_%x.jpg", "r%y_%x.jpg", "b%y_%x.jpg", "l%y_%x.jpg", "u%y_%x.jpg", "d%y_%x.jpg"}

// tileName substitutes a tile's row and column into a face mask.
func tileName(mask string, row, col int) string {
	return strings.NewReplacer("%y", strconv.Itoa(row), "%x", strconv.Itoa(col)).Replace(mask)
}

// levelDir returns the directory for a pyramid level. Levels are numbered from 1 on disk.
func levelDir(sceneDir string, level int) string {
	return filepath.Join(sceneDir, strconv.Itoa(level+1))
}

// TileFace scales a face to renderSize and cuts it into tileSize squares written to dir.
// It returns the number of tiles written.
func TileFace(ctx context.Context, p Progress, face image.Image, renderSize int, tileSize int, dir string, mask string, quality int) (int, error) {
	if renderSize <= 0 || tileSize <= 0 {
		return 0, fmt.Errorf("invalid geometry: render=%d tile=%d", renderSize, tileSize)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, &TileWriteError{Path: dir, Err: err}
	}

	var scaled *image.RGBA
	if face.Bounds().Dx() == renderSize && face.Bounds().Dy() == renderSize {
		rgba, ok := face.(*image.RGBA)
		if !ok {
			rgba = clone.AsRGBA(face)
		}
		scaled = rgba
	} else {
		scaled = transform.Resize(face, renderSize, renderSize, transform.Lanczos)
	}
	origin := scaled.Bounds().Min

	n := (renderSize + tileSize - 1) / tileSize
	klog.V(1).Infof("tiling %s: %dpx -> %dx%d tiles of %dpx", filepath.Join(dir, mask), renderSize, n, n, tileSize)

	written := 0
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if cancelled(ctx, p) {
				return written, ErrCancelled
			}

			r := image.Rect(col*tileSize, row*tileSize, (col+1)*tileSize, (row+1)*tileSize)
			r = r.Intersect(image.Rect(0, 0, renderSize, renderSize)).Add(origin)
			tile := scaled.SubImage(r)

			path := filepath.Join(dir, tileName(mask, row, col))
			klog.V(2).Infof("writing %s %v", path, r)
			if err := imgio.Save(path, tile, imgio.JPEGEncoder(quality)); err != nil {
				return written, &TileWriteError{Path: path, Err: err}
			}
			written++
		}
	}
	return written, nil
}
