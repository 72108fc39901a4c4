package panotour

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/tstromberg/panotour/pkg/tour"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// FaceNames lists cube faces in export order.
var FaceNames = [6]string{"front", "right", "back", "left", "up", "down"}

// Cube is the six square faces of a panorama, in FaceNames order. All faces share one width.
type Cube struct {
	Faces [6]image.Image
}

// Width returns the native face width.
func (c *Cube) Width() int {
	return c.Faces[0].Bounds().Dx()
}

// FaceSource turns a scene's source image into cube faces.
type FaceSource interface {
	Faces(ctx context.Context, s *tour.Scene) (*Cube, error)
}

// FileFaceSource reads scene sources from disk. A source is either a directory of six face
// images named after FaceNames, or a 2:1 equirectangular panorama.
type FileFaceSource struct{}

var faceExts = []string{".jpg", ".jpeg", ".png", ".tif", ".tiff", ".webp"}

func (FileFaceSource) Faces(ctx context.Context, s *tour.Scene) (*Cube, error) {
	if s.Source == "" {
		return nil, &ImageLoadError{SceneID: s.ID, Err: errors.New("no source image")}
	}

	fi, err := os.Stat(s.Source)
	if err != nil {
		return nil, &ImageLoadError{SceneID: s.ID, Err: err}
	}

	var c *Cube
	if fi.IsDir() {
		c, err = readFaces(s.Source)
	} else {
		c, err = projectFile(ctx, s.Source)
	}
	if err != nil {
		return nil, &ImageLoadError{SceneID: s.ID, Err: err}
	}

	if err := checkCube(c); err != nil {
		return nil, &ImageLoadError{SceneID: s.ID, Err: err}
	}
	return c, nil
}

func checkCube(c *Cube) error {
	w := c.Faces[0].Bounds().Dx()
	if w == 0 {
		return errors.New("empty face")
	}
	for i, f := range c.Faces {
		b := f.Bounds()
		if b.Dx() != b.Dy() {
			return fmt.Errorf("%s face is not square: %dx%d", FaceNames[i], b.Dx(), b.Dy())
		}
		if b.Dx() != w {
			return fmt.Errorf("%s face is %dpx, expected %dpx", FaceNames[i], b.Dx(), w)
		}
	}
	return nil
}

func readFaces(dir string) (*Cube, error) {
	c := &Cube{}
	for i, name := range FaceNames {
		path := findFace(dir, name)
		if path == "" {
			return nil, fmt.Errorf("no %s face in %s", name, dir)
		}
		klog.V(1).Infof("reading %s face: %s", name, path)
		img, err := imgio.Open(path)
		if err != nil {
			return nil, fmt.Errorf("imgio.Open: %w", err)
		}
		c.Faces[i] = img
	}
	return c, nil
}

func findFace(dir string, name string) string {
	for _, ext := range faceExts {
		for _, e := range []string{ext, strings.ToUpper(ext)} {
			p := filepath.Join(dir, name+e)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func projectFile(ctx context.Context, path string) (*Cube, error) {
	klog.V(1).Infof("projecting %s onto cube faces", path)
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imgio.Open: %w", err)
	}
	return Project(ctx, img)
}

// Project converts a 2:1 equirectangular panorama into cube faces a quarter of its width.
func Project(ctx context.Context, img image.Image) (*Cube, error) {
	b := img.Bounds()
	if b.Dx() != 2*b.Dy() || b.Dx() < 4 {
		return nil, fmt.Errorf("not an equirectangular panorama: %dx%d", b.Dx(), b.Dy())
	}

	src := clone.AsRGBA(img)
	size := b.Dx() / 4

	c := &Cube{}
	g, ctx := errgroup.WithContext(ctx)
	for f := range FaceNames {
		f := f
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Faces[f] = projectFace(src, f, size)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}

// faceVector returns the view direction for face coordinates a, b in [-1, 1].
// +z is forward, +x right, +y up.
func faceVector(face int, a, b float64) (x, y, z float64) {
	switch face {
	case 0:
		return a, -b, 1
	case 1:
		return 1, -b, -a
	case 2:
		return -a, -b, -1
	case 3:
		return -1, -b, a
	case 4:
		return a, 1, b
	default:
		return a, -1, -b
	}
}

func projectFace(src *image.RGBA, face int, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	sb := src.Bounds()
	w, h := float64(sb.Dx()), float64(sb.Dy())

	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			a := 2*(float64(i)+0.5)/float64(size) - 1
			b := 2*(float64(j)+0.5)/float64(size) - 1
			x, y, z := faceVector(face, a, b)

			lon := math.Atan2(x, z)
			lat := math.Atan2(y, math.Hypot(x, z))
			u := (lon/(2*math.Pi) + 0.5) * w
			v := (0.5 - lat/math.Pi) * h

			o := dst.PixOffset(i, j)
			sample(src, u-0.5, v-0.5, dst.Pix[o:o+4])
		}
	}
	return dst
}

// sample writes the bilinear interpolation of src at (u, v) into px. Longitude wraps, latitude clamps.
func sample(src *image.RGBA, u float64, v float64, px []uint8) {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()

	x0 := int(math.Floor(u))
	y0 := int(math.Floor(v))
	fx := u - float64(x0)
	fy := v - float64(y0)

	wrap := func(x int) int { return ((x % w) + w) % w }
	clamp := func(y int) int { return min(max(y, 0), h-1) }

	xa, xb := wrap(x0), wrap(x0+1)
	ya, yb := clamp(y0), clamp(y0+1)

	p00 := src.PixOffset(sb.Min.X+xa, sb.Min.Y+ya)
	p10 := src.PixOffset(sb.Min.X+xb, sb.Min.Y+ya)
	p01 := src.PixOffset(sb.Min.X+xa, sb.Min.Y+yb)
	p11 := src.PixOffset(sb.Min.X+xb, sb.Min.Y+yb)

	for k := 0; k < 4; k++ {
		top := float64(src.Pix[p00+k])*(1-fx) + float64(src.Pix[p10+k])*fx
		bot := float64(src.Pix[p01+k])*(1-fx) + float64(src.Pix[p11+k])*fx
		px[k] = uint8(math.Round(top*(1-fy) + bot*fy))
	}
}
