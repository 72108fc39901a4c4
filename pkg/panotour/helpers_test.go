package panotour

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/tstromberg/panotour/pkg/tour"
)

func solidFace(w int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, w))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// solidSource hands out uniformly colored faces of a fixed width.
type solidSource struct {
	width int
	fail  map[string]bool
}

func (s solidSource) Faces(_ context.Context, sc *tour.Scene) (*Cube, error) {
	if s.fail[sc.ID] {
		return nil, &ImageLoadError{SceneID: sc.ID, Err: errors.New("corrupt")}
	}
	c := &Cube{}
	for i := range c.Faces {
		c.Faces[i] = solidFace(s.width, color.RGBA{R: uint8(40 * i), G: 100, B: 200, A: 255})
	}
	return c, nil
}

// testProgress records every value it is given and asks to stop once cancelAt is reached.
type testProgress struct {
	mu       sync.Mutex
	max      int
	value    int
	values   []int
	cancelAt int
}

func (p *testProgress) SetMaximum(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.max = n
}

func (p *testProgress) SetValue(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = n
	p.values = append(p.values, n)
}

func (p *testProgress) Value() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *testProgress) SetText1(string) {}
func (p *testProgress) SetText2(string) {}

func (p *testProgress) Cancelled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelAt > 0 && p.value >= p.cancelAt
}
