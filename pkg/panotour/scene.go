package panotour

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/tstromberg/panotour/pkg/tour"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// sceneUnits is the progress budget for a single scene.
const sceneUnits = 300

// SceneResult is what a scene export contributes to the tour document.
type SceneResult struct {
	MaxLevel       int
	CubeResolution int
	HotSpots       []HotSpot
}

// Exporter runs tour exports.
type Exporter struct {
	Config   *Config
	Source   FaceSource
	Progress Progress
}

// New returns an Exporter that reads scene images from disk.
func New(c *Config, p Progress) *Exporter {
	return &Exporter{Config: c, Source: FileFaceSource{}, Progress: p}
}

// ExportScene writes the tile pyramid for one scene and returns its document fields.
func (e *Exporter) ExportScene(ctx context.Context, t *tour.Tour, s *tour.Scene) (*SceneResult, error) {
	p := e.Progress
	base := p.Value()

	p.SetText2("Loading and Building")
	cube, err := e.Source.Faces(ctx, s)
	if err != nil {
		return nil, err
	}

	width := cube.Width()
	levels := Plan(width, e.Config.tileSize())
	sceneDir := filepath.Join(e.Config.OutDir, s.ID)
	klog.Infof("%s: %dpx faces, %d levels -> %s", s.ID, width, len(levels), sceneDir)

	p.SetText2("Exporting")
	total := len(levels) * len(FaceNames)
	done := 0
	var mu sync.Mutex
	step := func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		p.SetValue(base + sceneUnits*done/total)
	}

	for _, l := range levels {
		if cancelled(ctx, p) {
			return nil, ErrCancelled
		}

		dir := levelDir(sceneDir, l.Index)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.Config.workers())
		for f := range FaceNames {
			f := f
			g.Go(func() error {
				n, err := TileFace(gctx, p, cube.Faces[f], l.RenderSize, l.TileSize, dir, faceMasks[f], e.Config.quality())
				if err != nil {
					return err
				}
				klog.V(1).Infof("%s: level %d %s face: %d tiles", s.ID, l.Index+1, FaceNames[f], n)
				step()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			if errors.Is(err, ErrCancelled) || cancelled(ctx, p) {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("scene %q level %d: %w", s.ID, l.Index+1, err)
		}
	}

	p.SetValue(base + sceneUnits)
	return &SceneResult{
		MaxLevel:       len(levels),
		CubeResolution: width,
		HotSpots:       hotSpots(t, s),
	}, nil
}

// hotSpots maps a scene's nodes to viewer hotspots. Nodes of unknown kind are left out.
func hotSpots(t *tour.Tour, s *tour.Scene) []HotSpot {
	hs := []HotSpot{}
	for _, n := range s.Nodes {
		lat, lon := n.Position()
		h := HotSpot{
			Pitch: tour.Degrees(lat),
			Yaw:   tour.Degrees(lon),
		}

		switch n.Kind {
		case tour.KindLink:
			if t.Scene(n.Dest) == nil {
				klog.Warningf("%s: hotspot %q links to unknown scene %q", s.ID, n.Title, n.Dest)
			}
			h.Type = "scene"
			h.Text = n.Title
			h.SceneID = n.Dest
			h.TargetPitch = ptr(tour.Degrees(n.ArrivalLat))
			h.TargetYaw = ptr(tour.Degrees(n.ArrivalLon))
		case tour.KindInfo, tour.KindMedia, tour.KindAudio:
			h.Type = "info"
			h.Text = n.Title
			if n.HasDescription() {
				h.Text = n.Title + " - " + n.Description
			}
			h.URL = n.URL
		default:
			klog.V(1).Infof("%s: skipping %s hotspot %q", s.ID, n.Kind, n.Title)
			continue
		}
		hs = append(hs, h)
	}
	return hs
}

func ptr[T any](v T) *T {
	return &v
}
