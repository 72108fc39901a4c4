package panotour

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tstromberg/panotour/pkg/tour"
	"k8s.io/klog/v2"
)

// DocumentName is the file the scene-graph is written to within the output directory.
const DocumentName = "tour.js"

// Document is the scene-graph consumed by the viewer.
type Document struct {
	Default Defaults                   `json:"default"`
	Scenes  map[string]SceneDescriptor `json:"scenes"`
}

// Defaults are tour-wide viewer settings.
type Defaults struct {
	Title                     string   `json:"title,omitempty"`
	Author                    string   `json:"author,omitempty"`
	FirstScene                string   `json:"firstScene,omitempty"`
	Pitch                     *float64 `json:"pitch,omitempty"`
	Yaw                       *float64 `json:"yaw,omitempty"`
	SceneFadeDuration         *int     `json:"sceneFadeDuration,omitempty"`
	Compass                   bool     `json:"compass"`
	AutoLoad                  bool     `json:"autoLoad"`
	AutoRotateInactivityDelay *int     `json:"autoRotateInactivityDelay,omitempty"`
	HotSpotDebug              bool     `json:"hotSpotDebug"`
}

// SceneDescriptor is one scene of the tour and where its tiles live.
type SceneDescriptor struct {
	NorthOffset float64   `json:"northoffset"`
	Title       string    `json:"title"`
	Preview     string    `json:"preview"`
	Type        string    `json:"type"`
	MultiRes    MultiRes  `json:"multiRes"`
	HotSpots    []HotSpot `json:"hotSpots"`
}

// MultiRes describes a scene's cube tile pyramid.
type MultiRes struct {
	BasePath       string `json:"basePath"`
	Path           string `json:"path"`
	FallbackPath   string `json:"fallbackPath"`
	TileResolution int    `json:"tileResolution"`
	MaxLevel       int    `json:"maxLevel"`
	Extension      string `json:"extension"`
	CubeResolution int    `json:"cubeResolution"`
}

// HotSpot is a clickable marker; scene links carry SceneID and the target view.
type HotSpot struct {
	Pitch       float64  `json:"pitch"`
	Yaw         float64  `json:"yaw"`
	Type        string   `json:"type"`
	Text        string   `json:"text"`
	SceneID     string   `json:"sceneId,omitempty"`
	TargetPitch *float64 `json:"targetPitch,omitempty"`
	TargetYaw   *float64 `json:"targetYaw,omitempty"`
	URL         string   `json:"URL,omitempty"`
}

// BuildDocument assembles the scene-graph from a tour and its exported scenes.
// Scenes missing from results are left out.
func BuildDocument(c *Config, t *tour.Tour, results map[string]*SceneResult) *Document {
	d := &Document{
		Default: Defaults{
			Author:       t.Author,
			Compass:      t.Compass,
			AutoLoad:     t.AutoLoad,
			HotSpotDebug: t.Debug,
		},
		Scenes: map[string]SceneDescriptor{},
	}

	if t.Title != "" {
		d.Default.Title = t.Title
		if c.TitleFromAuthor {
			d.Default.Title = t.Author
		}
	}

	if t.StartScene != "" {
		d.Default.FirstScene = t.StartScene
		d.Default.Pitch = ptr(tour.Degrees(t.StartLat))
		d.Default.Yaw = ptr(tour.Degrees(t.StartLon))
	}
	if t.SceneFade >= 0 {
		d.Default.SceneFadeDuration = ptr(t.SceneFade)
	}
	if t.AutoRotate >= 0 {
		d.Default.AutoRotateInactivityDelay = ptr(t.AutoRotate)
	}

	for _, s := range t.Scenes {
		r, ok := results[s.ID]
		if !ok {
			klog.Warningf("no export result for scene %q", s.ID)
			continue
		}
		hs := r.HotSpots
		if hs == nil {
			hs = []HotSpot{}
		}
		base := "./" + s.ID
		d.Scenes[s.ID] = SceneDescriptor{
			NorthOffset: tour.Degrees(s.NorthOffset),
			Title:       s.Title,
			Preview:     base + "/1/f0_0.jpg",
			Type:        "multires",
			MultiRes: MultiRes{
				BasePath:       base,
				Path:           "/%l/%s%y_%x",
				FallbackPath:   "/1/%s0_0",
				TileResolution: c.tileSize(),
				MaxLevel:       r.MaxLevel,
				Extension:      "jpg",
				CubeResolution: r.CubeResolution,
			},
			HotSpots: hs,
		}
	}
	return d
}

// Marshal renders the document as the script the viewer page loads.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("var tourdata = ")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	// Encode ends with a newline; the statement terminator goes before it.
	buf.Truncate(buf.Len() - 1)
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// WriteDocument writes the document to outDir in one step, replacing any previous copy.
func WriteDocument(outDir string, d *Document) error {
	bs, err := d.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.CreateTemp(outDir, ".tour-*.js")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(bs); err != nil {
		f.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	p := filepath.Join(outDir, DocumentName)
	klog.V(1).Infof("Writing tour document to %s", p)
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
