package tour

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// projectFile is the on-disk form of a tour.
type projectFile struct {
	Title            string `yaml:"title" toml:"title"`
	Author           string `yaml:"author" toml:"author"`
	StartScene       string `yaml:"start_scene" toml:"start_scene"`
	StartLat         int    `yaml:"start_lat" toml:"start_lat"`
	StartLon         int    `yaml:"start_lon" toml:"start_lon"`
	SceneFade        *int   `yaml:"scene_fade" toml:"scene_fade"`
	AutoRotate       *int   `yaml:"auto_rotate" toml:"auto_rotate"`
	Compass          bool   `yaml:"compass" toml:"compass"`
	AutoLoad         bool   `yaml:"auto_load" toml:"auto_load"`
	Debug            bool   `yaml:"debug" toml:"debug"`
	OverwriteLibrary bool   `yaml:"overwrite_library" toml:"overwrite_library"`

	Scenes []sceneFile `yaml:"scenes" toml:"scenes"`
}

type sceneFile struct {
	ID          string     `yaml:"id" toml:"id"`
	Title       string     `yaml:"title" toml:"title"`
	Source      string     `yaml:"source" toml:"source"`
	NorthOffset int        `yaml:"north_offset" toml:"north_offset"`
	Nodes       []nodeFile `yaml:"hotspots" toml:"hotspots"`
}

type nodeFile struct {
	Kind        string `yaml:"kind" toml:"kind"`
	Lat         int    `yaml:"lat" toml:"lat"`
	Lon         int    `yaml:"lon" toml:"lon"`
	Title       string `yaml:"title" toml:"title"`
	Description string `yaml:"description" toml:"description"`
	URL         string `yaml:"url" toml:"url"`
	Dest        string `yaml:"dest" toml:"dest"`
	ArrivalLat  int    `yaml:"arrival_lat" toml:"arrival_lat"`
	ArrivalLon  int    `yaml:"arrival_lon" toml:"arrival_lon"`
}

// Load reads a tour project from a YAML or TOML file.
func Load(path string) (*Tour, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var pf projectFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(bs, &pf); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(bs), &pf); err != nil {
			return nil, fmt.Errorf("toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported project format %q", ext)
	}

	t := pf.tour(filepath.Dir(path))
	klog.V(1).Infof("loaded %s: %d scenes", path, len(t.Scenes))
	return t, nil
}

func (pf projectFile) tour(baseDir string) *Tour {
	t := &Tour{
		Title:            pf.Title,
		Author:           pf.Author,
		StartScene:       pf.StartScene,
		StartLat:         pf.StartLat,
		StartLon:         pf.StartLon,
		SceneFade:        -1,
		AutoRotate:       -1,
		Compass:          pf.Compass,
		AutoLoad:         pf.AutoLoad,
		Debug:            pf.Debug,
		OverwriteLibrary: pf.OverwriteLibrary,
	}
	if pf.SceneFade != nil {
		t.SceneFade = *pf.SceneFade
	}
	if pf.AutoRotate != nil {
		t.AutoRotate = *pf.AutoRotate
	}

	for _, sf := range pf.Scenes {
		src := sf.Source
		if src != "" && !filepath.IsAbs(src) {
			src = filepath.Join(baseDir, src)
		}
		s := &Scene{
			ID:          sf.ID,
			Title:       sf.Title,
			Source:      src,
			NorthOffset: sf.NorthOffset,
		}
		for _, nf := range sf.Nodes {
			k := ParseKind(nf.Kind)
			if k == KindUnknown {
				klog.Warningf("scene %q: unknown hotspot kind %q", sf.ID, nf.Kind)
			}
			s.Nodes = append(s.Nodes, &Node{
				Kind:        k,
				Lat:         nf.Lat,
				Lon:         nf.Lon,
				Title:       nf.Title,
				Description: nf.Description,
				URL:         nf.URL,
				Dest:        nf.Dest,
				ArrivalLat:  nf.ArrivalLat,
				ArrivalLon:  nf.ArrivalLon,
			})
		}
		t.Scenes = append(t.Scenes, s)
	}
	return t
}
