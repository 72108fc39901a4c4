// Package tour describes an authored panorama tour: scenes, their hotspots and tour-wide defaults.
package tour

// Kind identifies what a hotspot does when clicked.
type Kind int

const (
	KindUnknown Kind = iota
	KindLink
	KindInfo
	KindMedia
	KindAudio
)

var kindNames = map[Kind]string{
	KindLink:  "link",
	KindInfo:  "info",
	KindMedia: "media",
	KindAudio: "audio",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a project file kind name to a Kind. Unrecognized names are KindUnknown.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return KindUnknown
}

// Tour is a collection of scenes plus the viewer defaults for the whole tour.
// Angles are stored in millidegrees.
type Tour struct {
	Title  string
	Author string

	StartScene string
	StartLat   int
	StartLon   int

	// SceneFade and AutoRotate are in milliseconds; negative means unset.
	SceneFade  int
	AutoRotate int

	Compass          bool
	AutoLoad         bool
	Debug            bool
	OverwriteLibrary bool

	Scenes []*Scene
}

// Scene returns the scene with the given identifier, or nil.
func (t *Tour) Scene(id string) *Scene {
	for _, s := range t.Scenes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Scene is a single cube-mapped panorama.
type Scene struct {
	// ID doubles as the output directory name.
	ID          string
	Title       string
	Source      string
	NorthOffset int

	Nodes []*Node
}

// Node is a hotspot within a scene.
type Node struct {
	Kind Kind
	Lat  int
	Lon  int

	Title       string
	Description string
	URL         string

	// Link destination and the view to arrive at.
	Dest       string
	ArrivalLat int
	ArrivalLon int
}

// Position returns the latitude and longitude of the hotspot in millidegrees.
func (n *Node) Position() (lat, lon int) {
	return n.Lat, n.Lon
}

func (n *Node) HasTitle() bool {
	return n.Title != ""
}

func (n *Node) HasDescription() bool {
	return n.Description != ""
}

// Degrees converts millidegrees to degrees.
func Degrees(milli int) float64 {
	return float64(milli) / 1000.0
}
