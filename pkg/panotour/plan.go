package panotour

// Level is one tier of a face's tile pyramid. Level 0 is the coarsest.
type Level struct {
	Index      int
	RenderSize int
	TileSize   int
	// Tiles is the tile count along each axis.
	Tiles int
}

// Plan returns the pyramid levels for faces of the given width.
// The number of levels returned is the maxLevel reported to the viewer.
func Plan(width int, tileSize int) []Level {
	if width <= 0 || tileSize <= 0 {
		return nil
	}
	if tileSize > width {
		tileSize = width
	}

	levels := []Level{}
	for r := 0; tileSize<<r <= width; r++ {
		size := tileSize << r
		tiles := (size + tileSize - 1) / tileSize
		if size > width {
			size = width
		}
		levels = append(levels, Level{Index: r, RenderSize: size, TileSize: tileSize, Tiles: tiles})
	}
	return levels
}
