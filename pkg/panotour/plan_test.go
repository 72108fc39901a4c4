package panotour

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		width    int
		tileSize int
		sizes    []int
		tiles    []int
		tile     int
	}{
		{width: 2048, tileSize: 256, sizes: []int{256, 512, 1024, 2048}, tiles: []int{1, 2, 4, 8}, tile: 256},
		{width: 256, tileSize: 256, sizes: []int{256}, tiles: []int{1}, tile: 256},
		{width: 512, tileSize: 1024, sizes: []int{512}, tiles: []int{1}, tile: 512},
		{width: 3000, tileSize: 256, sizes: []int{256, 512, 1024, 2048}, tiles: []int{1, 2, 4, 8}, tile: 256},
		{width: 100, tileSize: 30, sizes: []int{30, 60}, tiles: []int{1, 2}, tile: 30},
		{width: 0, tileSize: 256},
		{width: 256, tileSize: 0},
	}

	for _, tt := range tests {
		levels := Plan(tt.width, tt.tileSize)
		require.Len(t, levels, len(tt.sizes), "width=%d tile=%d", tt.width, tt.tileSize)
		for i, l := range levels {
			require.Equal(t, i, l.Index)
			require.Equal(t, tt.sizes[i], l.RenderSize)
			require.Equal(t, tt.tiles[i], l.Tiles)
			require.Equal(t, tt.tile, l.TileSize)
		}
	}
}

func TestPlanPowerOfTwoMultiples(t *testing.T) {
	for _, tile := range []int{64, 256, 512} {
		for k := 0; k < 6; k++ {
			width := tile << k
			levels := Plan(width, tile)

			want := bits.Len(uint(width/tile)) // log2(W/T)+1
			require.Len(t, levels, want, "width=%d tile=%d", width, tile)
			for r, l := range levels {
				require.Equal(t, tile<<r, l.RenderSize)
				require.LessOrEqual(t, l.RenderSize, width)
			}
			require.Equal(t, width, levels[len(levels)-1].RenderSize)
		}
	}
}

func TestPlanTileLargerThanFace(t *testing.T) {
	for _, width := range []int{1, 100, 255} {
		levels := Plan(width, 256)
		require.Len(t, levels, 1)
		require.Equal(t, width, levels[0].RenderSize)
		require.Equal(t, width, levels[0].TileSize)
		require.Equal(t, 1, levels[0].Tiles)
	}
}
