package panotour

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/require"
)

func TestTileName(t *testing.T) {
	require.Equal(t, "f0_0.jpg", tileName(faceMasks[0], 0, 0))
	require.Equal(t, "r2_5.jpg", tileName(faceMasks[1], 2, 5))
	require.Equal(t, "d10_3.jpg", tileName(faceMasks[5], 10, 3))
}

func TestLevelDir(t *testing.T) {
	require.Equal(t, filepath.Join("out", "lobby", "1"), levelDir(filepath.Join("out", "lobby"), 0))
	require.Equal(t, filepath.Join("out", "lobby", "4"), levelDir(filepath.Join("out", "lobby"), 3))
}

func TestTileFace(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "1")
	face := solidFace(64, color.RGBA{R: 255, A: 255})

	n, err := TileFace(context.Background(), &testProgress{}, face, 64, 16, dir, faceMasks[0], 90)
	require.NoError(t, err)
	require.Equal(t, 16, n)

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			img, err := imgio.Open(filepath.Join(dir, tileName(faceMasks[0], row, col)))
			require.NoError(t, err)
			require.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
		}
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 16)
}

func TestTileFaceScalesDown(t *testing.T) {
	dir := t.TempDir()
	face := solidFace(64, color.RGBA{G: 255, A: 255})

	n, err := TileFace(context.Background(), &testProgress{}, face, 32, 16, dir, faceMasks[4], 90)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	img, err := imgio.Open(filepath.Join(dir, "u1_1.jpg"))
	require.NoError(t, err)
	require.Equal(t, 16, img.Bounds().Dx())
}

func TestTileFaceOffsetOrigin(t *testing.T) {
	dir := t.TempDir()
	big := solidFace(96, color.RGBA{B: 255, A: 255})
	face := big.SubImage(image.Rect(32, 32, 96, 96))

	n, err := TileFace(context.Background(), &testProgress{}, face, 64, 32, dir, faceMasks[2], 90)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	img, err := imgio.Open(filepath.Join(dir, "b1_1.jpg"))
	require.NoError(t, err)
	require.Equal(t, 32, img.Bounds().Dx())
}

func TestTileFaceWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := TileFace(context.Background(), &testProgress{}, solidFace(32, color.RGBA{A: 255}), 32, 16, filepath.Join(blocker, "1"), faceMasks[0], 90)
	var twe *TileWriteError
	require.True(t, errors.As(err, &twe), "got %v", err)
}

func TestTileFaceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	n, err := TileFace(ctx, &testProgress{}, solidFace(32, color.RGBA{A: 255}), 32, 16, dir, faceMasks[0], 90)
	require.ErrorIs(t, err, ErrCancelled)
	require.Zero(t, n)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestTileFaceInvalidGeometry(t *testing.T) {
	_, err := TileFace(context.Background(), &testProgress{}, solidFace(32, color.RGBA{A: 255}), 32, 0, t.TempDir(), faceMasks[0], 90)
	require.Error(t, err)
}
