package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snakegame/snake-api/internal/game"
)

func snapshot() game.Snapshot {
	return game.Snapshot{
		Width:   20,
		Height:  20,
		State:   game.Playing,
		Snake:   []game.Point{{X: 10, Y: 10}, {X: 9, Y: 10}},
		Food:    game.Point{X: 3, Y: 4},
		HasFood: true,
	}
}

func pixel(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestBoard_DrawsCells(t *testing.T) {
	img := Board(snapshot(), Options{})

	require.Equal(t, image.Rect(0, 0, 400, 400), img.Bounds())
	assert.Equal(t, color.RGBA{R: 0x48, G: 0xbb, B: 0x78, A: 0xff}, pixel(img, 210, 210), "head")
	assert.Equal(t, color.RGBA{R: 0x38, G: 0xa1, B: 0x69, A: 0xff}, pixel(img, 190, 210), "body")
	assert.Equal(t, color.RGBA{R: 0xf5, G: 0x65, B: 0x65, A: 0xff}, pixel(img, 70, 90), "food")
	assert.Equal(t, color.RGBA{R: 0x1a, G: 0x20, B: 0x2c, A: 0xff}, pixel(img, 310, 310), "background")
}

func TestBoard_WithoutFood(t *testing.T) {
	snap := snapshot()
	snap.HasFood = false
	img := Board(snap, Options{})

	assert.Equal(t, color.RGBA{R: 0x1a, G: 0x20, B: 0x2c, A: 0xff}, pixel(img, 70, 90))
}

func TestBoard_Resize(t *testing.T) {
	img := Board(snapshot(), Options{CellSize: 10, Width: 100})
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestEncode_WritesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snapshot(), Options{}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	snap := snapshot()
	snap.State = game.GameOver
	require.NoError(t, Save(path, snap, Options{}))

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dy())
}
