// Package render draws game snapshots as PNG images.
package render

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/snakegame/snake-api/internal/game"
)

const (
	DefaultCellSize = 20

	colorBackground = "#1a202c"
	colorGrid       = "#2d3748"
	colorHead       = "#48bb78"
	colorBody       = "#38a169"
	colorFood       = "#f56565"
	colorText       = "#f7fafc"
)

type Options struct {
	// CellSize is the edge of one grid cell in pixels.
	CellSize int
	// Width scales the finished board to this many pixels wide; 0 keeps
	// the natural size.
	Width int
	// HideGrid skips the cell grid lines.
	HideGrid bool
}

// Board draws snap onto a new image.
func Board(snap game.Snapshot, opts Options) image.Image {
	cell := opts.CellSize
	if cell <= 0 {
		cell = DefaultCellSize
	}
	w, h := snap.Width*cell, snap.Height*cell

	dc := gg.NewContext(w, h)
	dc.SetHexColor(colorBackground)
	dc.Clear()

	if !opts.HideGrid {
		drawGrid(dc, w, h, cell)
	}

	if snap.HasFood {
		cx := float64(snap.Food.X*cell) + float64(cell)/2
		cy := float64(snap.Food.Y*cell) + float64(cell)/2
		dc.SetHexColor(colorFood)
		dc.DrawCircle(cx, cy, float64(cell)/2-2)
		dc.Fill()
	}

	// Tail first so the head is drawn on top.
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		seg := snap.Snake[i]
		if i == 0 {
			dc.SetHexColor(colorHead)
		} else {
			dc.SetHexColor(colorBody)
		}
		dc.DrawRoundedRectangle(float64(seg.X*cell)+1, float64(seg.Y*cell)+1, float64(cell-2), float64(cell-2), 3)
		dc.Fill()
	}

	if snap.State == game.GameOver {
		dc.SetHexColor(colorText)
		dc.DrawStringAnchored(fmt.Sprintf("GAME OVER  score %d", snap.Score), float64(w)/2, float64(h)/2, 0.5, 0.5)
	}

	img := dc.Image()
	if opts.Width > 0 && opts.Width != w {
		return imaging.Resize(img, opts.Width, 0, imaging.NearestNeighbor)
	}
	return img
}

func drawGrid(dc *gg.Context, w, h, cell int) {
	dc.SetHexColor(colorGrid)
	dc.SetLineWidth(1)
	for x := 0; x <= w; x += cell {
		dc.DrawLine(float64(x), 0, float64(x), float64(h))
		dc.Stroke()
	}
	for y := 0; y <= h; y += cell {
		dc.DrawLine(0, float64(y), float64(w), float64(y))
		dc.Stroke()
	}
}

// Encode writes snap as a PNG.
func Encode(w io.Writer, snap game.Snapshot, opts Options) error {
	if err := imaging.Encode(w, Board(snap, opts), imaging.PNG); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// Save writes snap to path; the format follows the file extension.
func Save(path string, snap game.Snapshot, opts Options) error {
	if err := imaging.Save(Board(snap, opts), path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}
