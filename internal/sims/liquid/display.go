package liquid

import (
	"image/color"

	"github.com/crazy3lf/colorconv"
)

const (
	displayEmpty       = 0
	displayDepthLevels = 16
	displaySolid       = displayDepthLevels + 1
)

var liquidPalette = buildLiquidPalette()

// Palette exposes the color palette used for rendering the liquid world.
func (w *World) Palette() []color.RGBA {
	return liquidPalette
}

func buildLiquidPalette() []color.RGBA {
	palette := make([]color.RGBA, displaySolid+1)
	palette[displayEmpty] = color.RGBA{R: 12, G: 12, B: 18, A: 255}
	for level := 1; level <= displayDepthLevels; level++ {
		// Shallow liquid renders light and desaturated, deep liquid dark
		// and saturated.
		t := float64(level-1) / float64(displayDepthLevels-1)
		r, g, b, err := colorconv.HSVToRGB(208, 0.5+0.45*t, 0.95-0.55*t)
		if err != nil {
			r, g, b = 40, 90, 200
		}
		palette[level] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	palette[displaySolid] = color.RGBA{R: 121, G: 112, B: 102, A: 255}
	return palette
}

// encodeCell quantizes one cell into a display byte: the solid sentinel, or a
// depth level in [0, displayDepthLevels]. Compression can push amounts past
// MaxLiquid, so the depth scale runs to MaxLiquid+MaxCompression.
func (w *World) encodeCell(idx int) uint8 {
	if w.material[idx] == MaterialSolid {
		return displaySolid
	}
	amt := w.amount[idx]
	if amt < w.cfg.Params.MinLiquid {
		return displayEmpty
	}
	full := w.cfg.Params.MaxLiquid + w.cfg.Params.MaxCompression
	level := 1 + int(amt/full*float64(displayDepthLevels-1)+0.5)
	if level > displayDepthLevels {
		level = displayDepthLevels
	}
	return uint8(level)
}

func (w *World) rebuildDisplay() {
	for i := range w.display {
		w.display[i] = w.encodeCell(i)
	}
}
