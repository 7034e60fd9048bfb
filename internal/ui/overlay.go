//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"liquid-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const helpText = `space  pause/resume
n      single tick
r/s    reset (seed / random)
lmb    pour liquid
rmb    place wall
mmb    carve cavity
tab    parameters
` + "`" + `      settle view
[ ]    select param
- =    adjust param
q/esc  quit`

type snapshotProvider interface {
	Parameters() core.ParameterSnapshot
}

type settleMaskProvider interface {
	SettledMask() []bool
}

// Overlay draws help, parameter readouts, and debugging tints on top of the
// base simulation.
type Overlay struct {
	sim   core.Sim
	scale int

	showHelp   bool
	showParams bool
	showSettle bool

	selected int

	maskImg *ebiten.Image
	maskBuf []byte
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	return &Overlay{sim: sim, scale: scale, showHelp: true}
}

// Update processes overlay key bindings.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		o.showHelp = !o.showHelp
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		o.showParams = !o.showParams
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackquote) {
		o.showSettle = !o.showSettle
	}

	controls := o.controls()
	if len(controls) == 0 {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		o.selected = (o.selected + len(controls) - 1) % len(controls)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		o.selected = (o.selected + 1) % len(controls)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		o.adjust(controls[o.selected%len(controls)], -1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		o.adjust(controls[o.selected%len(controls)], +1)
	}
}

func (o *Overlay) controls() []core.ParameterControl {
	provider, ok := o.sim.(core.ParameterControlsProvider)
	if !ok {
		return nil
	}
	return provider.ParameterControls()
}

// adjust nudges the selected control by one step in the given direction,
// respecting its declared bounds.
func (o *Overlay) adjust(ctl core.ParameterControl, dir float64) {
	cur, ok := o.currentValue(ctl.Key)
	if !ok {
		return
	}
	next := cur + dir*ctl.Step
	if ctl.HasMin && next < ctl.Min {
		next = ctl.Min
	}
	if ctl.HasMax && next > ctl.Max {
		next = ctl.Max
	}
	switch ctl.Type {
	case core.ParamTypeInt:
		if setter, ok := o.sim.(core.IntParameterSetter); ok {
			setter.SetIntParameter(ctl.Key, int(next))
		}
	case core.ParamTypeFloat:
		if setter, ok := o.sim.(core.FloatParameterSetter); ok {
			setter.SetFloatParameter(ctl.Key, next)
		}
	}
}

func (o *Overlay) currentValue(key string) (float64, bool) {
	provider, ok := o.sim.(snapshotProvider)
	if !ok {
		return 0, false
	}
	for _, group := range provider.Parameters().Groups {
		for _, param := range group.Params {
			if param.Key != key {
				continue
			}
			v, err := strconv.ParseFloat(param.Value, 64)
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.showSettle {
		o.drawSettleMask(screen)
	}
	if o.showHelp {
		ebitenutil.DebugPrint(screen, helpText)
	}
	if o.showParams {
		o.drawParams(screen)
	}
}

func (o *Overlay) drawParams(screen *ebiten.Image) {
	controls := o.controls()
	var b strings.Builder
	for i, ctl := range controls {
		marker := "  "
		if i == o.selected%max(len(controls), 1) {
			marker = "> "
		}
		value := "?"
		if v, ok := o.currentValue(ctl.Key); ok {
			if ctl.Type == core.ParamTypeInt {
				value = strconv.Itoa(int(v))
			} else {
				value = strconv.FormatFloat(v, 'f', 2, 64)
			}
		}
		fmt.Fprintf(&b, "%s%s: %s\n", marker, ctl.Label, value)
	}
	size := o.sim.Size()
	ebitenutil.DebugPrintAt(screen, b.String(), 4, size.H*o.scale-16*len(controls)-4)
}

// drawSettleMask tints dormant cells so convergence is visible.
func (o *Overlay) drawSettleMask(screen *ebiten.Image) {
	provider, ok := o.sim.(settleMaskProvider)
	if !ok {
		return
	}
	size := o.sim.Size()
	total := size.W * size.H
	if total == 0 {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}

	settled := provider.SettledMask()
	if len(settled) != total {
		return
	}
	tint := color.RGBA{R: 40, G: 200, B: 90, A: 90}
	for i, s := range settled {
		base := i * 4
		if s {
			o.maskBuf[base+0] = tint.R
			o.maskBuf[base+1] = tint.G
			o.maskBuf[base+2] = tint.B
			o.maskBuf[base+3] = tint.A
			continue
		}
		o.maskBuf[base+0] = 0
		o.maskBuf[base+1] = 0
		o.maskBuf[base+2] = 0
		o.maskBuf[base+3] = 0
	}
	o.maskImg.WritePixels(o.maskBuf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
}
