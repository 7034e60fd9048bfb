//go:build ebiten

package app

import (
	"image/color"
	"time"

	"liquid-ca/internal/core"
	"liquid-ca/internal/render"
	"liquid-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// pourPerFrame is how much liquid the left mouse button adds per frame.
const pourPerFrame = 0.5

type paletteProvider interface {
	Palette() []color.RGBA
}

// editor is the mutation surface a sim can expose for mouse editing. All
// calls happen between ticks, from the update loop.
type editor interface {
	AddLiquid(x, y int, amount float64) error
	SetSolid(x, y int) error
	SetFluid(x, y int) error
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, scale int, seed int64) *Game {
	gp := render.NewGridPainter(sim.Size().W, sim.Size().H)
	return &Game{
		sim:     sim,
		painter: gp,
		overlay: ui.NewOverlay(sim, scale),
		scale:   scale,
		seed:    seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame input, applies edits, and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	g.applyMouseEdits()

	if g.overlay != nil {
		g.overlay.Update()
	}

	if (!g.paused) || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// applyMouseEdits routes mouse buttons to the sim's editing API: left pours
// liquid, right places a wall, middle carves a cavity. Out-of-range errors
// from dragging off the grid are ignored.
func (g *Game) applyMouseEdits() {
	ed, ok := g.sim.(editor)
	if !ok {
		return
	}
	mx, my := ebiten.CursorPosition()
	x, y := mx/g.scale, my/g.scale
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		_ = ed.AddLiquid(x, y, pourPerFrame)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		_ = ed.SetSolid(x, y)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		_ = ed.SetFluid(x, y)
	}
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	var palette []color.RGBA
	if provider, ok := g.sim.(paletteProvider); ok {
		palette = provider.Palette()
	}
	g.painter.Blit(screen, g.sim.Cells(), palette, g.scale)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W * g.scale, s.H * g.scale
}
