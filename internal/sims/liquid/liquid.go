package liquid

import (
	"fmt"
	"math/rand"

	"liquid-ca/internal/core"
)

// Material enumerates the cell material values.
type Material uint8

const (
	MaterialFluid Material = iota
	MaterialSolid
)

// Direction is a bit set over the four axis-aligned directions. It is used
// both for the per-tick outgoing flow report and for neighbor presence.
type Direction uint8

const (
	DirDown Direction = 1 << iota
	DirLeft
	DirRight
	DirUp
)

// Has reports whether dir is contained in the set.
func (d Direction) Has(dir Direction) bool { return d&dir != 0 }

// World stores all state for the liquid simulation. Cells live in flat
// row-major slices; neighbors are derived from coordinates rather than stored.
type World struct {
	cfg Config

	w, h int

	material    []Material
	amount      []float64
	settled     []bool
	settleCount []uint16
	flowDirs    []Direction

	// diff buffers pending transfers for the current tick so the result is
	// independent of scatter traversal order.
	diff    *core.FloatGrid
	display []uint8

	// discarded accumulates sub-threshold residue dropped by the solver.
	discarded float64

	rng *rand.Rand
}

// New returns a square size*size liquid world using default flow constants.
func New(size int) (*World, error) {
	cfg := DefaultConfig()
	cfg.Width = size
	cfg.Height = size
	return NewWithConfig(cfg)
}

// NewWithConfig returns a liquid world configured from the provided options.
func NewWithConfig(cfg Config) (*World, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrInvalidArgument, cfg.Width, cfg.Height)
	}
	total := cfg.Width * cfg.Height
	w := &World{
		cfg:         cfg,
		w:           cfg.Width,
		h:           cfg.Height,
		material:    make([]Material, total),
		amount:      make([]float64, total),
		settled:     make([]bool, total),
		settleCount: make([]uint16, total),
		flowDirs:    make([]Direction, total),
		diff:        core.NewFloatGrid(cfg.Width, cfg.Height),
		display:     make([]uint8, total),
		rng:         rand.New(rand.NewSource(cfg.Seed)),
	}
	w.Reset(cfg.Seed)
	return w, nil
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "liquid" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Cells exposes the current display buffer.
func (w *World) Cells() []uint8 { return w.display }

// TotalLiquid returns the summed liquid amount across the grid.
func (w *World) TotalLiquid() float64 {
	var sum float64
	for _, a := range w.amount {
		sum += a
	}
	return sum
}

// Discarded returns the cumulative sub-threshold residue dropped by the
// solver since the last Reset. One tick's mass loss is the delta across it.
func (w *World) Discarded() float64 { return w.discarded }

// SettledMask exposes the per-cell dormancy flags for debugging overlays.
func (w *World) SettledMask() []bool { return w.settled }

// Liquid exposes the per-cell liquid amounts.
func (w *World) Liquid() []float64 { return w.amount }

// Reset rebuilds the initial scene using deterministic randomness: an empty
// fluid interior inside a solid boundary ring, plus seeded obstacles and
// liquid pools when the params ask for them. A zero seed falls back to the
// configured one.
func (w *World) Reset(seed int64) {
	if w.w == 0 || w.h == 0 {
		return
	}
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng.Seed(effective)

	total := w.w * w.h
	for i := 0; i < total; i++ {
		w.material[i] = MaterialFluid
		w.amount[i] = 0
		w.settled[i] = false
		w.settleCount[i] = 0
		w.flowDirs[i] = 0
	}
	w.diff.Clear()
	w.discarded = 0

	// Boundary ring acts as the container wall and is never altered by the
	// solver.
	for x := 0; x < w.w; x++ {
		w.material[x] = MaterialSolid
		w.material[(w.h-1)*w.w+x] = MaterialSolid
	}
	for y := 0; y < w.h; y++ {
		w.material[y*w.w] = MaterialSolid
		w.material[y*w.w+w.w-1] = MaterialSolid
	}

	w.sprinkleObstacles()
	w.seedPools()
	w.rebuildDisplay()
}

// Step advances the simulation by one tick: a scatter pass accumulating
// transfers into the change buffer, then a commit pass applying them. Editing
// calls must run strictly between ticks.
func (w *World) Step() {
	if w.w == 0 || w.h == 0 {
		return
	}
	w.scatter()
	w.commit()
	w.rebuildDisplay()
}

func (w *World) sprinkleObstacles() {
	chance := w.cfg.Params.ObstacleChance
	if chance <= 0 {
		return
	}
	for y := 1; y < w.h-1; y++ {
		for x := 1; x < w.w-1; x++ {
			if w.rng.Float64() < chance {
				w.material[y*w.w+x] = MaterialSolid
			}
		}
	}
}

func (w *World) seedPools() {
	count := w.cfg.Params.PoolCount
	if count <= 0 || w.w < 3 || w.h < 3 {
		return
	}
	minR := w.cfg.Params.PoolRadiusMin
	maxR := w.cfg.Params.PoolRadiusMax
	if minR < 0 {
		minR = 0
	}
	if maxR < minR {
		maxR = minR
	}
	fill := w.cfg.Params.PoolFill
	if fill <= 0 {
		fill = w.cfg.Params.MaxLiquid
	}
	for p := 0; p < count; p++ {
		cx := 1 + w.rng.Intn(w.w-2)
		cy := 1 + w.rng.Intn(w.h-2)
		radius := minR
		if maxR > minR {
			radius += w.rng.Intn(maxR - minR + 1)
		}
		r2 := radius * radius
		for dy := -radius; dy <= radius; dy++ {
			yp := cy + dy
			if yp < 1 || yp >= w.h-1 {
				continue
			}
			for dx := -radius; dx <= radius; dx++ {
				xp := cx + dx
				if xp < 1 || xp >= w.w-1 {
					continue
				}
				if dx*dx+dy*dy > r2 {
					continue
				}
				idx := yp*w.w + xp
				if w.material[idx] != MaterialFluid {
					continue
				}
				w.amount[idx] = fill
			}
		}
	}
}

func init() {
	core.Register("liquid", func(cfg map[string]string) core.Sim {
		w, err := NewWithConfig(FromMap(cfg))
		if err != nil {
			w, _ = NewWithConfig(DefaultConfig())
		}
		return w
	})
}
