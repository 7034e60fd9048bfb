package liquid

import (
	"errors"
	"fmt"
	"math"
)

// Errors reported by the query and editing API. The tick itself is pure
// arithmetic over validated state and cannot fail; all validation happens
// here at the boundary.
var (
	ErrOutOfRange      = errors.New("coordinate out of range")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotInitialized  = errors.New("world not initialized")
)

// CellView is a read-only snapshot of a single cell.
type CellView struct {
	Material Material
	Liquid   float64
	Settled  bool
	// Flow reports the directions a nonzero transfer left through on the
	// last tick. Presentation-layer signal only.
	Flow Direction
	// Neighbors reports which in-bounds neighbors the cell has, using the
	// same direction bits.
	Neighbors Direction
}

func (w *World) check(x, y int) error {
	if w == nil || len(w.amount) == 0 {
		return ErrNotInitialized
	}
	if x < 0 || x >= w.w || y < 0 || y >= w.h {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d grid", ErrOutOfRange, x, y, w.w, w.h)
	}
	return nil
}

// checkInterior rejects the boundary ring on top of the bounds check; the
// ring is the container wall and is not editable.
func (w *World) checkInterior(x, y int) error {
	if err := w.check(x, y); err != nil {
		return err
	}
	if x == 0 || y == 0 || x == w.w-1 || y == w.h-1 {
		return fmt.Errorf("%w: (%d,%d) on the boundary ring", ErrOutOfRange, x, y)
	}
	return nil
}

// CellAt returns a read view of the cell at (x, y).
func (w *World) CellAt(x, y int) (CellView, error) {
	if err := w.check(x, y); err != nil {
		return CellView{}, err
	}
	idx := y*w.w + x
	var neighbors Direction
	if y < w.h-1 {
		neighbors |= DirDown
	}
	if x > 0 {
		neighbors |= DirLeft
	}
	if x < w.w-1 {
		neighbors |= DirRight
	}
	if y > 0 {
		neighbors |= DirUp
	}
	return CellView{
		Material:  w.material[idx],
		Liquid:    w.amount[idx],
		Settled:   w.settled[idx],
		Flow:      w.flowDirs[idx],
		Neighbors: neighbors,
	}, nil
}

// AddLiquid pours amount into the fluid cell at (x, y) and wakes it so the
// next tick reconsiders it. Pouring onto a solid cell is a no-op. Must be
// called between ticks.
func (w *World) AddLiquid(x, y int, amount float64) error {
	if err := w.checkInterior(x, y); err != nil {
		return err
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: liquid amount %v", ErrInvalidArgument, amount)
	}
	idx := y*w.w + x
	if w.material[idx] == MaterialSolid {
		return nil
	}
	w.amount[idx] += amount
	w.settled[idx] = false
	w.settleCount[idx] = 0
	w.display[idx] = w.encodeCell(idx)
	return nil
}

// SetSolid turns the cell at (x, y) into a wall, dropping any liquid it held.
// Neighbors are woken so adjacent columns react to the new obstacle.
func (w *World) SetSolid(x, y int) error {
	if err := w.check(x, y); err != nil {
		return err
	}
	idx := y*w.w + x
	if w.material[idx] == MaterialSolid {
		return nil
	}
	w.material[idx] = MaterialSolid
	w.amount[idx] = 0
	w.settled[idx] = false
	w.settleCount[idx] = 0
	w.flowDirs[idx] = 0
	w.wakeNeighbors(x, y)
	w.display[idx] = w.encodeCell(idx)
	return nil
}

// SetFluid carves the cell at (x, y) into an empty cavity. Neighbors are
// woken so settled liquid flows into it. The boundary ring is not editable.
func (w *World) SetFluid(x, y int) error {
	if err := w.checkInterior(x, y); err != nil {
		return err
	}
	idx := y*w.w + x
	w.material[idx] = MaterialFluid
	w.amount[idx] = 0
	w.settled[idx] = false
	w.settleCount[idx] = 0
	w.flowDirs[idx] = 0
	w.wakeNeighbors(x, y)
	w.display[idx] = w.encodeCell(idx)
	return nil
}
