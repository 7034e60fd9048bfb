package liquid

import (
	"math"
	"testing"
)

func newTestWorld(t *testing.T, w, h int) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Params.ObstacleChance = 0
	cfg.Params.PoolCount = 0
	world, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	return world
}

func TestVerticalFlowAbsorbsUpToCapacity(t *testing.T) {
	world := newTestWorld(t, 4, 4)
	if got := world.verticalFlow(0.3, 0.4); got != world.cfg.Params.MaxLiquid {
		t.Fatalf("expected unsaturated pair to target full capacity, got %f", got)
	}
	if got := world.verticalFlow(1.0, 0.0); got != world.cfg.Params.MaxLiquid {
		t.Fatalf("expected exactly-full pair to target full capacity, got %f", got)
	}
}

func TestVerticalFlowPartialCompression(t *testing.T) {
	world := newTestWorld(t, 4, 4)
	// max=1, comp=0.25, sum=1.5: (1 + 1.5*0.25) / 1.25 = 1.1
	got := world.verticalFlow(1.0, 0.5)
	if math.Abs(got-1.1) > 1e-12 {
		t.Fatalf("expected partial compression target 1.1, got %f", got)
	}
	if got <= world.cfg.Params.MaxLiquid {
		t.Fatal("compression must allow the lower cell to exceed capacity")
	}
}

func TestVerticalFlowSaturatedSplitsEvenly(t *testing.T) {
	world := newTestWorld(t, 4, 4)
	// sum=3 >= 2*max+comp: (3 + 0.25) / 2 = 1.625
	got := world.verticalFlow(2.0, 1.0)
	if math.Abs(got-1.625) > 1e-12 {
		t.Fatalf("expected saturated split target 1.625, got %f", got)
	}
}

func TestVerticalEqualization(t *testing.T) {
	world := newTestWorld(t, 3, 4)
	if err := world.AddLiquid(1, 1, 1.0); err != nil {
		t.Fatalf("AddLiquid: %v", err)
	}

	for i := 0; i < 15; i++ {
		world.Step()
	}

	top := world.amount[1*3+1]
	bottom := world.amount[2*3+1]
	if top != 0 {
		t.Fatalf("expected top cell to drain completely, got %f", top)
	}
	if bottom != 1.0 {
		t.Fatalf("expected bottom cell to hold exactly 1.0, got %f", bottom)
	}
	if !world.settled[2*3+1] {
		t.Fatal("expected bottom cell to settle once quiescent")
	}
}

func TestLateralSpread(t *testing.T) {
	world := newTestWorld(t, 5, 5)
	// Floor under the spread row is the boundary ring; pour onto the center
	// of the lowest interior row.
	if err := world.AddLiquid(2, 3, 3.0); err != nil {
		t.Fatalf("AddLiquid: %v", err)
	}

	for i := 0; i < 400; i++ {
		world.Step()
	}

	left := world.amount[3*5+1]
	center := world.amount[3*5+2]
	right := world.amount[3*5+3]
	if left < 0.8 || right < 0.8 {
		t.Fatalf("expected roughly even three-way spread, got %f / %f / %f", left, center, right)
	}
	if center > 1.3 {
		t.Fatalf("expected center to shed its excess, got %f", center)
	}
	total := world.TotalLiquid()
	if math.Abs(total+world.Discarded()-3.0) > 1e-9 {
		t.Fatalf("mass unaccounted for: total %f, discarded %f", total, world.Discarded())
	}
}

func TestCompressionStacksBottomHeavy(t *testing.T) {
	world := newTestWorld(t, 3, 5)
	for y := 1; y <= 3; y++ {
		if err := world.AddLiquid(1, y, 1.0); err != nil {
			t.Fatalf("AddLiquid: %v", err)
		}
	}

	for i := 0; i < 500; i++ {
		world.Step()
	}

	top := world.amount[1*3+1]
	mid := world.amount[2*3+1]
	bottom := world.amount[3*3+1]
	if !(bottom > mid && mid > top) {
		t.Fatalf("expected bottom-heavy column, got %f / %f / %f", top, mid, bottom)
	}
	if bottom <= world.cfg.Params.MaxLiquid {
		t.Fatalf("expected hydrostatic compression past capacity at the bottom, got %f", bottom)
	}
	total := world.TotalLiquid()
	if math.Abs(total+world.Discarded()-3.0) > 1e-9 {
		t.Fatalf("mass unaccounted for: total %f, discarded %f", total, world.Discarded())
	}
}

func TestConservationPerTick(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 24
	cfg.Height = 24
	cfg.Seed = 7
	world, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}

	for i := 0; i < 120; i++ {
		before := world.TotalLiquid()
		discardedBefore := world.Discarded()
		world.Step()
		after := world.TotalLiquid()
		dropped := world.Discarded() - discardedBefore

		if after > before+1e-9 {
			t.Fatalf("tick %d created mass: %f -> %f", i, before, after)
		}
		if math.Abs(before-after-dropped) > 1e-9 {
			t.Fatalf("tick %d mass delta %g does not match discarded residue %g", i, before-after, dropped)
		}
	}
}

func TestSolidInvarianceAndContainment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 16
	cfg.Height = 16
	cfg.Seed = 11
	cfg.Params.ObstacleChance = 0.15
	world, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}

	solids := make([]bool, len(world.material))
	for i, m := range world.material {
		solids[i] = m == MaterialSolid
	}

	for i := 0; i < 80; i++ {
		world.Step()
	}

	for i, m := range world.material {
		if solids[i] != (m == MaterialSolid) {
			t.Fatalf("tick changed material of cell %d", i)
		}
		if m == MaterialSolid && world.amount[i] != 0 {
			t.Fatalf("solid cell %d holds liquid %f", i, world.amount[i])
		}
	}
	for x := 0; x < world.w; x++ {
		if world.material[x] != MaterialSolid || world.material[(world.h-1)*world.w+x] != MaterialSolid {
			t.Fatalf("boundary ring breached in column %d", x)
		}
	}
	for y := 0; y < world.h; y++ {
		if world.material[y*world.w] != MaterialSolid || world.material[y*world.w+world.w-1] != MaterialSolid {
			t.Fatalf("boundary ring breached in row %d", y)
		}
	}
}

func TestIdempotentQuiescence(t *testing.T) {
	world := newTestWorld(t, 8, 8)
	if err := world.AddLiquid(3, 2, 2.0); err != nil {
		t.Fatalf("AddLiquid: %v", err)
	}
	if err := world.AddLiquid(5, 4, 1.5); err != nil {
		t.Fatalf("AddLiquid: %v", err)
	}

	for i := 0; i < 500; i++ {
		world.Step()
	}

	amounts := append([]float64(nil), world.amount...)
	discarded := world.Discarded()
	for i := 0; i < 25; i++ {
		world.Step()
	}

	for i, a := range world.amount {
		if a != amounts[i] {
			t.Fatalf("quiescent grid changed at cell %d: %g -> %g", i, amounts[i], a)
		}
	}
	if world.Discarded() != discarded {
		t.Fatalf("quiescent grid discarded mass: %g -> %g", discarded, world.Discarded())
	}
}

func TestSettleMonotonicity(t *testing.T) {
	world := newTestWorld(t, 8, 8)
	if err := world.AddLiquid(4, 2, 2.0); err != nil {
		t.Fatalf("AddLiquid: %v", err)
	}
	for i := 0; i < 500; i++ {
		world.Step()
	}

	settled := append([]bool(nil), world.settled...)
	for i := 0; i < 10; i++ {
		world.Step()
		for j, s := range settled {
			if s && !world.settled[j] {
				t.Fatalf("cell %d lost settle state without any edit", j)
			}
		}
	}
}

func TestDrainedCellWakesSettledNeighbor(t *testing.T) {
	world := newTestWorld(t, 5, 5)

	// A shelf holds a dormant puddle at (1,2); its right neighbor (2,2)
	// sits over an open column and empties out in a single tick.
	if err := world.SetSolid(1, 3); err != nil {
		t.Fatalf("SetSolid: %v", err)
	}
	shelf := 2*world.w + 1
	world.amount[shelf] = 0.5
	world.settled[shelf] = true
	world.settleCount[shelf] = 7
	spout := 2*world.w + 2
	world.amount[spout] = 0.5

	world.Step()

	if world.amount[spout] != 0 {
		t.Fatalf("expected the open-column cell to empty, holds %g", world.amount[spout])
	}
	if world.settled[shelf] {
		t.Fatal("draining neighbor must wake the dormant shelf cell")
	}
	if world.settleCount[shelf] != 0 {
		t.Fatalf("waking must restart the stability streak, count=%d", world.settleCount[shelf])
	}

	for i := 0; i < 200; i++ {
		world.Step()
	}
	if world.amount[shelf] != 0 {
		t.Fatalf("woken shelf cell never drained, holds %g", world.amount[shelf])
	}
	if diff := math.Abs(world.TotalLiquid() + world.Discarded() - 1.0); diff > 1e-9 {
		t.Fatalf("mass accounting off by %g", diff)
	}
}

func TestFlowDirectionsReported(t *testing.T) {
	world := newTestWorld(t, 5, 5)
	if err := world.AddLiquid(2, 2, 3.0); err != nil {
		t.Fatalf("AddLiquid: %v", err)
	}

	world.Step()
	view, err := world.CellAt(2, 2)
	if err != nil {
		t.Fatalf("CellAt: %v", err)
	}
	if !view.Flow.Has(DirDown) || !view.Flow.Has(DirLeft) || !view.Flow.Has(DirRight) {
		t.Fatalf("expected down and lateral outflow, got %04b", view.Flow)
	}
	if view.Flow.Has(DirUp) {
		t.Fatal("unsaturated column must not push liquid upward")
	}

	for i := 0; i < 400; i++ {
		world.Step()
	}
	for y := 1; y < world.h-1; y++ {
		for x := 1; x < world.w-1; x++ {
			view, err := world.CellAt(x, y)
			if err != nil {
				t.Fatalf("CellAt(%d,%d): %v", x, y, err)
			}
			if view.Flow != 0 {
				t.Fatalf("converged cell (%d,%d) still reports outflow %04b", x, y, view.Flow)
			}
		}
	}
}
