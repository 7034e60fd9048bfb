package liquid

// verticalFlow returns the level the lower cell of a vertical pair should
// hold, modeling hydrostatic compression: a lower cell absorbs up to full
// capacity before stacking pressure appears, interpolates while partially
// compressed, and shares the excess evenly once fully saturated. Callers use
// the result as a delta against the lower cell's current amount, never as a
// direct assignment.
func (w *World) verticalFlow(source, dest float64) float64 {
	sum := source + dest
	maxLiquid := w.cfg.Params.MaxLiquid
	comp := w.cfg.Params.MaxCompression
	switch {
	case sum <= maxLiquid:
		return maxLiquid
	case sum < 2*maxLiquid+comp:
		return (maxLiquid*maxLiquid + sum*comp) / (maxLiquid + comp)
	default:
		return (sum + comp) / 2
	}
}

// clampFlow bounds a desired transfer to [0, min(maxFlow, remaining)]. No
// stage ever pulls liquid from a neighbor.
func clampFlow(flow, remaining, maxFlow float64) float64 {
	if flow > maxFlow {
		flow = maxFlow
	}
	if flow > remaining {
		flow = remaining
	}
	if flow < 0 {
		return 0
	}
	return flow
}

// scatter visits every cell in row-major order and records transfers into the
// change buffer. It reads cell amounts and writes only buffer slots plus the
// settle bookkeeping, so the tick result does not depend on traversal order.
func (w *World) scatter() {
	p := &w.cfg.Params

	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			idx := w.diff.Index(x, y)

			if w.material[idx] == MaterialSolid {
				w.amount[idx] = 0
				w.flowDirs[idx] = 0
				continue
			}
			amt := w.amount[idx]
			if amt == 0 {
				w.flowDirs[idx] = 0
				continue
			}
			if amt < p.MinLiquid {
				// Below the tracking threshold the cell counts as empty.
				w.discarded += amt
				w.amount[idx] = 0
				w.flowDirs[idx] = 0
				continue
			}
			if w.settled[idx] {
				continue
			}

			w.flowDirs[idx] = 0
			initial := amt
			remaining := amt
			drained := false

			// Down.
			if below := idx + w.w; y < w.h-1 && w.material[below] == MaterialFluid {
				flow := w.verticalFlow(remaining, w.amount[below]) - w.amount[below]
				if w.amount[below] > 0 && flow > p.MinFlow {
					flow *= p.FlowSpeed
				}
				flow = clampFlow(flow, remaining, p.MaxFlow)
				if flow != 0 {
					remaining -= flow
					w.diff.Add(idx, -flow)
					w.diff.Add(below, flow)
					w.wake(below)
					w.flowDirs[idx] |= DirDown
				}
			}
			if remaining < p.MinLiquid {
				drained = true
			}

			// Left. A quarter of the surplus, leaving room for the other
			// lateral direction and the cell itself.
			if left := idx - 1; !drained && x > 0 && w.material[left] == MaterialFluid {
				flow := (remaining - w.amount[left]) / 4
				if w.amount[left] > 0 && flow > p.MinFlow {
					flow *= p.FlowSpeed
				}
				flow = clampFlow(flow, remaining, p.MaxFlow)
				if flow != 0 {
					remaining -= flow
					w.diff.Add(idx, -flow)
					w.diff.Add(left, flow)
					w.wake(left)
					w.flowDirs[idx] |= DirLeft
				}
				if remaining < p.MinLiquid {
					drained = true
				}
			}

			// Right. The denominator is smaller because Left already took
			// its share; this approximates an even split among the lateral
			// directions still open.
			if right := idx + 1; !drained && x < w.w-1 && w.material[right] == MaterialFluid {
				flow := (remaining - w.amount[right]) / 3
				if w.amount[right] > 0 && flow > p.MinFlow {
					flow *= p.FlowSpeed
				}
				flow = clampFlow(flow, remaining, p.MaxFlow)
				if flow != 0 {
					remaining -= flow
					w.diff.Add(idx, -flow)
					w.diff.Add(right, flow)
					w.wake(right)
					w.flowDirs[idx] |= DirRight
				}
				if remaining < p.MinLiquid {
					drained = true
				}
			}

			// Up. Liquid rises only once the column below is at
			// pressure-equalized capacity.
			if above := idx - w.w; !drained && y > 0 && w.material[above] == MaterialFluid {
				flow := remaining - w.verticalFlow(remaining, w.amount[above])
				if w.amount[above] > 0 && flow > p.MinFlow {
					flow *= p.FlowSpeed
				}
				flow = clampFlow(flow, remaining, p.MaxFlow)
				if flow != 0 {
					remaining -= flow
					w.diff.Add(idx, -flow)
					w.diff.Add(above, flow)
					w.wake(above)
					w.flowDirs[idx] |= DirUp
				}
				if remaining < p.MinLiquid {
					drained = true
				}
			}

			if drained {
				// Discard the sub-threshold residue instead of letting it
				// flicker across ticks. Draining is a change like any other,
				// so dormant neighbors still get woken.
				w.diff.Add(idx, -remaining)
				w.discarded += remaining
				w.settleCount[idx] = 0
				w.wakeNeighbors(x, y)
				continue
			}

			if initial-remaining < p.SettleEpsilon {
				w.settleCount[idx]++
				if int(w.settleCount[idx]) >= p.SettleThreshold {
					w.settled[idx] = true
					w.flowDirs[idx] = 0
				}
			} else {
				w.settleCount[idx] = 0
				w.wakeNeighbors(x, y)
			}
		}
	}
}

// commit drains the change buffer into the cell amounts. Cells that end below
// the tracking threshold are clamped to zero and marked active so they are
// reconsidered if liquid reappears nearby.
func (w *World) commit() {
	minLiquid := w.cfg.Params.MinLiquid
	diff := w.diff.Values()
	for i, d := range diff {
		if d == 0 {
			continue
		}
		w.amount[i] += d
		if w.amount[i] < minLiquid {
			if w.amount[i] > 0 {
				w.discarded += w.amount[i]
			}
			w.amount[i] = 0
			w.settled[i] = false
		}
	}
	w.diff.Clear()
}

func (w *World) wakeNeighbors(x, y int) {
	idx := y*w.w + x
	if x > 0 {
		w.wake(idx - 1)
	}
	if x < w.w-1 {
		w.wake(idx + 1)
	}
	if y > 0 {
		w.wake(idx - w.w)
	}
	if y < w.h-1 {
		w.wake(idx + w.w)
	}
}

// wake reactivates a cell and restarts its stability streak.
func (w *World) wake(i int) {
	w.settled[i] = false
	w.settleCount[i] = 0
}

// wakeAll clears the settle state of every cell, forcing the next tick to
// recompute the whole grid. Used after flow constants change underneath a
// converged field.
func (w *World) wakeAll() {
	for i := range w.settled {
		w.settled[i] = false
		w.settleCount[i] = 0
	}
}
