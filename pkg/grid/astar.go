package grid

// FindPath runs an A* search from one cell to another and returns the
// traversed cells including both endpoints. It returns nil when no path
// exists, when either endpoint is out of bounds, or when the goal sits on
// an impassable cell.
//
// The cost of a step is the weight of the destination cell, plus
// TurnPenalty when the step direction differs from the direction that
// reached the current cell. The start cell's own weight is never charged.
func (g *Grid) FindPath(from, to Point) []Point {
	if !g.InBounds(from) || !g.InBounds(to) {
		return nil
	}
	if g.nodes[g.index(to)].weight == Infinity {
		return nil
	}
	g.Reset()

	start := g.index(from)
	goal := g.index(to)

	g.nodes[start].f = g.heuristic(from, to)
	g.nodes[start].state = willVisit
	g.pushOpen(start)

	for len(g.open) > 0 {
		cur := g.popOpen()
		if cur == goal {
			return g.reconstruct(cur)
		}
		g.nodes[cur].state = visited

		p := g.point(cur)
		for _, step := range [4]struct {
			dx, dy int
			dir    direction
		}{
			{0, -1, dirUp},
			{0, 1, dirDown},
			{-1, 0, dirLeft},
			{1, 0, dirRight},
		} {
			np := Point{X: p.X + step.dx, Y: p.Y + step.dy}
			if !g.InBounds(np) {
				continue
			}
			ni := g.index(np)
			nb := &g.nodes[ni]
			if nb.state == visited || nb.weight == Infinity {
				continue
			}

			tentative := g.nodes[cur].g + nb.weight
			if d := g.nodes[cur].dir; d != dirNone && d != step.dir {
				tentative += g.TurnPenalty
			}

			switch nb.state {
			case notVisited:
				nb.g = tentative
				nb.f = tentative + g.heuristic(np, to)
				nb.parent = int32(cur)
				nb.dir = step.dir
				nb.state = willVisit
				g.pushOpen(ni)
			case willVisit:
				// Reopen with a cheaper cost and fix the heap in place.
				if tentative < nb.g {
					nb.g = tentative
					nb.f = tentative + g.heuristic(np, to)
					nb.parent = int32(cur)
					nb.dir = step.dir
					g.updateOpen(ni)
				}
			}
		}
	}
	return nil
}

// heuristic is the weighted Manhattan distance to the goal.
func (g *Grid) heuristic(p, goal Point) float64 {
	return float64(abs(p.X-goal.X)+abs(p.Y-goal.Y)) * g.HeuristicWeight
}

// reconstruct walks parent links from the goal back to the start.
func (g *Grid) reconstruct(goal int) []Point {
	var rev []Point
	for idx := goal; idx != -1; idx = int(g.nodes[idx].parent) {
		rev = append(rev, g.point(idx))
	}
	path := make([]Point, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
