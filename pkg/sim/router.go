package sim

import (
	"math"
	"sort"

	"github.com/dataflows/flowgrid/pkg/grid"
	"github.com/dataflows/flowgrid/pkg/model"
)

// routeLinks routes every resolved link in document order. Ordering is a
// guarantee: earlier links claim cheaper terrain, later links pay the
// painted-path penalty, and the output is reproducible byte for byte.
func (s *Simulator) routeLinks() {
	for _, l := range s.root.Links {
		if !l.Resolved() {
			continue
		}
		s.routeLink(l)
	}
}

// routeLink finds and paints a path between the first viable port pair of
// the link's endpoints. Ports of systems unrelated to the link are blocked
// for the duration of the search so paths cannot sneak through foreign
// containers.
func (s *Simulator) routeLink(l *model.Link) {
	restore := s.blockForeignPorts(l)
	defer restore()

	stA := s.states[l.SystemA.CanonicalID]
	stB := s.states[l.SystemB.CanonicalID]

	for _, cand := range s.portPairs(stA, stB) {
		s.search.Reset()
		path := s.search.FindPath(cand.a, cand.b)
		if len(path) == 0 {
			continue
		}
		s.paintPath(l, stA, stB, path)
		s.recordRoute(l, path)
		return
	}
	// No viable pair: the link contributes no tiles. Deliberately silent.
}

// blockForeignPorts temporarily sets the port weights of every system
// outside the link's allowance set (the endpoints plus all their
// ancestors) to Infinity. The returned function restores the previous
// weights.
func (s *Simulator) blockForeignPorts(l *model.Link) func() {
	allowed := make(map[string]struct{})
	for _, endpoint := range []*model.System{l.SystemA, l.SystemB} {
		allowed[endpoint.CanonicalID] = struct{}{}
		for _, anc := range endpoint.Ancestors() {
			allowed[anc.CanonicalID] = struct{}{}
		}
	}

	type saved struct {
		p grid.Point
		w float64
	}
	var blocked []saved
	for _, st := range s.ordered {
		if !st.drawn() {
			continue
		}
		if _, ok := allowed[st.sys.CanonicalID]; ok {
			continue
		}
		for _, port := range st.ports {
			p := s.toGrid(port)
			blocked = append(blocked, saved{p: p, w: s.search.Weight(p)})
			s.search.SetWeight(p, grid.Infinity)
		}
	}
	return func() {
		for _, b := range blocked {
			s.search.SetWeight(b.p, b.w)
		}
	}
}

// portPair is one candidate (a,b) port combination.
type portPair struct {
	a, b     grid.Point
	ai, bi   int
	distance float64
}

// portPairs enumerates all combinations of unblocked ports of the two
// endpoints, sorted by straight-line distance. Ties break on coordinates
// and then port index so candidate order is deterministic.
func (s *Simulator) portPairs(stA, stB *systemState) []portPair {
	var pairs []portPair
	for ai, pa := range stA.ports {
		ga := s.toGrid(pa)
		if !s.portOpen(ga) {
			continue
		}
		for bi, pb := range stB.ports {
			gb := s.toGrid(pb)
			if !s.portOpen(gb) {
				continue
			}
			dx := float64(ga.X - gb.X)
			dy := float64(ga.Y - gb.Y)
			pairs = append(pairs, portPair{
				a: ga, b: gb, ai: ai, bi: bi,
				distance: math.Sqrt(dx*dx + dy*dy),
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		pi, pj := pairs[i], pairs[j]
		if pi.distance != pj.distance {
			return pi.distance < pj.distance
		}
		if pi.a != pj.a {
			if pi.a.X != pj.a.X {
				return pi.a.X < pj.a.X
			}
			return pi.a.Y < pj.a.Y
		}
		if pi.b != pj.b {
			if pi.b.X != pj.b.X {
				return pi.b.X < pj.b.X
			}
			return pi.b.Y < pj.b.Y
		}
		if pi.ai != pj.ai {
			return pi.ai < pj.ai
		}
		return pi.bi < pj.bi
	})
	return pairs
}

// portOpen reports whether the cell's top-of-stack object is a port. A
// port buried under link tiles is considered taken.
func (s *Simulator) portOpen(p grid.Point) bool {
	if p.X < 0 || p.X >= len(s.cells) || p.Y < 0 || p.Y >= len(s.cells[p.X]) {
		return false
	}
	top, ok := s.cells[p.X][p.Y].Top()
	return ok && top.Type == TypePort
}

// paintPath writes the routed cells onto the grid: each cell's weight
// becomes the path reuse penalty, and a directional link tile is pushed
// based on the turn through the cell. The endpoints synthesise a virtual
// neighbour one cell outward from their box so port tiles get the correct
// orientation.
func (s *Simulator) paintPath(l *model.Link, stA, stB *systemState, path []grid.Point) {
	for i, cell := range path {
		prev := s.outwardOf(stA, path[0])
		if i > 0 {
			prev = path[i-1]
		}
		next := s.outwardOf(stB, path[len(path)-1])
		if i < len(path)-1 {
			next = path[i+1]
		}

		s.search.SetWeight(cell, pathWeight)
		s.push(cell, Object{
			Type:        TypeLink,
			Link:        l,
			LinkVariant: linkVariant(prev, cell, next),
		}, pathWeight)
	}
}

// outwardOf returns the virtual cell one step outward from the box that
// owns the given port, used to orient the first and last path tiles.
func (s *Simulator) outwardOf(st *systemState, port grid.Point) grid.Point {
	origin := s.toGrid(st.worldPos)
	w, h := st.size.Width, st.size.Height

	switch {
	case port.Y == origin.Y-1:
		return grid.Point{X: port.X, Y: port.Y - 1} // top edge
	case port.Y == origin.Y+h:
		return grid.Point{X: port.X, Y: port.Y + 1} // bottom edge
	case port.X == origin.X-1:
		return grid.Point{X: port.X - 1, Y: port.Y} // left edge
	case port.X == origin.X+w:
		return grid.Point{X: port.X + 1, Y: port.Y} // right edge
	default:
		return port
	}
}

// linkVariant classifies the tile at cur from the relative positions of
// its predecessor and successor.
func linkVariant(prev, cur, next grid.Point) LinkVariant {
	if prev.X == cur.X && next.X == cur.X {
		return LinkVertical
	}
	if prev.Y == cur.Y && next.Y == cur.Y {
		return LinkHorizontal
	}

	// Elbow: one neighbour is vertical, the other horizontal.
	vert, horz := prev, next
	if prev.Y == cur.Y {
		vert, horz = next, prev
	}
	below := vert.Y > cur.Y
	right := horz.X > cur.X

	switch {
	case below && right:
		return LinkBottomToRight
	case below && !right:
		return LinkBottomToLeft
	case !below && right:
		return LinkTopToRight
	default:
		return LinkTopToLeft
	}
}

// recordRoute stores the path under both endpoint orderings, the reverse
// direction holding the reversed cells.
func (s *Simulator) recordRoute(l *model.Link, path []grid.Point) {
	a := l.SystemA.CanonicalID
	b := l.SystemB.CanonicalID

	reversed := make([]grid.Point, len(path))
	for i, p := range path {
		reversed[len(path)-1-i] = p
	}

	if s.routes[a] == nil {
		s.routes[a] = make(map[string][]grid.Point)
	}
	if s.routes[b] == nil {
		s.routes[b] = make(map[string][]grid.Point)
	}
	s.routes[a][b] = path
	s.routes[b][a] = reversed
}
