// Package sim computes the concrete tile-level geometry of a hydrated
// architecture model: where every box sits, how large it is, where its
// ports are, which cells every link path traverses, and where title glyphs
// land.
//
// The simulator is strictly single-threaded. Compute runs the full layout
// from scratch; the same input always produces the same output, including
// the link-order-dependent routing (earlier links claim cheaper routes,
// later links pay a reuse penalty on painted cells).
package sim

import (
	"github.com/dataflows/flowgrid/pkg/errors"
	"github.com/dataflows/flowgrid/pkg/grid"
	"github.com/dataflows/flowgrid/pkg/model"
)

// Simulator owns the raster grid, the search grid, the route table and the
// per-system computed metadata for one model tree.
type Simulator struct {
	root *model.System

	states  map[string]*systemState
	ordered []*systemState // document (depth-first) order

	boundaries Boundaries
	cells      [][]Stack // [x][y], bottom-most object first
	search     *grid.Grid
	routes     map[string]map[string][]grid.Point

	// TurnPenalty and HeuristicWeight tune the router's A* search.
	TurnPenalty     float64
	HeuristicWeight float64
}

// New creates a simulator for the given hydrated tree.
func New(root *model.System) *Simulator {
	return &Simulator{
		root:            root,
		TurnPenalty:     grid.DefaultTurnPenalty,
		HeuristicWeight: grid.DefaultHeuristicWeight,
	}
}

// Compute runs the full layout: visibility, world coordinates, sizes and
// ports, boundaries, rasterisation, and link routing. It can be called
// again after the model changes; all derived state is rebuilt from
// scratch.
//
// Compute fails only on hard constraint violations (the world extent
// exceeding the root size bounds); routing failures are silent and leave
// the affected link without tiles.
func (s *Simulator) Compute() error {
	s.initStates()
	s.computeVisibility()
	s.computeWorldPositions()
	s.computeSizes()

	b, ok := s.computeBoundaries()
	if !ok {
		// Empty diagram: nothing to draw, but the result is valid.
		s.boundaries = Boundaries{}
		s.cells = nil
		s.search = nil
		s.routes = map[string]map[string][]grid.Point{}
		return nil
	}
	inner := Boundaries{
		MinX: b.MinX + boundaryInflation,
		MinY: b.MinY + boundaryInflation,
		MaxX: b.MaxX - boundaryInflation,
		MaxY: b.MaxY - boundaryInflation,
	}
	if w := inner.MaxX - inner.MinX + 1; w > MaxSystemWidth {
		return errors.New(errors.ErrCodeSpecTooLarge, "world width %d exceeds maximum %d", w, MaxSystemWidth)
	}
	if h := inner.MaxY - inner.MinY + 1; h > MaxSystemHeight {
		return errors.New(errors.ErrCodeSpecTooLarge, "world height %d exceeds maximum %d", h, MaxSystemHeight)
	}
	s.boundaries = b

	s.cells = make([][]Stack, b.Width)
	for x := range s.cells {
		s.cells[x] = make([]Stack, b.Height)
	}
	s.search = grid.New(b.Width, b.Height)
	s.search.TurnPenalty = s.TurnPenalty
	s.search.HeuristicWeight = s.HeuristicWeight
	s.routes = make(map[string]map[string][]grid.Point)

	s.rasterize()
	s.routeLinks()
	s.syncBack()
	return nil
}

// initStates creates one state record per non-root system, in document
// order.
func (s *Simulator) initStates() {
	s.states = make(map[string]*systemState)
	s.ordered = s.ordered[:0]
	s.root.Walk(func(sys *model.System) {
		if sys.IsRoot() {
			return
		}
		st := &systemState{sys: sys}
		s.states[sys.CanonicalID] = st
		s.ordered = append(s.ordered, st)
	})
}

// toGrid translates a world coordinate into grid space.
func (s *Simulator) toGrid(p model.Position) grid.Point {
	return grid.Point{X: p.X + s.boundaries.TranslateX, Y: p.Y + s.boundaries.TranslateY}
}

// push appends an object to the stack of a grid cell and sets the cell's
// search weight. Out-of-grid coordinates are ignored.
func (s *Simulator) push(p grid.Point, obj Object, weight float64) {
	if p.X < 0 || p.X >= len(s.cells) || p.Y < 0 || p.Y >= len(s.cells[p.X]) {
		return
	}
	s.cells[p.X][p.Y] = append(s.cells[p.X][p.Y], obj)
	s.search.SetWeight(p, weight)
}

// rasterize paints every drawn system onto the grid stack: margin ring,
// box interior, ports, title padding, and title glyphs, in that order.
func (s *Simulator) rasterize() {
	for _, st := range s.ordered {
		if !st.drawn() {
			continue
		}
		s.paintMargin(st)
		s.paintBox(st)
		s.paintPorts(st)
		s.paintTitle(st)
	}
}

// paintMargin draws the impassable ring one cell outside the box.
func (s *Simulator) paintMargin(st *systemState) {
	origin := s.toGrid(st.worldPos)
	w, h := st.size.Width, st.size.Height
	obj := Object{Type: TypeSystemMargin, System: st.sys}

	for x := origin.X - 1; x <= origin.X+w; x++ {
		s.push(grid.Point{X: x, Y: origin.Y - 1}, obj, grid.Infinity)
		s.push(grid.Point{X: x, Y: origin.Y + h}, obj, grid.Infinity)
	}
	for y := origin.Y; y < origin.Y+h; y++ {
		s.push(grid.Point{X: origin.X - 1, Y: y}, obj, grid.Infinity)
		s.push(grid.Point{X: origin.X + w, Y: y}, obj, grid.Infinity)
	}
}

// paintBox draws the box interior with directional variants. White-box
// interiors stay walkable so links may tunnel through containers.
func (s *Simulator) paintBox(st *systemState) {
	origin := s.toGrid(st.worldPos)
	w, h := st.size.Width, st.size.Height

	weight := grid.Infinity
	if !st.blackbox {
		weight = 1
	}

	for dx := 0; dx < w; dx++ {
		for dy := 0; dy < h; dy++ {
			s.push(grid.Point{X: origin.X + dx, Y: origin.Y + dy}, Object{
				Type:          TypeSystem,
				System:        st.sys,
				SystemVariant: boxVariant(dx, dy, w, h),
				Blackbox:      st.blackbox,
			}, weight)
		}
	}
}

// boxVariant classifies a cell inside a w x h box into one of the nine
// directional tiles.
func boxVariant(dx, dy, w, h int) SystemVariant {
	left := dx == 0
	right := dx == w-1
	top := dy == 0
	bottom := dy == h-1

	switch {
	case top && left:
		return SystemTopLeft
	case top && right:
		return SystemTopRight
	case bottom && left:
		return SystemBottomLeft
	case bottom && right:
		return SystemBottomRight
	case top:
		return SystemTop
	case bottom:
		return SystemBottom
	case left:
		return SystemLeft
	case right:
		return SystemRight
	default:
		return SystemCenter
	}
}

// paintPorts draws the walkable port cells on the margin ring.
func (s *Simulator) paintPorts(st *systemState) {
	for _, p := range st.ports {
		s.push(s.toGrid(p), Object{Type: TypePort, System: st.sys}, 1)
	}
}

// paintTitle draws the padding ring around the title rectangle and the
// glyph tiles carrying slices of the title text.
func (s *Simulator) paintTitle(st *systemState) {
	if st.titleSize.Width == 0 {
		return
	}
	origin := s.toGrid(st.titlePos)
	w, h := st.titleSize.Width, st.titleSize.Height

	pad := Object{Type: TypeSystemTitlePadding, System: st.sys}
	for x := origin.X - 1; x <= origin.X+w; x++ {
		s.push(grid.Point{X: x, Y: origin.Y - 1}, pad, grid.Infinity)
		s.push(grid.Point{X: x, Y: origin.Y + h}, pad, grid.Infinity)
	}
	for y := origin.Y; y < origin.Y+h; y++ {
		s.push(grid.Point{X: origin.X - 1, Y: y}, pad, grid.Infinity)
		s.push(grid.Point{X: origin.X + w, Y: y}, pad, grid.Infinity)
	}

	for row, line := range st.titleLines {
		for col := 0; col < w; col++ {
			start := col * TitleCharsPerSquare
			if start >= len(line) {
				break
			}
			end := start + TitleCharsPerSquare
			if end > len(line) {
				end = len(line)
			}
			s.push(grid.Point{X: origin.X + col, Y: origin.Y + row}, Object{
				Type:   TypeSystemTitle,
				System: st.sys,
				Text:   line[start:end],
			}, grid.Infinity)
		}
	}
}

// syncBack publishes computed geometry onto the runtime tree so external
// consumers observe absolute positions, sizes and ports.
func (s *Simulator) syncBack() {
	for _, st := range s.ordered {
		st.sys.AbsPosition = st.worldPos
		st.sys.Size = st.size
		st.sys.Ports = st.ports
	}
}

// Layout returns the raster grid, indexed [x][y], each cell holding the
// ordered object stack (bottom-most drawn first). The returned slices are
// the simulator's own; callers must treat them as read-only.
func (s *Simulator) Layout() [][]Stack { return s.cells }

// Boundaries returns the inflated world bounding rectangle and the
// world-to-grid translation.
func (s *Simulator) Boundaries() Boundaries { return s.boundaries }

// VisibleWorldBoundaries returns the tight world-coordinate bounding
// rectangle over all drawn boxes, without margin inflation.
func (s *Simulator) VisibleWorldBoundaries() Boundaries {
	first := true
	var b Boundaries
	for _, st := range s.ordered {
		if !st.drawn() {
			continue
		}
		if first {
			b.MinX, b.MinY = st.worldPos.X, st.worldPos.Y
			b.MaxX = st.worldPos.X + st.size.Width - 1
			b.MaxY = st.worldPos.Y + st.size.Height - 1
			first = false
			continue
		}
		if st.worldPos.X < b.MinX {
			b.MinX = st.worldPos.X
		}
		if st.worldPos.Y < b.MinY {
			b.MinY = st.worldPos.Y
		}
		if x := st.worldPos.X + st.size.Width - 1; x > b.MaxX {
			b.MaxX = x
		}
		if y := st.worldPos.Y + st.size.Height - 1; y > b.MaxY {
			b.MaxY = y
		}
	}
	return b.init()
}

// ObjectsAt returns the object stack at a world coordinate, or nil when
// the coordinate falls outside the grid.
func (s *Simulator) ObjectsAt(worldX, worldY int) Stack {
	p := s.toGrid(model.Position{X: worldX, Y: worldY})
	if p.X < 0 || p.X >= len(s.cells) || p.Y < 0 || p.Y >= len(s.cells[p.X]) {
		return nil
	}
	return s.cells[p.X][p.Y]
}

// SubsystemAt returns the system owning the top-most box or port object at
// a world coordinate, or nil.
func (s *Simulator) SubsystemAt(worldX, worldY int) *model.System {
	stack := s.ObjectsAt(worldX, worldY)
	for i := len(stack) - 1; i >= 0; i-- {
		switch stack[i].Type {
		case TypeSystem, TypePort:
			return stack[i].System
		}
	}
	return nil
}

// LinkAt returns the link owning the top-most link tile at a world
// coordinate, or nil.
func (s *Simulator) LinkAt(worldX, worldY int) *model.Link {
	stack := s.ObjectsAt(worldX, worldY)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Type == TypeLink {
			return stack[i].Link
		}
	}
	return nil
}

// Route returns the routed grid cells from one system to another, or nil
// when no route was computed. Routes are stored symmetrically: the reverse
// direction holds the reversed path.
func (s *Simulator) Route(fromID, toID string) []grid.Point {
	return s.routes[fromID][toID]
}
