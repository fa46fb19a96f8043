package sim

import (
	"strings"

	"github.com/dataflows/flowgrid/pkg/model"
)

// titleRel is the title anchor relative to the owning box origin.
var titleRel = model.Position{X: 1, Y: 1}

// systemState carries the geometry computed for one drawn system. World
// coordinates are unbounded; grid coordinates are world plus the boundary
// translation and therefore non-negative.
type systemState struct {
	sys *model.System

	// suppressed: an ancestor collapses its content; the system is not
	// drawn at all.
	suppressed bool
	// blackbox: drawn opaque. Leaves, hideSystems containers, and
	// suppressed systems are black-boxes.
	blackbox bool

	worldPos model.Position
	size     model.Size

	ports      []model.Position // world coordinates
	titleLines []string
	titlePos   model.Position // world coordinates
	titleSize  model.Size
	linkCount  int
}

// drawn reports whether the system gets painted onto the grid.
func (st *systemState) drawn() bool { return !st.suppressed }

// computeVisibility fills suppressed and blackbox for every state.
// A system is suppressed when any proper ancestor carries hideSystems;
// the hideSystems carrier itself stays visible as a black-box.
func (s *Simulator) computeVisibility() {
	var walk func(sys *model.System, suppressed bool)
	walk = func(sys *model.System, suppressed bool) {
		for _, child := range sys.Systems {
			st := s.states[child.CanonicalID]
			st.suppressed = suppressed
			st.blackbox = suppressed || child.HideSystems || child.IsLeaf()
			walk(child, suppressed || child.HideSystems)
		}
	}
	walk(s.root, s.root.HideSystems)
}

// computeWorldPositions assigns absolute world coordinates depth-first.
// A child's absolute position is its parent's absolute position plus the
// declared relative position plus the parent's padding offset, which makes
// room for the parent border and title block.
func (s *Simulator) computeWorldPositions() {
	var walk func(sys *model.System, origin model.Position)
	walk = func(sys *model.System, origin model.Position) {
		pad := s.paddingOffset(sys)
		for _, child := range sys.Systems {
			st := s.states[child.CanonicalID]
			st.worldPos = model.Position{
				X: origin.X + child.Position.X + pad.X,
				Y: origin.Y + child.Position.Y + pad.Y,
			}
			walk(child, st.worldPos)
		}
	}
	walk(s.root, model.Position{})
}

// paddingOffset is the content-area offset inside a box: one padding cell
// horizontally, and vertically past the title block.
func (s *Simulator) paddingOffset(sys *model.System) model.Position {
	_, titleSize := titleGeometry(sys)
	return model.Position{
		X: PaddingWhiteBox,
		Y: PaddingWhiteBox + titleRel.Y + titleSize.Height - 1,
	}
}

// titleGeometry returns the title lines and tile extent for a system.
// Systems without an explicit title carry no title tiles. Width is
// measured in glyph tiles of TitleCharsPerSquare characters.
func titleGeometry(sys *model.System) ([]string, model.Size) {
	text := sys.Title
	if text == "" {
		return nil, model.Size{}
	}
	lines := strings.Split(text, "\n")
	width := 0
	for _, line := range lines {
		w := (len(line) + TitleCharsPerSquare - 1) / TitleCharsPerSquare
		if w > width {
			width = w
		}
	}
	return lines, model.Size{Width: width, Height: len(lines)}
}

// computeSizes derives each drawn system's box size and port layout.
// Black-boxes take their size from the number of links touching them or
// any descendant; white-boxes additionally grow to enclose their visible
// children plus padding and title block. Children are sized before their
// parents (reverse document order).
func (s *Simulator) computeSizes() {
	for i := len(s.ordered) - 1; i >= 0; i-- {
		st := s.ordered[i]
		if !st.drawn() {
			continue
		}
		st.linkCount = s.linkCount(st.sys)
		st.size = boxSize(st.linkCount)
		st.titleLines, st.titleSize = titleGeometry(st.sys)
		st.titlePos = model.Position{
			X: st.worldPos.X + titleRel.X,
			Y: st.worldPos.Y + titleRel.Y,
		}
		if !st.blackbox {
			st.size = s.growToContent(st)
		}
		st.ports = boxPorts(st.worldPos, st.size, st.linkCount)
	}
}

// growToContent expands a white-box to enclose its children's boxes and
// margins plus the padding and title block, never shrinking below the
// link-derived minimum.
func (s *Simulator) growToContent(st *systemState) model.Size {
	size := st.size
	pad := s.paddingOffset(st.sys)
	for _, child := range st.sys.Systems {
		cst := s.states[child.CanonicalID]
		right := child.Position.X + pad.X + cst.size.Width + SystemMargin + PaddingWhiteBox
		bottom := child.Position.Y + pad.Y + cst.size.Height + SystemMargin + PaddingWhiteBox
		if right > size.Width {
			size.Width = right
		}
		if bottom > size.Height {
			size.Height = bottom
		}
	}
	if tw := titleRel.X + st.titleSize.Width + 1; tw > size.Width {
		size.Width = tw
	}
	return size
}

// linkCount counts links whose either endpoint resolves to the system or
// one of its descendants (canonical-id prefix match).
func (s *Simulator) linkCount(sys *model.System) int {
	n := 0
	for _, l := range s.root.Links {
		if sys.Contains(l.SystemA) || sys.Contains(l.SystemB) {
			n++
		}
	}
	return n
}

// boxSize maps a link count to a box extent. Up to four links fit the
// minimal 3x3 box with one port per edge; above that the width alternates
// via the odd-column port rule.
func boxSize(linkCount int) model.Size {
	if linkCount <= maxEdgePorts {
		return model.Size{Width: minBoxWidth, Height: minBoxHeight}
	}
	return model.Size{
		Width:  minBoxWidth + (linkCount-maxEdgePorts)%2,
		Height: minBoxHeight,
	}
}

// boxPorts lays out the perimeter ports for a box at the given world
// position. Small boxes carry one port per edge; wider boxes carry the two
// horizontal-edge ports plus a top/bottom pair on every odd column strictly
// inside the box.
func boxPorts(pos model.Position, size model.Size, linkCount int) []model.Position {
	if linkCount <= maxEdgePorts {
		return []model.Position{
			{X: pos.X + 1, Y: pos.Y - 1},           // top
			{X: pos.X + size.Width, Y: pos.Y + 1},  // right
			{X: pos.X + 1, Y: pos.Y + size.Height}, // bottom
			{X: pos.X - 1, Y: pos.Y + 1},           // left
		}
	}

	ports := []model.Position{
		{X: pos.X - 1, Y: pos.Y + 1},          // left
		{X: pos.X + size.Width, Y: pos.Y + 1}, // right
	}
	for x := 1; x < size.Width; x += 2 {
		ports = append(ports,
			model.Position{X: pos.X + x, Y: pos.Y - 1},           // top
			model.Position{X: pos.X + x, Y: pos.Y + size.Height}, // bottom
		)
	}
	return ports
}

// Boundaries is the bounding rectangle of the laid-out world, inflated by
// the routing margin, plus the translation that maps world coordinates
// into non-negative grid coordinates.
type Boundaries struct {
	MinX int `json:"minX"`
	MinY int `json:"minY"`
	MaxX int `json:"maxX"`
	MaxY int `json:"maxY"`

	TranslateX int `json:"translateX"`
	TranslateY int `json:"translateY"`

	Width  int `json:"width"`
	Height int `json:"height"`
}

func (b Boundaries) init() Boundaries {
	b.TranslateX = -b.MinX
	b.TranslateY = -b.MinY
	b.Width = b.MaxX - b.MinX + 1
	b.Height = b.MaxY - b.MinY + 1
	return b
}

// computeBoundaries finds the bounding rectangle over every drawn box,
// its ports, and its title tiles, then inflates it for routing slack.
func (s *Simulator) computeBoundaries() (Boundaries, bool) {
	first := true
	var b Boundaries

	include := func(x, y int) {
		if first {
			b.MinX, b.MaxX, b.MinY, b.MaxY = x, x, y, y
			first = false
			return
		}
		if x < b.MinX {
			b.MinX = x
		}
		if x > b.MaxX {
			b.MaxX = x
		}
		if y < b.MinY {
			b.MinY = y
		}
		if y > b.MaxY {
			b.MaxY = y
		}
	}

	for _, st := range s.ordered {
		if !st.drawn() {
			continue
		}
		include(st.worldPos.X, st.worldPos.Y)
		include(st.worldPos.X+st.size.Width-1, st.worldPos.Y+st.size.Height-1)
		for _, p := range st.ports {
			include(p.X, p.Y)
		}
		if st.titleSize.Width > 0 {
			include(st.titlePos.X-1, st.titlePos.Y-1)
			include(st.titlePos.X+st.titleSize.Width, st.titlePos.Y+st.titleSize.Height)
		}
	}
	if first {
		return Boundaries{}, false
	}

	b.MinX -= boundaryInflation
	b.MinY -= boundaryInflation
	b.MaxX += boundaryInflation
	b.MaxY += boundaryInflation
	return b.init(), true
}
