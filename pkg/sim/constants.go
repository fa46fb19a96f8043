package sim

// Layout constants. These values are part of the engine's compatibility
// surface: consumers rely on them when interpreting grid geometry.
const (
	// MaxSystemWidth and MaxSystemHeight bound the root system's extent in
	// world cells before margin inflation.
	MaxSystemWidth  = 64
	MaxSystemHeight = 64

	// SystemMargin is the impassable ring painted one cell outside every
	// box perimeter. Boundaries are inflated by 5x this margin per side.
	SystemMargin = 1

	// PaddingWhiteBox is the inner padding between a white-box border and
	// its content area.
	PaddingWhiteBox = 1

	// TitleCharsPerSquare is the number of title characters carried by a
	// single title glyph tile.
	TitleCharsPerSquare = 2

	// boundaryInflation is the number of margin widths added on each side
	// of the world bounding rectangle when projecting to grid space.
	boundaryInflation = SystemMargin * 5

	// pathWeight is the A* weight painted onto routed cells. Path cells
	// stay walkable for later links but cost more than fresh terrain, so
	// subsequent routes reuse existing corridors only when profitable.
	pathWeight = 2
)

// Minimal box extent, used while a system's link count stays at or below
// the four cardinal ports.
const (
	minBoxWidth  = 3
	minBoxHeight = 3
	maxEdgePorts = 4
)
