package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dataflows/flowgrid/pkg/grid"
	"github.com/dataflows/flowgrid/pkg/sim"
)

// Color palette for terminal output.
var (
	colorCyan   = lipgloss.Color("36")  // Teal - box borders
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings and active flows
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - titles
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// Shared styles.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	StyleError   = lipgloss.NewStyle().Foreground(colorRed)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)

	styleBox      = lipgloss.NewStyle().Foreground(colorCyan)
	styleBlackbox = lipgloss.NewStyle().Foreground(colorGray)
	stylePort     = lipgloss.NewStyle().Foreground(colorGreen)
	styleLink     = lipgloss.NewStyle().Foreground(colorBlue)
	styleGlyph    = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleActive   = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// cellWidth is the terminal width of one grid cell; it matches the title
// glyph capacity so titles read naturally.
const cellWidth = sim.TitleCharsPerSquare

// renderGrid draws the computed grid as ANSI tiles, one row per line.
// Cells listed in active are highlighted (used by flow playback).
func renderGrid(s *sim.Simulator, active map[grid.Point]bool) string {
	layout := s.Layout()
	if len(layout) == 0 {
		return StyleDim.Render("(empty diagram)")
	}
	height := len(layout[0])

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := range layout {
			b.WriteString(renderCell(layout[x][y], active[grid.Point{X: x, Y: y}]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// renderCell maps the top object of a stack to a two-column tile.
func renderCell(stack sim.Stack, highlighted bool) string {
	top, ok := stack.Top()
	if !ok {
		return strings.Repeat(" ", cellWidth)
	}

	switch top.Type {
	case sim.TypeSystem:
		if top.Blackbox {
			return styleBlackbox.Render(strings.Repeat("█", cellWidth))
		}
		return styleBox.Render(whiteboxTile(top.SystemVariant))
	case sim.TypePort:
		return stylePort.Render("◦ ")
	case sim.TypeLink:
		tile := linkTile(top.LinkVariant)
		if highlighted {
			return styleActive.Render(tile)
		}
		return styleLink.Render(tile)
	case sim.TypeSystemTitle:
		return styleGlyph.Render(pad(top.Text, cellWidth))
	case sim.TypeSystemTitlePadding, sim.TypeSystemMargin:
		return strings.Repeat(" ", cellWidth)
	default:
		return strings.Repeat(" ", cellWidth)
	}
}

func whiteboxTile(v sim.SystemVariant) string {
	switch v {
	case sim.SystemTopLeft:
		return "╭─"
	case sim.SystemTop:
		return "──"
	case sim.SystemTopRight:
		return "─╮"
	case sim.SystemLeft:
		return "│ "
	case sim.SystemRight:
		return " │"
	case sim.SystemBottomLeft:
		return "╰─"
	case sim.SystemBottom:
		return "──"
	case sim.SystemBottomRight:
		return "─╯"
	default:
		return "  "
	}
}

func linkTile(v sim.LinkVariant) string {
	switch v {
	case sim.LinkHorizontal:
		return "──"
	case sim.LinkVertical:
		return "│ "
	case sim.LinkBottomToRight:
		return "╭─"
	case sim.LinkBottomToLeft:
		return "╮ "
	case sim.LinkTopToRight:
		return "╰─"
	case sim.LinkTopToLeft:
		return "╯ "
	default:
		return "  "
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
