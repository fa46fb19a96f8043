package sim

import (
	"github.com/dataflows/flowgrid/pkg/model"
)

// ObjectType enumerates the kinds of objects a grid cell stack can hold.
// The enumeration is stable; renderers switch on it.
type ObjectType uint8

const (
	TypeSystem ObjectType = iota
	TypePort
	TypeLink
	TypeSystemMargin
	TypeSystemTitle
	TypeSystemTitlePadding
)

// String returns the stable name of the object type.
func (t ObjectType) String() string {
	switch t {
	case TypeSystem:
		return "System"
	case TypePort:
		return "Port"
	case TypeLink:
		return "Link"
	case TypeSystemMargin:
		return "SystemMargin"
	case TypeSystemTitle:
		return "SystemTitle"
	case TypeSystemTitlePadding:
		return "SystemTitlePadding"
	default:
		return "Unknown"
	}
}

// SystemVariant selects the directional tile of a box cell.
type SystemVariant uint8

const (
	SystemTopLeft SystemVariant = iota
	SystemTop
	SystemTopRight
	SystemLeft
	SystemCenter
	SystemRight
	SystemBottomLeft
	SystemBottom
	SystemBottomRight
)

// String returns the stable name of the system variant.
func (v SystemVariant) String() string {
	switch v {
	case SystemTopLeft:
		return "TopLeft"
	case SystemTop:
		return "Top"
	case SystemTopRight:
		return "TopRight"
	case SystemLeft:
		return "Left"
	case SystemCenter:
		return "Center"
	case SystemRight:
		return "Right"
	case SystemBottomLeft:
		return "BottomLeft"
	case SystemBottom:
		return "Bottom"
	case SystemBottomRight:
		return "BottomRight"
	default:
		return "Unknown"
	}
}

// LinkVariant selects the directional tile of a routed link cell.
type LinkVariant uint8

const (
	LinkHorizontal LinkVariant = iota
	LinkVertical
	LinkBottomToRight
	LinkBottomToLeft
	LinkTopToRight
	LinkTopToLeft
)

// String returns the stable name of the link variant.
func (v LinkVariant) String() string {
	switch v {
	case LinkHorizontal:
		return "Horizontal"
	case LinkVertical:
		return "Vertical"
	case LinkBottomToRight:
		return "BottomToRight"
	case LinkBottomToLeft:
		return "BottomToLeft"
	case LinkTopToRight:
		return "TopToRight"
	case LinkTopToLeft:
		return "TopToLeft"
	default:
		return "Unknown"
	}
}

// Object is one entry of a cell stack. It is a tagged variant: Type selects
// which of the remaining fields are meaningful, and readers switch on it.
//
//   - TypeSystem: System, SystemVariant, Blackbox
//   - TypePort: System
//   - TypeLink: Link, LinkVariant
//   - TypeSystemMargin: System
//   - TypeSystemTitle: System, Text
//   - TypeSystemTitlePadding: System
type Object struct {
	Type ObjectType

	System *model.System
	Link   *model.Link

	SystemVariant SystemVariant
	LinkVariant   LinkVariant
	Blackbox      bool
	Text          string
}

// Stack is the ordered object stack of one grid cell, bottom-most first.
type Stack []Object

// Top returns the top-most object and true, or a zero Object and false for
// an empty stack.
func (s Stack) Top() (Object, bool) {
	if len(s) == 0 {
		return Object{}, false
	}
	return s[len(s)-1], true
}
