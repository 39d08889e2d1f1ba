// Package cmn describes nodes and counter events of a coherent mesh network (CMN).
package cmn

import (
	"errors"
	"fmt"
)

// ErrWidth indicates an unsupported node identifier width.
var ErrWidth = errors.New("unsupported node ID width")

// Width is the bit width of a node identifier.
type Width uint8

// Supported node identifier widths.
const (
	Width7  Width = 7
	Width9  Width = 9
	Width11 Width = 11

	DefaultWidth = Width9
)

// Split returns the number of bits allocated to each of the X and Y fields.
// It returns zero if the width is unsupported.
func (w Width) Split() int {
	switch w {
	case Width7:
		return 2
	case Width9:
		return 3
	case Width11:
		return 4
	}
	return 0
}

// Valid determines whether the width is supported.
func (w Width) Valid() bool {
	return w.Split() > 0
}

// MaxMesh returns the largest X or Y dimension addressable with this width.
// It returns zero if the width is unsupported.
func (w Width) MaxMesh() uint16 {
	if !w.Valid() {
		return 0
	}
	return 1 << w.Split()
}

// NodeID is the linear node identifier of a crosspoint device port.
//
// Bit layout from LSB: 2 bits device, 1 bit port, Split() bits Y, Split() bits X.
type NodeID uint16

const (
	portShift = 2
	yShift    = 3
)

// Coord is a 2-D mesh coordinate.
type Coord struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// NodeAddress identifies a crosspoint port by mesh coordinate.
type NodeAddress struct {
	X     uint16
	Y     uint16
	Port  uint8
	Width Width
}

// Coord returns the mesh coordinate.
func (addr NodeAddress) Coord() Coord {
	return Coord{addr.X, addr.Y}
}

// Validate checks the address fits the identifier width.
func (addr NodeAddress) Validate() error {
	if !addr.Width.Valid() {
		return fmt.Errorf("%w %d", ErrWidth, addr.Width)
	}
	if limit := addr.Width.MaxMesh(); addr.X >= limit || addr.Y >= limit {
		return fmt.Errorf("coordinate (%d,%d) exceeds %dx%d mesh of width %d", addr.X, addr.Y, limit, limit, addr.Width)
	}
	if addr.Port > 1 {
		return fmt.Errorf("port %d is not 0 or 1", addr.Port)
	}
	return nil
}

// ID encodes the address as a NodeID.
// Panics if the address is invalid.
func (addr NodeAddress) ID() NodeID {
	if e := addr.Validate(); e != nil {
		panic(e)
	}
	split := addr.Width.Split()
	return NodeID(addr.X)<<(yShift+split) | NodeID(addr.Y)<<yShift | NodeID(addr.Port)<<portShift
}

func (addr NodeAddress) String() string {
	return fmt.Sprintf("(%d,%d)p%d", addr.X, addr.Y, addr.Port)
}

// ParseNodeID decodes a NodeID.
// Bits above the X field are ignored.
func ParseNodeID(id NodeID, width Width) (addr NodeAddress, e error) {
	split := width.Split()
	if split == 0 {
		return NodeAddress{}, fmt.Errorf("%w %d", ErrWidth, width)
	}
	mask := NodeID(1)<<split - 1
	return NodeAddress{
		X:     uint16(id >> (yShift + split) & mask),
		Y:     uint16(id >> yShift & mask),
		Port:  uint8(id >> portShift & 1),
		Width: width,
	}, nil
}
