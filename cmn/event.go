package cmn

import (
	"fmt"
	"strconv"
)

// CountState indicates how a counter reading should be interpreted.
type CountState uint8

// CountState values.
const (
	// Counted means the counter is implemented and Value holds its reading.
	Counted CountState = iota
	// NotCounted means the counter is implemented at this node but was not incremented; Value is zero.
	NotCounted
	// Unsupported means the node does not implement the counter, i.e. no such node exists.
	Unsupported
)

func (s CountState) String() string {
	switch s {
	case Counted:
		return "counted"
	case NotCounted:
		return "not-counted"
	case Unsupported:
		return "not-supported"
	}
	return strconv.Itoa(int(s))
}

// Count is a counter reading.
type Count struct {
	Value uint64
	State CountState
}

// Supported determines whether the node implements the counter.
func (c Count) Supported() bool {
	return c.State != Unsupported
}

// String returns the count field as printed by perf stat.
func (c Count) String() string {
	switch c.State {
	case NotCounted:
		return "<not counted>"
	case Unsupported:
		return "<not supported>"
	}
	return strconv.FormatUint(c.Value, 10)
}

// EventSpec is a PMU event resolved from the platform counter catalog.
type EventSpec struct {
	Name    string `json:"name"`
	Type    uint8  `json:"type"`
	EventID uint16 `json:"eventid"`
	// Raw is the catalog entry, such as "type=0x5,eventid=0x1", passed verbatim to perf.
	Raw string `json:"raw"`
}

func (spec EventSpec) String() string {
	return spec.Name
}

// CounterEvent is one counter reading at one node.
type CounterEvent struct {
	CMNIndex  uint8
	EventType uint8
	EventID   uint16
	Node      NodeAddress
	Count     Count
}

// Matches determines whether this reading belongs to the specified event.
func (evt CounterEvent) Matches(spec EventSpec) bool {
	return evt.EventType == spec.Type && evt.EventID == spec.EventID
}

func (evt CounterEvent) String() string {
	return fmt.Sprintf("arm_cmn_%d type=%#x eventid=%#x node=%s count=%s", evt.CMNIndex, evt.EventType, evt.EventID, evt.Node, evt.Count)
}

// MeshSize is the discovered mesh dimension.
// Zero value indicates nothing was discovered.
type MeshSize struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

// Empty determines whether the mesh has no node.
func (m MeshSize) Empty() bool {
	return m.X == 0 || m.Y == 0
}

// Coords returns every coordinate in the mesh, X-major.
func (m MeshSize) Coords() (list []Coord) {
	for x := uint16(0); x < m.X; x++ {
		for y := uint16(0); y < m.Y; y++ {
			list = append(list, Coord{x, y})
		}
	}
	return list
}

func (m MeshSize) String() string {
	return fmt.Sprintf("%dx%d", m.X, m.Y)
}
