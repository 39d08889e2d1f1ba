package perfstat

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/usnistgov/cmnprobe/cmn"
	"go.uber.org/zap"
)

// Sentinel tokens in perf stat output.
const (
	TokenNotCounted   = "<not counted>"
	TokenNotSupported = "<not supported>"
)

var rePerfLine = regexp.MustCompile(`^(\d+|<not supported>|<not counted>);;arm_cmn_(\d+)/type=(.*?),eventid=(.*?),bynodeid=0x1,nodeid=(.*?)/.*$`)

// Decode parses perf stat output into counter events.
//
// Lines that are not CMN counter records are skipped.
// A "<not counted>" record is returned with cmn.NotCounted state and zero value.
// A "<not supported>" record is omitted, because the node does not exist.
// Events are returned in input line order.
//
// Error is cmn.ErrWidth if width is unsupported.
func Decode(raw string, width cmn.Width) (events []cmn.CounterEvent, e error) {
	if !width.Valid() {
		return nil, cmn.ErrWidth
	}

	for _, line := range strings.Split(raw, "\n") {
		evt, ok := decodeLine(strings.TrimRight(line, "\r"), width)
		if !ok || !evt.Count.Supported() {
			continue
		}
		events = append(events, evt)
	}
	return events, nil
}

func decodeLine(line string, width cmn.Width) (evt cmn.CounterEvent, ok bool) {
	m := rePerfLine.FindStringSubmatch(line)
	if m == nil {
		return evt, false
	}

	switch m[1] {
	case TokenNotCounted:
		evt.Count.State = cmn.NotCounted
	case TokenNotSupported:
		evt.Count.State = cmn.Unsupported
	default:
		v, e := strconv.ParseUint(m[1], 10, 64)
		if e != nil {
			return skipLine(line, e)
		}
		evt.Count.Value = v
	}

	cmnIndex, e := strconv.ParseUint(m[2], 10, 8)
	if e != nil {
		return skipLine(line, e)
	}
	evt.CMNIndex = uint8(cmnIndex)

	eventType, e := parseHex(m[3], 8)
	if e != nil {
		return skipLine(line, e)
	}
	evt.EventType = uint8(eventType)

	eventID, e := parseHex(m[4], 16)
	if e != nil {
		return skipLine(line, e)
	}
	evt.EventID = uint16(eventID)

	nodeID, e := parseHex(m[5], 16)
	if e != nil {
		return skipLine(line, e)
	}
	if evt.Node, e = cmn.ParseNodeID(cmn.NodeID(nodeID), width); e != nil {
		return skipLine(line, e)
	}
	return evt, true
}

func parseHex(s string, bitSize int) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, bitSize)
}

func skipLine(line string, e error) (cmn.CounterEvent, bool) {
	logger.Debug("skipping malformed counter record", zap.String("line", line), zap.Error(e))
	return cmn.CounterEvent{}, false
}
