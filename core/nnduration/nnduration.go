// Package nnduration provides config fields that hold a non-negative duration.
//
// In JSON and YAML, such a field accepts either a non-negative integer in the type's unit,
// or a duration string recognized by time.ParseDuration.
package nnduration

import (
	"strconv"
	"strings"
	"time"
)

func parse(p []byte, unit time.Duration) (value uint64, e error) {
	input := strings.Trim(string(p), `"`)
	if d, e := time.ParseDuration(input); e == nil {
		return uint64(d / unit), nil
	}
	return strconv.ParseUint(input, 10, 64)
}

// Milliseconds is a duration in milliseconds unit.
type Milliseconds uint64

// UnmarshalJSON implements json.Unmarshaler interface.
func (d *Milliseconds) UnmarshalJSON(p []byte) error {
	value, e := parse(p, time.Millisecond)
	if e != nil {
		return e
	}
	*d = Milliseconds(value)
	return nil
}

// Duration converts to time.Duration.
func (d Milliseconds) Duration() time.Duration {
	return time.Duration(d) * time.Millisecond
}

// DurationOr converts to time.Duration, or returns dflt milliseconds if d is zero.
func (d Milliseconds) DurationOr(dflt Milliseconds) time.Duration {
	if d == 0 {
		return dflt.Duration()
	}
	return d.Duration()
}
