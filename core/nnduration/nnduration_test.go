package nnduration_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/usnistgov/cmnprobe/core/nnduration"
	"github.com/usnistgov/cmnprobe/core/testenv"
)

var (
	makeAR   = testenv.MakeAR
	fromJSON = testenv.FromJSON
	toJSON   = testenv.ToJSON
)

func TestMilliseconds(t *testing.T) {
	assert, _ := makeAR(t)

	assert.Equal(10*time.Millisecond, nnduration.Milliseconds(0).DurationOr(10))

	ms := nnduration.Milliseconds(5274)
	assert.Equal(5274*time.Millisecond, ms.DurationOr(10))
	assert.Equal(`5274`, toJSON(ms))

	var decoded nnduration.Milliseconds
	fromJSON(`5274`, &decoded)
	assert.Equal(ms, decoded)

	fromJSON(`"5274"`, &decoded)
	assert.Equal(ms, decoded)

	fromJSON(`"6s"`, &decoded)
	assert.Equal(nnduration.Milliseconds(6000), decoded)
	assert.Equal(6*time.Second, decoded.Duration())

	assert.Error(json.Unmarshal([]byte(`"soon"`), &decoded))
}
