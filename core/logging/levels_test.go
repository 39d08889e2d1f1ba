package logging_test

import (
	"testing"

	"github.com/usnistgov/cmnprobe/core/logging"
	"github.com/usnistgov/cmnprobe/core/testenv"
	"go.uber.org/zap"
)

func TestLevels(t *testing.T) {
	assert, require := testenv.MakeAR(t)

	t.Setenv(logging.EnvLevel, "W")
	t.Setenv(logging.EnvLevel+"_levelsB", "d")
	logging.New("levelsA")
	logging.New("levelsB")

	a, b := logging.FindLevel("levelsA"), logging.FindLevel("levelsB")
	require.NotNil(a)
	require.NotNil(b)
	assert.EqualValues('W', a.Level())
	assert.EqualValues('D', b.Level())
	assert.Nil(logging.FindLevel("levelsC"))

	a.SetLevel("error")
	assert.EqualValues('E', a.Level())
	assert.Equal(zap.ErrorLevel, a.ZapLevel())
	a.SetLevel("debug")
	assert.EqualValues('D', a.Level())
	assert.Equal(zap.DebugLevel, a.ZapLevel())
	a.SetLevel("warn")
	assert.EqualValues('W', a.Level())
	a.SetLevel("fatal")
	assert.EqualValues('F', a.Level())
	assert.Equal(zap.DPanicLevel, a.ZapLevel())
	a.SetLevel("")
	assert.EqualValues('I', a.Level())
	a.SetLevel("?")
	assert.EqualValues('I', a.Level())
	assert.Equal(zap.InfoLevel, a.ZapLevel())

	logging.SetAllLevels("V")
	for _, pl := range logging.ListLevels() {
		assert.EqualValues('V', pl.Level(), pl.Package())
	}
}
