package perfstat_test

import (
	"github.com/usnistgov/cmnprobe/core/testenv"
)

var makeAR = testenv.MakeAR
