package logging

import (
	"os"
	"sort"
	"unicode"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// PkgLevel represents log level of a package.
type PkgLevel struct {
	pkg string
	lvl byte
	al  zap.AtomicLevel
}

// Package returns package name.
func (pl PkgLevel) Package() string {
	return pl.pkg
}

// Level returns log level as a letter.
func (pl PkgLevel) Level() byte {
	return pl.lvl
}

// ZapLevel returns the minimum zap level that is enabled.
func (pl PkgLevel) ZapLevel() zapcore.Level {
	return pl.al.Level()
}

var levelByLetter = map[byte]zapcore.Level{
	'V': zap.DebugLevel,
	'D': zap.DebugLevel,
	'I': zap.InfoLevel,
	'W': zap.WarnLevel,
	'E': zap.ErrorLevel,
	'F': zap.DPanicLevel,
	'N': zap.DPanicLevel,
}

// SetLevel assigns log level.
// The first letter of input, case insensitive, selects the level:
// V or D = debug, I = info, W = warn, E = error, F or N = fatal only.
// Thus "debug", "warn", and "error" are accepted as well.
// Empty or unrecognized input selects info.
func (pl *PkgLevel) SetLevel(input string) {
	pl.lvl = 'I'
	if input != "" {
		letter := byte(unicode.ToUpper(rune(input[0])))
		if _, ok := levelByLetter[letter]; ok {
			pl.lvl = letter
		}
	}
	pl.al.SetLevel(levelByLetter[pl.lvl])
}

var pkgLevels = map[string]*PkgLevel{}

// ListLevels returns all package levels, sorted by package name.
func ListLevels() (list []PkgLevel) {
	for _, pl := range pkgLevels {
		list = append(list, *pl)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].pkg < list[j].pkg })
	return list
}

// SetAllLevels assigns log level to every package that has a logger.
func SetAllLevels(input string) {
	for _, pl := range pkgLevels {
		pl.SetLevel(input)
	}
}

// FindLevel returns package log level object.
func FindLevel(pkg string) (pl *PkgLevel) {
	return pkgLevels[pkg]
}

// GetLevel finds or creates package log level object.
func GetLevel(pkg string) (pl *PkgLevel) {
	pl = pkgLevels[pkg]
	if pl == nil {
		pl = &PkgLevel{
			pkg: pkg,
			al:  zap.NewAtomicLevel(),
		}
		pl.SetLevel(envLevel(pkg))
		pkgLevels[pkg] = pl
	}
	return pl
}

// EnvLevel is the environment variable that sets the default log level.
// EnvLevel + "_" + pkg overrides it for one package.
const EnvLevel = "CMNPROBE_LOG"

func envLevel(pkg string) string {
	v, ok := os.LookupEnv(EnvLevel + "_" + pkg)
	if !ok {
		v = os.Getenv(EnvLevel)
	}
	return v
}
