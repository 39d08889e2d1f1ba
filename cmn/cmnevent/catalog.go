// Package cmnevent resolves symbolic CMN PMU event names from the platform counter catalog.
package cmnevent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/usnistgov/cmnprobe/cmn"
	"github.com/usnistgov/cmnprobe/core/logging"
	"go.uber.org/zap"
)

var logger = logging.New("cmnevent")

// DefaultSysfsRoot is the sysfs mount point.
const DefaultSysfsRoot = "/sys"

const cacheCapacity = 64

// ErrMalformed indicates a catalog entry lacks type or eventid.
var ErrMalformed = errors.New("malformed event specifier")

// ResolveError indicates an event name cannot be resolved.
type ResolveError struct {
	Name string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve event %s: %v", e.Name, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Entry is a catalog entry.
type Entry struct {
	Name    string
	Content string
}

func (ent Entry) String() string {
	return ent.Name + ";" + ent.Content
}

// Catalog resolves event names.
type Catalog interface {
	// Resolve finds an event by name.
	// Error is *ResolveError.
	Resolve(name string) (cmn.EventSpec, error)

	// List returns all entries in the catalog.
	List() ([]Entry, error)
}

// SysfsCatalog reads the events directory of an arm_cmn PMU device.
type SysfsCatalog struct {
	dir   string
	cache *lru.Cache
}

var _ Catalog = (*SysfsCatalog)(nil)

// Dir returns the events directory.
func (c *SysfsCatalog) Dir() string {
	return c.dir
}

// Resolve implements Catalog interface.
func (c *SysfsCatalog) Resolve(name string) (spec cmn.EventSpec, e error) {
	if cached, ok := c.cache.Get(name); ok {
		return cached.(cmn.EventSpec), nil
	}

	if name == "" || strings.ContainsRune(name, filepath.Separator) {
		return spec, &ResolveError{name, os.ErrNotExist}
	}

	content, e := os.ReadFile(filepath.Join(c.dir, name))
	if e != nil {
		return spec, &ResolveError{name, e}
	}

	if spec, e = ParseSpec(name, string(content)); e != nil {
		return spec, &ResolveError{name, e}
	}

	logger.Debug("resolved event",
		zap.String("name", name),
		zap.String("raw", spec.Raw),
	)
	c.cache.Add(name, spec)
	return spec, nil
}

// List implements Catalog interface.
func (c *SysfsCatalog) List() (list []Entry, e error) {
	dirents, e := os.ReadDir(c.dir)
	if e != nil {
		return nil, e
	}
	for _, dirent := range dirents {
		if dirent.IsDir() {
			continue
		}
		content, e := os.ReadFile(filepath.Join(c.dir, dirent.Name()))
		if e != nil {
			return nil, e
		}
		list = append(list, Entry{
			Name:    dirent.Name(),
			Content: strings.TrimSpace(string(content)),
		})
	}
	return list, nil
}

// NewSysfsCatalog creates a catalog reading from
// <sysfsRoot>/bus/event_source/devices/arm_cmn_<cmnIndex>/events.
// If sysfsRoot is empty, DefaultSysfsRoot is used.
func NewSysfsCatalog(sysfsRoot string, cmnIndex uint8) *SysfsCatalog {
	if sysfsRoot == "" {
		sysfsRoot = DefaultSysfsRoot
	}
	cache, e := lru.New(cacheCapacity)
	if e != nil {
		panic(e)
	}
	return &SysfsCatalog{
		dir:   filepath.Join(sysfsRoot, "bus", "event_source", "devices", fmt.Sprintf("arm_cmn_%d", cmnIndex), "events"),
		cache: cache,
	}
}

// ParseSpec parses catalog entry content, such as "type=0x5,eventid=0x1".
// The trimmed content is retained as EventSpec.Raw.
func ParseSpec(name, content string) (spec cmn.EventSpec, e error) {
	spec.Name = name
	spec.Raw = strings.TrimSpace(content)

	var hasType, hasID bool
	for _, field := range strings.Split(spec.Raw, ",") {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "type":
			v, e := strconv.ParseUint(value, 0, 8)
			if e != nil {
				return spec, fmt.Errorf("%w type: %v", ErrMalformed, e)
			}
			spec.Type, hasType = uint8(v), true
		case "eventid":
			v, e := strconv.ParseUint(value, 0, 16)
			if e != nil {
				return spec, fmt.Errorf("%w eventid: %v", ErrMalformed, e)
			}
			spec.EventID, hasID = uint16(v), true
		}
	}

	if !hasType || !hasID {
		return spec, fmt.Errorf("%w %q", ErrMalformed, spec.Raw)
	}
	return spec, nil
}
