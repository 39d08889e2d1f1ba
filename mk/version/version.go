// Package version records cmnprobe version information.
//
// Release builds inject commit and date:
//
//	go build -ldflags "-X github.com/usnistgov/cmnprobe/mk/version.commit=$(git rev-parse HEAD) -X github.com/usnistgov/cmnprobe/mk/version.date=$(git show -s --format=%ct)"
//
// Otherwise, VCS stamping in the build info is used when available.
package version

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"time"
)

// Variables replaced via -ldflags -X.
var (
	commit string
	date   string
	dirty  string
)

// Version records cmnprobe version information.
type Version struct {
	Version string    `json:"version"`
	Commit  string    `json:"commit"`
	Date    time.Time `json:"date"`
	Dirty   bool      `json:"dirty"`
}

func (v Version) String() string {
	return v.Version
}

func (v *Version) format() {
	dirtySuffix := ""
	if v.Dirty {
		dirtySuffix = "-dirty"
	}
	v.Version = fmt.Sprintf("v0.0.0-%s-%s%s", v.Date.UTC().Format("20060102150405"), v.Commit[:12], dirtySuffix)
}

func fromLdflags() (v Version, ok bool) {
	dt, e := strconv.ParseInt(date, 10, 64)
	if e != nil || len(commit) != 40 {
		return v, false
	}
	v.Commit = commit
	v.Date = time.Unix(dt, 0)
	v.Dirty = dirty != ""
	v.format()
	return v, true
}

func fromBuildInfo() (v Version, ok bool) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return v, false
	}
	bs := map[string]string{}
	for _, kv := range bi.Settings {
		bs[kv.Key] = kv.Value
	}
	dt, e := time.Parse(time.RFC3339, bs["vcs.time"])
	if bs["vcs"] != "git" || len(bs["vcs.revision"]) != 40 || e != nil {
		return v, false
	}
	v.Commit = bs["vcs.revision"]
	v.Date = dt
	v.Dirty = bs["vcs.modified"] == "true"
	v.format()
	return v, true
}

// Get returns version information.
func Get() Version {
	if v, ok := fromLdflags(); ok {
		return v
	}
	if v, ok := fromBuildInfo(); ok {
		return v
	}
	return Version{
		Version: "development",
		Commit:  "unknown",
		Date:    time.Now(),
		Dirty:   true,
	}
}
