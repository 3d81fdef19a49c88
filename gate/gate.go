package gate

import (
	"regexp"
	"strings"

	"github.com/coreos/go-semver/semver"

	"github.com/wippyai/engine-bootstrap/errors"
)

// Version is a normalized platform version.
type Version struct {
	semver.Version
}

var versionPattern = regexp.MustCompile(`\d+(?:\.\d+){0,2}`)

// Parse extracts the first dotted numeric run from s and pads it to
// major.minor.patch. Anything around the number (OS names, build suffixes)
// is ignored.
func Parse(s string) (Version, error) {
	m := versionPattern.FindString(s)
	if m == "" {
		return Version{}, errors.New(errors.PhaseBootstrap, errors.KindInvalidInput).
			Detail("no version number in %q", s).
			Build()
	}
	for strings.Count(m, ".") < 2 {
		m += ".0"
	}
	v, err := semver.NewVersion(m)
	if err != nil {
		return Version{}, errors.New(errors.PhaseBootstrap, errors.KindInvalidInput).
			Detail("parse version %q", s).
			Cause(err).
			Build()
	}
	return Version{Version: *v}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Eligible reports whether version is strictly above min.
func Eligible(version, min Version) bool {
	return min.LessThan(version.Version)
}

// Gate is the platform eligibility predicate. The zero Gate has no minimum
// and admits every version.
type Gate struct {
	min     Version
	enabled bool
}

// New returns a gate with the given minimum. An empty min disables gating.
func New(min string) (Gate, error) {
	if strings.TrimSpace(min) == "" {
		return Gate{}, nil
	}
	v, err := Parse(min)
	if err != nil {
		return Gate{}, err
	}
	return Gate{min: v, enabled: true}, nil
}

// Min returns the configured minimum and whether one is set.
func (g Gate) Min() (Version, bool) {
	return g.min, g.enabled
}

// Allows reports whether the host version passes the gate.
func (g Gate) Allows(v Version) bool {
	if !g.enabled {
		return true
	}
	return Eligible(v, g.min)
}

// AllowsString parses hostVersion and applies the gate. When the gate has no
// minimum the version is not parsed at all.
func (g Gate) AllowsString(hostVersion string) (bool, error) {
	if !g.enabled {
		return true, nil
	}
	v, err := Parse(hostVersion)
	if err != nil {
		return false, err
	}
	return g.Allows(v), nil
}
