// Package host provides Host implementations for the bootstrap coordinator.
//
// Static reports fixed values and suits embedders whose application framework
// already knows its files directory and platform version (Android's
// Context.getFilesDir and Build.VERSION.SDK_INT, for example). Desktop derives
// both from the operating system.
package host

import (
	enginebootstrap "github.com/wippyai/engine-bootstrap"
)

var (
	_ enginebootstrap.Host = Static{}
	_ enginebootstrap.Host = (*Desktop)(nil)
)

// Static is a Host with fixed answers.
type Static struct {
	// Err, when set, is returned by StorageDir.
	Err     error
	Version string
	Dir     string
}

// PlatformVersion returns s.Version.
func (s Static) PlatformVersion() string { return s.Version }

// StorageDir returns s.Dir, or s.Err if set.
func (s Static) StorageDir() (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Dir, nil
}
