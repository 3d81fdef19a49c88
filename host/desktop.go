package host

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/wippyai/engine-bootstrap/errors"
)

// Desktop derives the storage directory from the user's configuration
// directory and an application id, and reads the platform version from the
// operating system.
type Desktop struct {
	// BaseDir overrides os.UserConfigDir.
	BaseDir string
	// AppID names the application's subdirectory. Empty means the name of
	// the running executable.
	AppID string
	// Version overrides the detected platform version.
	Version string
}

// PlatformVersion returns d.Version or the detected OS version, such as
// "Linux 6.8.0-45-generic" or "Windows 10.0.22631". It is empty when the
// platform offers no way to detect it.
func (d *Desktop) PlatformVersion() string {
	if d.Version != "" {
		return d.Version
	}
	return platformVersion()
}

// StorageDir returns <base>/<app id>, creating it if needed.
func (d *Desktop) StorageDir() (string, error) {
	base := d.BaseDir
	if base == "" {
		var err error
		base, err = os.UserConfigDir()
		if err != nil {
			return "", errors.Wrap(errors.PhaseHost, errors.KindHost, err, "user config dir")
		}
	}

	appID := d.AppID
	if appID == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", errors.Wrap(errors.PhaseHost, errors.KindHost, err, "executable name")
		}
		appID = strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	}

	dir, err := filepath.Abs(filepath.Join(base, appID))
	if err != nil {
		return "", errors.Wrap(errors.PhaseHost, errors.KindHost, err, "absolute storage dir")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errors.New(errors.PhaseHost, errors.KindHost).
			Path(dir).
			Detail("create storage dir").
			Cause(err).
			Build()
	}
	return dir, nil
}
