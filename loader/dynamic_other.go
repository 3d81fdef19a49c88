//go:build !darwin && !freebsd && !linux && !windows

package loader

import (
	"runtime"

	enginebootstrap "github.com/wippyai/engine-bootstrap"
	"github.com/wippyai/engine-bootstrap/errors"
)

type nativeLib = uintptr

func openLibrary(string) (nativeLib, error) {
	return 0, errors.Unsupported(errors.PhaseLoad, "shared libraries on "+runtime.GOOS)
}

func bindEntry(nativeLib, string) (enginebootstrap.NativeEngine, error) {
	return nil, errors.Unsupported(errors.PhaseLoad, "shared libraries on "+runtime.GOOS)
}
