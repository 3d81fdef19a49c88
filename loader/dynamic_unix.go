//go:build darwin || freebsd || linux

package loader

import (
	"github.com/ebitengine/purego"

	enginebootstrap "github.com/wippyai/engine-bootstrap"
)

type nativeLib = uintptr

func openLibrary(path string) (nativeLib, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

// bindEntry resolves symbol as a void(const char*) function.
// purego passes Go strings as NUL-terminated C strings.
func bindEntry(lib nativeLib, symbol string) (enginebootstrap.NativeEngine, error) {
	sym, err := purego.Dlsym(lib, symbol)
	if err != nil {
		return nil, err
	}
	var fn func(string)
	purego.RegisterFunc(&fn, sym)
	return enginebootstrap.NativeEngineFunc(fn), nil
}
