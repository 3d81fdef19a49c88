//go:build windows

package loader

import (
	"runtime"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	enginebootstrap "github.com/wippyai/engine-bootstrap"
)

type nativeLib = *windows.DLL

func openLibrary(path string) (nativeLib, error) {
	return windows.LoadDLL(path)
}

// bindEntry resolves symbol as a void(const char*) function taking a
// NUL-terminated UTF-8 string.
func bindEntry(lib nativeLib, symbol string) (enginebootstrap.NativeEngine, error) {
	proc, err := lib.FindProc(symbol)
	if err != nil {
		return nil, err
	}
	return enginebootstrap.NativeEngineFunc(func(path string) {
		p, err := windows.BytePtrFromString(path)
		if err != nil {
			Logger().Warn("storage path not representable as C string", zap.Error(err))
			return
		}
		proc.Call(uintptr(unsafe.Pointer(p)))
		runtime.KeepAlive(p)
	}), nil
}
