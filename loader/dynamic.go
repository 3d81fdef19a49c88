package loader

import (
	"context"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/wippyai/engine-bootstrap/errors"
)

// DefaultSymbol is the engine's initialization entry point.
const DefaultSymbol = "isar_initialize_path"

// DynamicOpener loads the engine as a platform shared library.
type DynamicOpener struct {
	// Getenv reads the library path variable. Defaults to os.Getenv.
	Getenv func(string) string
	// Symbol is the initialization entry point. Defaults to DefaultSymbol.
	Symbol string
	// SearchPaths are probed before the platform defaults.
	SearchPaths []string
}

// Open resolves name, opens the library and binds the entry point.
func (o *DynamicOpener) Open(_ context.Context, name string) (Binding, error) {
	symbol := o.Symbol
	if symbol == "" {
		symbol = DefaultSymbol
	}
	getenv := o.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	file := FileName(name, runtime.GOOS)
	path, tried := locate(file, searchDirs(o.SearchPaths, runtime.GOOS, getenv))
	onDisk := path != ""
	if !onDisk {
		// Let the system loader search its own locations (APK-bundled
		// libraries on Android, ld.so.cache on Linux).
		path = file
	}

	log := Logger().With(zap.String("library", name), zap.String("file", path))
	log.Debug("opening shared library", zap.Bool("on_disk", onDisk), zap.Strings("tried", tried))

	lib, err := openLibrary(path)
	if err != nil {
		return Binding{}, openError(name, path, tried, onDisk, err)
	}

	engine, err := bindEntry(lib, symbol)
	if err != nil {
		return Binding{}, errors.LinkFailure(path, symbol, err)
	}

	return Binding{Engine: engine, File: path, Backend: BackendDynamic}, nil
}

// openError classifies a failed open. A library the system loader could not
// find is NotFound; anything else, including a platform without dynamic
// loading, is a LinkFailure carrying the loader's error.
func openError(name, path string, tried []string, onDisk bool, err error) *errors.Error {
	if !onDisk && errors.KindOf(err) != errors.KindUnsupported {
		e := errors.NotFound(name, append(tried, path))
		e.Cause = err
		return e
	}
	return errors.LinkFailure(path, "", err)
}
