// Package loader loads the native engine binary into the process exactly once.
//
// # Load-once cell
//
// A Loader wraps an Opener behind a mutex-guarded cell. The first LoadOnce
// call performs the load; every later call, sequential or concurrent, returns
// the same Handle, or the same error if the single attempt failed:
//
//	l := loader.Shared("isar", loader.BackendDynamic, &loader.DynamicOpener{Symbol: "isar_initialize_path"})
//	h, err := l.LoadOnce(ctx)
//	if err != nil {
//	    return err // errors.ErrNotFound or errors.ErrLinkFailure
//	}
//	err = h.InitializePath(dir)
//
// Shared returns the process-wide Loader for a library name and backend so
// that separate coordinators never load the same engine twice.
//
// # Backends
//
//	DynamicOpener  - shared library (libisar.so, libisar.dylib, isar.dll)
//	WasmOpener     - the engine compiled to WebAssembly, run under wazero
//
// Both resolve a logical name to a file name for the platform and search the
// configured directories, the platform library path variable, the directory of
// the executable and the working directory. When no file is found the dynamic
// backend defers to the system loader with the bare file name.
//
// # Entry point
//
// The engine exports a single initialization symbol taking the storage path.
// Shared libraries receive a NUL-terminated UTF-8 string. Wasm modules receive
// (ptr, len) after the bytes are copied into guest memory through the module's
// cabi_realloc export (or one of the legacy allocator names).
//
// # Thread Safety
//
// Loader and Handle are safe for concurrent use.
package loader
