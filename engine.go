package enginebootstrap

// NativeEngine is the entry point exported by the loaded engine binary.
// InitializePath hands the engine its storage directory. The native call
// returns nothing, so success inside the engine is not observable here.
type NativeEngine interface {
	InitializePath(path string)
}

// Host is the application environment that owns the lifecycle.
type Host interface {
	// PlatformVersion reports the runtime/platform version, e.g. "29" or "14.2.1".
	PlatformVersion() string
	// StorageDir returns the absolute path of the application's private
	// storage directory. The host guarantees it exists and is writable.
	StorageDir() (string, error)
}

// NativeEngineFunc adapts a function to NativeEngine.
type NativeEngineFunc func(path string)

// InitializePath calls f(path).
func (f NativeEngineFunc) InitializePath(path string) {
	f(path)
}
