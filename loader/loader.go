package loader

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	enginebootstrap "github.com/wippyai/engine-bootstrap"
	"github.com/wippyai/engine-bootstrap/errors"
)

const (
	BackendDynamic = "dynamic"
	BackendWasm    = "wasm"
)

// Binding is what an Opener produces: the file that was loaded and its bound
// initialization entry point.
type Binding struct {
	Engine  enginebootstrap.NativeEngine
	File    string
	Backend string
}

// Opener performs one load of a library by logical name.
// Implementations return errors of kind NotFound or LinkFailure.
type Opener interface {
	Open(ctx context.Context, name string) (Binding, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, name string) (Binding, error)

// Open calls f(ctx, name).
func (f OpenerFunc) Open(ctx context.Context, name string) (Binding, error) {
	return f(ctx, name)
}

// Loader holds the load-once cell for a single library.
type Loader struct {
	opener   Opener
	handle   *Handle
	err      error
	name     string
	mu       sync.Mutex
	attempts atomic.Int32
	done     bool
}

// New creates a Loader for the library with the given logical name.
func New(name string, opener Opener) *Loader {
	return &Loader{name: name, opener: opener}
}

// Name returns the logical library name.
func (l *Loader) Name() string {
	return l.name
}

// LoadOnce loads the library on the first call and returns the cached result
// afterwards. Concurrent callers block until the single attempt completes.
// A failed attempt is cached as well and never retried.
func (l *Loader) LoadOnce(ctx context.Context) (*Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.handle, l.err
	}
	l.done = true
	l.attempts.Add(1)

	log := Logger().With(zap.String("library", l.name))
	log.Debug("loading native library")

	if l.opener == nil {
		l.err = errors.InvalidInput(errors.PhaseLoad, "no opener configured")
		return nil, l.err
	}

	b, err := l.opener.Open(ctx, l.name)
	if err == nil && b.Engine == nil {
		err = errors.LinkFailure(l.name, "", nil)
	}
	if err != nil {
		log.Debug("native library load failed", zap.Error(err))
		l.err = err
		return nil, err
	}

	l.handle = &Handle{
		name:    l.name,
		file:    b.File,
		backend: b.Backend,
		engine:  b.Engine,
	}
	log.Info("native library loaded",
		zap.String("file", b.File),
		zap.String("backend", b.Backend))
	return l.handle, nil
}

// Loaded reports whether a load attempt completed successfully.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done && l.err == nil
}

// Attempts returns the number of load attempts made. It is never above one.
func (l *Loader) Attempts() int {
	return int(l.attempts.Load())
}

// Handle is the loaded library. It lives for the rest of the process.
type Handle struct {
	engine   enginebootstrap.NativeEngine
	name     string
	file     string
	backend  string
	initPath string
	mu       sync.Mutex
	inited   bool
}

// Name returns the logical library name.
func (h *Handle) Name() string { return h.name }

// File returns the file that was loaded, or the bare file name when the
// system loader resolved it.
func (h *Handle) File() string { return h.file }

// Backend returns BackendDynamic or BackendWasm.
func (h *Handle) Backend() string { return h.backend }

// InitializePath makes the native initialization call. The engine receives at
// most one call per Handle: repeating the call with the same path is a no-op,
// a different path is refused with a Conflict error.
func (h *Handle) InitializePath(path string) error {
	if path == "" {
		return errors.InvalidInput(errors.PhaseInit, "empty storage path")
	}
	if strings.IndexByte(path, 0) >= 0 {
		return errors.New(errors.PhaseInit, errors.KindInvalidInput).
			Path(path).
			Detail("storage path contains NUL").
			Build()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.inited {
		if h.initPath != path {
			return errors.Conflict(h.initPath, path)
		}
		return nil
	}

	h.engine.InitializePath(path)
	h.inited = true
	h.initPath = path

	Logger().Info("native engine initialized",
		zap.String("library", h.name),
		zap.String("path", path))
	return nil
}

// InitializedPath returns the path the engine was initialized with.
func (h *Handle) InitializedPath() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.initPath, h.inited
}

type sharedKey struct {
	name    string
	backend string
}

var (
	sharedMu sync.Mutex
	shared   = make(map[sharedKey]*Loader)
)

// Shared returns the process-wide Loader for name on backend, creating it with
// opener on first use. Later calls for the same name and backend return the
// existing Loader and ignore opener; a different backend gets its own Loader.
func Shared(name, backend string, opener Opener) *Loader {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	key := sharedKey{name: name, backend: backend}
	if l, ok := shared[key]; ok {
		return l
	}
	l := New(name, opener)
	shared[key] = l
	return l
}
