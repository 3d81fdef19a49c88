package loader

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	enginebootstrap "github.com/wippyai/engine-bootstrap"
	"github.com/wippyai/engine-bootstrap/errors"
)

const (
	CabiRealloc = "cabi_realloc"

	// Legacy names from pre-standardization toolchains
	legacyRealloc = "canonical_abi_realloc"
	legacyAlloc   = "allocate"
	simpleAlloc   = "alloc"
)

// WasmOpener loads the engine compiled to a WebAssembly module.
//
// The module must export linear memory, an allocator (cabi_realloc or one of
// the legacy names) and the entry point with signature (i32 ptr, i32 len).
// WASI preview1 imports are satisfied by wazero's implementation.
type WasmOpener struct {
	// FS configures the guest filesystem. The engine can only reach the
	// storage path if it is mounted here or listed in Mounts. Nil with no
	// Mounts means no filesystem access.
	FS wazero.FSConfig
	// Mounts are host directories exposed to the guest at the same path.
	Mounts []string
	// Getenv reads the library path variable. Defaults to os.Getenv.
	Getenv func(string) string
	// Symbol is the initialization entry point. Defaults to DefaultSymbol.
	Symbol string
	// SearchPaths are probed before the platform defaults.
	SearchPaths []string
	// MemoryLimitPages caps guest memory in 64KB pages. 0 means wazero's default.
	MemoryLimitPages uint32
}

// Open resolves name to <name>.wasm and instantiates it.
func (o *WasmOpener) Open(ctx context.Context, name string) (Binding, error) {
	getenv := o.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	file := WasmFileName(name)
	path, tried := locate(file, searchDirs(o.SearchPaths, runtime.GOOS, getenv))
	if path == "" {
		return Binding{}, errors.NotFound(name, tried)
	}

	wasm, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			e := errors.NotFound(name, tried)
			e.Cause = err
			return Binding{}, e
		}
		return Binding{}, errors.LinkFailure(path, "", err)
	}

	b, err := o.OpenBytes(ctx, path, wasm)
	if err != nil {
		return Binding{}, err
	}
	return b, nil
}

// OpenBytes instantiates an engine module that is already in memory, for
// example one embedded with go:embed. file is used for naming and errors.
func (o *WasmOpener) OpenBytes(ctx context.Context, file string, wasm []byte) (Binding, error) {
	symbol := o.Symbol
	if symbol == "" {
		symbol = DefaultSymbol
	}

	cfg := wazero.NewRuntimeConfig()
	if o.MemoryLimitPages > 0 {
		cfg = cfg.WithMemoryLimitPages(o.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)

	fail := func(sym string, cause error) (Binding, error) {
		if err := rt.Close(ctx); err != nil {
			Logger().Debug("close wasm runtime", zap.Error(err))
		}
		return Binding{}, errors.LinkFailure(file, sym, cause)
	}

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return fail("", fmt.Errorf("instantiate wasi: %w", err))
	}

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		return fail("", fmt.Errorf("compile failed: %w", err))
	}

	modCfg := wazero.NewModuleConfig().
		WithName(file).
		WithStartFunctions("_initialize")
	if fsCfg := o.fsConfig(); fsCfg != nil {
		modCfg = modCfg.WithFSConfig(fsCfg)
	}

	mod, err := rt.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return fail("", fmt.Errorf("instantiate failed: %w", err))
	}

	mem := mod.Memory()
	if mem == nil {
		return fail("memory", fmt.Errorf("module exports no memory"))
	}

	defs := mod.ExportedFunctionDefinitions()

	entryDef := defs[symbol]
	if entryDef == nil {
		return fail(symbol, fmt.Errorf("export not found"))
	}
	if !sameTypes(entryDef.ParamTypes(), api.ValueTypeI32, api.ValueTypeI32) || len(entryDef.ResultTypes()) != 0 {
		return fail(symbol, fmt.Errorf("want (i32, i32) -> (), got %v -> %v",
			entryDef.ParamTypes(), entryDef.ResultTypes()))
	}

	// Try standard cabi_realloc first, then fallbacks. Definitions are keyed
	// by export name; Name() is the name section entry and is often empty.
	var (
		allocName string
		allocDef  api.FunctionDefinition
	)
	for _, n := range []string{CabiRealloc, legacyRealloc, legacyAlloc, simpleAlloc} {
		if d := defs[n]; d != nil {
			allocName, allocDef = n, d
			break
		}
	}
	if allocDef == nil {
		return fail(CabiRealloc, fmt.Errorf("module exports no allocator"))
	}
	if n := len(allocDef.ParamTypes()); (n != 1 && n != 4) || !sameTypes(allocDef.ResultTypes(), api.ValueTypeI32) {
		return fail(allocName, fmt.Errorf("unsupported allocator signature %v -> %v",
			allocDef.ParamTypes(), allocDef.ResultTypes()))
	}

	entry := mod.ExportedFunction(symbol)
	if entry == nil {
		return fail(symbol, fmt.Errorf("export not callable"))
	}
	alloc := mod.ExportedFunction(allocName)
	if alloc == nil {
		return fail(allocName, fmt.Errorf("export not callable"))
	}

	engine := &wasmEngine{
		ctx:     context.WithoutCancel(ctx),
		mod:     mod,
		mem:     mem,
		entry:   entry,
		alloc:   alloc,
		simple:  len(allocDef.ParamTypes()) < 4,
		runtime: rt,
	}
	return Binding{Engine: engine, File: file, Backend: BackendWasm}, nil
}

// fsConfig merges FS with Mounts. It returns nil when neither is set.
func (o *WasmOpener) fsConfig() wazero.FSConfig {
	cfg := o.FS
	for _, dir := range o.Mounts {
		if dir == "" {
			continue
		}
		if cfg == nil {
			cfg = wazero.NewFSConfig()
		}
		cfg = cfg.WithDirMount(dir, dir)
	}
	return cfg
}

func sameTypes(got []api.ValueType, want ...api.ValueType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// wasmEngine is the bound entry point of an instantiated engine module.
// The runtime is kept open for the rest of the process.
type wasmEngine struct {
	ctx     context.Context
	runtime wazero.Runtime
	mod     api.Module
	mem     api.Memory
	entry   api.Function
	alloc   api.Function
	simple  bool
}

var _ enginebootstrap.NativeEngine = (*wasmEngine)(nil)

// InitializePath copies path into guest memory and calls the entry point.
// Guest failures are not reported to the caller, matching the void native
// signature; they are logged.
func (e *wasmEngine) InitializePath(path string) {
	if err := e.initializePath(path); err != nil {
		Logger().Warn("wasm engine initialization failed",
			zap.String("module", e.mod.Name()),
			zap.Error(err))
	}
}

func (e *wasmEngine) initializePath(path string) error {
	size := uint32(len(path))

	var stack []uint64
	if e.simple {
		stack = []uint64{uint64(size)}
	} else {
		stack = []uint64{0, 0, 1, uint64(size)}
	}
	if err := e.alloc.CallWithStack(e.ctx, stack); err != nil {
		return fmt.Errorf("alloc %d bytes: %w", size, err)
	}
	ptr := uint32(stack[0])

	if size > 0 && !e.mem.Write(ptr, []byte(path)) {
		return fmt.Errorf("write %d bytes at %d: out of memory range", size, ptr)
	}

	if _, err := e.entry.Call(e.ctx, uint64(ptr), uint64(size)); err != nil {
		return fmt.Errorf("call entry point: %w", err)
	}
	return nil
}
