//go:build darwin || freebsd || linux

package loader

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	bserrors "github.com/wippyai/engine-bootstrap/errors"
)

// fixtureSource writes the path it receives to the file named by
// ENGINE_FIXTURE_OUT.
const fixtureSource = `#include <stdio.h>
#include <stdlib.h>

void isar_initialize_path(const char *path) {
	FILE *f = fopen(getenv("ENGINE_FIXTURE_OUT"), "w");
	if (f == NULL) {
		return;
	}
	fputs(path, f);
	fclose(f);
}
`

// buildFixture compiles fixtureSource into dir as the shared library for name.
func buildFixture(t *testing.T, dir, name string) {
	t.Helper()

	var cc string
	for _, c := range []string{"cc", "gcc", "clang"} {
		if p, err := exec.LookPath(c); err == nil {
			cc = p
			break
		}
	}
	if cc == "" {
		t.Skip("no C compiler available")
	}

	src := filepath.Join(dir, "fixture.c")
	if err := os.WriteFile(src, []byte(fixtureSource), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, FileName(name, runtime.GOOS))
	if b, err := exec.Command(cc, "-shared", "-fPIC", "-o", out, src).CombinedOutput(); err != nil {
		t.Skipf("building fixture failed: %v\n%s", err, b)
	}
}

func TestDynamicOpener_InitializesThroughLibrary(t *testing.T) {
	dir := t.TempDir()
	buildFixture(t, dir, "enginefixture")

	received := filepath.Join(dir, "received")
	t.Setenv("ENGINE_FIXTURE_OUT", received)

	l := New("enginefixture", &DynamicOpener{SearchPaths: []string{dir}, Getenv: noEnv})
	h, err := l.LoadOnce(context.Background())
	if err != nil {
		t.Fatalf("LoadOnce failed: %v", err)
	}
	if h.Backend() != BackendDynamic {
		t.Errorf("Backend = %q", h.Backend())
	}
	if h.File() != filepath.Join(dir, FileName("enginefixture", runtime.GOOS)) {
		t.Errorf("File = %q", h.File())
	}

	const path = "/data/app/files"
	if err := h.InitializePath(path); err != nil {
		t.Fatalf("InitializePath failed: %v", err)
	}

	got, err := os.ReadFile(received)
	if err != nil {
		t.Fatalf("engine was not called: %v", err)
	}
	if string(got) != path {
		t.Errorf("engine received %q, want %q", got, path)
	}
}

func TestDynamicOpener_MissingSymbol(t *testing.T) {
	dir := t.TempDir()
	buildFixture(t, dir, "enginefixture")

	o := &DynamicOpener{SearchPaths: []string{dir}, Getenv: noEnv, Symbol: "engine_open"}
	_, err := o.Open(context.Background(), "enginefixture")
	if !errors.Is(err, bserrors.ErrLinkFailure) {
		t.Fatalf("err = %v, want link_failure", err)
	}

	var e *bserrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("err = %#v, want *Error", err)
	}
	if e.Symbol != "engine_open" {
		t.Errorf("Symbol = %q, want engine_open", e.Symbol)
	}
	if e.Cause == nil {
		t.Error("dlsym error should be kept as cause")
	}
}
