package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseLoad,
				Kind:    KindLinkFailure,
				Library: "/opt/app/libisar.so",
				Symbol:  "isar_initialize_path",
				Detail:  "symbol missing",
			},
			contains: []string{"[load]", "link_failure", "/opt/app/libisar.so", "isar_initialize_path", "symbol missing"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseBootstrap,
				Kind:  KindNotFound,
			},
			contains: []string{"[bootstrap]", "not_found"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseHost,
				Kind:   KindHost,
				Detail: "no files dir",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[host]", "host", "no files dir", "caused by", "underlying error"},
		},
		{
			name:     "sentinel without phase",
			err:      ErrNotFound,
			contains: []string{"not_found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindLinkFailure,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:   PhaseLoad,
		Kind:    KindNotFound,
		Library: "isar",
	}

	if !err.Is(&Error{Phase: PhaseLoad, Kind: KindNotFound}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseBootstrap, Kind: KindNotFound}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseLoad, Kind: KindLinkFailure}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is should match kind sentinel")
	}
	if errors.Is(err, ErrLinkFailure) {
		t.Error("errors.Is should not match other sentinel")
	}
}

func TestError_IsThroughWrapping(t *testing.T) {
	load := NotFound("isar", []string{"/a/libisar.so"})
	boot := New(PhaseBootstrap, load.Kind).Cause(load).Build()
	wrapped := fmt.Errorf("startup: %w", boot)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("sentinel should match through fmt wrapping")
	}
	if !errors.Is(wrapped, &Error{Phase: PhaseLoad, Kind: KindNotFound}) {
		t.Error("load phase error should be reachable through the chain")
	}
	if KindOf(wrapped) != KindNotFound {
		t.Errorf("KindOf = %q, want %q", KindOf(wrapped), KindNotFound)
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("KindOf should be empty for foreign errors")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseLoad, KindLinkFailure).
		Library("isar.dll").
		Symbol("isar_initialize_path").
		Path("/data").
		Cause(cause).
		Detail("expected %s, got %s", "func", "data").
		Build()

	if err.Phase != PhaseLoad {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseLoad)
	}
	if err.Kind != KindLinkFailure {
		t.Errorf("Kind = %v, want %v", err.Kind, KindLinkFailure)
	}
	if err.Library != "isar.dll" {
		t.Errorf("Library = %v", err.Library)
	}
	if err.Symbol != "isar_initialize_path" {
		t.Errorf("Symbol = %v", err.Symbol)
	}
	if err.Path != "/data" {
		t.Errorf("Path = %v", err.Path)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected func, got data" {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		err := NotFound("isar", []string{"/a/libisar.so", "/b/libisar.so"})
		if err.Kind != KindNotFound || err.Phase != PhaseLoad {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if !strings.Contains(err.Detail, "/b/libisar.so") {
			t.Errorf("Detail = %q, should list searched files", err.Detail)
		}
	})

	t.Run("NotFoundNoCandidates", func(t *testing.T) {
		err := NotFound("isar", nil)
		if err.Detail != "" {
			t.Errorf("Detail = %q, want empty", err.Detail)
		}
	})

	t.Run("LinkFailure", func(t *testing.T) {
		cause := errors.New("undefined symbol")
		err := LinkFailure("libisar.so", "isar_initialize_path", cause)
		if err.Kind != KindLinkFailure {
			t.Errorf("Kind = %v", err.Kind)
		}
		if !errors.Is(err, cause) {
			t.Error("cause should be reachable")
		}
	})

	t.Run("Conflict", func(t *testing.T) {
		err := Conflict("/a", "/b")
		if err.Kind != KindConflict || err.Path != "/b" {
			t.Errorf("got %+v", err)
		}
		if !strings.Contains(err.Detail, `"/a"`) {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseConfig, "bad backend")
		if err.Kind != KindInvalidInput || err.Detail != "bad backend" {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseLoad, "dynamic loading")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v", err.Kind)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("io")
		err := Wrap(PhaseHost, KindHost, cause, "storage dir")
		if err.Cause != cause || err.Detail != "storage dir" {
			t.Errorf("got %+v", err)
		}
	})
}
