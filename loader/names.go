package loader

import (
	"os"
	"path/filepath"
	"strings"
)

// FileName maps a logical library name to the platform's shared library file
// name. Names that already carry a path separator or extension are returned
// unchanged.
func FileName(name, goos string) string {
	if strings.ContainsAny(name, `/\`) || filepath.Ext(name) != "" {
		return name
	}
	switch goos {
	case "darwin", "ios":
		return "lib" + name + ".dylib"
	case "windows":
		return name + ".dll"
	default:
		return "lib" + name + ".so"
	}
}

// WasmFileName maps a logical library name to its WebAssembly module file.
func WasmFileName(name string) string {
	if strings.ContainsAny(name, `/\`) || filepath.Ext(name) != "" {
		return name
	}
	return name + ".wasm"
}

// libraryPathVar returns the environment variable the platform loader
// consults for additional directories.
func libraryPathVar(goos string) string {
	switch goos {
	case "darwin", "ios":
		return "DYLD_LIBRARY_PATH"
	case "windows":
		return "PATH"
	default:
		return "LD_LIBRARY_PATH"
	}
}

// searchDirs lists directories to probe, in order: explicit paths, the
// library path variable, the executable's directory and the working directory.
// Duplicates and empty entries are dropped.
func searchDirs(explicit []string, goos string, getenv func(string) string) []string {
	var dirs []string
	dirs = append(dirs, explicit...)
	if v := getenv(libraryPathVar(goos)); v != "" {
		dirs = append(dirs, filepath.SplitList(v)...)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}

	seen := make(map[string]bool, len(dirs))
	out := dirs[:0]
	for _, d := range dirs {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// locate returns the first existing regular file named file in dirs, along
// with every candidate tried. A file that is already a path is checked as is.
func locate(file string, dirs []string) (found string, tried []string) {
	if filepath.IsAbs(file) || strings.ContainsAny(file, `/\`) {
		if isFile(file) {
			return file, []string{file}
		}
		return "", []string{file}
	}
	for _, d := range dirs {
		candidate := filepath.Join(d, file)
		tried = append(tried, candidate)
		if isFile(candidate) {
			return candidate, tried
		}
	}
	return "", tried
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
