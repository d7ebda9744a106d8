//go:build darwin || linux || freebsd

package adbc

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/ebitengine/purego"
)

// loadLibrary locates and opens the driver manager shared library.
// Resolution order: the ADBC_GO_LIB_PATH override, the embedded copy for this
// platform, then the system linker paths.
func loadLibrary(name string) (uintptr, error) {
	var candidates []string
	if p := os.Getenv("ADBC_GO_LIB_PATH"); p != "" {
		candidates = append(candidates, p)
	}
	if extracted, err := extractEmbeddedLibrary(name); err == nil {
		candidates = append(candidates, extracted)
	}
	candidates = append(candidates, systemLibraryNames(name)...)

	var errs []error
	for _, candidate := range candidates {
		handle, err := purego.Dlopen(candidate, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return handle, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", candidate, err))
	}
	return 0, errors.Join(errs...)
}

func systemLibraryNames(name string) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			fmt.Sprintf("lib%s.dylib", name),
			fmt.Sprintf("lib%s.1.dylib", name),
		}
	default:
		return []string{
			fmt.Sprintf("lib%s.so", name),
			fmt.Sprintf("lib%s.so.1", name),
		}
	}
}
