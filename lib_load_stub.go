//go:build !(darwin || linux || freebsd)

package adbc

import (
	"fmt"
	"runtime"
)

func loadLibrary(name string) (uintptr, error) {
	return 0, fmt.Errorf("dynamic loading of %s is not supported on %s", name, runtime.GOOS)
}
