package adbc

import (
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	loadOnce sync.Once
	loadErr  error
	// libReady flips only after register_adbc has returned, so a caller can
	// never observe a half-registered surface. The func vars themselves are
	// written inside loadOnce and must not be used as the readiness signal.
	libReady atomic.Bool
)

// ensureLibrary loads the ADBC driver manager and registers its entry points
// on first use. Both construction entry points call it, so no operation can
// run against an unregistered surface. Once registered, the surface never
// changes for the life of the process.
func ensureLibrary() error {
	if libReady.Load() {
		return nil
	}
	loadOnce.Do(func() {
		library, err := loadLibrary("adbc_driver_manager")
		if err != nil {
			loadErr = fmt.Errorf("adbc: unable to load driver manager library: %w", err)
			return
		}
		register_adbc(library)
		libReady.Store(true)
	})
	return loadErr
}
