package adbc

import (
	"sync"
	"testing"
	"unsafe"
)

// driverStub stands in for the driver manager entry points so every
// lifecycle and error path can run without a shared library. The extern
// bindings are plain func vars, so installing a stub is an assignment.
type driverStub struct {
	mu sync.Mutex

	dbOptions    [][2]string
	connOptions  [][2]string
	dbInits      int
	connInits    int
	dbReleases   int
	connReleases int

	failNew     bool
	failSet     bool
	failInit    bool
	failRelease bool

	// keeps the stub error message alive until it has been copied
	errBuf []byte
}

// fillError populates errorOut the way a driver does: message, vendor code
// and sqlstate set, no release callback (the message memory is Go-owned).
func (s *driverStub) fillError(errorOut unsafe.Pointer) adbc_status_code_t {
	s.errBuf = append([]byte("bad option"), 0)
	cerr := (*c_adbc_error_t)(errorOut)
	cerr.Message = uintptr(unsafe.Pointer(&s.errBuf[0]))
	cerr.VendorCode = 42
	copy(cerr.SqlState[:], "42000")
	cerr.Release = 0
	return ADBC_STATUS_INTERNAL
}

// installDriverStub replaces the registered driver manager surface for the
// duration of the test and restores the previous one afterwards.
func installDriverStub(t *testing.T) *driverStub {
	t.Helper()
	s := &driverStub{}

	prevDbNew := c_adbc_database_new
	prevDbSet := c_adbc_database_set_option
	prevDbInit := c_adbc_database_init
	prevDbRelease := c_adbc_database_release
	prevConnNew := c_adbc_connection_new
	prevConnSet := c_adbc_connection_set_option
	prevConnInit := c_adbc_connection_init
	prevConnRelease := c_adbc_connection_release
	prevReady := libReady.Load()
	libReady.Store(true)
	t.Cleanup(func() {
		libReady.Store(prevReady)
		c_adbc_database_new = prevDbNew
		c_adbc_database_set_option = prevDbSet
		c_adbc_database_init = prevDbInit
		c_adbc_database_release = prevDbRelease
		c_adbc_connection_new = prevConnNew
		c_adbc_connection_set_option = prevConnSet
		c_adbc_connection_init = prevConnInit
		c_adbc_connection_release = prevConnRelease
	})

	c_adbc_database_new = func(database, errorOut unsafe.Pointer) adbc_status_code_t {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failNew {
			return s.fillError(errorOut)
		}
		// the driver manager stores its state in the caller-owned struct
		(*c_adbc_database_t)(database).PrivateData = 1
		return ADBC_STATUS_OK
	}
	c_adbc_database_set_option = func(database unsafe.Pointer, key, value string, errorOut unsafe.Pointer) adbc_status_code_t {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failSet {
			return s.fillError(errorOut)
		}
		s.dbOptions = append(s.dbOptions, [2]string{key, value})
		return ADBC_STATUS_OK
	}
	c_adbc_database_init = func(database, errorOut unsafe.Pointer) adbc_status_code_t {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failInit {
			return s.fillError(errorOut)
		}
		s.dbInits++
		return ADBC_STATUS_OK
	}
	c_adbc_database_release = func(database, errorOut unsafe.Pointer) adbc_status_code_t {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failRelease {
			return s.fillError(errorOut)
		}
		(*c_adbc_database_t)(database).PrivateData = 0
		s.dbReleases++
		return ADBC_STATUS_OK
	}

	c_adbc_connection_new = func(connection, errorOut unsafe.Pointer) adbc_status_code_t {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failNew {
			return s.fillError(errorOut)
		}
		(*c_adbc_connection_t)(connection).PrivateData = 1
		return ADBC_STATUS_OK
	}
	c_adbc_connection_set_option = func(connection unsafe.Pointer, key, value string, errorOut unsafe.Pointer) adbc_status_code_t {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failSet {
			return s.fillError(errorOut)
		}
		s.connOptions = append(s.connOptions, [2]string{key, value})
		return ADBC_STATUS_OK
	}
	c_adbc_connection_init = func(connection, database, errorOut unsafe.Pointer) adbc_status_code_t {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failInit {
			return s.fillError(errorOut)
		}
		if database == nil || (*c_adbc_database_t)(database).PrivateData == 0 {
			return s.fillError(errorOut)
		}
		s.connInits++
		return ADBC_STATUS_OK
	}
	c_adbc_connection_release = func(connection, errorOut unsafe.Pointer) adbc_status_code_t {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failRelease {
			return s.fillError(errorOut)
		}
		(*c_adbc_connection_t)(connection).PrivateData = 0
		s.connReleases++
		return ADBC_STATUS_OK
	}

	return s
}
