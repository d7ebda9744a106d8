package adbc

import (
	"fmt"
	"runtime"
	"unsafe"
)

var databaseKind = registerResourceKind("AdbcDatabase", destroyDatabase)

// Database owns a single AdbcDatabase handle. The zero value is not usable;
// construct with NewDatabase. Operations on the same Database must not be
// invoked concurrently: this layer performs no locking of its own.
type Database struct {
	res *resource[c_adbc_database_t]
}

// NewDatabase allocates a database handle via the driver manager. On failure
// the allocation is fully unwound before returning: the caller never sees a
// half-constructed handle.
func NewDatabase() (*Database, error) {
	if err := ensureLibrary(); err != nil {
		return nil, err
	}
	res := databaseKind.allocate()
	var cerr c_adbc_error_t
	code := c_adbc_database_new(unsafe.Pointer(res.raw), unsafe.Pointer(&cerr))
	if code != ADBC_STATUS_OK {
		res.free()
		return nil, errorFromAdbcError(&cerr)
	}
	return &Database{res: res}, nil
}

// SetOption sets a string option such as "driver" or "uri". Options may be
// set any number of times before Init; whether one may still change after
// Init is decided by the driver manager, not here.
func (db *Database) SetOption(key, value string) error {
	raw := db.res.raw
	if raw == nil {
		return fmt.Errorf("%w: database already released", ErrInvalidArgument)
	}
	if !validCText(key) || !validCText(value) {
		return fmt.Errorf("%w: option text must not contain NUL bytes", ErrInvalidArgument)
	}
	var cerr c_adbc_error_t
	code := c_adbc_database_set_option(unsafe.Pointer(raw), key, value, unsafe.Pointer(&cerr))
	runtime.KeepAlive(db.res)
	if code != ADBC_STATUS_OK {
		return errorFromAdbcError(&cerr)
	}
	return nil
}

// Init finalizes the configured handle into a usable database. One-way: there
// is no path back to the configurable state.
func (db *Database) Init() error {
	raw := db.res.raw
	if raw == nil {
		return fmt.Errorf("%w: database already released", ErrInvalidArgument)
	}
	var cerr c_adbc_error_t
	code := c_adbc_database_init(unsafe.Pointer(raw), unsafe.Pointer(&cerr))
	runtime.KeepAlive(db.res)
	if code != ADBC_STATUS_OK {
		return errorFromAdbcError(&cerr)
	}
	return nil
}

// Release frees the native handle. A second Release reports
// ErrInvalidArgument. If the driver manager refuses the release the handle
// stays intact and Release may be retried.
func (db *Database) Release() error {
	raw := db.res.raw
	if raw == nil {
		return fmt.Errorf("%w: database already released", ErrInvalidArgument)
	}
	var cerr c_adbc_error_t
	code := c_adbc_database_release(unsafe.Pointer(raw), unsafe.Pointer(&cerr))
	runtime.KeepAlive(db.res)
	if code != ADBC_STATUS_OK {
		return errorFromAdbcError(&cerr)
	}
	db.res.free()
	return nil
}

// destroyDatabase runs from the collector for databases that were never
// explicitly released. Failures cannot be reported from here; the error
// struct is still released so driver-owned memory is not leaked.
func destroyDatabase(raw *c_adbc_database_t) {
	if c_adbc_database_release == nil {
		return
	}
	var cerr c_adbc_error_t
	if code := c_adbc_database_release(unsafe.Pointer(raw), unsafe.Pointer(&cerr)); code != ADBC_STATUS_OK {
		releaseAdbcError(&cerr)
	}
}
