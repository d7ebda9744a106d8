package adbc

import (
	"fmt"
	"runtime"
	"unsafe"
)

var connectionKind = registerResourceKind("AdbcConnection", destroyConnection)

// Connection owns a single AdbcConnection handle. Like Database, operations
// on the same Connection must not be invoked concurrently.
type Connection struct {
	res *resource[c_adbc_connection_t]
}

// NewConnection allocates a connection handle via the driver manager. The
// handle is not tied to any database until Init.
func NewConnection() (*Connection, error) {
	if err := ensureLibrary(); err != nil {
		return nil, err
	}
	res := connectionKind.allocate()
	var cerr c_adbc_error_t
	code := c_adbc_connection_new(unsafe.Pointer(res.raw), unsafe.Pointer(&cerr))
	if code != ADBC_STATUS_OK {
		res.free()
		return nil, errorFromAdbcError(&cerr)
	}
	return &Connection{res: res}, nil
}

// SetOption sets a string option on the connection.
func (conn *Connection) SetOption(key, value string) error {
	raw := conn.res.raw
	if raw == nil {
		return fmt.Errorf("%w: connection already released", ErrInvalidArgument)
	}
	if !validCText(key) || !validCText(value) {
		return fmt.Errorf("%w: option text must not contain NUL bytes", ErrInvalidArgument)
	}
	var cerr c_adbc_error_t
	code := c_adbc_connection_set_option(unsafe.Pointer(raw), key, value, unsafe.Pointer(&cerr))
	runtime.KeepAlive(conn.res)
	if code != ADBC_STATUS_OK {
		return errorFromAdbcError(&cerr)
	}
	return nil
}

// Init binds the connection to an initialized database. The database is only
// needed for the duration of this call; no reference is retained afterwards.
func (conn *Connection) Init(db *Database) error {
	raw := conn.res.raw
	if raw == nil {
		return fmt.Errorf("%w: connection already released", ErrInvalidArgument)
	}
	if db == nil || db.res == nil || db.res.raw == nil {
		return fmt.Errorf("%w: database already released", ErrInvalidArgument)
	}
	var cerr c_adbc_error_t
	code := c_adbc_connection_init(unsafe.Pointer(raw), unsafe.Pointer(db.res.raw), unsafe.Pointer(&cerr))
	runtime.KeepAlive(conn.res)
	runtime.KeepAlive(db.res)
	if code != ADBC_STATUS_OK {
		return errorFromAdbcError(&cerr)
	}
	return nil
}

// Release frees the native handle; see (*Database).Release for the contract.
func (conn *Connection) Release() error {
	raw := conn.res.raw
	if raw == nil {
		return fmt.Errorf("%w: connection already released", ErrInvalidArgument)
	}
	var cerr c_adbc_error_t
	code := c_adbc_connection_release(unsafe.Pointer(raw), unsafe.Pointer(&cerr))
	runtime.KeepAlive(conn.res)
	if code != ADBC_STATUS_OK {
		return errorFromAdbcError(&cerr)
	}
	conn.res.free()
	return nil
}

func destroyConnection(raw *c_adbc_connection_t) {
	if c_adbc_connection_release == nil {
		return
	}
	var cerr c_adbc_error_t
	if code := c_adbc_connection_release(unsafe.Pointer(raw), unsafe.Pointer(&cerr)); code != ADBC_STATUS_OK {
		releaseAdbcError(&cerr)
	}
}
