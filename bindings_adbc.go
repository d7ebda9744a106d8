package adbc

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
)

// define all package level errors here

var (
	// ErrInvalidArgument reports a contract violation caught before the
	// driver manager is called: a handle that has already been released,
	// or option text that cannot be represented as a C string. It is
	// distinct from *Error, which carries a failure reported by the
	// driver manager itself.
	ErrInvalidArgument = errors.New("adbc: invalid argument")
)

// define all necessary constants first
type adbc_status_code_t uint8

const (
	ADBC_STATUS_OK               adbc_status_code_t = 0
	ADBC_STATUS_UNKNOWN          adbc_status_code_t = 1
	ADBC_STATUS_NOT_IMPLEMENTED  adbc_status_code_t = 2
	ADBC_STATUS_NOT_FOUND        adbc_status_code_t = 3
	ADBC_STATUS_ALREADY_EXISTS   adbc_status_code_t = 4
	ADBC_STATUS_INVALID_ARGUMENT adbc_status_code_t = 5
	ADBC_STATUS_INVALID_STATE    adbc_status_code_t = 6
	ADBC_STATUS_INVALID_DATA     adbc_status_code_t = 7
	ADBC_STATUS_INTEGRITY        adbc_status_code_t = 8
	ADBC_STATUS_INTERNAL         adbc_status_code_t = 9
	ADBC_STATUS_IO               adbc_status_code_t = 10
	ADBC_STATUS_CANCELLED        adbc_status_code_t = 11
	ADBC_STATUS_TIMEOUT          adbc_status_code_t = 12
	ADBC_STATUS_UNAUTHENTICATED  adbc_status_code_t = 13
	ADBC_STATUS_UNAUTHORIZED     adbc_status_code_t = 14
)

// define all necessary private C structs
// private C structs MUST have fields with low level types (e.g. uintptr, numbers)

// Mirrors struct AdbcError. The driver owns message memory; release frees it.
type c_adbc_error_t struct {
	Message    uintptr // char*
	VendorCode int32
	SqlState   [5]byte
	_          [7]byte // padding so the release pointer lands on an 8-byte boundary
	Release    uintptr // void (*)(struct AdbcError*)
}

// Mirrors struct AdbcDatabase. Both fields belong to the driver manager and
// must stay zeroed until AdbcDatabaseNew populates them.
type c_adbc_database_t struct {
	PrivateData   uintptr // void*
	PrivateDriver uintptr // struct AdbcDriver*
}

// Mirrors struct AdbcConnection.
type c_adbc_connection_t struct {
	PrivateData   uintptr // void*
	PrivateDriver uintptr // struct AdbcDriver*
}

// then, define C extern methods
var (
	// always use c_ structs here - never mix them with exported public types
	c_adbc_database_new func(
		database unsafe.Pointer, // struct AdbcDatabase*
		errorOut unsafe.Pointer, // struct AdbcError*
	) adbc_status_code_t

	c_adbc_database_set_option func(
		database unsafe.Pointer, // struct AdbcDatabase*
		key string, // const char*
		value string, // const char*
		errorOut unsafe.Pointer, // struct AdbcError*
	) adbc_status_code_t

	c_adbc_database_init func(
		database unsafe.Pointer, // struct AdbcDatabase*
		errorOut unsafe.Pointer, // struct AdbcError*
	) adbc_status_code_t

	c_adbc_database_release func(
		database unsafe.Pointer, // struct AdbcDatabase*
		errorOut unsafe.Pointer, // struct AdbcError*
	) adbc_status_code_t

	c_adbc_connection_new func(
		connection unsafe.Pointer, // struct AdbcConnection*
		errorOut unsafe.Pointer, // struct AdbcError*
	) adbc_status_code_t

	c_adbc_connection_set_option func(
		connection unsafe.Pointer, // struct AdbcConnection*
		key string, // const char*
		value string, // const char*
		errorOut unsafe.Pointer, // struct AdbcError*
	) adbc_status_code_t

	c_adbc_connection_init func(
		connection unsafe.Pointer, // struct AdbcConnection*
		database unsafe.Pointer, // struct AdbcDatabase*
		errorOut unsafe.Pointer, // struct AdbcError*
	) adbc_status_code_t

	c_adbc_connection_release func(
		connection unsafe.Pointer, // struct AdbcConnection*
		errorOut unsafe.Pointer, // struct AdbcError*
	) adbc_status_code_t
)

// implement a function to register extern methods from loaded lib
// DO NOT load lib - as it will be done externally
func register_adbc(handle uintptr) {
	purego.RegisterLibFunc(&c_adbc_database_new, handle, "AdbcDatabaseNew")
	purego.RegisterLibFunc(&c_adbc_database_set_option, handle, "AdbcDatabaseSetOption")
	purego.RegisterLibFunc(&c_adbc_database_init, handle, "AdbcDatabaseInit")
	purego.RegisterLibFunc(&c_adbc_database_release, handle, "AdbcDatabaseRelease")
	purego.RegisterLibFunc(&c_adbc_connection_new, handle, "AdbcConnectionNew")
	purego.RegisterLibFunc(&c_adbc_connection_set_option, handle, "AdbcConnectionSetOption")
	purego.RegisterLibFunc(&c_adbc_connection_init, handle, "AdbcConnectionInit")
	purego.RegisterLibFunc(&c_adbc_connection_release, handle, "AdbcConnectionRelease")
}

// Error is the translated form of a driver manager AdbcError: the
// human-readable message, the driver-specific vendor code passed through
// untranslated, and the 5-character SQLSTATE classification.
type Error struct {
	Message    string
	VendorCode int64
	SQLState   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("adbc: %s (vendor code %d, sqlstate %s)", e.Message, e.VendorCode, e.SQLState)
}

// errorFromAdbcError builds the translated error and then releases the
// native error struct. The release callback frees message memory, so all
// three fields are read before it runs.
func errorFromAdbcError(cerr *c_adbc_error_t) error {
	e := &Error{
		Message:    copyCString(unsafe.Pointer(cerr.Message)),
		VendorCode: int64(cerr.VendorCode),
		SQLState:   string(cerr.SqlState[:]),
	}
	releaseAdbcError(cerr)
	return e
}

// releaseAdbcError invokes the error's release callback if the driver set
// one. The callback runs at most once per populated error.
func releaseAdbcError(cerr *c_adbc_error_t) {
	if cerr.Release == 0 {
		return
	}
	release := cerr.Release
	cerr.Release = 0
	purego.SyscallN(release, uintptr(unsafe.Pointer(cerr)))
}

// Helpers

// validCText reports whether s can be handed to the driver manager as a
// NUL-terminated C string.
func validCText(s string) bool {
	return strings.IndexByte(s, 0) < 0
}

func copyCString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	// Determine length
	base := uintptr(p)
	n := 0
	for {
		b := *(*byte)(unsafe.Pointer(base + uintptr(n)))
		if b == 0 {
			break
		}
		n++
	}
	if n == 0 {
		return ""
	}
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = *(*byte)(unsafe.Pointer(base + uintptr(i)))
	}
	return string(buf)
}
