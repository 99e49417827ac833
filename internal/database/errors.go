package database

import "errors"

// ErrClosed is returned to callers waiting on a connect that was overtaken by
// Close.
var ErrClosed = errors.New("database: manager closed during connect")

// ConnectionError reports an I/O failure while establishing the connection.
// The in-flight attempt has already been cleared when it is returned, so the
// next GetConnection dials again.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "database: connect: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
