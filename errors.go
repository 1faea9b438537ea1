package goql

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"net"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

/*
Error codes. You probably shouldn't use this directly; instead, use the `Err`
variables with `errors.Is`.
*/
type ErrCode string

const (
	ErrCodeUnknown      ErrCode = ""
	ErrCodeSchema       ErrCode = "ErrSchema"
	ErrCodeConnection   ErrCode = "ErrConnection"
	ErrCodeDatabase     ErrCode = "ErrDatabase"
	ErrCodeDecode       ErrCode = "ErrDecode"
	ErrCodeNoRows       ErrCode = "ErrNoRows"
	ErrCodeBusy         ErrCode = "ErrBusy"
	ErrCodeInvalidInput ErrCode = "ErrInvalidInput"
)

/*
Use blank error variables to detect error kinds:

	if errors.Is(err, goql.ErrNoRows) {
		// Handle specific error.
	}

Note that errors returned by Goql can't be compared via `==` because they may
include additional details about the circumstances. When compared by
`errors.Is`, they compare `.Cause` and fall back on `.Code`.
*/
var (
	ErrSchema       Err = Err{Code: ErrCodeSchema, Cause: errors.New(`query shape disagrees with the declared schema`)}
	ErrConnection   Err = Err{Code: ErrCodeConnection, Cause: errors.New(`database session failure`)}
	ErrDatabase     Err = Err{Code: ErrCodeDatabase, Cause: errors.New(`statement rejected by the database`)}
	ErrDecode       Err = Err{Code: ErrCodeDecode, Cause: errors.New(`row value violates its declared type`)}
	ErrNoRows       Err = Err{Code: ErrCodeNoRows, Cause: sql.ErrNoRows}
	ErrBusy         Err = Err{Code: ErrCodeBusy, Cause: errors.New(`another statement is in flight on this connection`)}
	ErrInvalidInput Err = Err{Code: ErrCodeInvalidInput, Cause: errors.New(`invalid input`)}
)

// Found in the cause chain of an `ErrDecode` when a NOT NULL slot received NULL.
var ErrNullValue = errors.New(`null value for non-nullable column`)

// Describes a Goql error.
type Err struct {
	Code  ErrCode
	While string
	Cause error

	// SQLSTATE reported by the driver, when available.
	SqlState string
}

// Implement `error`.
func (self Err) Error() string {
	if self == (Err{}) {
		return ""
	}
	msg := `SQL error`
	if self.Code != ErrCodeUnknown {
		msg += fmt.Sprintf(` %s`, self.Code)
	}
	if self.SqlState != "" {
		msg += fmt.Sprintf(` [%s]`, self.SqlState)
	}
	if self.While != "" {
		msg += fmt.Sprintf(` while %v`, self.While)
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	if self.Cause != nil && errors.Is(self.Cause, other) {
		return true
	}
	err, ok := other.(Err)
	return ok && err.Code == self.Code
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error {
	return self.Cause
}

func (self Err) while(while string) Err {
	self.While = while
	return self
}

func (self Err) because(cause error) Err {
	self.Cause = cause
	return self
}

func (self Err) becausef(format string, args ...interface{}) Err {
	self.Cause = fmt.Errorf(format, args...)
	return self
}

/*
Sorts a driver failure into `ErrConnection` or `ErrDatabase`. The driver's own
error is kept verbatim as the cause.
*/
func driverErr(while string, err error) error {
	if err == nil {
		return nil
	}

	var out Err
	if isConnectionFailure(err) {
		out = ErrConnection.while(while).because(errors.WithStack(err))
	} else {
		out = ErrDatabase.while(while).because(errors.WithStack(err))
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		out.SqlState = string(pqErr.Code)
		// Class 08 is "connection exception".
		if pqErr.Code.Class() == "08" {
			out.Code = ErrCodeConnection
		}
	}
	return out
}

/*
lib/pq hands back socket failures as they come from the network layer, and a
truncated stream as `io.ErrUnexpectedEOF`. Both mean the session is gone.
*/
func isConnectionFailure(err error) bool {
	var netErr net.Error
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, pq.ErrSSLNotSupported) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, &netErr)
}
