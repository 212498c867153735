package synology

import (
	"errors"
	"fmt"
)

// Error is a protocol-level rejection from the Synology API.
//
// Code carries the remote error code verbatim for diagnostics. The error
// unwraps to one of the provider taxonomy sentinels so callers can
// classify it without knowing Synology codes.
type Error struct {
	// Op is the operation that failed: "login", "list" or "list_share".
	Op string

	// Code is the Synology API error code, or 0 for transport failures.
	Code int

	kind  error // taxonomy sentinel (provider.Err*)
	cause error // underlying transport error, if any
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("synology: %s: %v", e.Op, e.cause)
	}
	if msg, ok := errorText[e.Code]; ok {
		return fmt.Sprintf("synology: %s failed: %s (code %d)", e.Op, msg, e.Code)
	}
	return fmt.Sprintf("synology: %s failed (code %d)", e.Op, e.Code)
}

// Unwrap exposes both the taxonomy sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// errorText maps the common SYNO.API.Auth and SYNO.FileStation codes to
// human-readable messages. Unknown codes still surface numerically.
var errorText = map[int]string{
	100: "unknown error",
	101: "invalid parameter",
	102: "API does not exist",
	103: "method does not exist",
	105: "insufficient user privilege",
	106: "session timeout",
	107: "session interrupted by duplicate login",
	119: "invalid session id",
	400: "invalid account or password",
	401: "account disabled",
	402: "permission denied",
	403: "one-time password required",
	404: "one-time password authentication failed",
	407: "IP address blocked",
	408: "no such file or directory",
	409: "filesystem error",
}
