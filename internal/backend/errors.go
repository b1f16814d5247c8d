package backend

import (
	"errors"
	"fmt"
)

// Failure classes surfaced to the user. Call sites wrap these with the
// server-provided detail text so handlers can classify with errors.Is
// and still show the message.
var (
	ErrLoginFailed        = errors.New("login failed")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrOrderSubmission    = errors.New("order submission failed")
	ErrNotFound           = errors.New("not found")
)

// StatusError is a non-2xx reply from the shop API.
type StatusError struct {
	Status int
	Detail string // server-provided detail, may be empty
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("shop api: status %d", e.Status)
	}
	return fmt.Sprintf("shop api: status %d: %s", e.Status, e.Detail)
}

// Detail extracts the server message from err, or returns fallback
// when the server did not say anything useful (network error, empty
// body).
func Detail(err error, fallback string) string {
	var se *StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	return fallback
}
