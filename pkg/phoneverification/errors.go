package phoneverification

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoPhoneNumber is returned when an account has no phone number on file
	ErrNoPhoneNumber = errors.New("no phone number on file")

	// ErrAlreadyConfirmed is returned when the phone number is already verified
	ErrAlreadyConfirmed = errors.New("phone number already confirmed")

	// ErrTooManyAttempts is returned when the send-attempt budget is exhausted;
	// clearing it requires an administrative reset, not a timeout
	ErrTooManyAttempts = errors.New("too many confirmation attempts")

	// ErrTokenNotFound is returned when no account holds the submitted token
	ErrTokenNotFound = errors.New("confirmation token not found")

	// ErrTokenExpired is returned when the submitted token is outside its validity window
	ErrTokenExpired = errors.New("confirmation token has expired")

	// ErrAccountNotFound is returned when an identifier lookup has no match
	ErrAccountNotFound = errors.New("account not found")
)

// RetryAfterError is returned when the resend throttle denies a send that will
// become allowed again after the reported wait. Match with errors.As.
type RetryAfterError struct {
	RetryAfter time.Duration
}

func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("confirmation message already sent, retry in %.1fs", e.RetryAfter.Seconds())
}
