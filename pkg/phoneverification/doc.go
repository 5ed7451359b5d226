// Package phoneverification implements phone-number ownership verification:
// issuing short confirmation codes, delivering them out-of-band by SMS,
// tracking confirmation state, and throttling repeated sends.
//
// # Overview
//
// The package provides:
//   - Confirmation token generation with store-wide uniqueness
//   - A tiered resend throttle (60s / 600s / 3600s, then a hard stop)
//   - Token expiry and provisional-access grace window arithmetic
//   - The confirmation state machine (request, confirm, skip, re-verify)
//   - Repository pattern for PostgreSQL and file storage
//
// # Basic Usage
//
//	repo, err := phoneverification.NewAccountRepository("postgres", phoneverification.RepositoryConfig{Pool: pool})
//	service := phoneverification.NewConfirmationService(
//		repo,
//		dispatcher,
//		phoneverification.WithConfirmationWindow(15*time.Minute),
//	)
//
//	// Send a code
//	err = service.RequestToken(ctx, account)
//
//	// Later, confirm with the code the user received
//	account, err = service.ConfirmByToken(ctx, submittedCode)
//
// # Resend Throttling
//
// RequestToken consults the resend throttle before dispatching. The second
// send requires 60s since the first, the third 600s, the fourth 3600s; after
// that every request fails with ErrTooManyAttempts until the attempt count is
// reset administratively. Timed denials return *RetryAfterError carrying the
// remaining wait:
//
//	err := service.RequestToken(ctx, account)
//	var retry *phoneverification.RetryAfterError
//	if errors.As(err, &retry) {
//		// tell the user to try again in retry.RetryAfter
//	}
//
// # Grace Period
//
// The confirmation window doubles as a provisional-access grace period:
// IsActiveForAuthentication lets an unconfirmed account authenticate while a
// recently issued token is still within the window. The default window is
// zero, which grants no grace period at all.
//
// # Errors
//
// All failures are recoverable, caller-facing sentinel errors
// (ErrNoPhoneNumber, ErrAlreadyConfirmed, ErrTooManyAttempts,
// ErrTokenNotFound, ErrTokenExpired, ErrAccountNotFound) plus the typed
// *RetryAfterError. Transport failures from the dispatcher pass through
// unchanged.
package phoneverification
