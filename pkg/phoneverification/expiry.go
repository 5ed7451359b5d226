package phoneverification

import "time"

// WithinWindow reports whether a token issued at sentAt is still valid at now
// for a validity window of the given length. The boundary is inclusive on the
// expiry side: once the elapsed time equals the window the token is expired.
//
// A zero (or negative) window always reports false, so with the default
// configuration tokens are expired the moment they are issued and no grace
// period is granted until one is configured explicitly.
func WithinWindow(sentAt *time.Time, window time.Duration, now time.Time) bool {
	if sentAt == nil || window <= 0 {
		return false
	}
	return now.Sub(*sentAt) < window
}
