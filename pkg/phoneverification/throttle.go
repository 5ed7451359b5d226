package phoneverification

import "time"

// Tiered backoff thresholds: the minimum wait since the last send before
// attempt N+1 may be dispatched.
var resendThresholds = map[int]time.Duration{
	1: 60 * time.Second,
	2: 600 * time.Second,
	3: 3600 * time.Second,
}

// maxResendAttempts is the last attempt for which a timed retry exists; past
// it the throttle denies permanently until an administrative reset.
const maxResendAttempts = 3

// throttleResolution is the granularity at which elapsed time is measured.
const throttleResolution = 100 * time.Millisecond

// SendDecision is the outcome of consulting the resend throttle.
type SendDecision struct {
	Allowed bool
	// Exhausted is set when the attempt budget is used up and no amount of
	// waiting will allow another send.
	Exhausted bool
	// RetryAfter is the remaining wait when the send is throttled but will
	// become allowed again.
	RetryAfter time.Duration
}

// MaySend decides whether another confirmation message may be dispatched given
// the number of sends so far and the time elapsed since the last one. The
// first attempt is always allowed; attempts past maxResendAttempts are never
// allowed. The throttle boundary is exclusive: a send is denied only while the
// elapsed time is strictly below the tier threshold.
//
// Pure decision function; recording the attempt is the caller's job.
func MaySend(attemptCount int, elapsed time.Duration) SendDecision {
	if attemptCount <= 0 {
		return SendDecision{Allowed: true}
	}
	if attemptCount > maxResendAttempts {
		return SendDecision{Exhausted: true}
	}

	threshold := resendThresholds[attemptCount]
	elapsed = elapsed.Round(throttleResolution)
	if elapsed < threshold {
		return SendDecision{RetryAfter: threshold - elapsed}
	}
	return SendDecision{Allowed: true}
}
