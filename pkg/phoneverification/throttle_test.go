package phoneverification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMaySend_FirstAttemptAlwaysAllowed(t *testing.T) {
	decision := MaySend(0, 0)
	assert.True(t, decision.Allowed)
	assert.False(t, decision.Exhausted)
	assert.Zero(t, decision.RetryAfter)
}

func TestMaySend_TieredThresholds(t *testing.T) {
	tests := []struct {
		name        string
		attempts    int
		elapsed     time.Duration
		wantAllowed bool
		wantRetry   time.Duration
	}{
		{"SecondSendTooSoon", 1, 30 * time.Second, false, 30 * time.Second},
		{"SecondSendJustUnder", 1, 59900 * time.Millisecond, false, 100 * time.Millisecond},
		{"SecondSendAtThreshold", 1, 60 * time.Second, true, 0},
		{"SecondSendAfterThreshold", 1, 2 * time.Minute, true, 0},
		{"ThirdSendTooSoon", 2, 60 * time.Second, false, 540 * time.Second},
		{"ThirdSendAtThreshold", 2, 600 * time.Second, true, 0},
		{"FourthSendTooSoon", 3, 600 * time.Second, false, 3000 * time.Second},
		{"FourthSendAtThreshold", 3, 3600 * time.Second, true, 0},
		{"FourthSendAfterThreshold", 3, 2 * time.Hour, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := MaySend(tt.attempts, tt.elapsed)
			assert.Equal(t, tt.wantAllowed, decision.Allowed)
			assert.False(t, decision.Exhausted)
			assert.Equal(t, tt.wantRetry, decision.RetryAfter)
		})
	}
}

func TestMaySend_TenthSecondResolution(t *testing.T) {
	// Sub-resolution remainders round away before comparison, so an elapsed
	// time within 50ms of the threshold counts as having reached it.
	decision := MaySend(1, 60*time.Second-49*time.Millisecond)
	assert.True(t, decision.Allowed)

	decision = MaySend(1, 60*time.Second-51*time.Millisecond)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 100*time.Millisecond, decision.RetryAfter)
}

func TestMaySend_ExhaustedBudget(t *testing.T) {
	for _, elapsed := range []time.Duration{0, time.Hour, 24 * time.Hour, 365 * 24 * time.Hour} {
		decision := MaySend(4, elapsed)
		assert.False(t, decision.Allowed)
		assert.True(t, decision.Exhausted)
		assert.Zero(t, decision.RetryAfter, "exhausted denial carries no retry-after")
	}

	decision := MaySend(100, time.Hour)
	assert.True(t, decision.Exhausted)
}
