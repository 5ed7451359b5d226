package phoneverification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithinWindow(t *testing.T) {
	now := time.Now().UTC()
	window := 15 * time.Minute

	t.Run("NilSentAt", func(t *testing.T) {
		assert.False(t, WithinWindow(nil, window, now))
	})

	t.Run("Inside", func(t *testing.T) {
		sentAt := now.Add(-5 * time.Minute)
		assert.True(t, WithinWindow(&sentAt, window, now))
	})

	t.Run("JustIssued", func(t *testing.T) {
		sentAt := now
		assert.True(t, WithinWindow(&sentAt, window, now))
	})

	t.Run("ExactlyAtWindow", func(t *testing.T) {
		// The expiry boundary is inclusive: elapsed == window means expired.
		sentAt := now.Add(-window)
		assert.False(t, WithinWindow(&sentAt, window, now))
	})

	t.Run("PastWindow", func(t *testing.T) {
		sentAt := now.Add(-window - time.Second)
		assert.False(t, WithinWindow(&sentAt, window, now))
	})
}

func TestWithinWindow_ZeroWindow(t *testing.T) {
	now := time.Now().UTC()

	// A zero-length window expires everything, a token issued right now included.
	for _, sentAt := range []time.Time{now, now.Add(-time.Nanosecond), now.Add(-time.Hour), now.Add(time.Minute)} {
		sentAt := sentAt
		assert.False(t, WithinWindow(&sentAt, 0, now))
	}
}

func TestWithinWindow_NegativeWindow(t *testing.T) {
	now := time.Now().UTC()
	sentAt := now
	assert.False(t, WithinWindow(&sentAt, -time.Minute, now))
}
