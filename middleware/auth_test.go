package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldTouchLastLoginThrottles(t *testing.T) {
	now := time.Now().UTC()

	assert.True(t, shouldTouchLastLogin(9001, now))

	// A second request inside the interval is suppressed.
	assert.False(t, shouldTouchLastLogin(9001, now))
	assert.False(t, shouldTouchLastLogin(9001, now.Add(lastLoginTouchInterval-time.Second)))

	// Once the interval elapses the write fires again.
	assert.True(t, shouldTouchLastLogin(9001, now.Add(lastLoginTouchInterval)))

	// Other users are tracked independently.
	assert.True(t, shouldTouchLastLogin(9002, now))
}
