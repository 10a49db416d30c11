package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestDirectory(cooldown, ttl time.Duration) (*SessionDirectory[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)}
	directory := NewSessionDirectory[string](cooldown, ttl)
	directory.Now = clock.Now
	return directory, clock
}

func TestSessionDirectoryOneSessionPerUser(t *testing.T) {
	directory, _ := newTestDirectory(0, 0)

	session, err := directory.Start("alice", func() string { return "first" })
	require.NoError(t, err)
	assert.Equal(t, "first", session)

	_, err = directory.Start("alice", func() string { return "second" })
	assert.ErrorIs(t, err, ErrSessionActive)

	current, exists := directory.Get("alice")
	require.True(t, exists)
	assert.Equal(t, "first", current, "rejected start must not replace the session")

	_, err = directory.Start("bob", func() string { return "bob's" })
	assert.NoError(t, err)
	assert.Equal(t, 2, directory.Active())
}

func TestSessionDirectoryCooldown(t *testing.T) {
	directory, clock := newTestDirectory(10*time.Second, 0)

	_, err := directory.Start("alice", func() string { return "one" })
	require.NoError(t, err)
	assert.True(t, directory.End("alice"))
	assert.False(t, directory.End("alice"))

	clock.Advance(4 * time.Second)
	_, err = directory.Start("alice", func() string { return "two" })
	assert.ErrorIs(t, err, ErrCooldownActive)
	assert.Equal(t, 6*time.Second, directory.CooldownRemaining("alice"))

	clock.Advance(6 * time.Second)
	assert.Equal(t, time.Duration(0), directory.CooldownRemaining("alice"))
	_, err = directory.Start("alice", func() string { return "two" })
	assert.NoError(t, err)
}

func TestSessionDirectoryCreateNotCalledOnRejection(t *testing.T) {
	directory, _ := newTestDirectory(time.Minute, 0)
	_, err := directory.Start("alice", func() string { return "one" })
	require.NoError(t, err)
	directory.End("alice")

	called := false
	_, err = directory.Start("alice", func() string {
		called = true
		return "two"
	})
	assert.ErrorIs(t, err, ErrCooldownActive)
	assert.False(t, called)
}

func TestSessionDirectoryCleanupExpired(t *testing.T) {
	directory, clock := newTestDirectory(10*time.Second, 15*time.Minute)

	_, err := directory.Start("idle", func() string { return "idle-session" })
	require.NoError(t, err)
	_, err = directory.Start("busy", func() string { return "busy-session" })
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	directory.Touch("busy")
	clock.Advance(6 * time.Minute)

	expired := directory.CleanupExpired()
	require.Len(t, expired, 1)
	assert.Equal(t, "idle", expired[0].UserID)
	assert.Equal(t, "idle-session", expired[0].Session)

	_, exists := directory.Get("idle")
	assert.False(t, exists)
	_, exists = directory.Get("busy")
	assert.True(t, exists)

	// Cooldown records older than the cooldown are pruned, so a new start works
	_, err = directory.Start("idle", func() string { return "again" })
	assert.NoError(t, err)
}

func TestSessionDirectoryZeroTTLNeverExpires(t *testing.T) {
	directory, clock := newTestDirectory(0, 0)
	_, err := directory.Start("alice", func() string { return "forever" })
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	assert.Empty(t, directory.CleanupExpired())
	assert.Equal(t, 1, directory.Active())
}
