package utils

import (
	"sync"
	"time"
)

// SessionDirectory tracks at most one live session per user and enforces a
// minimum interval between session starts.
type SessionDirectory[S any] struct {
	sessions  map[string]*sessionEntry[S]
	lastStart map[string]time.Time
	mutex     sync.Mutex
	cooldown  time.Duration
	ttl       time.Duration

	// Now is the clock; tests replace it.
	Now func() time.Time
}

type sessionEntry[S any] struct {
	session    S
	startedAt  time.Time
	lastActive time.Time
}

// ExpiredSession is a session removed for inactivity
type ExpiredSession[S any] struct {
	UserID     string
	Session    S
	StartedAt  time.Time
	LastActive time.Time
}

// NewSessionDirectory creates a directory. A zero ttl disables expiry.
func NewSessionDirectory[S any](cooldown, ttl time.Duration) *SessionDirectory[S] {
	return &SessionDirectory[S]{
		sessions:  make(map[string]*sessionEntry[S]),
		lastStart: make(map[string]time.Time),
		cooldown:  cooldown,
		ttl:       ttl,
		Now:       time.Now,
	}
}

// Start registers a new session built by create. It fails with
// ErrSessionActive if the user already has one and with ErrCooldownActive if
// their previous start was less than the cooldown ago.
func (sd *SessionDirectory[S]) Start(userID string, create func() S) (S, error) {
	sd.mutex.Lock()
	defer sd.mutex.Unlock()

	var zero S
	if _, exists := sd.sessions[userID]; exists {
		return zero, ErrSessionActive
	}

	now := sd.Now()
	if last, exists := sd.lastStart[userID]; exists && now.Sub(last) < sd.cooldown {
		return zero, ErrCooldownActive
	}

	session := create()
	sd.sessions[userID] = &sessionEntry[S]{
		session:    session,
		startedAt:  now,
		lastActive: now,
	}
	sd.lastStart[userID] = now
	return session, nil
}

// Get returns the user's live session
func (sd *SessionDirectory[S]) Get(userID string) (S, bool) {
	sd.mutex.Lock()
	defer sd.mutex.Unlock()

	entry, exists := sd.sessions[userID]
	if !exists {
		var zero S
		return zero, false
	}
	return entry.session, true
}

// Touch marks the user's session as active now, postponing its expiry
func (sd *SessionDirectory[S]) Touch(userID string) {
	sd.mutex.Lock()
	defer sd.mutex.Unlock()

	if entry, exists := sd.sessions[userID]; exists {
		entry.lastActive = sd.Now()
	}
}

// End removes the user's session. The cooldown record is kept.
func (sd *SessionDirectory[S]) End(userID string) bool {
	sd.mutex.Lock()
	defer sd.mutex.Unlock()

	if _, exists := sd.sessions[userID]; !exists {
		return false
	}
	delete(sd.sessions, userID)
	return true
}

// CooldownRemaining returns how long until the user may start again
func (sd *SessionDirectory[S]) CooldownRemaining(userID string) time.Duration {
	sd.mutex.Lock()
	defer sd.mutex.Unlock()

	last, exists := sd.lastStart[userID]
	if !exists {
		return 0
	}
	remaining := sd.cooldown - sd.Now().Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Active returns the number of live sessions
func (sd *SessionDirectory[S]) Active() int {
	sd.mutex.Lock()
	defer sd.mutex.Unlock()
	return len(sd.sessions)
}

// CleanupExpired removes sessions idle longer than the ttl and prunes
// cooldown records that no longer block anything.
func (sd *SessionDirectory[S]) CleanupExpired() []ExpiredSession[S] {
	sd.mutex.Lock()
	defer sd.mutex.Unlock()

	now := sd.Now()
	var expired []ExpiredSession[S]

	if sd.ttl > 0 {
		for userID, entry := range sd.sessions {
			if now.Sub(entry.lastActive) > sd.ttl {
				expired = append(expired, ExpiredSession[S]{
					UserID:     userID,
					Session:    entry.session,
					StartedAt:  entry.startedAt,
					LastActive: entry.lastActive,
				})
				delete(sd.sessions, userID)
			}
		}
	}

	for userID, last := range sd.lastStart {
		if now.Sub(last) >= sd.cooldown {
			delete(sd.lastStart, userID)
		}
	}

	return expired
}
