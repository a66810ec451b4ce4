// Package notify holds at most one transient user-facing message with
// auto-expiry.
package notify

import (
	"sync"
	"time"

	"github.com/and161185/shopfront/internal/model"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 1500 * time.Millisecond

// Channel is a single-slot notification holder. Posting replaces the
// current notification and restarts the dismissal clock; an earlier
// notification's expiry can never clear a later one.
type Channel struct {
	mu    sync.Mutex
	ttl   time.Duration
	cur   *model.Notification
	timer *time.Timer
	gen   uint64
}

// New creates a channel; ttl <= 0 selects DefaultTTL.
func New(ttl time.Duration) *Channel {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Channel{ttl: ttl}
}

// Post replaces the current notification and schedules its dismissal.
func (ch *Channel) Post(message string, severity model.Severity) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.timer != nil {
		ch.timer.Stop()
	}
	// The generation guards against a timer that already fired but has
	// not yet taken the lock: it must not clear a newer notification.
	ch.gen++
	gen := ch.gen
	ch.cur = &model.Notification{Message: message, Severity: severity}
	ch.timer = time.AfterFunc(ch.ttl, func() { ch.expire(gen) })
}

func (ch *Channel) expire(gen uint64) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if gen != ch.gen {
		return
	}
	ch.cur, ch.timer = nil, nil
}

// Clear removes the current notification and cancels the pending timer.
func (ch *Channel) Clear() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.timer != nil {
		ch.timer.Stop()
	}
	ch.gen++
	ch.cur, ch.timer = nil, nil
}

// Current returns the live notification, if any.
func (ch *Channel) Current() (model.Notification, bool) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.cur == nil {
		return model.Notification{}, false
	}
	return *ch.cur, true
}
