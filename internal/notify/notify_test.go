package notify

import (
	"testing"
	"time"

	"github.com/and161185/shopfront/internal/model"
)

func TestChannel_PostAndExpire(t *testing.T) {
	t.Parallel()
	ch := New(30 * time.Millisecond)

	if _, ok := ch.Current(); ok {
		t.Fatalf("fresh channel must be empty")
	}

	ch.Post("added", model.SeveritySuccess)
	n, ok := ch.Current()
	if !ok || n.Message != "added" || n.Severity != model.SeveritySuccess {
		t.Fatalf("unexpected notification: %+v ok=%v", n, ok)
	}

	time.Sleep(100 * time.Millisecond)
	if _, ok := ch.Current(); ok {
		t.Fatalf("notification must auto-expire")
	}
}

func TestChannel_NewPostReplacesAndOutlivesOldTimer(t *testing.T) {
	t.Parallel()
	ch := New(60 * time.Millisecond)

	ch.Post("first", model.SeverityError)
	time.Sleep(40 * time.Millisecond)
	ch.Post("second", model.SeveritySuccess)

	// Past the first notification's expiry: its timer must not have
	// cleared the newer one.
	time.Sleep(40 * time.Millisecond)
	n, ok := ch.Current()
	if !ok || n.Message != "second" {
		t.Fatalf("older timer cleared newer notification: %+v ok=%v", n, ok)
	}

	// The second one still expires on its own clock.
	time.Sleep(60 * time.Millisecond)
	if _, ok := ch.Current(); ok {
		t.Fatalf("second notification must expire")
	}
}

func TestChannel_Clear(t *testing.T) {
	t.Parallel()
	ch := New(time.Hour)

	ch.Post("msg", model.SeveritySuccess)
	ch.Clear()
	if _, ok := ch.Current(); ok {
		t.Fatalf("Clear must remove the notification")
	}

	// Posting after Clear works and is not affected by the old timer.
	ch.Post("again", model.SeverityError)
	if n, ok := ch.Current(); !ok || n.Message != "again" {
		t.Fatalf("post after clear: %+v ok=%v", n, ok)
	}
}

func TestNew_DefaultTTL(t *testing.T) {
	t.Parallel()
	ch := New(0)
	if ch.ttl != DefaultTTL {
		t.Fatalf("ttl=%v, want %v", ch.ttl, DefaultTTL)
	}
}
