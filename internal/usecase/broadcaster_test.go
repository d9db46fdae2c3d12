package usecase

import (
	"testing"

	"StockScout/internal/domain/models"
)

func snapN(n int) models.ProgressSnapshot {
	return models.ProgressSnapshot{TaskID: 1, ProcessedCount: n}
}

func TestBroadcasterNoReplayForLateSubscribers(t *testing.T) {
	b := NewProgressBroadcaster()
	b.Publish(snapN(1))
	b.Publish(snapN(2))

	ch, cancel := b.Subscribe()
	defer cancel()

	select {
	case s := <-ch:
		t.Fatalf("late subscriber must not replay old events, got %+v", s)
	default:
	}

	b.Publish(snapN(3))
	s := <-ch
	if s.ProcessedCount != 3 {
		t.Fatalf("expected only the post-subscribe event, got %d", s.ProcessedCount)
	}
}

func TestBroadcasterFanOut(t *testing.T) {
	b := NewProgressBroadcaster()
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	b.Publish(snapN(7))
	if s := <-ch1; s.ProcessedCount != 7 {
		t.Fatalf("subscriber 1 got %d", s.ProcessedCount)
	}
	if s := <-ch2; s.ProcessedCount != 7 {
		t.Fatalf("subscriber 2 got %d", s.ProcessedCount)
	}
}

func TestBroadcasterDropOldestWhenFull(t *testing.T) {
	b := NewProgressBroadcaster()
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 1; i <= subscriberBuffer+5; i++ {
		b.Publish(snapN(i))
	}

	// the latest snapshot must be present; the earliest dropped
	var last int
	for {
		select {
		case s := <-ch:
			last = s.ProcessedCount
			continue
		default:
		}
		break
	}
	if last != subscriberBuffer+5 {
		t.Fatalf("expected newest snapshot %d retained, got %d", subscriberBuffer+5, last)
	}
}

func TestBroadcasterCancelIdempotent(t *testing.T) {
	b := NewProgressBroadcaster()
	ch, cancel := b.Subscribe()
	cancel()
	cancel() // must not panic on double close

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after cancel")
	}
	b.Publish(snapN(1)) // must not panic on removed subscriber
}

func TestBroadcasterClose(t *testing.T) {
	b := NewProgressBroadcaster()
	ch, _ := b.Subscribe()
	b.Close()

	if _, ok := <-ch; ok {
		t.Fatal("expected subscriber channel closed")
	}

	late, cancel := b.Subscribe()
	defer cancel()
	if _, ok := <-late; ok {
		t.Fatal("expected pre-closed channel for post-close subscriber")
	}
	b.Publish(snapN(1)) // no-op after close
}
