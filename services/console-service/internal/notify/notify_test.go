package notify

import (
	"context"
	"testing"
)

func TestFeed_NewestFirstAndCapped(t *testing.T) {
	feed := NewFeed(3)
	ctx := context.Background()

	feed.Success(ctx, "one")
	feed.Failure(ctx, "two")
	feed.Success(ctx, "three")
	feed.Success(ctx, "four")

	events := feed.Recent(0)
	if len(events) != 3 {
		t.Fatalf("expected feed capped at 3, got %d", len(events))
	}
	if events[0].Message != "four" || events[2].Message != "two" {
		t.Fatalf("expected newest first, got %+v", events)
	}
	if events[1].Level != LevelSuccess {
		t.Fatalf("unexpected level %q", events[1].Level)
	}
}

func TestFeed_Limit(t *testing.T) {
	feed := NewFeed(10)
	ctx := context.Background()
	feed.Success(ctx, "a")
	feed.Success(ctx, "b")

	events := feed.Recent(1)
	if len(events) != 1 || events[0].Message != "b" {
		t.Fatalf("expected only the newest event, got %+v", events)
	}
}

type countingNotifier struct {
	successes int
	failures  int
}

func (c *countingNotifier) Success(context.Context, string) { c.successes++ }
func (c *countingNotifier) Failure(context.Context, string) { c.failures++ }

func TestMulti_FansOut(t *testing.T) {
	a := &countingNotifier{}
	b := &countingNotifier{}
	m := Multi{a, b}

	m.Success(context.Background(), "ok")
	m.Failure(context.Background(), "bad")

	if a.successes != 1 || b.successes != 1 || a.failures != 1 || b.failures != 1 {
		t.Fatalf("expected every sink to see every event: %+v %+v", a, b)
	}
}
