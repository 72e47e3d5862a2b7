// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"

	"github.com/talkchat/talkchat/lib/testutil"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNow(t *testing.T) {
	c := Fake(epoch)
	if !c.Now().Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", c.Now(), epoch)
	}
	c.Advance(90 * time.Second)
	if want := epoch.Add(90 * time.Second); !c.Now().Equal(want) {
		t.Fatalf("Now() = %v, want %v", c.Now(), want)
	}
}

func TestFakeAfter(t *testing.T) {
	t.Run("non-positive duration fires immediately", func(t *testing.T) {
		c := Fake(epoch)
		testutil.RequireReceive(t, c.After(0), time.Second, "After(0)")
		if c.PendingCount() != 0 {
			t.Fatalf("expected no pending waiters, got %d", c.PendingCount())
		}
	})

	t.Run("fires only after deadline", func(t *testing.T) {
		c := Fake(epoch)
		channel := c.After(time.Second)

		c.Advance(500 * time.Millisecond)
		select {
		case <-channel:
			t.Fatal("fired before deadline")
		default:
		}

		c.Advance(500 * time.Millisecond)
		fired := testutil.RequireReceive(t, channel, time.Second, "After(1s)")
		if !fired.Equal(epoch.Add(time.Second)) {
			t.Fatalf("fired at %v", fired)
		}
	})

	t.Run("WaitForTimers observes a goroutine waiter", func(t *testing.T) {
		c := Fake(epoch)
		done := make(chan struct{})
		go func() {
			<-c.After(time.Minute)
			close(done)
		}()
		c.WaitForTimers(1)
		c.Advance(time.Minute)
		testutil.RequireClosed(t, done, time.Second, "goroutine waiter")
	})
}
