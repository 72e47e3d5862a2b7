// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that stamps records or waits between retries takes a [Clock]
// instead of calling time.Now or time.After. Production wiring uses
// [Real]; tests use [Fake], which stands still until [FakeClock.Advance]
// is called.
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go worker(c)
//	c.WaitForTimers(1)
//	c.Advance(time.Second)
package clock
