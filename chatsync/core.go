// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/talkchat/talkchat/lib/clock"
	"github.com/talkchat/talkchat/lib/tokenstore"
	"github.com/talkchat/talkchat/messaging"
)

// DefaultCreateRetryDelay is the pause before CreateChat re-reads the
// chat list when the new chat is not in it yet.
const DefaultCreateRetryDelay = 500 * time.Millisecond

// Config holds the collaborators of a Core.
type Config struct {
	// Gateway is the backend. Required.
	Gateway Gateway
	// Tokens persists the bearer token. Required. It must be the same
	// store the gateway reads its token from.
	Tokens tokenstore.Store
	// Notifier receives user-facing notices. If nil, notices are dropped.
	Notifier Notifier
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Clock times the CreateChat retry. If nil, the real clock is used.
	Clock clock.Clock
	// CreateRetryDelay overrides DefaultCreateRetryDelay.
	CreateRetryDelay time.Duration
}

// Core is the chat session synchronization core. Safe for concurrent
// use; see the package documentation for the interleaving guarantees.
type Core struct {
	gateway          Gateway
	tokens           tokenstore.Store
	notifier         Notifier
	logger           *slog.Logger
	clock            clock.Clock
	createRetryDelay time.Duration

	// tokenMu serializes token writes against the teardown that clears
	// the token, so a teardown never erases a token stored after it.
	tokenMu sync.Mutex

	mu            sync.Mutex
	state         State
	epoch         uint64
	sessionCtx    context.Context
	cancelSession context.CancelFunc
	session       session
}

// New returns a Core in the unauthenticated state. Call Start to pick
// up a stored token.
func New(config Config) (*Core, error) {
	if config.Gateway == nil {
		return nil, fmt.Errorf("chatsync: Gateway is required")
	}
	if config.Tokens == nil {
		return nil, fmt.Errorf("chatsync: Tokens is required")
	}

	notifier := config.Notifier
	if notifier == nil {
		notifier = discardNotifier{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := config.Clock
	if c == nil {
		c = clock.Real()
	}
	retryDelay := config.CreateRetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultCreateRetryDelay
	}

	sessionCtx, cancelSession := context.WithCancel(context.Background())
	return &Core{
		gateway:          config.Gateway,
		tokens:           config.Tokens,
		notifier:         notifier,
		logger:           logger,
		clock:            c,
		createRetryDelay: retryDelay,
		sessionCtx:       sessionCtx,
		cancelSession:    cancelSession,
	}, nil
}

// Close aborts every in-flight request. The stored token is kept.
func (c *Core) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelSession()
}

// operation tracks one call into the backend: the context it runs
// under, which is canceled at teardown, and the epoch it started in.
type operation struct {
	parent context.Context
	ctx    context.Context
	epoch  uint64
	stop   func()
}

func (op *operation) done() { op.stop() }

// begin starts an operation. With requireAuth it fails with
// ErrNotAuthenticated unless the session is authenticated.
func (c *Core) begin(ctx context.Context, requireAuth bool) (*operation, error) {
	c.mu.Lock()
	if requireAuth && c.state != StateAuthenticated {
		c.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	sessionCtx, epoch := c.sessionCtx, c.epoch
	c.mu.Unlock()

	opCtx, cancel := context.WithCancel(ctx)
	stopAfter := context.AfterFunc(sessionCtx, cancel)
	return &operation{
		parent: ctx,
		ctx:    opCtx,
		epoch:  epoch,
		stop: func() {
			stopAfter()
			cancel()
		},
	}, nil
}

// beginWrite is begin for user-initiated writes: a missing session is
// reported through the notifier.
func (c *Core) beginWrite(ctx context.Context) (*operation, error) {
	op, err := c.begin(ctx, true)
	if err != nil {
		c.notifier.Notify(KindError, Message(err))
		return nil, err
	}
	return op, nil
}

func (c *Core) current(op *operation) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return op.epoch == c.epoch
}

// resetLocked discards all per-identity state, cancels in-flight
// requests and starts a new epoch. Caller holds c.mu.
func (c *Core) resetLocked() {
	c.epoch++
	c.cancelSession()
	c.sessionCtx, c.cancelSession = context.WithCancel(context.Background())
	c.session = session{
		searchGeneration:  c.session.searchGeneration + 1,
		messageGeneration: c.session.messageGeneration + 1,
	}
	c.state = StateUnauthenticated
}

// endSession tears the session down if it is still the one that began
// in epoch, clears the stored token and asks for sign-in. Reports
// whether it did anything.
func (c *Core) endSession(ctx context.Context, epoch uint64, reason string) bool {
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return false
	}
	c.resetLocked()
	resetEpoch := c.epoch
	c.mu.Unlock()

	c.clearTokenIfEpoch(context.WithoutCancel(ctx), resetEpoch)
	c.logger.Warn("session ended", "reason", reason)
	c.notifier.Notify(KindAuthRequired, "sign in to continue")
	return true
}

// clearTokenIfEpoch clears the stored token unless a newer session has
// stored its own since epoch began.
func (c *Core) clearTokenIfEpoch(ctx context.Context, epoch uint64) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	c.mu.Lock()
	stale := epoch != c.epoch
	c.mu.Unlock()
	if stale {
		return
	}
	if err := c.tokens.ClearToken(ctx); err != nil {
		c.logger.Error("clearing stored token failed", "error", err)
	}
}

// rejectSession handles a 401 from any call: the session is over.
func (c *Core) rejectSession(op *operation, cause error) error {
	if c.endSession(op.parent, op.epoch, "token rejected by backend") {
		c.notifier.Notify(KindError, Message(ErrSessionRejected))
	}
	return fmt.Errorf("%w: %w", ErrSessionRejected, cause)
}

// fail reports a failed write through the notifier. Nothing is applied.
func (c *Core) fail(op *operation, action string, err error) error {
	if messaging.IsUnauthorized(err) {
		return c.rejectSession(op, err)
	}
	if messaging.IsCanceled(err) {
		return fmt.Errorf("chatsync: %s: %w", action, err)
	}
	c.logger.Warn("operation failed", "action", action, "error", err)
	c.notifier.Notify(KindError, Message(err))
	return fmt.Errorf("chatsync: %s: %w", action, err)
}

// refreshSlice fetches one directory list and stores it with apply,
// unless the session changed while the request was in flight. A failed
// fetch stores an empty list and returns the error for diagnostics; it
// is never reported through the notifier.
func refreshSlice[T any](c *Core, ctx context.Context, list string, fetch func(context.Context) ([]T, error), apply func(*session, []T)) error {
	op, err := c.begin(ctx, true)
	if err != nil {
		return err
	}
	defer op.done()

	items, err := fetch(op.ctx)
	if err != nil {
		if messaging.IsUnauthorized(err) {
			return c.rejectSession(op, err)
		}
		if messaging.IsCanceled(err) {
			return err
		}
		c.logger.Warn("refresh failed, showing empty list", "list", list, "error", err)
		items = nil
		err = fmt.Errorf("chatsync: refreshing %s: %w", list, err)
	}

	c.mu.Lock()
	if op.epoch == c.epoch {
		apply(&c.session, items)
	}
	c.mu.Unlock()
	return err
}

// State returns the session state.
func (c *Core) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// NeedsAuthentication reports whether the sign-in flow should be shown.
func (c *Core) NeedsAuthentication() bool {
	return c.State() == StateUnauthenticated
}

// Identity returns a copy of the signed-in identity, or nil.
func (c *Core) Identity() *messaging.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.identity == nil {
		return nil
	}
	identity := *c.session.identity
	return &identity
}

// Snapshot returns a consistent copy of all state.
func (c *Core) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.snapshot(c.state)
}

// Chats returns the last fetched chat list.
func (c *Core) Chats() []messaging.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.session.chats)
}

// Contacts returns the last fetched contact list.
func (c *Core) Contacts() []messaging.Contact {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.session.contacts)
}

// AdminUsers returns the last fetched full user list.
func (c *Core) AdminUsers() []messaging.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.session.adminUsers)
}

// SearchResults returns the results of the latest search.
func (c *Core) SearchResults() []messaging.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.session.searchResults)
}

// SelectedChat returns a copy of the selected chat, or nil.
func (c *Core) SelectedChat() *messaging.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.selected == nil {
		return nil
	}
	selected := *c.session.selected
	return &selected
}

// Messages returns the messages of the selected chat in server order.
func (c *Core) Messages() []messaging.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.session.messages)
}
