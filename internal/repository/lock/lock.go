// Package lock serializes writes per scope with a short-lived SET NX key.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// store is the consumer interface for locks (ISP).
type store interface {
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	DelIfValue(ctx context.Context, key, value string) (bool, error)
}

// Config holds lock timings. Zero values fall back to defaults.
type Config struct {
	TTL           time.Duration
	WaitTimeout   time.Duration
	RetryInterval time.Duration
}

const (
	defaultTTL           = 5 * time.Second
	defaultWaitTimeout   = 2 * time.Second
	defaultRetryInterval = 25 * time.Millisecond
)

// Locker implements usecase/contact.Locker.
type Locker struct {
	store  store
	prefix string
	cfg    Config
}

// New creates a Locker. An empty prefix falls back to domain.KeyPrefix.
func New(s store, prefix string, cfg Config) *Locker {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = defaultWaitTimeout
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultRetryInterval
	}
	return &Locker{store: s, prefix: prefix, cfg: cfg}
}

// Acquire blocks until the lock for scope is held, the wait timeout passes
// (domain.ErrLockTimeout) or ctx is done. The key expires after TTL even if
// release is never called.
func (l *Locker) Acquire(ctx context.Context, scope string) (func(ctx context.Context) error, error) {
	key := l.key(scope)
	token := uuid.NewString()
	deadline := time.Now().Add(l.cfg.WaitTimeout)

	for {
		ok, err := l.store.SetNX(ctx, key, token, l.cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", scope, err)
		}
		if ok {
			return l.releaser(key, token), nil
		}

		if !time.Now().Add(l.cfg.RetryInterval).Before(deadline) {
			return nil, fmt.Errorf("acquire lock %s: %w", scope, domain.ErrLockTimeout)
		}

		timer := time.NewTimer(l.cfg.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Locker) releaser(key, token string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		// false means the lock already expired; nothing to undo.
		if _, err := l.store.DelIfValue(ctx, key, token); err != nil {
			return fmt.Errorf("release lock: %w", err)
		}
		return nil
	}
}

// Key pattern: {prefix}lock:{scope}

func (l *Locker) key(scope string) string {
	return fmt.Sprintf("%slock:%s", l.prefix, scope)
}
