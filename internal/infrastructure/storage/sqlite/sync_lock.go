package sqlite

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/exp/slog"

	"medtracker/internal/domain/reminder"
)

var _ reminder.PassLock = (*SyncLock)(nil)

const (
	remindersLockName = "reminders"

	defaultLeaseTTL  = 30 * time.Second
	defaultLockRetry = 100 * time.Millisecond
)

// SyncLock - блокировка прохода синхронизации, общая для всех процессов,
// открывших одну базу. Владелец держит аренду строки в sync_lock и продлевает
// ее, пока проход идет. Аренда упавшего процесса истекает через ttl.
type SyncLock struct {
	db    *sqlx.DB
	log   *slog.Logger
	ttl   time.Duration
	retry time.Duration
	now   func() time.Time
}

type SyncLockOption func(*SyncLock)

// WithLease задает срок аренды и период повторных попыток захвата.
func WithLease(ttl, retry time.Duration) SyncLockOption {
	return func(l *SyncLock) {
		l.ttl = ttl
		l.retry = retry
	}
}

func NewSyncLock(db *sqlx.DB, log *slog.Logger, opts ...SyncLockOption) *SyncLock {
	l := &SyncLock{
		db:    db,
		log:   log.With(slog.String("component", "sync_lock")),
		ttl:   defaultLeaseTTL,
		retry: defaultLockRetry,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire ждет освобождения блокировки или отмены ctx.
func (l *SyncLock) Acquire(ctx context.Context) (func(), error) {
	owner := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.tryAcquire(ctx, owner)
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}

		l.log.Debug("sync pass lock is held by another process, waiting")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	renewCtx, stop := context.WithCancel(context.Background())
	renewed := make(chan struct{})
	go func() {
		defer close(renewed)
		l.renew(renewCtx, owner)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stop()
			<-renewed
			l.release(owner)
		})
	}, nil
}

func (l *SyncLock) tryAcquire(ctx context.Context, owner string) (bool, error) {
	now := l.now()
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO sync_lock (name, owner, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			owner = excluded.owner,
			expires_at = excluded.expires_at
		WHERE sync_lock.expires_at <= ?
	`, remindersLockName, owner, toMillis(now.Add(l.ttl)), toMillis(now))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, fmt.Errorf("acquire sync lock: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("acquire sync lock: %w", err)
	}
	return n > 0, nil
}

func (l *SyncLock) renew(ctx context.Context, owner string) {
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		res, err := l.db.ExecContext(ctx,
			`UPDATE sync_lock SET expires_at = ? WHERE name = ? AND owner = ?`,
			toMillis(l.now().Add(l.ttl)), remindersLockName, owner,
		)
		if err != nil {
			if ctx.Err() == nil {
				l.log.Warn("failed to renew sync pass lock", "error", err)
			}
			continue
		}
		if n, _ := res.RowsAffected(); n == 0 {
			l.log.Warn("sync pass lock lease lost", "owner", owner)
			return
		}
	}
}

func (l *SyncLock) release(owner string) {
	_, err := l.db.Exec(`DELETE FROM sync_lock WHERE name = ? AND owner = ?`, remindersLockName, owner)
	if err != nil {
		l.log.Warn("failed to release sync pass lock", "error", err)
	}
}
