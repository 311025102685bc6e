package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// steps выполняет внешние вызовы прохода с ограничением по времени и
// помнит вызовы, которые не вернулись к таймауту.
type steps struct {
	timeout   time.Duration
	running   sync.WaitGroup
	abandoned atomic.Bool
}

// drained сообщает, что брошенных вызовов не было, и сбрасывает признак.
func (st *steps) drained() bool {
	return !st.abandoned.Swap(false)
}

// wait ждет завершения всех запущенных вызовов.
func (st *steps) wait() {
	st.running.Wait()
}

// callStep выполняет шаг прохода. Если вызов не уважает контекст, проход
// не ждет его дольше timeout, но вызов остается учтенным в st.running.
func callStep[T any](ctx context.Context, st *steps, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if st.timeout <= 0 {
		return fn(ctx)
	}

	stepCtx, cancel := context.WithTimeout(ctx, st.timeout)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	st.running.Add(1)
	go func() {
		defer st.running.Done()
		val, err := fn(stepCtx)
		done <- outcome{val: val, err: err}
	}()

	select {
	case out := <-done:
		return out.val, out.err
	case <-stepCtx.Done():
		st.abandoned.Store(true)
		if ctx.Err() == nil && errors.Is(stepCtx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s", ErrStepTimeout, st.timeout)
		}
		return zero, ctx.Err()
	}
}

func runStep(ctx context.Context, st *steps, fn func(context.Context) error) error {
	_, err := callStep(ctx, st, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
