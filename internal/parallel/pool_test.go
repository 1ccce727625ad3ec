package parallel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewWorkerPool(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pool with max workers", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 4, false)
		if pool.maxWorkers != 4 {
			t.Errorf("expected maxWorkers=4, got %d", pool.maxWorkers)
		}
		if pool.failFast {
			t.Error("expected failFast=false")
		}
	})

	t.Run("creates pool with failFast", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 2, true)
		if !pool.failFast {
			t.Error("expected failFast=true")
		}
	})
}

func TestWorkerPool_SubmitAndWait(t *testing.T) {
	ctx := context.Background()

	t.Run("collects every value", func(t *testing.T) {
		pool := NewWorkerPool[string](ctx, 4, false)
		ids := []string{"normal", "happy", "curious", "blink"}
		for _, id := range ids {
			id := id
			pool.Submit(id, func() (string, error) {
				return "frame:" + id, nil
			})
		}

		results, errs := pool.Wait()
		if len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
		if len(results) != len(ids) {
			t.Fatalf("expected %d results, got %d", len(ids), len(results))
		}
		got := make(map[string]string)
		for _, r := range results {
			got[r.ID] = r.Value
		}
		for _, id := range ids {
			if got[id] != "frame:"+id {
				t.Errorf("result for %s = %q", id, got[id])
			}
		}
	})

	t.Run("respects max workers limit", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 2, false)

		maxConcurrent := 0
		current := 0
		var mu sync.Mutex
		for i := 0; i < 5; i++ {
			i := i
			pool.Submit("", func() (int, error) {
				mu.Lock()
				current++
				if current > maxConcurrent {
					maxConcurrent = current
				}
				mu.Unlock()

				time.Sleep(30 * time.Millisecond)

				mu.Lock()
				current--
				mu.Unlock()
				return i, nil
			})
		}
		pool.Wait()

		if maxConcurrent > 2 {
			t.Errorf("expected max 2 concurrent jobs, got %d", maxConcurrent)
		}
	})

	t.Run("unlimited workers", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 0, false)
		for i := 0; i < 10; i++ {
			i := i
			pool.Submit("", func() (int, error) { return i, nil })
		}
		results, _ := pool.Wait()
		if len(results) != 10 {
			t.Errorf("expected 10 results, got %d", len(results))
		}
	})
}

func TestWorkerPool_Errors(t *testing.T) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	t.Run("errors are wrapped with the id", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 2, false)
		pool.Submit("ok", func() (int, error) { return 1, nil })
		pool.Submit("bad", func() (int, error) { return 0, errBoom })

		results, errs := pool.Wait()
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d", len(errs))
		}
		if !errors.Is(errs[0], errBoom) {
			t.Errorf("expected wrapped boom, got %v", errs[0])
		}
		if errs[0].Error() != "bad: boom" {
			t.Errorf("error = %q", errs[0].Error())
		}
	})

	t.Run("fail fast skips queued jobs", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 1, true)
		pool.Submit("first", func() (int, error) { return 0, errBoom })
		time.Sleep(20 * time.Millisecond)

		ran := false
		pool.Submit("second", func() (int, error) {
			ran = true
			return 0, nil
		})
		pool.Wait()
		if ran {
			t.Error("job submitted after a fail-fast error should not run")
		}
	})
}

func TestWorkerPool_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool[int](ctx, 1, false)
	cancel()

	ran := false
	pool.Submit("late", func() (int, error) {
		ran = true
		return 0, nil
	})
	results, _ := pool.Wait()
	if ran || len(results) != 0 {
		t.Errorf("cancelled pool ran a job (results=%d)", len(results))
	}

	pool = NewWorkerPool[int](context.Background(), 1, false)
	pool.Cancel()
	pool.Submit("after-cancel", func() (int, error) { return 1, nil })
	if results, _ := pool.Wait(); len(results) != 0 {
		t.Errorf("expected no results after Cancel, got %d", len(results))
	}
}
