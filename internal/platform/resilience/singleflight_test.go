package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var calls int32

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, _ := g.Do("scoreboard-week-3", func() (any, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(15 * time.Millisecond)
				return 42, nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if val != 42 {
				t.Errorf("unexpected value: %v", val)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_PropagatesError(t *testing.T) {
	var g SingleFlight
	wantErr := errors.New("feed down")

	_, err, shared := g.Do("scoreboard-week-4", func() (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected propagated error, got %v", err)
	}
	if shared {
		t.Fatalf("expected sole caller to not be marked shared")
	}
}

func TestSingleFlight_KeyRunsAgainAfterCompletion(t *testing.T) {
	var g SingleFlight
	var calls int32

	for i := 0; i < 2; i++ {
		if _, err, _ := g.Do("scoreboard-week-5", func() (any, error) {
			atomic.AddInt32(&calls, 1)
			return nil, nil
		}); err != nil {
			t.Fatalf("singleflight call failed: %v", err)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected sequential calls to run separately, got %d", got)
	}
}
