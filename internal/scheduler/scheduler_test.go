package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/scheduler"
)

func TestScheduler(t *testing.T) {
	t.Run("runs a job immediately when asked", func(t *testing.T) {
		s := scheduler.New(nil, time.Second)
		ran := make(chan struct{}, 1)

		err := s.AddJob("refresh", "@every 1h", func(context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		}, true)
		if err != nil {
			t.Fatalf("AddJob() returned unexpected error: %v", err)
		}

		s.Start()
		defer s.Stop(context.Background())

		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("Job did not run on start")
		}
	})

	t.Run("does not run before the schedule without startImmediately", func(t *testing.T) {
		s := scheduler.New(nil, time.Second)
		var runs atomic.Int32

		if err := s.AddJob("refresh", "@every 1h", func(context.Context) error {
			runs.Add(1)
			return nil
		}, false); err != nil {
			t.Fatalf("AddJob() returned unexpected error: %v", err)
		}

		s.Start()
		time.Sleep(50 * time.Millisecond)
		s.Stop(context.Background())

		if runs.Load() != 0 {
			t.Errorf("Expected no runs, got %d", runs.Load())
		}
	})

	t.Run("survives failing and panicking jobs", func(t *testing.T) {
		s := scheduler.New(nil, time.Second)
		done := make(chan struct{}, 2)

		_ = s.AddJob("fails", "@every 1h", func(context.Context) error {
			done <- struct{}{}
			return errors.New("upstream down")
		}, true)
		_ = s.AddJob("panics", "@every 1h", func(context.Context) error {
			done <- struct{}{}
			panic("boom")
		}, true)

		s.Start()
		defer s.Stop(context.Background())

		for range 2 {
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("Jobs did not run")
			}
		}
	})

	t.Run("rejects an invalid spec", func(t *testing.T) {
		s := scheduler.New(nil, time.Second)
		if err := s.AddJob("bad", "whenever", func(context.Context) error { return nil }, false); err == nil {
			t.Error("Expected error for invalid spec")
		}
	})

	t.Run("stop cancels the job context", func(t *testing.T) {
		s := scheduler.New(nil, time.Minute)
		started := make(chan struct{})
		cancelled := make(chan struct{})

		_ = s.AddJob("slow", "@every 1h", func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			close(cancelled)
			return ctx.Err()
		}, true)

		s.Start()
		<-started

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.Stop(ctx)

		select {
		case <-cancelled:
		case <-time.After(2 * time.Second):
			t.Fatal("Job context was not cancelled on stop")
		}
	})
}
