package search_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"marketfront/internal/model"
	"marketfront/internal/search"

	"go.uber.org/zap"
)

func TestDebounceCoalescesBurst(t *testing.T) {
	var calls int32
	results := make(chan search.Result, 8)

	d := search.New(40*time.Millisecond,
		func(ctx context.Context, query string) ([]model.Project, int64, error) {
			atomic.AddInt32(&calls, 1)
			return []model.Project{{ID: 1, Name: query}}, 1, nil
		},
		func(res search.Result) { results <- res },
		zap.NewNop())
	defer d.Close()

	ctx := context.Background()
	d.Submit(ctx, "s")
	d.Submit(ctx, "so")
	d.Submit(ctx, "sof")
	d.Submit(ctx, "sofa")

	select {
	case res := <-results:
		if res.Query != "sofa" {
			t.Errorf("delivered query = %q, want the final keystroke", res.Query)
		}
		if len(res.Projects) != 1 || res.Projects[0].Name != "sofa" {
			t.Errorf("projects = %v", res.Projects)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}

	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("search calls = %d, want 1 for the whole burst", n)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	results := make(chan search.Result, 8)

	d := search.New(10*time.Millisecond,
		func(ctx context.Context, query string) ([]model.Project, int64, error) {
			if query == "slow" {
				<-release
			}
			return nil, 0, nil
		},
		func(res search.Result) { results <- res },
		zap.NewNop())
	defer d.Close()

	ctx := context.Background()
	d.Submit(ctx, "slow")
	time.Sleep(30 * time.Millisecond) // let the slow query get issued and block

	d.Submit(ctx, "fast")

	// The fast query resolves first.
	select {
	case res := <-results:
		if res.Query != "fast" {
			t.Fatalf("first delivery = %q, want fast", res.Query)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fast query never delivered")
	}

	// Releasing the slow query must not clobber the newer result.
	close(release)
	select {
	case res := <-results:
		t.Errorf("stale result delivered: %q", res.Query)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCloseFencesInFlightWork(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	results := make(chan search.Result, 8)

	d := search.New(10*time.Millisecond,
		func(ctx context.Context, query string) ([]model.Project, int64, error) {
			close(started)
			<-release
			return nil, 0, nil
		},
		func(res search.Result) { results <- res },
		zap.NewNop())

	d.Submit(context.Background(), "sofa")
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("query never issued")
	}

	d.Close()
	close(release)

	select {
	case res := <-results:
		t.Errorf("result delivered after Close: %q", res.Query)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubmitAfterCloseIsNoOp(t *testing.T) {
	var calls int32
	d := search.New(5*time.Millisecond,
		func(ctx context.Context, query string) ([]model.Project, int64, error) {
			atomic.AddInt32(&calls, 1)
			return nil, 0, nil
		},
		func(search.Result) {},
		zap.NewNop())

	d.Close()
	d.Submit(context.Background(), "sofa")

	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("Submit after Close still ran a search")
	}
}
