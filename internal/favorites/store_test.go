package favorites_test

import (
	"context"
	"testing"
	"time"

	"marketfront/internal/favorites"
	"marketfront/internal/localstore"
	"marketfront/internal/model"

	"go.uber.org/zap"
)

func openStorage(t *testing.T) localstore.Store {
	t.Helper()
	storage, err := localstore.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return storage
}

func project(id int64, name string) model.Project {
	return model.Project{ID: id, Name: name}
}

func TestToggleAddsThenRemoves(t *testing.T) {
	s := favorites.New(openStorage(t), zap.NewNop())
	ctx := context.Background()

	if added := s.Toggle(ctx, project(1, "Sofa")); !added {
		t.Error("first toggle should add")
	}
	if !s.Has(1) || s.Count() != 1 {
		t.Errorf("after add: has=%v count=%d", s.Has(1), s.Count())
	}

	if added := s.Toggle(ctx, project(1, "Sofa")); added {
		t.Error("second toggle should remove")
	}
	if s.Has(1) || s.Count() != 0 {
		t.Errorf("after remove: has=%v count=%d", s.Has(1), s.Count())
	}
}

func TestToggleRoundTripLeavesListClean(t *testing.T) {
	s := favorites.New(openStorage(t), zap.NewNop())
	ctx := context.Background()

	s.Toggle(ctx, project(1, "Sofa"))
	s.Toggle(ctx, project(2, "Lamp"))
	s.Toggle(ctx, project(1, "Sofa"))
	s.Toggle(ctx, project(2, "Lamp"))

	if got := s.List(); len(got) != 0 {
		t.Errorf("list = %v, want empty after full round trip", got)
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	s := favorites.New(openStorage(t), zap.NewNop())
	ctx := context.Background()

	s.Toggle(ctx, project(3, "Desk"))
	s.Toggle(ctx, project(1, "Sofa"))
	s.Toggle(ctx, project(2, "Lamp"))

	got := s.List()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, wantID := range []int64{3, 1, 2} {
		if got[i].Project.ID != wantID {
			t.Errorf("list[%d].ID = %d, want %d", i, got[i].Project.ID, wantID)
		}
	}
}

func TestPersistsAcrossRestart(t *testing.T) {
	storage := openStorage(t)
	ctx := context.Background()

	s := favorites.New(storage, zap.NewNop())
	s.Toggle(ctx, project(1, "Sofa"))
	s.Toggle(ctx, project(2, "Lamp"))

	reloaded := favorites.New(storage, zap.NewNop())
	if reloaded.Count() != 2 || !reloaded.Has(1) || !reloaded.Has(2) {
		t.Errorf("reloaded list lost entries: count=%d", reloaded.Count())
	}
	if name := reloaded.List()[0].Project.Name; name != "Sofa" {
		t.Errorf("snapshot name = %q, want Sofa", name)
	}
}

func TestCorruptSlotRecoversEmpty(t *testing.T) {
	storage := openStorage(t)
	ctx := context.Background()

	if err := storage.SetRaw(ctx, localstore.KeyFavorites, "{broken json!!"); err != nil {
		t.Fatal(err)
	}

	s := favorites.New(storage, zap.NewNop())
	if s.Count() != 0 {
		t.Errorf("count = %d, want 0 after corrupt slot", s.Count())
	}

	// The store must remain fully usable and overwrite the bad slot.
	s.Toggle(ctx, project(1, "Sofa"))
	reloaded := favorites.New(storage, zap.NewNop())
	if !reloaded.Has(1) {
		t.Error("store did not recover from the corrupt slot")
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	s := favorites.New(openStorage(t), zap.NewNop())
	ctx := context.Background()

	s.Toggle(ctx, project(1, "Sofa"))
	s.Remove(ctx, 99)

	if s.Count() != 1 {
		t.Errorf("count = %d, want 1", s.Count())
	}
}

func TestClear(t *testing.T) {
	s := favorites.New(openStorage(t), zap.NewNop())
	ctx := context.Background()

	s.Toggle(ctx, project(1, "Sofa"))
	s.Toggle(ctx, project(2, "Lamp"))
	s.Clear(ctx)

	if s.Count() != 0 {
		t.Errorf("count = %d, want 0 after clear", s.Count())
	}
}

func TestSubscribersSeeEveryMutation(t *testing.T) {
	s := favorites.New(openStorage(t), zap.NewNop())
	ctx := context.Background()

	updates := make(chan []model.Favorite, 8)
	cancel := s.Subscribe(func(items []model.Favorite) { updates <- items })

	s.Toggle(ctx, project(1, "Sofa"))
	select {
	case items := <-updates:
		if len(items) != 1 || items[0].Project.ID != 1 {
			t.Errorf("broadcast = %v, want the single new entry", items)
		}
	case <-time.After(time.Second):
		t.Fatal("no broadcast after toggle")
	}

	cancel()
	s.Toggle(ctx, project(2, "Lamp"))
	select {
	case items := <-updates:
		t.Errorf("cancelled subscriber still notified: %v", items)
	case <-time.After(50 * time.Millisecond):
	}
}
