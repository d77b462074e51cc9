package favorites

import (
	"context"
	"errors"
	"sync"
	"time"

	"marketfront/internal/localstore"
	"marketfront/internal/model"

	"go.uber.org/zap"
)

// Store is the client-only "save for later" list. It keeps denormalized
// project snapshots in a single durable slot, keyed by project ID: membership
// checks ignore order, display preserves insertion order, and the list never
// holds two entries with the same ID.
//
// Every mutation persists first and then notifies subscribers, so independent
// UI components reading the list stay consistent with each other.
type Store struct {
	mu    sync.Mutex
	items []model.Favorite

	storage localstore.Store
	log     *zap.Logger

	subMu   sync.Mutex
	subs    map[int]func([]model.Favorite)
	nextSub int
}

// New loads the favorites slot. A corrupt or missing slot recovers silently as
// an empty list; that is the storage-corruption policy, not an error path.
func New(storage localstore.Store, log *zap.Logger) *Store {
	s := &Store{
		storage: storage,
		log:     log,
		subs:    make(map[int]func([]model.Favorite)),
	}

	var items []model.Favorite
	err := storage.GetJSON(context.Background(), localstore.KeyFavorites, &items)
	switch {
	case err == nil:
		s.items = items
	case errors.Is(err, localstore.ErrNotFound):
		// first run, nothing saved yet
	default:
		log.Warn("favorites slot unreadable, starting empty", zap.Error(err))
	}
	return s
}

// Toggle flips membership for the project: present removes it, absent appends
// a snapshot. It always ends in the opposite membership state and never errors
// on repeated identical calls. Returns true when the project was added.
func (s *Store) Toggle(ctx context.Context, project model.Project) bool {
	s.mu.Lock()
	added := true
	next := make([]model.Favorite, 0, len(s.items)+1)
	for _, item := range s.items {
		if item.Project.ID == project.ID {
			added = false
			continue
		}
		next = append(next, item)
	}
	if added {
		next = append(next, model.Favorite{Project: project, AddedAt: time.Now()})
	}
	s.items = next
	snapshot := s.copyLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.broadcast(snapshot)
	return added
}

// Remove deletes the entry with the given ID; removing an absent ID is a no-op.
func (s *Store) Remove(ctx context.Context, projectID int64) {
	s.mu.Lock()
	next := s.items[:0]
	for _, item := range s.items {
		if item.Project.ID != projectID {
			next = append(next, item)
		}
	}
	s.items = next
	snapshot := s.copyLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.broadcast(snapshot)
}

// Clear empties the list.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	snapshot := s.copyLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.broadcast(snapshot)
}

// Has reports membership by project ID.
func (s *Store) Has(projectID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Project.ID == projectID {
			return true
		}
	}
	return false
}

// Count returns the badge count.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// List returns the entries in insertion order.
func (s *Store) List() []model.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Subscribe registers fn for list changes and returns its cancel func, so
// consumers subscribe deterministically and unsubscribe on teardown.
func (s *Store) Subscribe(fn func([]model.Favorite)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) copyLocked() []model.Favorite {
	out := make([]model.Favorite, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) persist(ctx context.Context, items []model.Favorite) {
	if err := s.storage.SetJSON(ctx, localstore.KeyFavorites, items); err != nil {
		s.log.Warn("could not persist favorites", zap.Error(err))
	}
}

func (s *Store) broadcast(items []model.Favorite) {
	s.subMu.Lock()
	subs := make([]func([]model.Favorite), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(items)
	}
}
