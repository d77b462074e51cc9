package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"marketfront/internal/localstore"
	"marketfront/internal/model"
	"marketfront/internal/session"
	"marketfront/internal/upstream"

	"go.uber.org/zap"
)

// memStore is an in-memory localstore.Store for session tests.
type memStore struct {
	mu    sync.Mutex
	slots map[string]string
}

func newMemStore() *memStore {
	return &memStore{slots: make(map[string]string)}
}

func (m *memStore) GetJSON(_ context.Context, key string, out any) error {
	m.mu.Lock()
	raw, ok := m.slots[key]
	m.mu.Unlock()
	if !ok {
		return localstore.ErrNotFound
	}
	return json.Unmarshal([]byte(raw), out)
}

func (m *memStore) SetJSON(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.slots[key] = string(raw)
	m.mu.Unlock()
	return nil
}

func (m *memStore) SetRaw(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.slots[key] = value
	m.mu.Unlock()
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.slots, key)
	m.mu.Unlock()
	return nil
}

func (m *memStore) Reset(_ context.Context) error {
	m.mu.Lock()
	m.slots = make(map[string]string)
	m.mu.Unlock()
	return nil
}

func newFixture(t *testing.T, backend http.Handler) (*session.Store, *upstream.TokenJar, *memStore) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	jar := upstream.OpenTokenJar(filepath.Join(t.TempDir(), "cookies.json"))
	client := upstream.New(srv.URL, jar, zap.NewNop())
	storage := newMemStore()
	return session.New(client, storage, zap.NewNop()), jar, storage
}

func seedCachedUser(t *testing.T, storage *memStore, user model.User) {
	t.Helper()
	if err := storage.SetJSON(context.Background(), localstore.KeyCachedUser, user); err != nil {
		t.Fatal(err)
	}
}

func waitForState(t *testing.T, ch <-chan session.Snapshot, state string) session.Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if snap.State == state {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %q", state)
		}
	}
}

func TestColdStartWithoutTokens(t *testing.T) {
	store, _, _ := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the backend")
	}))

	store.Init(context.Background())

	if store.State() != session.StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", store.State())
	}
	if store.IsAuthenticated() {
		t.Error("IsAuthenticated should be false with no token and no user")
	}
}

func TestColdStartServesCachedUserThenRefreshes(t *testing.T) {
	release := make(chan struct{})
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(model.User{ID: 42, Phone: "+998901234567", FirstName: "Ali", Role: model.RoleUser})
	})
	store, jar, storage := newFixture(t, backend)
	jar.SetPair("opaque-token", "ref-1")
	seedCachedUser(t, storage, model.User{ID: 42, Phone: "+998901234567", FirstName: "Cached"})

	snaps := make(chan session.Snapshot, 16)
	cancel := store.Subscribe(func(s session.Snapshot) { snaps <- s })
	defer cancel()

	store.Init(context.Background())

	// Cached record must be visible before the network round trip resolves.
	if store.State() != session.StateCachedUser {
		t.Fatalf("state = %v, want cached", store.State())
	}
	if !store.IsAuthenticated() {
		t.Error("IsAuthenticated should be true while serving the cached user")
	}
	if user := store.User(); user == nil || user.FirstName != "Cached" {
		t.Fatalf("user = %+v, want the cached record", user)
	}

	close(release)
	snap := waitForState(t, snaps, "fresh")
	if snap.User == nil || snap.User.FirstName != "Ali" {
		t.Errorf("fresh user = %+v, want the server record", snap.User)
	}
}

func TestColdStartTokenOnlyFetchesSynchronously(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.User{ID: 42, Phone: "+998901234567", FirstName: "Ali"})
	})
	store, jar, storage := newFixture(t, backend)
	jar.SetPair("opaque-token", "ref-1")

	store.Init(context.Background())

	if store.State() != session.StateFreshUser {
		t.Fatalf("state = %v, want fresh", store.State())
	}
	var cached model.User
	if err := storage.GetJSON(context.Background(), localstore.KeyCachedUser, &cached); err != nil {
		t.Fatalf("cached user not persisted: %v", err)
	}
	if cached.ID != 42 {
		t.Errorf("cached ID = %d, want 42", cached.ID)
	}
}

func TestBackgroundRefreshFailureKeepsCachedUser(t *testing.T) {
	served := make(chan struct{})
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(served)
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	store, jar, storage := newFixture(t, backend)
	jar.SetPair("opaque-token", "ref-1")
	seedCachedUser(t, storage, model.User{ID: 42, Phone: "+998901234567", FirstName: "Cached"})

	store.Init(context.Background())

	select {
	case <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("background refresh never hit the backend")
	}
	time.Sleep(50 * time.Millisecond)

	if store.State() != session.StateCachedUser {
		t.Errorf("state = %v, want cached after a failed background refresh", store.State())
	}
	if user := store.User(); user == nil || user.FirstName != "Cached" {
		t.Errorf("user = %+v, want the cached record to survive", user)
	}
}

func TestLoginThenLogoutIsLocalOnly(t *testing.T) {
	var requests int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "refresh_token": "ref-1"})
	})
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		json.NewEncoder(w).Encode(model.User{ID: 42, Phone: "+998901234567", FirstName: "Ali"})
	})
	store, jar, storage := newFixture(t, mux)

	if err := store.Login(context.Background(), "+998901234567", "secret12"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if store.State() != session.StateFreshUser {
		t.Fatalf("state = %v, want fresh after login", store.State())
	}
	before := atomic.LoadInt32(&requests)

	store.Logout(context.Background())

	if got := atomic.LoadInt32(&requests); got != before {
		t.Errorf("logout issued %d backend request(s); logout is local-only", got-before)
	}
	if jar.Access() != "" || jar.Refresh() != "" {
		t.Error("logout must clear both token cookies")
	}
	if store.State() != session.StateUnauthenticated || store.IsAuthenticated() {
		t.Error("logout must leave the store unauthenticated")
	}
	var cached model.User
	if err := storage.GetJSON(context.Background(), localstore.KeyCachedUser, &cached); !errors.Is(err, localstore.ErrNotFound) {
		t.Errorf("cached user slot should be gone, got err=%v", err)
	}
}

func TestUpdateUserWithoutSession(t *testing.T) {
	store, _, _ := newFixture(t, http.NewServeMux())
	first := "Ali"
	err := store.UpdateUser(context.Background(), model.UserPatch{FirstName: &first})
	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestUpdateUserMergesAndBroadcasts(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.User{ID: 42, Phone: "+998901234567", FirstName: "Ali", LastName: "Valiyev"})
	})
	store, jar, storage := newFixture(t, backend)
	jar.SetPair("opaque-token", "ref-1")
	store.Init(context.Background())

	snaps := make(chan session.Snapshot, 16)
	cancel := store.Subscribe(func(s session.Snapshot) { snaps <- s })
	defer cancel()

	email := "ali@example.uz"
	if err := store.UpdateUser(context.Background(), model.UserPatch{Email: &email}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	user := store.User()
	if user.Email != email {
		t.Errorf("email = %q, want %q", user.Email, email)
	}
	if user.FirstName != "Ali" {
		t.Errorf("untouched field changed: first name = %q", user.FirstName)
	}

	select {
	case snap := <-snaps:
		if snap.User == nil || snap.User.Email != email {
			t.Errorf("broadcast user = %+v, want merged record", snap.User)
		}
	case <-time.After(time.Second):
		t.Fatal("no broadcast after UpdateUser")
	}

	var cached model.User
	if err := storage.GetJSON(context.Background(), localstore.KeyCachedUser, &cached); err != nil {
		t.Fatal(err)
	}
	if cached.Email != email {
		t.Errorf("cached email = %q, want %q", cached.Email, email)
	}
}

func TestExpireDropsSession(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.User{ID: 42, Phone: "+998901234567"})
	})
	store, jar, _ := newFixture(t, backend)
	jar.SetPair("opaque-token", "ref-1")
	store.Init(context.Background())

	jar.Clear() // the upstream client has already dropped the cookies
	store.Expire(context.Background())

	if store.State() != session.StateUnauthenticated || store.IsAuthenticated() {
		t.Error("Expire must leave the store unauthenticated")
	}
}
