package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"marketfront/internal/localstore"
	"marketfront/internal/model"
	"marketfront/internal/upstream"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// State is the explicit auth lifecycle value. Modeling it as an enum (rather
// than nullable-field combinations) lets the UI and the tests assert on the
// exact phase of the cached-then-refresh flow.
type State int

const (
	StateUnauthenticated State = iota
	StateLoadingUser           // token present, no cached user, fetch in flight
	StateCachedUser            // serving the cached record, background refresh pending
	StateFreshUser             // serving a server-confirmed record
)

func (s State) String() string {
	switch s {
	case StateLoadingUser:
		return "loading"
	case StateCachedUser:
		return "cached"
	case StateFreshUser:
		return "fresh"
	default:
		return "unauthenticated"
	}
}

// Snapshot is an immutable view of the session handed to subscribers and the
// local API.
type Snapshot struct {
	State           string      `json:"state"`
	User            *model.User `json:"user,omitempty"`
	IsAuthenticated bool        `json:"is_authenticated"`
}

// ErrNoSession is returned by operations that need a signed-in user.
var ErrNoSession = errors.New("session: not signed in")

// Store owns the single authoritative "who is logged in" view: the in-memory
// user, its mirror in the local store, and the lifecycle state.
type Store struct {
	mu    sync.RWMutex
	state State
	user  *model.User

	client  *upstream.Client
	storage localstore.Store
	log     *zap.Logger

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// New wires the store; call Init to run the cold-start sequence.
func New(client *upstream.Client, storage localstore.Store, log *zap.Logger) *Store {
	return &Store{
		client:  client,
		storage: storage,
		log:     log,
		subs:    make(map[int]func(Snapshot)),
	}
}

// Init runs the cold-start state machine:
//
//   - cached user + token  -> cached immediately, refresh in the background;
//     a failed background refresh keeps the cached record (availability wins)
//   - token only           -> loading, synchronous fetch; failure drops the
//     session and clears the cache
//   - no token             -> unauthenticated
func (s *Store) Init(ctx context.Context) {
	token := s.client.Jar().Access()
	if !looksValid(token) && s.client.Jar().Refresh() == "" {
		s.setState(StateUnauthenticated, nil)
		return
	}

	if cached := s.loadCachedUser(ctx); cached != nil {
		s.setState(StateCachedUser, cached)
		go s.backgroundRefresh(context.WithoutCancel(ctx))
		return
	}

	s.setState(StateLoadingUser, nil)
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.log.Warn("cold-start user fetch failed", zap.Error(err))
		s.clearLocal(ctx)
		s.setState(StateUnauthenticated, nil)
		return
	}
	s.adopt(ctx, user)
}

// backgroundRefresh revalidates a cached user against the server. Success
// promotes the session to fresh; failure is logged and the cached record keeps
// serving (stale-but-available beats a forced logout), unless the failure was
// a dead session, which the upstream client has already reduced to local state.
func (s *Store) backgroundRefresh(ctx context.Context) {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, upstream.ErrSessionExpired) {
			s.log.Warn("background refresh: session expired")
		} else {
			s.log.Warn("background refresh failed, keeping cached user", zap.Error(err))
		}
		return
	}
	s.adopt(ctx, user)
}

// Login performs the credential exchange and then the fetch-current-user path.
// The distinct sentinel errors from the upstream client propagate unchanged so
// the form can render the matching localized message.
func (s *Store) Login(ctx context.Context, phone, password string) error {
	err := s.client.Login(ctx, upstream.LoginRequest{Phone: phone, Password: password})
	if err != nil {
		return err
	}
	return s.CompleteAuth(ctx)
}

// CompleteAuth runs the fetch-current-user path after a token grant has
// already landed in the jar (login or registration completion).
func (s *Store) CompleteAuth(ctx context.Context) error {
	s.setState(StateLoadingUser, nil)
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.clearLocal(ctx)
		s.setState(StateUnauthenticated, nil)
		return err
	}
	s.adopt(ctx, user)
	s.log.Info("signed in", zap.Int64("user_id", user.ID))
	return nil
}

// Logout clears tokens and the cached user synchronously. By decision this is
// local-only: no revocation call is made to the server (see DESIGN.md).
func (s *Store) Logout(ctx context.Context) {
	s.client.Jar().Clear()
	s.clearLocal(ctx)
	s.setState(StateUnauthenticated, nil)
	s.log.Info("signed out")
}

// UpdateUser merges partial fields into the in-memory and cached record
// without a round trip; meant for optimistic UI after a profile update has
// already succeeded upstream.
func (s *Store) UpdateUser(ctx context.Context, patch model.UserPatch) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ErrNoSession
	}
	updated := patch.Apply(*s.user)
	s.user = &updated
	state := s.state
	s.mu.Unlock()

	s.cacheUser(ctx, &updated)
	s.broadcast(snapshotOf(state, &updated, true))
	return nil
}

// Expire drops the session after the upstream client reported an unrecoverable
// token failure mid-flight; the jar is already empty at that point.
func (s *Store) Expire(ctx context.Context) {
	s.clearLocal(ctx)
	s.setState(StateUnauthenticated, nil)
}

// User returns the current in-memory user, or nil.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated is deliberately optimistic: true when an in-memory user
// exists or a valid-looking access token is present, so protected UI renders
// immediately instead of flashing a logged-out state while a fetch resolves.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	user := s.user
	s.mu.RUnlock()
	return user != nil || looksValid(s.client.Jar().Access())
}

// Snapshot returns the current session view.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	state, user := s.state, s.user
	s.mu.RUnlock()
	return snapshotOf(state, user, user != nil || looksValid(s.client.Jar().Access()))
}

// Subscribe registers fn for session changes and returns its cancel func.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
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

// adopt installs a fresh server copy as the authoritative record.
func (s *Store) adopt(ctx context.Context, user *model.User) {
	s.cacheUser(ctx, user)
	s.setState(StateFreshUser, user)
}

func (s *Store) setState(state State, user *model.User) {
	s.mu.Lock()
	s.state = state
	s.user = user
	s.mu.Unlock()
	s.broadcast(snapshotOf(state, user, user != nil || looksValid(s.client.Jar().Access())))
}

func (s *Store) broadcast(snap Snapshot) {
	s.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) loadCachedUser(ctx context.Context) *model.User {
	var user model.User
	err := s.storage.GetJSON(ctx, localstore.KeyCachedUser, &user)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			s.log.Warn("cached user unreadable, ignoring", zap.Error(err))
		}
		return nil
	}
	if user.ID == 0 {
		return nil
	}
	return &user
}

func (s *Store) cacheUser(ctx context.Context, user *model.User) {
	if err := s.storage.SetJSON(ctx, localstore.KeyCachedUser, user); err != nil {
		s.log.Warn("could not cache user", zap.Error(err))
	}
}

func (s *Store) clearLocal(ctx context.Context) {
	if err := s.storage.Delete(ctx, localstore.KeyCachedUser); err != nil {
		s.log.Warn("could not clear cached user", zap.Error(err))
	}
}

func snapshotOf(state State, user *model.User, authed bool) Snapshot {
	return Snapshot{State: state.String(), User: user, IsAuthenticated: authed}
}

// looksValid reports whether token is worth presenting: a JWT with an exp in
// the future, or any opaque token (cookie expiry is then the only signal).
func looksValid(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(time.Now())
}
