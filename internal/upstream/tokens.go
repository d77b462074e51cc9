package upstream

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Cookie lifetimes for the two token cookies.
const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type storedToken struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t storedToken) live(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// TokenJar holds the access_token / refresh_token cookies for the backend
// origin and mirrors them to a file so a restart keeps the session. Tokens
// never go into the key/value store; this is the cookie analog.
type TokenJar struct {
	mu      sync.Mutex
	path    string
	access  storedToken
	refresh storedToken
}

// OpenTokenJar loads the jar from path. A missing or corrupt file yields an
// empty jar (logged-out state), never an error.
func OpenTokenJar(path string) *TokenJar {
	j := &TokenJar{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		return j
	}
	var onDisk struct {
		Access  storedToken `json:"access_token"`
		Refresh storedToken `json:"refresh_token"`
	}
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		return j
	}
	j.access = onDisk.Access
	j.refresh = onDisk.Refresh
	return j
}

// Access returns the access token, or "" when absent or past its cookie expiry.
func (j *TokenJar) Access() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.access.live(time.Now()) {
		return ""
	}
	return j.access.Value
}

// Refresh returns the refresh token, or "" when absent or expired.
func (j *TokenJar) Refresh() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.refresh.live(time.Now()) {
		return ""
	}
	return j.refresh.Value
}

// SetPair stores a new token pair with standard cookie lifetimes and flushes.
func (j *TokenJar) SetPair(access, refresh string) {
	now := time.Now()
	j.mu.Lock()
	defer j.mu.Unlock()
	j.access = storedToken{Value: access, ExpiresAt: now.Add(accessTokenTTL)}
	j.refresh = storedToken{Value: refresh, ExpiresAt: now.Add(refreshTokenTTL)}
	j.flush()
}

// Clear drops both tokens and flushes.
func (j *TokenJar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.access = storedToken{}
	j.refresh = storedToken{}
	j.flush()
}

// flush persists the jar; callers hold the lock. A write failure only loses
// persistence across restarts, so it is ignored here.
func (j *TokenJar) flush() {
	if j.path == "" {
		return
	}
	onDisk := struct {
		Access  storedToken `json:"access_token"`
		Refresh storedToken `json:"refresh_token"`
	}{j.access, j.refresh}
	raw, err := json.Marshal(onDisk)
	if err != nil {
		return
	}
	_ = os.WriteFile(j.path, raw, 0o600)
}
