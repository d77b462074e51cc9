package upstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"marketfront/internal/upstream"

	"go.uber.org/zap"
)

func newJar(t *testing.T) *upstream.TokenJar {
	t.Helper()
	return upstream.OpenTokenJar(filepath.Join(t.TempDir(), "cookies.json"))
}

func newClient(t *testing.T, backend http.Handler) (*upstream.Client, *upstream.TokenJar) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	jar := newJar(t)
	return upstream.New(srv.URL, jar, zap.NewNop()), jar
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client, jar := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":1,"phone":"+998901234567"}`))
	}))
	jar.SetPair("tok-1", "ref-1")

	if _, err := client.CurrentUser(context.Background()); err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-1")
	}
}

func TestRefreshAndRetryOn401(t *testing.T) {
	var meCalls, refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&meCalls, 1)
		if r.Header.Get("Authorization") != "Bearer tok-new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":7,"phone":"+998901234567"}`))
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		w.Write([]byte(`{"access_token":"tok-new","refresh_token":"ref-new"}`))
	})

	client, jar := newClient(t, mux)
	jar.SetPair("tok-stale", "ref-1")

	user, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser after refresh: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("user.ID = %d, want 7", user.ID)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Errorf("refresh calls = %d, want 1", n)
	}
	if n := atomic.LoadInt32(&meCalls); n != 2 {
		t.Errorf("original request attempts = %d, want 2 (original + one replay)", n)
	}
	if jar.Access() != "tok-new" || jar.Refresh() != "ref-new" {
		t.Errorf("jar not rotated: access=%q refresh=%q", jar.Access(), jar.Refresh())
	}
}

func TestUnauthorizedWithoutRefreshToken(t *testing.T) {
	var meCalls, refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&meCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})

	client, jar := newClient(t, mux)
	jar.SetPair("tok-1", "")

	_, err := client.CurrentUser(context.Background())
	if !errors.Is(err, upstream.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 0 {
		t.Errorf("refresh calls = %d, want 0", n)
	}
	if n := atomic.LoadInt32(&meCalls); n != 1 {
		t.Errorf("request attempts = %d, want 1 (no replay)", n)
	}
	if jar.Access() != "" || jar.Refresh() != "" {
		t.Error("jar should be cleared after an unrecoverable 401")
	}
}

func TestRefreshFailureDropsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client, jar := newClient(t, mux)
	jar.SetPair("tok-1", "ref-dead")

	_, err := client.CurrentUser(context.Background())
	if !errors.Is(err, upstream.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if jar.Access() != "" || jar.Refresh() != "" {
		t.Error("jar should be cleared after a failed refresh")
	}
}

func TestReplayOutcomeIsFinal(t *testing.T) {
	// The replayed request 401s again; there must not be a second refresh loop.
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		w.Write([]byte(`{"access_token":"tok-new","refresh_token":"ref-new"}`))
	})

	client, jar := newClient(t, mux)
	jar.SetPair("tok-1", "ref-1")

	_, err := client.CurrentUser(context.Background())
	var he *upstream.HTTPError
	if !errors.As(err, &he) || he.Status != http.StatusUnauthorized {
		t.Fatalf("err = %v, want HTTPError 401 from the single replay", err)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", n)
	}
}

func TestNon401PassesThrough(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})

	client, jar := newClient(t, mux)
	jar.SetPair("tok-1", "ref-1")

	_, err := client.CurrentUser(context.Background())
	var he *upstream.HTTPError
	if !errors.As(err, &he) || he.Status != http.StatusInternalServerError {
		t.Fatalf("err = %v, want HTTPError 500", err)
	}
	if atomic.LoadInt32(&refreshCalls) != 0 {
		t.Error("a 500 must not trigger a refresh")
	}
	if jar.Access() == "" {
		t.Error("a 500 must not clear the jar")
	}
}

func TestLoginExemptFromRefreshPolicy(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})

	client, jar := newClient(t, mux)
	jar.SetPair("tok-1", "ref-1")

	err := client.Login(context.Background(), upstream.LoginRequest{Phone: "+998901234567", Password: "wrong"})
	if !errors.Is(err, upstream.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if atomic.LoadInt32(&refreshCalls) != 0 {
		t.Error("auth endpoints must not trigger the refresh policy")
	}
	if jar.Refresh() != "ref-1" {
		t.Error("a rejected login must not clear an existing session")
	}
}

func TestLoginStoresTokenPair(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok-1","refresh_token":"ref-1"}`))
	})

	client, jar := newClient(t, mux)
	if err := client.Login(context.Background(), upstream.LoginRequest{Phone: "+998901234567", Password: "secret12"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if jar.Access() != "tok-1" || jar.Refresh() != "ref-1" {
		t.Errorf("jar not populated: access=%q refresh=%q", jar.Access(), jar.Refresh())
	}
}

func TestInactiveAccountLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	client, _ := newClient(t, mux)
	err := client.Login(context.Background(), upstream.LoginRequest{Phone: "+998901234567", Password: "secret12"})
	if !errors.Is(err, upstream.ErrInactiveAccount) {
		t.Fatalf("err = %v, want ErrInactiveAccount", err)
	}
}

func TestOTPErrorMapping(t *testing.T) {
	status := int32(http.StatusBadRequest)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/otp/verify", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(atomic.LoadInt32(&status)))
	})

	client, _ := newClient(t, mux)

	_, err := client.VerifyOTP(context.Background(), "+998901234567", "123456", upstream.OTPPurposeRegister)
	if !errors.Is(err, upstream.ErrWrongCode) {
		t.Fatalf("400: err = %v, want ErrWrongCode", err)
	}

	atomic.StoreInt32(&status, http.StatusTooManyRequests)
	_, err = client.VerifyOTP(context.Background(), "+998901234567", "123456", upstream.OTPPurposeRegister)
	if !errors.Is(err, upstream.ErrTooManyAttempts) {
		t.Fatalf("429: err = %v, want ErrTooManyAttempts", err)
	}
}

func TestConcurrentRefreshCollapses(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":1,"phone":"+998901234567"}`))
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		time.Sleep(50 * time.Millisecond) // hold the flight open so callers overlap
		w.Write([]byte(`{"access_token":"tok-new","refresh_token":"ref-new"}`))
	})

	client, jar := newClient(t, mux)
	jar.SetPair("tok-stale", "ref-1")

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.CurrentUser(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Errorf("refresh calls = %d, want 1 for the whole burst", n)
	}
}
