package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/storage"
	"github.com/AQUACY/AGHIMS/pkg/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New("error")
}

// mintToken builds a real signed token issued at the given time
func mintToken(t *testing.T, issuedAt time.Time) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  "testuser",
		IssuedAt: jwt.NewNumericDate(issuedAt),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestRequestInterceptor_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	store := storage.NewMemory()
	require.NoError(t, store.Set(storage.KeyAuthToken, "aaa.bbb.ccc"))

	client := New(Options{BaseURL: server.URL, Store: store, Logger: testLogger()})

	var out map[string]interface{}
	require.NoError(t, client.Get(context.Background(), "/auth/me", &out))

	// The stored token is attached without alteration
	assert.Equal(t, "Bearer aaa.bbb.ccc", gotAuth)
}

func TestRequestInterceptor_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	var hasRequestID bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		hasRequestID = r.Header.Get("X-Request-ID") != ""
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL, Store: storage.NewMemory(), Logger: testLogger()})

	var out map[string]interface{}
	require.NoError(t, client.Get(context.Background(), "/patients/", &out))
	assert.Empty(t, gotAuth)
	assert.True(t, hasRequestID)
}

func TestUnauthorized_FreshTokenSuppressesEviction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"token invalid"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	store := storage.NewMemory()
	require.NoError(t, store.Set(storage.KeyAuthToken, mintToken(t, time.Now().Add(-3*time.Second))))
	require.NoError(t, store.Set(storage.KeyUser, `{"username":"doc"}`))

	redirected := make(chan struct{}, 1)
	client := New(Options{
		BaseURL:         server.URL,
		Store:           store,
		Logger:          testLogger(),
		CurrentPath:     func() string { return "/" },
		RedirectToLogin: func() { redirected <- struct{}{} },
	})

	err := client.Get(context.Background(), "/vitals/", nil)
	require.Error(t, err)
	assert.True(t, types.IsUnauthorized(err))

	// Suspected clock skew: the session survives and no redirect fires
	_, ok := store.Get(storage.KeyAuthToken)
	assert.True(t, ok)
	_, ok = store.Get(storage.KeyUser)
	assert.True(t, ok)

	select {
	case <-redirected:
		t.Fatal("redirect fired for a freshly issued token")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestUnauthorized_StaleTokenEvictsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	store := storage.NewMemory()
	require.NoError(t, store.Set(storage.KeyAuthToken, mintToken(t, time.Now().Add(-30*time.Second))))
	require.NoError(t, store.Set(storage.KeyUser, `{"username":"doc"}`))

	redirected := make(chan struct{}, 1)
	client := New(Options{
		BaseURL:         server.URL,
		Store:           store,
		Logger:          testLogger(),
		CurrentPath:     func() string { return "/" },
		RedirectToLogin: func() { redirected <- struct{}{} },
	})

	err := client.Get(context.Background(), "/vitals/", nil)
	require.Error(t, err)

	// Persisted credentials are cleared immediately
	_, ok := store.Get(storage.KeyAuthToken)
	assert.False(t, ok)
	_, ok = store.Get(storage.KeyUser)
	assert.False(t, ok)

	// The forced navigation follows after the settling delay
	select {
	case <-redirected:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("redirect to login never fired")
	}
}

func TestUnauthorized_UndecodableTokenEvicts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"bad token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	store := storage.NewMemory()
	require.NoError(t, store.Set(storage.KeyAuthToken, "garbage"))

	client := New(Options{
		BaseURL:     server.URL,
		Store:       store,
		Logger:      testLogger(),
		CurrentPath: func() string { return "/" },
	})

	require.Error(t, client.Get(context.Background(), "/vitals/", nil))

	// Cannot determine age: the conservative path is eviction
	_, ok := store.Get(storage.KeyAuthToken)
	assert.False(t, ok)
}

func TestUnauthorized_OnLoginViewPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid credentials"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	store := storage.NewMemory()
	require.NoError(t, store.Set(storage.KeyAuthToken, mintToken(t, time.Now().Add(-time.Hour))))

	client := New(Options{
		BaseURL:     server.URL,
		Store:       store,
		Logger:      testLogger(),
		CurrentPath: func() string { return "/login" },
	})

	err := client.Get(context.Background(), "/auth/me", nil)
	require.Error(t, err)

	// No eviction on the login view, preventing redirect loops
	_, ok := store.Get(storage.KeyAuthToken)
	assert.True(t, ok)
}

func TestUnauthorized_NoPersistedTokenPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	redirected := make(chan struct{}, 1)
	client := New(Options{
		BaseURL:         server.URL,
		Store:           storage.NewMemory(),
		Logger:          testLogger(),
		CurrentPath:     func() string { return "/" },
		RedirectToLogin: func() { redirected <- struct{}{} },
	})

	require.Error(t, client.Get(context.Background(), "/vitals/", nil))

	select {
	case <-redirected:
		t.Fatal("redirect fired without a persisted token")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestOtherStatusCodesPassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"record not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	store := storage.NewMemory()
	require.NoError(t, store.Set(storage.KeyAuthToken, "aaa.bbb.ccc"))

	client := New(Options{BaseURL: server.URL, Store: store, Logger: testLogger()})

	err := client.Get(context.Background(), "/patients/card/XYZ", nil)
	require.Error(t, err)

	var apiErr *types.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "record not found", apiErr.Detail)

	// The error propagates without touching the session
	_, ok := store.Get(storage.KeyAuthToken)
	assert.True(t, ok)
}

func TestTransportErrorIsTyped(t *testing.T) {
	client := New(Options{
		BaseURL: "http://127.0.0.1:1",
		Store:   storage.NewMemory(),
		Logger:  testLogger(),
		Timeout: time.Second,
	})

	err := client.Get(context.Background(), "/patients/", nil)
	require.Error(t, err)

	var apiErr *types.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsTransport())
	assert.Equal(t, 0, types.StatusOf(err))
}

func TestPostForm_EncodesCredentials(t *testing.T) {
	var gotContentType, gotUsername string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotUsername = r.PostFormValue("username")
		w.Write([]byte(`{"access_token":"tok"}`))
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL, Store: storage.NewMemory(), Logger: testLogger()})

	form := make(map[string][]string)
	form["username"] = []string{"drmensah"}
	form["password"] = []string{"secret"}

	var tok types.AuthToken
	require.NoError(t, client.PostForm(context.Background(), "/auth/login", form, &tok))
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "drmensah", gotUsername)
	assert.Equal(t, "tok", tok.AccessToken)
}
