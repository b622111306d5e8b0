package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/AQUACY/AGHIMS/internal/httpclient"
	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/notify"
	"github.com/AQUACY/AGHIMS/pkg/storage"
	"github.com/AQUACY/AGHIMS/pkg/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures notifications for assertions
type recorder struct {
	mu            sync.Mutex
	notifications []notify.Notification
}

func (r *recorder) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorder) last() (notify.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return notify.Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}

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

// newTestStore wires a session store against a test backend
func newTestStore(t *testing.T, handler http.Handler) (*Store, *storage.Memory, *recorder) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := storage.NewMemory()
	log := logger.New("error")
	rec := &recorder{}

	client := httpclient.New(httpclient.Options{
		BaseURL: server.URL,
		Store:   store,
		Logger:  log,
		// Login flows run on the login view
		CurrentPath: func() string { return "/login" },
	})

	return New(client, store, log, rec), store, rec
}

func authBackend(t *testing.T, user types.User) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostFormValue("password") != "secret" {
			http.Error(w, `{"detail":"Incorrect username or password"}`, http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(types.AuthToken{AccessToken: mintToken(t, time.Now())})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(user)
	})
	return mux
}

func TestLogin_Success(t *testing.T) {
	user := types.User{Username: "drmensah", FullName: "Dr. Mensah", Role: types.RoleDoctor}
	sess, store, rec := newTestStore(t, authBackend(t, user))

	ok := sess.Login(context.Background(), "drmensah", "secret")
	require.True(t, ok)

	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, types.RoleDoctor, sess.UserRole())
	assert.Equal(t, "Dr. Mensah", sess.UserName())

	// Token and profile are persisted
	tok, found := store.Get(storage.KeyAuthToken)
	assert.True(t, found)
	assert.NotEmpty(t, tok)
	_, found = store.Get(storage.KeyUser)
	assert.True(t, found)

	last, found := rec.last()
	require.True(t, found)
	assert.Equal(t, notify.TypePositive, last.Type)
	assert.Equal(t, "Login successful", last.Message)
}

func TestLogin_Failure(t *testing.T) {
	sess, store, rec := newTestStore(t, authBackend(t, types.User{}))

	ok := sess.Login(context.Background(), "drmensah", "wrong")
	require.False(t, ok)

	assert.False(t, sess.IsAuthenticated())
	_, found := store.Get(storage.KeyAuthToken)
	assert.False(t, found)

	// The server-supplied message is surfaced
	last, found := rec.last()
	require.True(t, found)
	assert.Equal(t, notify.TypeNegative, last.Type)
	assert.Equal(t, "Incorrect username or password", last.Message)
}

func TestLogout_Idempotent(t *testing.T) {
	user := types.User{Username: "drmensah", Role: types.RoleDoctor}
	sess, store, _ := newTestStore(t, authBackend(t, user))
	require.True(t, sess.Login(context.Background(), "drmensah", "secret"))

	clearedState := func() (bool, string, bool) {
		_, hasToken := store.Get(storage.KeyAuthToken)
		return sess.IsAuthenticated(), sess.UserRole(), hasToken
	}

	sess.Logout()
	auth1, role1, token1 := clearedState()

	sess.Logout()
	auth2, role2, token2 := clearedState()

	assert.False(t, auth1)
	assert.Empty(t, role1)
	assert.False(t, token1)
	assert.Equal(t, auth1, auth2)
	assert.Equal(t, role1, role2)
	assert.Equal(t, token1, token2)
}

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name  string
		role  string
		roles []string
		want  bool
	}{
		{"no user loaded", "", nil, false},
		{"exact match", "Nurse", []string{"Nurse"}, true},
		{"whitespace trimmed", " Nurse ", []string{"Nurse"}, true},
		{"case sensitive", "nurse", []string{"Nurse"}, false},
		{"not in set", "Lab", []string{"Nurse", "Doctor"}, false},
		{"admin bypasses any set", "Admin", []string{"Claims", "Billing"}, true},
		{"admin with whitespace", " Admin ", []string{"Claims"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, _, _ := newTestStore(t, http.NotFoundHandler())
			if tt.role != "" {
				sess.mu.Lock()
				sess.user = &types.User{Username: "u", Role: tt.role}
				sess.mu.Unlock()
			}
			assert.Equal(t, tt.want, sess.CanAccess(tt.roles))
		})
	}
}

func TestFetchUser_FreshTokenSuppressesEviction(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"unauthorized"}`, http.StatusUnauthorized)
	})
	sess, store, _ := newTestStore(t, mux)

	tok := mintToken(t, time.Now().Add(-3*time.Second))
	require.NoError(t, store.Set(storage.KeyAuthToken, tok))
	sess.InitAuth()
	// Wait out the background fetch kicked off by InitAuth
	time.Sleep(100 * time.Millisecond)

	err := sess.FetchUser(context.Background())
	require.Error(t, err)

	// Suspected clock skew: the session survives
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, tok, sess.Token())
}

func TestFetchUser_StaleTokenEvicts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"unauthorized"}`, http.StatusUnauthorized)
	})
	sess, store, _ := newTestStore(t, mux)

	require.NoError(t, store.Set(storage.KeyAuthToken, mintToken(t, time.Now().Add(-time.Minute))))
	require.NoError(t, store.Set(storage.KeyUser, `{"username":"doc"}`))
	sess.InitAuth()

	err := sess.FetchUser(context.Background())
	require.Error(t, err)

	assert.False(t, sess.IsAuthenticated())
	_, found := store.Get(storage.KeyAuthToken)
	assert.False(t, found)
}

func TestFetchUser_TransientFailureKeepsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"database unavailable"}`, http.StatusInternalServerError)
	})
	sess, store, _ := newTestStore(t, mux)

	tok := mintToken(t, time.Now().Add(-time.Hour))
	require.NoError(t, store.Set(storage.KeyAuthToken, tok))
	require.NoError(t, store.Set(storage.KeyUser, `{"username":"doc","role":"Doctor"}`))
	sess.InitAuth()

	err := sess.FetchUser(context.Background())
	require.Error(t, err)

	// A 5xx never logs the user out
	assert.True(t, sess.IsAuthenticated())
	_, found := store.Get(storage.KeyAuthToken)
	assert.True(t, found)
}

func TestInitAuth_HydratesCachedUser(t *testing.T) {
	sess, store, _ := newTestStore(t, http.NotFoundHandler())

	require.NoError(t, store.Set(storage.KeyAuthToken, "aaa.bbb.ccc"))
	require.NoError(t, store.Set(storage.KeyUser, `{"username":"nanaa","full_name":"Nana A.","role":"Records"}`))

	sess.InitAuth()

	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, types.RoleRecords, sess.UserRole())
	assert.Equal(t, "Nana A.", sess.UserName())
}

func TestInitAuth_NoTokenStaysAnonymous(t *testing.T) {
	sess, _, _ := newTestStore(t, http.NotFoundHandler())

	sess.InitAuth()

	assert.False(t, sess.IsAuthenticated())
	assert.Nil(t, sess.CurrentUser())
}

func TestRefreshToken_Success(t *testing.T) {
	refreshed := mintToken(t, time.Now())
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.AuthToken{AccessToken: refreshed})
	})
	sess, store, _ := newTestStore(t, mux)

	require.NoError(t, store.Set(storage.KeyAuthToken, "old.token.value"))
	sess.InitAuth()

	require.NoError(t, sess.RefreshToken(context.Background()))

	assert.Equal(t, refreshed, sess.Token())
	persisted, _ := store.Get(storage.KeyAuthToken)
	assert.Equal(t, refreshed, persisted)
}

func TestRefreshToken_FailureEvicts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"refresh failed"}`, http.StatusInternalServerError)
	})
	sess, store, _ := newTestStore(t, mux)

	require.NoError(t, store.Set(storage.KeyAuthToken, "old.token.value"))
	sess.InitAuth()

	require.Error(t, sess.RefreshToken(context.Background()))

	assert.False(t, sess.IsAuthenticated())
	_, found := store.Get(storage.KeyAuthToken)
	assert.False(t, found)
}

func TestChangePassword(t *testing.T) {
	var gotBody types.ChangePasswordRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/change-password", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{}`))
	})
	sess, _, rec := newTestStore(t, mux)

	require.NoError(t, sess.ChangePassword(context.Background(), "old-pass", "new-pass"))
	assert.Equal(t, "old-pass", gotBody.CurrentPassword)
	assert.Equal(t, "new-pass", gotBody.NewPassword)

	last, found := rec.last()
	require.True(t, found)
	assert.Equal(t, notify.TypePositive, last.Type)
}
