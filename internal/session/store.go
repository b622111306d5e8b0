// Package session owns the authentication state of the client: the
// current user, the bearer token, and the login/logout/refresh actions.
// It is the only component permitted to perform global side effects on
// the persisted auth keys.
package session

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/AQUACY/AGHIMS/internal/httpclient"
	"github.com/AQUACY/AGHIMS/internal/token"
	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/notify"
	"github.com/AQUACY/AGHIMS/pkg/storage"
	"github.com/AQUACY/AGHIMS/pkg/types"
)

// fetchGraceWindow suppresses eviction when the profile fetch gets a
// 401 shortly after token issuance. Wider than the transport-level
// window: the profile fetch races the login response more often.
const fetchGraceWindow = 10 * time.Second

// Store holds the session aggregate. All mutation goes through its
// methods; readers receive it by injection, never as an ambient global.
type Store struct {
	mu            sync.RWMutex
	user          *types.User
	token         string
	authenticated bool

	client   *httpclient.Client
	storage  storage.Store
	logger   *logger.Logger
	notifier notify.Notifier
	now      func() time.Time
}

// New creates a session store over the shared request pipeline and the
// persisted key-value store.
func New(client *httpclient.Client, store storage.Store, log *logger.Logger, notifier notify.Notifier) *Store {
	return &Store{
		client:   client,
		storage:  store,
		logger:   log,
		notifier: notifier,
		now:      time.Now,
	}
}

// Login submits credentials to the backend. On success the returned
// token is stored, the profile fetch is kicked off and a success
// notification is surfaced. On failure the server-supplied message (or
// a generic fallback) is surfaced and false is returned; the error
// never escapes to the caller.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok types.AuthToken
	if err := s.client.PostForm(ctx, "/auth/login", form, &tok); err != nil {
		s.logger.WithComponent("session").WithError(err).Warn("Login failed")
		notify.Negative(s.notifier, types.DetailOf(err, "Login failed"))
		return false
	}

	s.mu.Lock()
	s.token = tok.AccessToken
	s.authenticated = true
	s.mu.Unlock()

	if err := s.storage.Set(storage.KeyAuthToken, tok.AccessToken); err != nil {
		s.logger.WithComponent("session").WithError(err).Warn("Failed to persist token")
	}

	if err := s.FetchUser(ctx); err != nil {
		s.logger.WithComponent("session").WithError(err).Warn("Profile fetch after login failed")
	}

	s.logger.SessionEvent("login", username, nil)
	notify.Positive(s.notifier, "Login successful")
	return true
}

// FetchUser fetches and stores the profile for the current token.
//
// A 401 within the grace window of token issuance is presumed clock
// skew and suppressed; a 401 outside it evicts the session. Any other
// failure (network, 5xx) is logged and the session is kept, so
// transient connectivity never logs a user out.
func (s *Store) FetchUser(ctx context.Context) error {
	var user types.User
	if err := s.client.Get(ctx, "/auth/me", &user); err != nil {
		if !types.IsUnauthorized(err) {
			s.logger.WithComponent("session").WithError(err).Warn("Failed to fetch user, keeping session")
			return err
		}

		claims := token.DecodeClaims(s.Token())
		if claims.IssuedWithin(fetchGraceWindow, s.now()) {
			s.logger.WithComponent("session").
				Warn("401 fetching profile with freshly issued token, suspected clock skew, keeping session")
			return err
		}

		s.evict()
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.authenticated = s.token != ""
	s.mu.Unlock()

	if raw, err := json.Marshal(&user); err == nil {
		if err := s.storage.Set(storage.KeyUser, string(raw)); err != nil {
			s.logger.WithComponent("session").WithError(err).Warn("Failed to cache user")
		}
	}

	return nil
}

// Logout unconditionally clears the in-memory and persisted session
// state. Idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.authenticated = false
	s.mu.Unlock()

	if err := s.storage.Remove(storage.KeyAuthToken); err != nil {
		s.logger.WithComponent("session").WithError(err).Warn("Failed to clear token")
	}
	if err := s.storage.Remove(storage.KeyUser); err != nil {
		s.logger.WithComponent("session").WithError(err).Warn("Failed to clear cached user")
	}

	s.logger.SessionEvent("logout", "", nil)
}

// evict clears the session after an unrecoverable 401
func (s *Store) evict() {
	s.logger.SessionEvent("evicted", s.UserName(), map[string]interface{}{"reason": "unauthorized"})
	s.Logout()
}

// InitAuth hydrates the session from persisted storage at application
// start. When a token exists without a cached profile the fetch runs in
// the background; startup is never blocked on it.
func (s *Store) InitAuth() {
	tok, ok := s.storage.Get(storage.KeyAuthToken)
	if !ok || tok == "" {
		return
	}

	s.mu.Lock()
	s.token = tok
	s.authenticated = true
	s.mu.Unlock()

	if raw, ok := s.storage.Get(storage.KeyUser); ok && raw != "" {
		var user types.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			s.mu.Lock()
			s.user = &user
			s.mu.Unlock()
			return
		}
		s.logger.WithComponent("session").Warn("Discarding unreadable cached user")
	}

	go func() {
		if err := s.FetchUser(context.Background()); err != nil {
			s.logger.WithComponent("session").WithError(err).Warn("Background profile fetch failed")
		}
	}()
}

// RefreshToken requests a new token for the existing session, replacing
// the stored one on success and evicting the session on failure.
// Caller-driven; used to extend a session before expiry.
func (s *Store) RefreshToken(ctx context.Context) error {
	var tok types.AuthToken
	if err := s.client.Post(ctx, "/auth/refresh", nil, &tok); err != nil {
		s.logger.WithComponent("session").WithError(err).Warn("Token refresh failed")
		s.evict()
		return err
	}

	s.mu.Lock()
	s.token = tok.AccessToken
	s.authenticated = true
	s.mu.Unlock()

	if err := s.storage.Set(storage.KeyAuthToken, tok.AccessToken); err != nil {
		s.logger.WithComponent("session").WithError(err).Warn("Failed to persist refreshed token")
	}

	s.logger.SessionEvent("refresh", s.UserName(), nil)
	return nil
}

// ChangePassword submits a password change for the current user
func (s *Store) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	req := &types.ChangePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}
	if err := s.client.Post(ctx, "/auth/change-password", req, nil); err != nil {
		notify.Negative(s.notifier, types.DetailOf(err, "Failed to change password"))
		return err
	}

	notify.Positive(s.notifier, "Password changed successfully")
	return nil
}

// CanAccess reports whether the current user's role grants access to a
// route restricted to the given roles. Comparison is exact-string and
// case-sensitive after trimming incidental whitespace; the Admin role
// passes every check.
func (s *Store) CanAccess(roles []string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return false
	}

	role := strings.TrimSpace(s.user.Role)
	if role == types.RoleAdmin {
		return true
	}
	for _, allowed := range roles {
		if role == allowed {
			return true
		}
	}
	return false
}

// IsAuthenticated reports whether a session token is held
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Token returns the in-memory session token
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserRole returns the current user's role, or "" when no user is
// loaded.
func (s *Store) UserRole() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// UserName returns the current user's display name, or "" when no user
// is loaded.
func (s *Store) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return ""
	}
	return s.user.DisplayName()
}

// CurrentUser returns a copy of the loaded profile, or nil
func (s *Store) CurrentUser() *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}
