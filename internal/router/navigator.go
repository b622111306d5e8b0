package router

import (
	"fmt"
	"strings"
	"sync"

	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/notify"
)

// Navigator tracks the currently displayed route and applies the guard
// to every navigation. It is the client's source of truth for "which
// view is showing", consumed by the response interceptor's login-view
// check.
type Navigator struct {
	mu      sync.RWMutex
	current string

	sess     Session
	logger   *logger.Logger
	notifier notify.Notifier
}

// NewNavigator creates a navigator starting on the login view
func NewNavigator(sess Session, log *logger.Logger, notifier notify.Notifier) *Navigator {
	return &Navigator{
		current:  LoginPath,
		sess:     sess,
		logger:   log,
		notifier: notifier,
	}
}

// Navigate requests a navigation to path, applying the guard. Redirect
// targets are themselves guarded, so an unauthenticated redirect to the
// landing view still ends on the login view. Returns the path the
// navigation settled on.
func (n *Navigator) Navigate(path string) string {
	route := Lookup(path)
	decision := Guard(route, n.sess)

	if decision.Denied {
		n.logger.AccessDenied(path, decision.DeniedRole, decision.RequiredRoles)
		notify.Negative(n.notifier, denialMessage(decision))
	}

	if !decision.Allowed(route) {
		return n.Navigate(decision.Target)
	}

	n.mu.Lock()
	n.current = path
	n.mu.Unlock()
	return path
}

// Current returns the currently displayed route path
func (n *Navigator) Current() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// ForceLogin performs the eviction redirect: a hard navigation to the
// login view that bypasses the guard, mirroring a full page load.
func (n *Navigator) ForceLogin() {
	n.mu.Lock()
	n.current = LoginPath
	n.mu.Unlock()
}

// denialMessage formats the user-visible access-denied text, naming the
// user's current role and the roles the route requires.
func denialMessage(d Decision) string {
	role := d.DeniedRole
	if role == "" {
		role = "Unknown"
	}
	return fmt.Sprintf(
		"Access denied. Your role (%s) does not have permission to access this page. Required roles: %s",
		role, strings.Join(d.RequiredRoles, ", "),
	)
}
