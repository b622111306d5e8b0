package router

// Session is the session snapshot the guard decides over
type Session interface {
	IsAuthenticated() bool
	UserRole() string
	CanAccess(roles []string) bool
}

// Decision is the outcome of guarding one navigation
type Decision struct {
	// Target is where the navigation ends up; equals the requested
	// path when allowed.
	Target string
	// Denied is set when an allowed-roles check failed and a
	// user-visible denial should be surfaced. The role-required path
	// redirects silently and does not set it.
	Denied bool
	// DeniedRole and RequiredRoles describe the denial for the
	// notification text.
	DeniedRole    string
	RequiredRoles []string
}

// Allowed reports whether the navigation may proceed to the requested
// route.
func (d Decision) Allowed(route Route) bool {
	return d.Target == route.Path
}

// Guard evaluates one navigation as a pure decision tree over the
// destination metadata and the current session snapshot.
//
// Any panic while evaluating (a half-constructed session, for example)
// defaults to redirecting to the login view, unless the destination
// already is the login view, which is allowed through to avoid an
// infinite redirect loop on guard failure.
func Guard(route Route, sess Session) (decision Decision) {
	defer func() {
		if r := recover(); r != nil {
			// Falling back to the login view doubles as allowing the
			// navigation when the destination already is the login view.
			decision = Decision{Target: LoginPath}
		}
	}()

	switch {
	case route.RequiresAuth && !sess.IsAuthenticated():
		return Decision{Target: LoginPath}

	case route.Path == LoginPath && sess.IsAuthenticated():
		return Decision{Target: LandingPath}

	case route.RequiresRole != "" && sess.UserRole() != route.RequiresRole:
		// Silent redirect: the single-role path surfaces no denial
		return Decision{Target: LandingPath}

	case len(route.AllowedRoles) > 0 && !sess.CanAccess(route.AllowedRoles):
		return Decision{
			Target:        LandingPath,
			Denied:        true,
			DeniedRole:    sess.UserRole(),
			RequiredRoles: route.AllowedRoles,
		}

	default:
		return Decision{Target: route.Path}
	}
}
