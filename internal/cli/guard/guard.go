// Package guard gates navigation on session state. Each guard is a pure
// predicate: it reads the session synchronously and returns a decision,
// leaving the actual navigation to the caller.
package guard

import "net/url"

// Session is the session state a guard reads
type Session interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Decision is the outcome of evaluating a guard against a target route
type Decision struct {
	Allowed    bool
	RedirectTo string // route to navigate to instead, "" when allowed
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(redirectTo string) Decision {
	return Decision{RedirectTo: redirectTo}
}

// loginRedirect points to the login route, carrying the attempted
// target so the caller can return there after signing in
func loginRedirect(target string) string {
	if target == "" {
		return "/auth/login"
	}
	return "/auth/login?returnUrl=" + url.QueryEscape(target)
}

// RequireAuth allows only signed-in users; anyone else is sent to the
// login route with the attempted target as the return URL
func RequireAuth(sess Session, target string) Decision {
	if sess.IsAuthenticated() {
		return allow()
	}
	return deny(loginRedirect(target))
}

// RequireGuest allows only signed-out users; a signed-in user is sent
// back to the root route
func RequireGuest(sess Session, target string) Decision {
	if !sess.IsAuthenticated() {
		return allow()
	}
	return deny("/")
}

// RequireAdmin allows only signed-in administrators. A signed-out user
// goes to the login route; a signed-in non-admin goes to the root.
func RequireAdmin(sess Session, target string) Decision {
	if !sess.IsAuthenticated() {
		return deny(loginRedirect(""))
	}
	if !sess.IsAdmin() {
		return deny("/")
	}
	return allow()
}

// Verified is the session state the verified-only guard reads
type Verified interface {
	IsAuthenticated() bool
	IsVerified() bool
}

// RequireVerified allows only signed-in users with a confirmed email.
// An unverified user is sent to the verification-pending route.
func RequireVerified(sess Verified, target string) Decision {
	if !sess.IsAuthenticated() {
		return deny(loginRedirect(target))
	}
	if !sess.IsVerified() {
		return deny("/auth/verify-pending")
	}
	return allow()
}
