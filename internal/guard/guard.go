package guard

import (
	"net/http"
	"net/url"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
)

const (
	DefaultFallbackPath = "/log-in"
	UnauthorizedPath    = "/unauthorized"
	HomePath            = "/home"
	DashboardPath       = "/dashboard"
)

// SessionState is what the gates need from the session store.
type SessionState interface {
	IsLoading() bool
	IsAuthenticated() bool
	User() *domain.UserProfile
	Ready() <-chan struct{}
}

type DecisionKind int

const (
	// Authorized lets the request through to the nested handler.
	Authorized DecisionKind = iota
	// RedirectUnauthenticated sends an anonymous visitor to the fallback,
	// carrying where they came from so the login page can return them.
	RedirectUnauthenticated
	// RedirectForbidden sends an authenticated user without the required
	// role to the unauthorized page. Distinct from the auth fallback.
	RedirectForbidden
	// RedirectAway bounces an authenticated user off a public-only page
	// to their role-appropriate landing.
	RedirectAway
)

// Decision is the single per-navigation outcome of a gate. It is computed
// once and acted on, never re-derived piecemeal.
type Decision struct {
	Kind DecisionKind
	To   string
	From string
}

// DecideProtected gates a page that needs an authenticated session and,
// optionally, one of the required roles.
func DecideProtected(sess SessionState, required domain.RoleSet, fallback, from string) Decision {
	if fallback == "" {
		fallback = DefaultFallbackPath
	}

	if !sess.IsAuthenticated() {
		return Decision{Kind: RedirectUnauthenticated, To: fallback, From: from}
	}

	if len(required) > 0 {
		user := sess.User()
		if user == nil || !user.Roles.Intersects(required) {
			return Decision{Kind: RedirectForbidden, To: UnauthorizedPath}
		}
	}

	return Decision{Kind: Authorized}
}

// DecidePublic gates a page that only anonymous visitors should see
// (log-in, sign-up). Authenticated admins land on the dashboard, everyone
// else on home.
func DecidePublic(sess SessionState) Decision {
	if !sess.IsAuthenticated() {
		return Decision{Kind: Authorized}
	}

	user := sess.User()
	if user != nil && user.Roles.Has(domain.RoleAdmin) {
		return Decision{Kind: RedirectAway, To: DashboardPath}
	}
	return Decision{Kind: RedirectAway, To: HomePath}
}

// Protected wraps a route so it is only reachable with an authenticated
// session holding one of the required roles (any session when none are
// given). While the bootstrap session check is still resolving the request
// blocks, the HTTP analogue of rendering a spinner instead of the page.
func Protected(sess SessionState, required domain.RoleSet, fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !waitForSession(sess, w, r) {
				return
			}
			apply(DecideProtected(sess, required, fallback, r.URL.Path), next, w, r)
		})
	}
}

// Public wraps a route that authenticated users are bounced away from.
func Public(sess SessionState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !waitForSession(sess, w, r) {
				return
			}
			apply(DecidePublic(sess), next, w, r)
		})
	}
}

func waitForSession(sess SessionState, w http.ResponseWriter, r *http.Request) bool {
	select {
	case <-sess.Ready():
		return true
	case <-r.Context().Done():
		w.WriteHeader(http.StatusServiceUnavailable)
		return false
	}
}

func apply(d Decision, next http.Handler, w http.ResponseWriter, r *http.Request) {
	switch d.Kind {
	case Authorized:
		next.ServeHTTP(w, r)
	case RedirectUnauthenticated:
		to := d.To
		if d.From != "" {
			to += "?from=" + url.QueryEscape(d.From)
		}
		http.Redirect(w, r, to, http.StatusFound)
	case RedirectForbidden, RedirectAway:
		http.Redirect(w, r, d.To, http.StatusFound)
	}
}
