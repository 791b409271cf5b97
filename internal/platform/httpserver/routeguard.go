package httpserver

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"dealerportal/pkg/identity"
)

// RouteCategory classifies an inbound request path.
type RouteCategory string

const (
	CategoryPublic  RouteCategory = "public"
	CategoryDealer  RouteCategory = "dealer"
	CategoryAdmin   RouteCategory = "admin"
	CategoryDefault RouteCategory = "default"
)

// returnParam carries the original path through the login redirect.
const returnParam = "redirect_url"

const (
	dealerLoginRoute = "/dealer-login"
	adminLoginRoute  = "/admin-login"
)

// Static assets are excluded from guarding entirely.
var staticAssetPrefixes = []string{
	"/static/",
	"/assets/",
	"/favicon.ico",
	"/robots.txt",
}

// Ordered public patterns. They win over the protected patterns below, which
// is what keeps /dealer-login reachable while /dealer is guarded. API routes
// are public at the edge: every endpoint decides authentication itself.
var publicPatterns = []string{
	"/",
	"/products",
	"/brands",
	"/about",
	"/contact",
	dealerLoginRoute,
	adminLoginRoute,
	"/api/",
	"/swagger/",
}

var dealerPatterns = []string{"/dealer"}

var adminPatterns = []string{"/admin"}

// RouteGuard is the first-line request interceptor. For protected categories
// a present session is sufficient to pass; capability checks are deferred to
// the status endpoints on purpose (one provider round-trip at the edge
// instead of an extra record lookup per request). Unmatched categories fail
// open, and so does any internal guard error.
type RouteGuard struct {
	verifier identity.Verifier
	logger   *slog.Logger
}

func NewRouteGuard(verifier identity.Verifier, logger *slog.Logger) *RouteGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &RouteGuard{
		verifier: verifier,
		logger:   logger,
	}
}

func (g *RouteGuard) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if isStaticAsset(path) {
			next.ServeHTTP(w, r)
			return
		}

		category := classifyRoute(path)
		if category != CategoryDealer && category != CategoryAdmin {
			next.ServeHTTP(w, r)
			return
		}

		if g.hasSession(r) {
			next.ServeHTTP(w, r)
			return
		}

		loginRoute := dealerLoginRoute
		if category == CategoryAdmin {
			loginRoute = adminLoginRoute
		}
		g.logger.Debug("route guard redirecting unauthenticated request",
			"event", "guard_redirect",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"path", path,
			"category", string(category),
		)
		http.Redirect(w, r, loginRoute+"?"+returnParam+"="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
	})
}

// hasSession never propagates verifier failures; a broken verifier reads as
// an absent session.
func (g *RouteGuard) hasSession(r *http.Request) bool {
	if g.verifier == nil {
		return false
	}
	session, err := g.verifier.SessionFromRequest(r.Context(), r)
	return err == nil && session.Active
}

func classifyRoute(path string) RouteCategory {
	for _, pattern := range publicPatterns {
		if matchRoute(path, pattern) {
			return CategoryPublic
		}
	}
	for _, pattern := range dealerPatterns {
		if matchRoute(path, pattern) {
			return CategoryDealer
		}
	}
	for _, pattern := range adminPatterns {
		if matchRoute(path, pattern) {
			return CategoryAdmin
		}
	}
	return CategoryDefault
}

// matchRoute treats "/" as exact, trailing-slash patterns as prefixes, and
// everything else as exact-or-subtree. "/dealer" matches "/dealer/orders"
// but not "/dealer-login".
func matchRoute(path, pattern string) bool {
	if pattern == "/" {
		return path == "/"
	}
	if strings.HasSuffix(pattern, "/") {
		return strings.HasPrefix(path, pattern)
	}
	return path == pattern || strings.HasPrefix(path, pattern+"/")
}

func isStaticAsset(path string) bool {
	for _, prefix := range staticAssetPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
