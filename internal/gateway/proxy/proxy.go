// Package proxy routes gateway traffic to the downstream services. Requests
// outside the auth whitelist must carry a valid bearer token; its claims are
// forwarded as identity headers so downstream services never parse tokens.
package proxy

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"coursecloud/internal/gateway/service"
	dErrors "coursecloud/pkg/domain-errors"
	platformhttp "coursecloud/pkg/platform/httputil"
)

// Route maps a path prefix to one upstream service.
type Route struct {
	Prefix string
	Target string
}

type Proxy struct {
	svc       *service.Service
	whitelist []string
	routes    []route
	logger    *slog.Logger
}

type route struct {
	prefix  string
	forward *httputil.ReverseProxy
}

func New(svc *service.Service, whitelist []string, routes []Route, logger *slog.Logger) (*Proxy, error) {
	p := &Proxy{svc: svc, whitelist: whitelist, logger: logger}
	for _, r := range routes {
		target, err := url.Parse(r.Target)
		if err != nil {
			return nil, err
		}
		forward := httputil.NewSingleHostReverseProxy(target)
		forward.ErrorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
			logger.Warn("proxy upstream failed", "path", req.URL.Path, "error", err)
			platformhttp.ErrorStatus(w, http.StatusServiceUnavailable, "upstream service unavailable")
		}
		p.routes = append(p.routes, route{prefix: r.Prefix, forward: forward})
	}
	return p, nil
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Stale identity headers from the client are never trusted.
	r.Header.Del("X-User-Id")
	r.Header.Del("X-Username")
	r.Header.Del("X-User-Role")

	if !p.whitelisted(r.URL.Path) {
		claims, err := p.svc.Validate(bearerToken(r))
		if err != nil {
			platformhttp.Error(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid token"))
			return
		}
		r.Header.Set("X-User-Id", claims.Subject)
		r.Header.Set("X-Username", claims.Username)
		r.Header.Set("X-User-Role", claims.Role)
	}

	for _, route := range p.routes {
		if strings.HasPrefix(r.URL.Path, route.prefix) {
			route.forward.ServeHTTP(w, r)
			return
		}
	}
	platformhttp.Error(w, dErrors.Newf(dErrors.CodeNotFound, "no route for path: %s", r.URL.Path))
}

func (p *Proxy) whitelisted(path string) bool {
	for _, prefix := range p.whitelist {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
