package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursecloud/internal/gateway/accounts"
	"coursecloud/internal/gateway/service"
	"coursecloud/internal/jwttoken"
)

type fixture struct {
	proxy    *Proxy
	tokens   *jwttoken.Service
	upstream *httptest.Server
	seen     *http.Header
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	var seen http.Header
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		_, _ = io.WriteString(w, `{"code":200,"message":"OK","data":null}`)
	}))
	t.Cleanup(upstream.Close)

	tokens := jwttoken.New("proxy-test-key", "coursecloud-gateway")
	svc := service.New(accounts.NewStore(), tokens, time.Hour)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	p, err := New(svc, []string{"/api/auth/"}, []Route{
		{Prefix: "/api/courses", Target: upstream.URL},
		{Prefix: "/api/auth", Target: upstream.URL},
	}, logger)
	if err != nil {
		t.Fatalf("failed to build proxy: %v", err)
	}
	return &fixture{proxy: p, tokens: tokens, upstream: upstream, seen: &seen}
}

func (f *fixture) do(t *testing.T, path, token string, extra http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	f.proxy.ServeHTTP(rec, req)
	return rec
}

func TestProxyRequiresTokenOutsideWhitelist(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, "/api/courses", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	var env struct {
		Code int `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if env.Code != http.StatusUnauthorized {
		t.Fatalf("expected envelope code 401, got %d", env.Code)
	}
}

func TestProxyForwardsClaimsAsHeaders(t *testing.T) {
	f := newFixture(t)

	token, err := f.tokens.Generate("u-7", "alice", "STUDENT", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	rec := f.do(t, "/api/courses", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 through the proxy, got %d", rec.Code)
	}

	if got := f.seen.Get("X-User-Id"); got != "u-7" {
		t.Fatalf("expected X-User-Id u-7, got %q", got)
	}
	if got := f.seen.Get("X-Username"); got != "alice" {
		t.Fatalf("expected X-Username alice, got %q", got)
	}
	if got := f.seen.Get("X-User-Role"); got != "STUDENT" {
		t.Fatalf("expected X-User-Role STUDENT, got %q", got)
	}
}

func TestProxyWhitelistBypassesAuth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, "/api/auth/login", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected whitelisted path to pass without a token, got %d", rec.Code)
	}
}

func TestProxyStripsClientIdentityHeaders(t *testing.T) {
	f := newFixture(t)

	extra := http.Header{}
	extra.Set("X-User-Id", "spoofed")
	rec := f.do(t, "/api/auth/login", "", extra)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := f.seen.Get("X-User-Id"); got != "" {
		t.Fatalf("expected spoofed X-User-Id to be stripped, got %q", got)
	}
}

func TestProxyUnknownRouteIs404(t *testing.T) {
	f := newFixture(t)

	token, err := f.tokens.Generate("u-7", "alice", "STUDENT", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	rec := f.do(t, "/api/unknown", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unrouted path, got %d", rec.Code)
	}
}

func TestProxyUpstreamDownIs503(t *testing.T) {
	f := newFixture(t)
	f.upstream.Close()

	rec := f.do(t, "/api/auth/login", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with upstream down, got %d", rec.Code)
	}
}
