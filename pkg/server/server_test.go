package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/drivetrain/pkg/cache"
	"github.com/matzehuels/drivetrain/pkg/errors"
	"github.com/matzehuels/drivetrain/pkg/observability"
	"github.com/matzehuels/drivetrain/pkg/pipeline"
	"github.com/matzehuels/drivetrain/pkg/session"
)

const gearbox = `{
  "definition": {
    "name": "two stage",
    "elements": [
      {"id": "s1", "variants": [{"kind": "gear", "z1": 20, "z2": 60}]},
      {"id": "sp1", "length": 30},
      {"id": "s2", "variants": [{"kind": "belt", "d1": 100, "d2": 250}]}
    ]
  }%s
}`

const folded = `{
  "definition": {"elements": [
    {"id": "a", "variants": [{"kind": "gear", "z1": 20, "z2": 40, "reversed": true}]},
    {"id": "b", "variants": [{"kind": "gear", "z1": 20, "z2": 40, "reversed": true}]},
    {"id": "c", "variants": [{"kind": "gear", "z1": 20, "z2": 40}]}
  ]},
  "options": {"scheme": {"layout": {"source": false}}}%s
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mc := cache.NewMemoryCache()
	srv := New(pipeline.NewRunner(mc, nil, nil), session.NewCacheStore(mc, nil), nil,
		WithSessionTTL(time.Hour))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t)
	if resp := do(t, ts, http.MethodGet, "/healthz", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("healthz = %d", resp.StatusCode)
	}
	resp := do(t, ts, http.MethodGet, "/v1/version", "")
	var info map[string]string
	decodeInto(t, resp, &info)
	if info["version"] == "" || info["go_version"] == "" {
		t.Errorf("version = %v", info)
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, ts, http.MethodPost, "/v1/layout", strings.Replace(gearbox, "%s", "", 1))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got LayoutResponse
	decodeInto(t, resp, &got)
	if got.Scene == nil || len(got.Scene.Callouts) != 2 {
		t.Fatalf("scene = %+v", got.Scene)
	}
	if got.Warn || got.Cached {
		t.Errorf("warn = %v, cached = %v", got.Warn, got.Cached)
	}
	if got.Scene.OverallRatio != 7.5 {
		t.Errorf("overall ratio = %v, want 7.5", got.Scene.OverallRatio)
	}

	resp = do(t, ts, http.MethodPost, "/v1/layout", strings.Replace(gearbox, "%s", "", 1))
	decodeInto(t, resp, &got)
	if !got.Cached {
		t.Error("second identical layout should come from cache")
	}
}

func TestLayoutFromSource(t *testing.T) {
	ts := newTestServer(t)
	src := "[[elements]]\nid = \"s1\"\n[[elements.variants]]\nkind = \"chain\"\nz1 = 17\nz2 = 34\n"
	body, _ := json.Marshal(map[string]string{"source": src, "format": "toml"})
	resp := do(t, ts, http.MethodPost, "/v1/layout", string(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got LayoutResponse
	decodeInto(t, resp, &got)
	if got.Scene.OverallRatio != 2 {
		t.Errorf("overall ratio = %v", got.Scene.OverallRatio)
	}
}

func TestLayoutErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"empty body", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"no definition", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"definitoin": {}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"duplicate ids", `{"definition": {"elements": [{"id": "x", "length": 1}, {"id": "x", "length": 2}]}}`,
			http.StatusBadRequest, errors.ErrCodeInvalidElement},
		{"bad kind", `{"definition": {"elements": [{"variants": [{"kind": "warp"}]}]}}`,
			http.StatusBadRequest, errors.ErrCodeInvalidKind},
		{"bad source format", `{"source": "x", "format": "xml"}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad output format", strings.Replace(gearbox, "%s", `, "options": {"formats": ["png"]}`, 1),
			http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"missing session", strings.Replace(gearbox, "%s", `, "session": "nope"`, 1),
			http.StatusNotFound, errors.ErrCodeSessionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, ts, http.MethodPost, "/v1/layout", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorBody
			decodeInto(t, resp, &body)
			if body.Error.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", body.Error.Code, tt.code, body.Error.Message)
			}
		})
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/v1/render", strings.Replace(gearbox, "%s", "", 1))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if resp.Header.Get(WarnHeader) != "false" {
		t.Errorf("warn header = %q", resp.Header.Get(WarnHeader))
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("body is not svg")
	}

	resp = do(t, ts, http.MethodPost, "/v1/render",
		strings.Replace(gearbox, "%s", `, "options": {"formats": ["svg", "dot"]}`, 1))
	var multi RenderResponse
	decodeInto(t, resp, &multi)
	if len(multi.Artifacts) != 2 {
		t.Fatalf("artifacts = %v", multi.Artifacts)
	}
	dot, err := base64.StdEncoding.DecodeString(multi.Artifacts["dot"])
	if err != nil || !bytes.HasPrefix(dot, []byte("digraph")) {
		t.Errorf("dot = %q, %v", dot, err)
	}
}

func TestSessionWarningFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/v1/sessions", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create = %d", resp.StatusCode)
	}
	var sess session.Session
	decodeInto(t, resp, &sess)
	withSession := strings.Replace(folded, "%s", `, "session": "`+sess.ID+`"`, 1)

	var lr LayoutResponse
	decodeInto(t, do(t, ts, http.MethodPost, "/v1/layout", withSession), &lr)
	if !lr.Warn || lr.Fingerprint == "" || lr.Session != sess.ID {
		t.Fatalf("first pass: warn = %v, fingerprint = %q, session = %q", lr.Warn, lr.Fingerprint, lr.Session)
	}

	resp = do(t, ts, http.MethodPost, "/v1/sessions/"+sess.ID+"/dismiss", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dismiss = %d", resp.StatusCode)
	}
	var dismissed session.Session
	decodeInto(t, resp, &dismissed)
	if dismissed.Dismissed != lr.Fingerprint {
		t.Errorf("dismissed = %q, want %q", dismissed.Dismissed, lr.Fingerprint)
	}

	decodeInto(t, do(t, ts, http.MethodPost, "/v1/layout", withSession), &lr)
	if lr.Warn {
		t.Error("dismissed overlap set should not warn")
	}

	resp = do(t, ts, http.MethodPut, "/v1/sessions/"+sess.ID+"/selection", `{"selected": "b"}`)
	var selected session.Session
	decodeInto(t, resp, &selected)
	if selected.Selected != "b" {
		t.Errorf("selected = %q", selected.Selected)
	}
	decodeInto(t, do(t, ts, http.MethodPost, "/v1/layout", withSession), &lr)
	if lr.Scene.View.Selected != "b" {
		t.Errorf("scene view = %+v, want selection from session", lr.Scene.View)
	}

	if resp := do(t, ts, http.MethodPut, "/v1/sessions/"+sess.ID+"/selection", `{"selected": " bad"}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad selection = %d", resp.StatusCode)
	}
	if resp := do(t, ts, http.MethodDelete, "/v1/sessions/"+sess.ID, ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete = %d", resp.StatusCode)
	}
	if resp := do(t, ts, http.MethodGet, "/v1/sessions/"+sess.ID, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete = %d", resp.StatusCode)
	}
}

func TestDismissExplicitFingerprint(t *testing.T) {
	ts := newTestServer(t)
	var sess session.Session
	decodeInto(t, do(t, ts, http.MethodPost, "/v1/sessions", ""), &sess)

	fp := strings.Repeat("0", 64)
	resp := do(t, ts, http.MethodPost, "/v1/sessions/"+sess.ID+"/dismiss", `{"fingerprint": "`+fp+`"}`)
	var got session.Session
	decodeInto(t, resp, &got)
	if got.Dismissed != fp {
		t.Errorf("dismissed = %q", got.Dismissed)
	}
	resp = do(t, ts, http.MethodPost, "/v1/sessions/"+sess.ID+"/dismiss", `{"fingerprint": "zz"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad fingerprint = %d", resp.StatusCode)
	}
}

type routeRecorder struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *routeRecorder) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestHTTPHooksSeeRoutePatterns(t *testing.T) {
	rec := &routeRecorder{}
	observability.SetHTTPHooks(rec)
	defer observability.Reset()

	ts := newTestServer(t)
	do(t, ts, http.MethodGet, "/v1/sessions/abc", "")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.routes) != 1 || strings.TrimSuffix(rec.routes[0], "/") != "GET /v1/sessions/{id}" {
		t.Errorf("routes = %v", rec.routes)
	}
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)
	if resp := do(t, ts, http.MethodGet, "/v1/stats", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("stats without counters = %d, want 404", resp.StatusCode)
	}

	stats := observability.NewCounters()
	observability.Register(observability.Hooks{Pipeline: stats, Cache: stats})
	defer observability.Reset()

	mc := cache.NewMemoryCache()
	srv := New(pipeline.NewRunner(mc, nil, nil), session.NewCacheStore(mc, nil), nil, WithStats(stats))
	ts = httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	body := strings.Replace(gearbox, "%s", "", 1)
	do(t, ts, http.MethodPost, "/v1/layout", body)
	do(t, ts, http.MethodPost, "/v1/layout", body)

	var snap observability.Snapshot
	decodeInto(t, do(t, ts, http.MethodGet, "/v1/stats", ""), &snap)
	if snap.Layouts != 2 || snap.LayoutsCached != 1 {
		t.Errorf("layouts = %d, cached = %d, want 2 and 1", snap.Layouts, snap.LayoutsCached)
	}
	if c := snap.Cache[observability.KeyScene]; c.Hits != 1 || c.Misses != 1 || c.Sets != 1 {
		t.Errorf("scene cache = %+v", c)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidConfig, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeUnavailable, "x"), http.StatusServiceUnavailable},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
