package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fiducial/pkg/cache"
	"github.com/matzehuels/fiducial/pkg/marker"
	"github.com/matzehuels/fiducial/pkg/observability"
	"github.com/matzehuels/fiducial/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mem, err := cache.NewMemoryCache(64)
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(mem, nil, logger)
	srv := New(Config{
		Defaults: pipeline.Options{ShowNumber: true},
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "# metrics\n")
		}),
	}, runner, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string, header ...string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestHealthzAndVersion(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"ok"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, body)
	}

	resp, body = get(t, ts, "/version")
	var info map[string]any
	if err := json.Unmarshal(body, &info); err != nil {
		t.Fatalf("version body: %v", err)
	}
	if resp.StatusCode != http.StatusOK || info["version"] == nil || info["artifact_version"] == nil {
		t.Errorf("version = %d %v", resp.StatusCode, info)
	}

	resp, body = get(t, ts, "/metrics")
	if resp.StatusCode != http.StatusOK || string(body) != "# metrics\n" {
		t.Errorf("metrics = %d %q", resp.StatusCode, body)
	}
}

func TestMarkerPNG(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/api/v1/markers/26.png?mode=dense&size=210")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got, want := resp.Header.Get(HeaderHash), marker.DeriveHash(26).String(); got != want {
		t.Errorf("%s = %q, want %q", HeaderHash, got, want)
	}
	if resp.Header.Get(HeaderFingerprint) == "" {
		t.Errorf("missing %s", HeaderFingerprint)
	}
	if got := resp.Header.Get(HeaderCache); got != "MISS" {
		t.Errorf("first %s = %q, want MISS", HeaderCache, got)
	}
	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 210 || b.Dy() != 210 {
		t.Errorf("bounds = %v, want 210x210", b)
	}

	resp2, body2 := get(t, ts, "/api/v1/markers/26.png?mode=dense&size=210")
	if got := resp2.Header.Get(HeaderCache); got != "HIT" {
		t.Errorf("second %s = %q, want HIT", HeaderCache, got)
	}
	if !bytes.Equal(body, body2) {
		t.Error("cached body differs from rendered body")
	}
}

func TestMarkerBySymbolMatchesNumber(t *testing.T) {
	ts := newTestServer(t)
	_, byNumber := get(t, ts, "/api/v1/markers/2.svg?code=true")
	resp, bySymbol := get(t, ts, "/api/v1/markers/He.svg?code=true")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, bySymbol)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Equal(byNumber, bySymbol) {
		t.Error("He and 2 rendered differently")
	}
	if !strings.Contains(string(bySymbol), ">He</text>") {
		t.Error("svg lacks the code label")
	}
}

func TestMarkerNotModified(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts, "/api/v1/markers/1.png")
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	resp, body := get(t, ts, "/api/v1/markers/1.png", "If-None-Match", etag)
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("status = %d, want 304", resp.StatusCode)
	}
	if len(body) != 0 {
		t.Errorf("304 carried %d bytes", len(body))
	}
}

func TestMarkerNotModifiedTagLists(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts, "/api/v1/markers/1.png")
	etag := resp.Header.Get("ETag")
	tests := []struct {
		header string
		status int
	}{
		{`"stale", ` + etag, http.StatusNotModified},
		{etag + `,"stale"`, http.StatusNotModified},
		{"W/" + etag, http.StatusNotModified},
		{"*", http.StatusNotModified},
		{`"stale"`, http.StatusOK},
		{"", http.StatusOK},
	}
	for _, tt := range tests {
		resp, _ := get(t, ts, "/api/v1/markers/1.png", "If-None-Match", tt.header)
		if resp.StatusCode != tt.status {
			t.Errorf("If-None-Match %q: status = %d, want %d", tt.header, resp.StatusCode, tt.status)
		}
	}
}

func TestEtagMatch(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{`"abc"`, true},
		{` "x" , "abc" `, true},
		{`W/"abc"`, true},
		{"*", true},
		{`"abcd"`, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := etagMatch(tt.header, `"abc"`); got != tt.want {
			t.Errorf("etagMatch(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestMarkerErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/v1/markers/0.png", http.StatusBadRequest, "INVALID_KEY"},
		{"/api/v1/markers/119.png", http.StatusBadRequest, "INVALID_KEY"},
		{"/api/v1/markers/noble-gas.png", http.StatusBadRequest, "INVALID_KEY"},
		{"/api/v1/markers/Xx.png", http.StatusBadRequest, "INVALID_OPTION"},
		{"/api/v1/markers/1.gif", http.StatusBadRequest, "INVALID_OPTION"},
		{"/api/v1/markers/1.png?mode=huge", http.StatusBadRequest, "INVALID_MODE"},
		{"/api/v1/markers/1.png?shape=stars", http.StatusBadRequest, "INVALID_SHAPE"},
		{"/api/v1/markers/1.png?size=big", http.StatusBadRequest, "INVALID_OPTION"},
		{"/api/v1/markers/1.png?size=99999", http.StatusBadRequest, "INVALID_OPTION"},
		{"/api/v1/markers/1.png?binary=perhaps", http.StatusBadRequest, "INVALID_OPTION"},
		{"/api/v1/markers/1.png?font=/etc/passwd", http.StatusBadRequest, "INVALID_OPTION"},
		{"/api/v1/nothing", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts, tt.path, RequestIDHeader, "req-1")
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			var e ErrorResponse
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatalf("body %q: %v", body, err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
			if e.RequestID != "req-1" {
				t.Errorf("request_id = %q, want req-1", e.RequestID)
			}
		})
	}
}

func TestRequestIDGenerated(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts, "/healthz")
	if id := resp.Header.Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("%s = %q, want a UUID", RequestIDHeader, id)
	}
}

func TestElements(t *testing.T) {
	ts := newTestServer(t)

	_, body := get(t, ts, "/api/v1/elements")
	var all []ElementResponse
	if err := json.Unmarshal(body, &all); err != nil {
		t.Fatal(err)
	}
	if len(all) != 118 {
		t.Errorf("elements = %d, want 118", len(all))
	}

	_, body = get(t, ts, "/api/v1/elements?category=noble-gas")
	var gases []ElementResponse
	if err := json.Unmarshal(body, &gases); err != nil {
		t.Fatal(err)
	}
	if len(gases) == 0 || gases[0].Symbol != "He" {
		t.Errorf("noble gases = %+v", gases)
	}

	resp, _ := get(t, ts, "/api/v1/elements?category=plasma")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad category status = %d", resp.StatusCode)
	}

	_, body = get(t, ts, "/api/v1/elements/Fe")
	var fe ElementResponse
	if err := json.Unmarshal(body, &fe); err != nil {
		t.Fatal(err)
	}
	if fe.Number != 26 || fe.Name != "Iron" || fe.Period != 4 || fe.Group != 8 {
		t.Errorf("Fe = %+v", fe)
	}
	if fe.Hash != marker.DeriveHash(26).String() {
		t.Errorf("hash = %q", fe.Hash)
	}
}

func TestGrid(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/api/v1/markers/26/grid?mode=dense")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var g GridResponse
	if err := json.Unmarshal(body, &g); err != nil {
		t.Fatal(err)
	}
	want, err := marker.Generate(26, marker.Options{Mode: marker.ModeDense})
	if err != nil {
		t.Fatal(err)
	}
	if g.Size != 21 || len(g.Rows) != 21 || g.Mode != "dense" {
		t.Errorf("grid = %d rows, size %d, mode %s", len(g.Rows), g.Size, g.Mode)
	}
	if g.Fingerprint != want.Fingerprint() {
		t.Error("fingerprint differs from marker.Generate")
	}
	if len(g.Regions) != len(want.Regions) || g.Regions[0].Name != "locator-top-left" {
		t.Errorf("regions = %+v", g.Regions)
	}
}

func TestAudit(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/api/v1/audit?keys=1-20")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var a AuditResponse
	if err := json.Unmarshal(body, &a); err != nil {
		t.Fatal(err)
	}
	if a.Keys != 20 || !a.OK || a.MinDistance == 0 || a.Closest == "" {
		t.Errorf("audit = %+v", a)
	}

	resp, _ = get(t, ts, "/api/v1/audit?keys=1-600&mode=simple")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("out of range status = %d", resp.StatusCode)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route+" "+http.StatusText(status))
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	get(t, ts, "/api/v1/elements/Fe")
	get(t, ts, "/api/v1/markers/0.png")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	want := []string{
		"GET /api/v1/elements/{key} OK",
		"GET /api/v1/markers/{file} Bad Request",
	}
	if strings.Join(hooks.routes, "|") != strings.Join(want, "|") {
		t.Errorf("routes = %q, want %q", hooks.routes, want)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(Config{ShutdownTimeout: time.Second}, pipeline.NewRunner(nil, nil, logger), logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		if resp, err = http.Get(url); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve = %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
