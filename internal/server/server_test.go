package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/observability"
	"github.com/matzehuels/procflow/pkg/process"
	"github.com/matzehuels/procflow/pkg/store"
)

const testDocument = `{
  "rows": [
    {"Object Type": "Activity", "Activity ID": "A", "Display Name": "Receive", "Position X": 0, "Position Y": 0},
    {"Object Type": "Activity", "Activity ID": "B", "Display Name": "Ship", "Position X": 200, "Position Y": 0},
    {"Object Type": "Transition", "Initial Activity ID": "A", "Terminal Activity ID": "B"},
    {"Object Type": "Transition", "Terminal Activity ID": "A"}
  ]
}`

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	reg := prometheus.NewRegistry()
	observability.SetHTTPHooks(observability.NewMetrics(reg))
	t.Cleanup(observability.Reset)

	s, err := New(Options{Store: st, Gatherer: reg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
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

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func createLayout(t *testing.T, base string) layoutResponse {
	t.Helper()
	resp := do(t, http.MethodPost, base+"/v1/layouts", testDocument)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /v1/layouts status = %d, want 201", resp.StatusCode)
	}
	created := decode[createResponse](t, resp)
	if len(created.Layouts) != 1 {
		t.Fatalf("got %d layouts, want 1", len(created.Layouts))
	}
	return created.Layouts[0]
}

func TestCreateAndGetLayout(t *testing.T) {
	ts, st := newTestServer(t)

	created := createLayout(t, ts.URL)
	if created.ID == "" || created.Diagram == nil {
		t.Fatalf("created = %+v, want an id and a diagram", created)
	}
	if len(created.Diagram.Nodes) != 2 || len(created.Diagram.Edges) != 2 {
		t.Errorf("diagram has %d nodes, %d edges; want 2, 2",
			len(created.Diagram.Nodes), len(created.Diagram.Edges))
	}
	if st.Len() != 1 {
		t.Errorf("store holds %d records, want 1", st.Len())
	}

	resp := do(t, http.MethodGet, ts.URL+"/v1/layouts/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", resp.StatusCode)
	}
	rec := decode[store.Record](t, resp)
	if diff := cmp.Diff(created.Diagram, rec.Diagram); diff != "" {
		t.Errorf("stored diagram mismatch (-want +got):\n%s", diff)
	}
}

func TestHitTest(t *testing.T) {
	ts, _ := newTestServer(t)
	created := createLayout(t, ts.URL)

	a, ok := created.Diagram.Node(process.KindActivity, "A")
	if !ok {
		t.Fatal("activity A missing")
	}
	body, _ := json.Marshal(a.Box)

	resp := do(t, http.MethodPost, ts.URL+"/v1/layouts/"+created.ID+"/hits", string(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("hits status = %d, want 200", resp.StatusCode)
	}
	got := decode[hitsResponse](t, resp)
	if len(got.Hits) == 0 || got.Hits[0] != (hit{ID: "A", Kind: process.KindActivity}) {
		t.Errorf("hits = %+v, want activity A first", got.Hits)
	}

	resp = do(t, http.MethodPost, ts.URL+"/v1/layouts/"+created.ID+"/hits",
		`{"x": -1000, "y": -1000, "width": 1, "height": 1}`)
	if got := decode[hitsResponse](t, resp); len(got.Hits) != 0 {
		t.Errorf("far selection hits = %+v, want none", got.Hits)
	}
}

func TestSVG(t *testing.T) {
	ts, _ := newTestServer(t)
	created := createLayout(t, ts.URL)

	resp := do(t, http.MethodGet, ts.URL+"/v1/layouts/"+created.ID+"/svg?title=Orders", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("svg status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "<svg") || !strings.Contains(buf.String(), "Orders") {
		t.Errorf("body is not a titled svg: %.80q", buf.String())
	}
}

func TestErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   errors.Code
	}{
		{"unknown layout", http.MethodGet, "/v1/layouts/nope", "", 404, errors.ErrCodeNotFound},
		{"malformed json", http.MethodPost, "/v1/layouts", `{"rows": [`, 400, errors.ErrCodeInvalidFormat},
		{"schema violation", http.MethodPost, "/v1/layouts", `{"rows": [{"Activity ID": "A"}]}`, 400, errors.ErrCodeInvalidFormat},
		{
			"duplicate id", http.MethodPost, "/v1/layouts",
			`{"rows": [`+
				`{"Object Type": "Activity", "Activity ID": "A", "Position X": "0", "Position Y": "0"}, `+
				`{"Object Type": "Activity", "Activity ID": "A", "Position X": "200", "Position Y": "0"}]}`,
			422, errors.ErrCodeContractViolation,
		},
		{
			"bad mode", http.MethodPost, "/v1/layouts",
			`{"rows": [], "config": {"mode": "radial"}}`,
			400, errors.ErrCodeInvalidConfig,
		},
		{"unknown route", http.MethodGet, "/v2/anything", "", 404, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, ts.URL+tt.path, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			body := decode[map[string]errorBody](t, resp)
			if got := body["error"].Code; got != tt.wantCode {
				t.Errorf("code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("response should carry a request id")
	}

	resp = do(t, http.MethodGet, ts.URL+"/metrics", "")
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), `procflow_http_requests_total{code="200",method="GET",route="/healthz"} 1`) {
		t.Errorf("metrics missing healthz request:\n%s", buf.String())
	}
}

func TestRequestIDEcho(t *testing.T) {
	ts, _ := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(requestIDHeader, "req-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != "req-42" {
		t.Errorf("request id = %q, want req-42", got)
	}
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("New() err = %v, want INVALID_CONFIG", err)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s, err := New(Options{Store: store.NewMemoryStore(), Addr: "127.0.0.1:0"})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("ListenAndServe() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
