package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/cartpile/pkg/config"
	"github.com/matzehuels/cartpile/pkg/dialogue"
	"github.com/matzehuels/cartpile/pkg/errors"
	"github.com/matzehuels/cartpile/pkg/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat := dialogue.New()
	cat.Add("apple", "Crunchy.")
	return New(config.Default(), store.NewMemoryStore(0), cat, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type testCart struct {
	ID       string `json:"id"`
	Count    int    `json:"count"`
	Capacity int    `json:"capacity"`
	Full     bool   `json:"full"`
	HP       int    `json:"hp"`
	MaxHP    int    `json:"max_hp"`
	Entries  []struct {
		Item struct {
			Name string `json:"name"`
		} `json:"item"`
		Placement struct {
			Seq int     `json:"seq"`
			Row int     `json:"row"`
			X   float64 `json:"x"`
		} `json:"placement"`
	} `json:"entries"`
}

type testError struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code errors.Code) {
	t.Helper()
	expectStatus(t, rec, status)
	if got := decodeBody[testError](t, rec); got.Code != code {
		t.Errorf("code = %s, want %s (%s)", got.Code, code, got.Message)
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t).Handler(), http.MethodGet, "/healthz", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCartLifecycle(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := do(t, h, http.MethodPost, "/carts", `{"id": "c1", "capacity": 2, "seed": 5}`)
	expectStatus(t, rec, http.StatusCreated)
	if loc := rec.Header().Get("Location"); loc != "/carts/c1" {
		t.Errorf("Location = %q", loc)
	}
	created := decodeBody[testCart](t, rec)
	if created.ID != "c1" || created.Capacity != 2 || created.Count != 0 || created.HP != 100 {
		t.Errorf("created = %+v", created)
	}

	expectError(t, do(t, h, http.MethodPost, "/carts", `{"id": "c1"}`), http.StatusConflict, errors.ErrCodeConflict)

	rec = do(t, h, http.MethodPost, "/carts/c1/drops", `{"name": "apple", "tag": "good", "width": 40}`)
	expectStatus(t, rec, http.StatusCreated)
	drop := decodeBody[struct {
		Line string   `json:"line"`
		Cart testCart `json:"cart"`
	}](t, rec)
	if drop.Line != "Crunchy." || drop.Cart.Count != 1 {
		t.Errorf("drop = %+v", drop)
	}

	rec = do(t, h, http.MethodPost, "/carts/c1/drops", `{"name": "rotten egg", "tag": "bad", "width": 30}`)
	expectStatus(t, rec, http.StatusCreated)
	drop = decodeBody[struct {
		Line string   `json:"line"`
		Cart testCart `json:"cart"`
	}](t, rec)
	if drop.Line != dialogue.DefaultFallback || drop.Cart.HP != 85 || !drop.Cart.Full {
		t.Errorf("second drop = %+v", drop)
	}
	if drop.Cart.Entries[1].Placement.Seq != 1 {
		t.Errorf("seq = %d, want 1", drop.Cart.Entries[1].Placement.Seq)
	}

	expectError(t, do(t, h, http.MethodPost, "/carts/c1/drops", `{"name": "milk", "width": 20}`),
		http.StatusConflict, errors.ErrCodeCartFull)

	rec = do(t, h, http.MethodPost, "/carts/c1/hover", `{"name": "milk", "width": 20}`)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[hoverResponse](t, rec); got.State != "full" {
		t.Errorf("hover state = %q, want full", got.State)
	}

	rec = do(t, h, http.MethodGet, "/carts/c1", "")
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[testCart](t, rec); got.Count != 2 || got.Entries[0].Item.Name != "apple" {
		t.Errorf("get = %+v", got)
	}

	rec = do(t, h, http.MethodPost, "/carts/c1/reset", "")
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[testCart](t, rec); got.Count != 0 || got.HP != 100 || got.Full {
		t.Errorf("reset = %+v", got)
	}

	rec = do(t, h, http.MethodGet, "/carts", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"c1"`) {
		t.Errorf("list = %s", rec.Body.String())
	}

	expectStatus(t, do(t, h, http.MethodDelete, "/carts/c1", ""), http.StatusNoContent)
	expectError(t, do(t, h, http.MethodGet, "/carts/c1", ""), http.StatusNotFound, errors.ErrCodeNotFound)
	expectError(t, do(t, h, http.MethodDelete, "/carts/c1", ""), http.StatusNotFound, errors.ErrCodeNotFound)
}

func TestCreateCartDefaults(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodPost, "/carts", "")
	expectStatus(t, rec, http.StatusCreated)
	got := decodeBody[testCart](t, rec)
	if got.ID == "" || got.Capacity != config.Default().Cart.Capacity {
		t.Errorf("created = %+v", got)
	}
}

func TestValidation(t *testing.T) {
	h := newTestServer(t).Handler()
	expectStatus(t, do(t, h, http.MethodPost, "/carts", `{"id": "v"}`), http.StatusCreated)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"zero width", http.MethodPost, "/carts/v/drops", `{"name": "x", "width": 0}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing name", http.MethodPost, "/carts/v/drops", `{"width": 3}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", http.MethodPost, "/carts/v/drops", `{"name": "x", "width": 3, "weight": 1}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad color", http.MethodPost, "/carts/v/drops", `{"name": "x", "width": 3, "color": "red"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"malformed", http.MethodPost, "/carts/v/drops", `{"name":`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad capacity", http.MethodPost, "/carts", `{"capacity": 0}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad cart id", http.MethodPost, "/carts", `{"id": "a b"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"invalid path id", http.MethodGet, "/carts/-x", "", http.StatusBadRequest, errors.ErrCodeInvalidID},
		{"unknown cart", http.MethodPost, "/carts/nope/drops", `{"name": "x", "width": 3}`, http.StatusNotFound, errors.ErrCodeNotFound},
		{"unknown format", http.MethodGet, "/carts/v/pile.pdf", "", http.StatusBadRequest, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, do(t, h, tt.method, tt.path, tt.body), tt.status, tt.code)
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 16
	h := New(cfg, store.NewMemoryStore(0), nil, nil).Handler()
	rec := do(t, h, http.MethodPost, "/carts", `{"id": "a-rather-long-cart-identifier"}`)
	expectError(t, rec, http.StatusBadRequest, errors.ErrCodeInvalidInput)
}

func TestRenderFormats(t *testing.T) {
	h := newTestServer(t).Handler()
	expectStatus(t, do(t, h, http.MethodPost, "/carts", `{"id": "r"}`), http.StatusCreated)
	expectStatus(t, do(t, h, http.MethodPost, "/carts/r/drops", `{"name": "apple", "tag": "good", "width": 40}`), http.StatusCreated)

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"svg", "image/svg+xml", `class="item"`},
		{"json", "application/json", `"name": "apple"`},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "PK"},
		{"html", "text/html; charset=utf-8", "apple"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/carts/r/pile."+tt.format, "")
			expectStatus(t, rec, http.StatusOK)
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestDialogue(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/dialogue/Apple", "")
	expectStatus(t, rec, http.StatusOK)
	got := decodeBody[map[string]string](t, rec)
	if got["line"] != "Crunchy." || got["source"] != string(dialogue.SourceFold) {
		t.Errorf("dialogue = %v", got)
	}
}

func TestConcurrentDrops(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()
	expectStatus(t, do(t, h, http.MethodPost, "/carts", `{"id": "busy", "capacity": 10}`), http.StatusCreated)

	const workers = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[int]int{}
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/carts/busy/drops",
				strings.NewReader(fmt.Sprintf(`{"name": "item %d", "width": 10}`, i)))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			mu.Lock()
			statuses[rec.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if statuses[http.StatusCreated] != 10 || statuses[http.StatusConflict] != 10 {
		t.Errorf("statuses = %v, want 10 created and 10 conflicts", statuses)
	}
	got := decodeBody[testCart](t, do(t, h, http.MethodGet, "/carts/busy", ""))
	if got.Count != 10 {
		t.Fatalf("count = %d, want 10", got.Count)
	}
	for i, e := range got.Entries {
		if e.Placement.Seq != i {
			t.Errorf("entry %d has seq %d", i, e.Placement.Seq)
		}
	}
	if n := srv.lockCount(); n != 0 {
		t.Errorf("lockCount() = %d after all requests finished, want 0", n)
	}
}

func TestCartLocksAreReleased(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	for i := range 200 {
		rec := do(t, h, http.MethodPost, fmt.Sprintf("/carts/missing-%d/reset", i), "")
		expectStatus(t, rec, http.StatusNotFound)
	}
	if n := srv.lockCount(); n != 0 {
		t.Fatalf("lockCount() = %d after requests for missing carts, want 0", n)
	}

	expectStatus(t, do(t, h, http.MethodPost, "/carts", `{"id": "gone"}`), http.StatusCreated)
	expectStatus(t, do(t, h, http.MethodPost, "/carts/gone/drops", `{"name": "apple", "width": 20}`), http.StatusCreated)
	expectStatus(t, do(t, h, http.MethodDelete, "/carts/gone", ""), http.StatusNoContent)
	if n := srv.lockCount(); n != 0 {
		t.Errorf("lockCount() = %d after delete, want 0", n)
	}
}

func TestCartLockSerialises(t *testing.T) {
	srv := newTestServer(t)
	unlock := srv.lock("c1")

	acquired := make(chan struct{})
	go func() {
		defer close(acquired)
		srv.lock("c1")()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first was held")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock not acquired after release")
	}
	if n := srv.lockCount(); n != 0 {
		t.Errorf("lockCount() = %d, want 0", n)
	}
}

// failingStore fails every Get with the given code.
type failingStore struct {
	store.Store
	code errors.Code
}

func (f failingStore) Get(context.Context, string) (*store.Snapshot, error) {
	return nil, errors.New(f.code, "backend unavailable")
}

func TestCreateCartStoreFailure(t *testing.T) {
	tests := []struct {
		code   errors.Code
		status int
	}{
		{errors.ErrCodeStoreTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeStore, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			mem := store.NewMemoryStore(0)
			srv := New(config.Default(), failingStore{Store: mem, code: tt.code}, nil, nil)

			rec := do(t, srv.Handler(), http.MethodPost, "/carts", `{"id": "c1"}`)
			expectError(t, rec, tt.status, tt.code)
			if ids, _ := mem.List(context.Background()); len(ids) != 0 {
				t.Errorf("cart stored despite failed lookup: %v", ids)
			}
		})
	}
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv := newTestServer(t)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve() = %v, want nil after shutdown", err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidConfig, http.StatusBadRequest},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeCartFull, http.StatusConflict},
		{errors.ErrCodeStoreTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeStore, http.StatusServiceUnavailable},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
