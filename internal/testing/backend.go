package testing

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest is a request received by a [FakeBackend].
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// FakeBackend is an httptest server that routes "METHOD /path" to handlers and records every request.
//
// Unrouted requests get a 404 envelope.
type FakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewFakeBackend starts a backend closed at the end of the test.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{routes: make(map[string]http.HandlerFunc)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
	})
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "route not found"})
		return
	}
	h(w, r)
}

// Handle routes method and path to h, replacing any previous handler.
func (f *FakeBackend) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

// Respond routes method and path to a fixed JSON response.
func (f *FakeBackend) Respond(method, path string, status int, body any) {
	f.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Requests returns a copy of every recorded request.
func (f *FakeBackend) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Count returns how many requests hit method and path.
func (f *FakeBackend) Count(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent request, or the zero value when none arrived.
func (f *FakeBackend) Last() RecordedRequest {
	reqs := f.Requests()
	if len(reqs) == 0 {
		return RecordedRequest{}
	}
	return reqs[len(reqs)-1]
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Envelope wraps data in the backend's success envelope.
func Envelope(data any) map[string]any {
	return map[string]any{"success": true, "data": data}
}
