// Package testing holds test doubles shared by the listbackup packages: failing writers and bodies,
// a round-trip func for canned transports, a navigator spy and the [FakeBackend] server.
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
)

// ErrInjected is returned by the failing doubles in this package.
var ErrInjected = errors.New("injected failure")

// FailingWriter fails every write.
type FailingWriter struct{}

func (FailingWriter) Write([]byte) (int, error) { return 0, ErrInjected }

// FailAfterWriter forwards the first n writes to W and fails the rest.
type FailAfterWriter struct {
	W io.Writer
	N int
}

// FailAfter returns a writer that accepts n writes.
func FailAfter(n int, w io.Writer) *FailAfterWriter {
	return &FailAfterWriter{W: w, N: n}
}

func (f *FailAfterWriter) Write(p []byte) (int, error) {
	if f.N <= 0 {
		return 0, ErrInjected
	}
	f.N--
	return f.W.Write(p)
}

// FailingBody is a response body whose reads fail.
type FailingBody struct{}

func (FailingBody) Read([]byte) (int, error) { return 0, ErrInjected }
func (FailingBody) Close() error             { return nil }

// RoundTripFunc lets a function serve as an [http.RoundTripper].
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// MockNavigator counts login redirects. It is safe for concurrent use.
type MockNavigator struct {
	redirects atomic.Int32
}

func (m *MockNavigator) RedirectToLogin() { m.redirects.Add(1) }

// Redirects returns the number of login redirects so far.
func (m *MockNavigator) Redirects() int { return int(m.redirects.Load()) }

// ReadFile returns the contents of path, failing the test when it cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}
