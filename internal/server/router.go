package server

import (
	"net/http"
)

// Routed is an [http.Handler] that declares the method-qualified patterns it serves,
// e.g. "GET /callback".
type Routed interface {
	http.Handler
	Routes() []string
}

// Mux serves [Routed] handlers behind a fixed middleware chain.
//
// Patterns go to an [http.ServeMux], so a request with the wrong method gets a 405 with an Allow header
// and unknown paths get a 404.
type Mux struct {
	mux   *http.ServeMux
	chain []Middleware
}

// NewMux creates a mux whose routes are wrapped by chain, outermost first.
func NewMux(chain ...Middleware) *Mux {
	return &Mux{mux: http.NewServeMux(), chain: chain}
}

// Mount registers every pattern of h.
func (m *Mux) Mount(h Routed) {
	wrapped := Chain(h, m.chain...)
	for _, pattern := range h.Routes() {
		m.mux.Handle(pattern, wrapped)
	}
}

func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mux.ServeHTTP(w, r)
}
