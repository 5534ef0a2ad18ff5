package server

import (
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
)

// CallbackPath is where the OAuth provider redirects the browser.
const CallbackPath = "/callback"

// CallbackResult is the outcome of a single OAuth redirect.
type CallbackResult struct {
	Code  string
	State string
	Err   error
}

// CallbackHandler captures the authorization code from an OAuth redirect.
//
// The code is not exchanged here; the backend performs the exchange when the code and state are posted
// to POST /sources/oauth/{platform}/callback. Only the first callback is accepted.
type CallbackHandler struct {
	mu       sync.Mutex
	state    string
	hit      bool
	once     sync.Once
	resultCh chan CallbackResult
}

// NewCallbackHandler creates a handler expecting state. The state may also be set later with
// [CallbackHandler.Expect], since the backend only returns it together with the authorization URL.
func NewCallbackHandler(state string) *CallbackHandler {
	return &CallbackHandler{
		state:    state,
		resultCh: make(chan CallbackResult, 1),
	}
}

// Expect sets the state the callback must carry.
func (h *CallbackHandler) Expect(state string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = state
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"GET " + CallbackPath}
}

// ServeHTTP validates the state and forwards the code through [CallbackHandler.Result].
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	expected := h.state
	h.mu.Unlock()

	q := r.URL.Query()
	state := q.Get("state")
	if expected == "" || state != expected {
		h.send(CallbackResult{State: state, Err: fmt.Errorf("%w: invalid state parameter", shared.ErrAuthFailed)})
		renderPage(w, http.StatusBadRequest, false, "The authorization request could not be verified.")
		return
	}

	code := q.Get("code")
	if code == "" {
		err := fmt.Errorf("%w: %s", shared.ErrAuthFailed, q.Get("error"))
		if desc := q.Get("error_description"); desc != "" {
			err = fmt.Errorf("%w - %s", err, desc)
		}
		h.send(CallbackResult{State: state, Err: err})
		renderPage(w, http.StatusBadRequest, false, "Authorization was denied or cancelled.")
		return
	}

	h.send(CallbackResult{Code: code, State: state})
	renderPage(w, http.StatusOK, true, "You can close this window and return to the terminal.")
}

func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.resultCh <- result
		close(h.resultCh)
	})
}

// Result returns a channel that receives exactly one result and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultCh
}

var page = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{if .OK}}Source connected{{else}}Connection failed{{end}} · ListBackup</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { margin: 0 0 1rem 0; }
        .ok { color: #2563eb; }
        .fail { color: #dc2626; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        {{if .OK}}<h1 class="ok">✓ Authorization received</h1>{{else}}<h1 class="fail">✗ Authorization failed</h1>{{end}}
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, ok bool, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = page.Execute(w, struct {
		OK      bool
		Message string
	}{ok, message})
}
