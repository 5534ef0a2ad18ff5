package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/charmbracelet/log"
)

// DefaultCallbackTimeout bounds how long [ConnectSource] waits for the browser redirect.
const DefaultCallbackTimeout = 2 * time.Minute

// CallbackServer is a short-lived local HTTP listener for a single OAuth redirect.
type CallbackServer struct {
	handler  *CallbackHandler
	server   *http.Server
	listener net.Listener
	errs     chan error
	logger   *log.Logger
}

// NewCallbackServer binds addr (host:port; port 0 picks a free port) and wires the callback handler.
//
// Binding happens here so [CallbackServer.RedirectURI] is valid before the authorization URL is requested.
func NewCallbackServer(addr string, logger *log.Logger) (*CallbackServer, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind callback listener on %s: %w", addr, err)
	}

	handler := NewCallbackHandler("")
	mux := NewMux(Recover(logger), Logging(logger), NoCache)
	mux.Mount(handler)

	return &CallbackServer{
		handler:  handler,
		listener: ln,
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		errs:   make(chan error, 1),
		logger: logger,
	}, nil
}

// Addr returns the bound address.
func (s *CallbackServer) Addr() string {
	return s.listener.Addr().String()
}

// RedirectURI returns the URL the provider should redirect to.
func (s *CallbackServer) RedirectURI() string {
	return "http://" + s.Addr() + CallbackPath
}

// Handler exposes the callback handler, e.g. to set the expected state.
func (s *CallbackServer) Handler() *CallbackHandler {
	return s.handler
}

// Start serves in the background until [CallbackServer.Shutdown].
func (s *CallbackServer) Start() {
	go func() {
		s.logger.Infof("starting OAuth callback server at %v", s.Addr())
		if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()
}

// Wait blocks until the callback arrives, the server fails, timeout elapses or ctx is done.
func (s *CallbackServer) Wait(ctx context.Context, timeout time.Duration) (CallbackResult, error) {
	if timeout <= 0 {
		timeout = DefaultCallbackTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-s.handler.Result():
		if result.Err != nil {
			return result, fmt.Errorf("authorization failed: %w", result.Err)
		}
		return result, nil
	case err := <-s.errs:
		return CallbackResult{}, fmt.Errorf("callback server error: %w", err)
	case <-timer.C:
		return CallbackResult{}, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return CallbackResult{}, ctx.Err()
	}
}

// Shutdown stops the server, waiting up to five seconds for in-flight requests.
func (s *CallbackServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("error shutting down callback server", "error", err)
	}
	// Serve closes the listener itself; this covers a server that was never started.
	_ = s.listener.Close()
}

// SourceAuthorizer is the subset of the sources API used to connect an OAuth source.
type SourceAuthorizer interface {
	OAuthURL(ctx context.Context, platform, redirectURI string) (*models.OAuthURL, error)
	OAuthCallback(ctx context.Context, platform string, req models.OAuthCallbackRequest) (*models.Source, error)
}

// ConnectOpts configures [ConnectSource].
type ConnectOpts struct {
	Platform string
	Name     string                 // optional display name for the new source
	Timeout  time.Duration          // defaults to [DefaultCallbackTimeout]
	Open     func(url string) error // opens the authorization URL; defaults to [shared.OpenBrowser]
	// Prompt is called when Open fails so the user can open the URL by hand.
	Prompt func(url string)
}

// ConnectSource runs the full OAuth connect flow for a source platform:
//
//  1. start the callback server
//  2. ask the backend for an authorization URL bound to the callback's redirect URI
//  3. open it in the browser and wait for the redirect
//  4. post the code and state back to the backend, which creates the source
func ConnectSource(ctx context.Context, srv *CallbackServer, sources SourceAuthorizer, opts ConnectOpts) (*models.Source, error) {
	if opts.Platform == "" {
		return nil, fmt.Errorf("%w: platform", shared.ErrMissingArgument)
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}

	srv.Start()
	defer srv.Shutdown()

	redirectURI := srv.RedirectURI()
	auth, err := sources.OAuthURL(ctx, opts.Platform, redirectURI)
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization URL: %w", err)
	}
	if auth.AuthURL == "" || auth.State == "" {
		return nil, fmt.Errorf("%w: backend returned an incomplete authorization URL", shared.ErrAPIRequest)
	}
	srv.Handler().Expect(auth.State)

	if err := opts.Open(auth.AuthURL); err != nil {
		srv.logger.Warnf("failed to open browser automatically %v", err)
		if opts.Prompt != nil {
			opts.Prompt(auth.AuthURL)
		}
	}

	result, err := srv.Wait(ctx, opts.Timeout)
	if err != nil {
		return nil, err
	}

	source, err := sources.OAuthCallback(ctx, opts.Platform, models.OAuthCallbackRequest{
		Code:        result.Code,
		State:       result.State,
		RedirectURI: redirectURI,
		Name:        opts.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete source connection: %w", err)
	}
	return source, nil
}
