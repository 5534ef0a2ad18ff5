package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/storage"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// DefaultVersion is sent in X-App-Version when [Options.Version] is empty.
const DefaultVersion = "1.0.0"

// Navigator is notified when the session can no longer be recovered and the user must log in again.
type Navigator interface {
	RedirectToLogin()
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func()

func (f NavigatorFunc) RedirectToLogin() { f() }

// Options configures a [Client].
type Options struct {
	BaseURL           string
	Platform          string
	Version           string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables rate limiting

	Session    *storage.Session // defaults to an in-memory session
	Logger     *log.Logger
	Navigator  Navigator
	HTTPClient *http.Client
}

// Request describes one backend call. Retried is set once the request has been replayed after a token
// refresh, so a request is replayed at most once.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	Retried bool
}

// URL joins the request path and query onto base.
func (r *Request) URL(base string) string {
	u := base + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

type refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error)
}

// Client issues authenticated requests against the listbackup backend.
//
// A resource client recovers from a 401 by refreshing the session once and replaying the request. The
// auth client (see [NewAuthClient]) never refreshes.
type Client struct {
	baseURL  string
	platform string
	version  string

	httpClient *http.Client
	session    *storage.Session
	logger     *log.Logger
	navigator  Navigator
	limiter    *rate.Limiter
	timeout    time.Duration

	refresher refresher
	refreshes singleflight.Group
}

// NewClient creates a resource client that refreshes through auth.
func NewClient(opts Options, auth refresher) *Client {
	c := newClient(opts)
	c.refresher = auth
	return c
}

// NewAuthClient creates a client for /auth endpoints that never attempts a refresh.
func NewAuthClient(opts Options) *Client {
	return newClient(opts)
}

func newClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = shared.DefaultAPIURL
	}
	if opts.Platform == "" {
		opts.Platform = shared.PlatformCLI
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Session == nil {
		opts.Session = storage.NewSession(storage.NewMemoryStorage())
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		platform:   opts.Platform,
		version:    opts.Version,
		httpClient: opts.HTTPClient,
		session:    opts.Session,
		logger:     opts.Logger,
		navigator:  opts.Navigator,
		timeout:    opts.Timeout,
	}
	if opts.RequestsPerSecond > 0 {
		burst := max(1, int(opts.RequestsPerSecond))
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c
}

// BaseURL returns the backend root, without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Session returns the session the client reads tokens from.
func (c *Client) Session() *storage.Session { return c.session }

// Do issues req and decodes the response into out (which may be nil). Envelope responses are unwrapped
// to their data member.
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	body, err := c.Raw(ctx, req)
	if err != nil {
		return err
	}
	return decode(body, out)
}

// Raw issues req and returns the undecoded response body of a 2xx response.
func (c *Client) Raw(ctx context.Context, req *Request) ([]byte, error) {
	sent, body, err := c.send(ctx, req, "")
	if err == nil {
		return body, nil
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		return nil, err
	}

	if c.refresher == nil {
		if !isAuthPath(req.Path) {
			c.expire("unauthorized")
		}
		return nil, err
	}

	if req.Retried {
		return nil, err
	}
	req.Retried = true

	token, rerr := c.refresh(ctx, sent)
	if rerr != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, ctx.Err())
		}
		c.logger.Warn("session refresh failed", "path", req.Path, "error", rerr)
		c.expire("refresh failed")
		return nil, err
	}

	_, body, err = c.send(ctx, req, token)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// send performs one HTTP exchange. token overrides the stored access token when non-empty. It returns the
// access token that was attached.
func (c *Client) send(ctx context.Context, req *Request, token string) (string, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL(c.baseURL), reader)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Platform", c.platform)
	httpReq.Header.Set("X-App-Version", c.version)
	httpReq.Header.Set("X-Request-ID", shared.GenerateID())

	if token == "" {
		token = c.session.AccessToken()
	}
	if token != "" {
		(&oauth2.Token{AccessToken: token}).SetAuthHeader(httpReq)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return token, nil, fmt.Errorf("%w: %s %s: %w", shared.ErrAPIRequest, req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return token, nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("api request", "method", req.Method, "path", req.Path, "status", resp.StatusCode,
		"retried", req.Retried, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return token, nil, newError(req, resp.StatusCode, body)
	}
	return token, body, nil
}

// refresh exchanges the stored refresh token for a new access token. Concurrent callers share one
// exchange; a caller whose request carried a token older than the stored one reuses the stored token.
// The exchange is not tied to any one caller: a canceled caller stops waiting while the others keep
// the shared result.
func (c *Client) refresh(ctx context.Context, sent string) (string, error) {
	ch := c.refreshes.DoChan("refresh", func() (any, error) {
		if current := c.session.AccessToken(); current != "" && current != sent {
			return current, nil
		}

		rt := c.session.RefreshToken()
		if rt == "" {
			return "", shared.ErrNoRefreshToken
		}

		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		c.logger.Info("refreshing session")
		tokens, err := c.refresher.Refresh(rctx, rt)
		if err != nil {
			return "", err
		}

		if err := c.session.SetToken(storage.TokenFromAuth(*tokens)); err != nil {
			return "", fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
		}
		return tokens.AccessToken, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// expire clears the session and sends the user to log in.
func (c *Client) expire(reason string) {
	c.logger.Warn("session expired", "reason", reason)
	if err := c.session.Clear(); err != nil {
		c.logger.Error("failed to clear session", "error", err)
	}
	if c.navigator != nil {
		c.navigator.RedirectToLogin()
	}
}

func isAuthPath(p string) bool {
	return strings.HasPrefix(p, "/auth/")
}

// resourcePath joins escaped segments into an absolute path.
func resourcePath(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

var emptyBody = struct{}{}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path}, nil)
}

// action posts an empty JSON object.
func (c *Client) action(ctx context.Context, path string, out any) error {
	return c.post(ctx, path, emptyBody, out)
}

// list decodes a collection that may arrive as a bare array or as an object keyed by key.
func (c *Client) list(ctx context.Context, path string, query url.Values, key string, out any) error {
	body, err := c.Raw(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	return decodeList(body, key, out)
}
