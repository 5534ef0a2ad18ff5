package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/formatter"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/urfave/cli/v3"
)

// AuthLogin logs in and stores the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	req := models.LoginRequest{Email: cmd.String("email"), Password: cmd.String("password")}

	r.logger.Debug("logging in", "email", req.Email)
	resp, err := r.api.Auth.Login(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	r.logger.Info("authentication successful")
	if resp.User != nil {
		return r.done(resp.User, "Logged in as %s", resp.User.Email)
	}
	return r.done(resp.User, "Logged in")
}

// AuthRegister creates a user. The backend may require email confirmation before issuing tokens.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	req := models.RegisterRequest{
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
		Name:     cmd.String("name"),
		Company:  cmd.String("company"),
	}

	resp, err := r.api.Auth.Register(ctx, req)
	if err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return r.done(resp.User, "Registered %s; confirm your email, then run 'listbackup auth login'", req.Email)
	}
	return r.done(resp.User, "Registered and logged in as %s", req.Email)
}

// AuthLogout ends the session. Stored tokens are removed even when the backend call fails.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.session.Authenticated() {
		return r.writePlain("Not logged in\n")
	}
	if err := r.api.Auth.Logout(ctx); err != nil {
		r.logger.Warn("backend logout failed; local session cleared", "error", err)
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthMe fetches the current user and refreshes the cached copy.
func (r *Runner) AuthMe(ctx context.Context, cmd *cli.Command) error {
	if !r.session.Authenticated() {
		return fmt.Errorf("%w: run 'listbackup auth login'", shared.ErrNotAuthenticated)
	}
	user, err := r.api.Auth.Me(ctx)
	if err != nil {
		return err
	}
	return r.render(formatter.UserDetail(user), user)
}

// tokenClaims reads the access token's claims without verifying its signature. The CLI has no key
// to verify with; the claims are only displayed.
func tokenClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// SessionStatus is the output of auth status.
type SessionStatus struct {
	Authenticated bool            `json:"authenticated"`
	User          *models.User    `json:"user,omitempty"`
	AccountID     string          `json:"accountId,omitempty"`
	Subject       string          `json:"subject,omitempty"`
	ExpiresAt     *time.Time      `json:"expiresAt,omitempty"`
	Expired       bool            `json:"expired"`
	CanRefresh    bool            `json:"canRefresh"`
	Keys          []storage.Entry `json:"keys,omitempty"`
}

func (r *Runner) sessionStatus() (*SessionStatus, error) {
	status := &SessionStatus{AccountID: r.session.AccountID()}

	tok, err := r.session.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return status, nil
	}
	status.Authenticated = true
	status.CanRefresh = tok.RefreshToken != ""

	if status.User, err = r.session.User(); err != nil {
		r.logger.Warn("ignoring unreadable cached user", "error", err)
	}

	expiry := tok.Expiry
	if claims, err := tokenClaims(tok.AccessToken); err == nil {
		status.Subject, _ = claims.GetSubject()
		if exp, _ := claims.GetExpirationTime(); exp != nil {
			expiry = exp.Time
		}
	} else {
		r.logger.Debug("access token is not a readable JWT", "error", err)
	}
	if !expiry.IsZero() {
		status.ExpiresAt = &expiry
		status.Expired = time.Now().After(expiry)
	}
	return status, nil
}

// AuthStatus shows the stored session without calling the backend.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	status, err := r.sessionStatus()
	if err != nil {
		return err
	}
	if cmd.Bool("keys") {
		if status.Keys, err = r.session.Entries(); err != nil {
			return err
		}
	}
	if r.structured() {
		return r.render(nil, status)
	}
	if !status.Authenticated {
		return r.writePlain("✗ Not logged in\n")
	}

	expires := "unknown"
	if status.ExpiresAt != nil {
		expires = shared.FormatTime(*status.ExpiresAt)
		if status.Expired {
			expires += " (expired)"
		}
	}

	pairs := []string{"Expires", expires, "Refresh token", fmt.Sprint(status.CanRefresh), "Account", status.AccountID}
	if status.User != nil {
		pairs = append([]string{"Email", status.User.Email, "Name", status.User.Name}, pairs...)
	} else if status.Subject != "" {
		pairs = append([]string{"Subject", status.Subject}, pairs...)
	}
	for _, e := range status.Keys {
		pairs = append(pairs, e.Key, shared.FormatTime(e.UpdatedAt))
	}
	return r.render(formatter.KeyValueTable("Session", pairs...), status)
}

// AuthRefresh exchanges the stored refresh token. A failed exchange clears the session, as an
// expired request would.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	refresh := r.session.RefreshToken()
	if refresh == "" {
		return fmt.Errorf("%w: run 'listbackup auth login'", shared.ErrNoRefreshToken)
	}

	tokens, err := r.api.Auth.Refresh(ctx, refresh)
	if err != nil {
		if cerr := r.session.Clear(); cerr != nil {
			return errors.Join(err, cerr)
		}
		return err
	}
	if err := r.session.SetToken(storage.TokenFromAuth(*tokens)); err != nil {
		return err
	}

	r.logger.Info("session refreshed")
	status, err := r.sessionStatus()
	if err != nil {
		return err
	}
	if tokens.ExpiresIn > 0 {
		return r.done(status, "Session refreshed, expires in %s", time.Duration(tokens.ExpiresIn)*time.Second)
	}
	return r.done(status, "Session refreshed")
}
