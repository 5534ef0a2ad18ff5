package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/storage"
	"github.com/tidwall/gjson"
)

// AuthAPI wraps the /auth endpoints. It must be backed by an auth client (see [NewAuthClient]).
type AuthAPI struct {
	client *Client
}

// Login authenticates and stores the returned session.
func (a *AuthAPI) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := a.client.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	if err := a.persist(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a user and stores the returned session.
func (a *AuthAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := a.client.post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return &resp, nil
	}
	if err := a.persist(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) persist(resp *models.LoginResponse) error {
	if resp.AccessToken == "" {
		return fmt.Errorf("%w: no access token in response", shared.ErrAuthFailed)
	}

	session := a.client.session
	if err := session.SetToken(storage.TokenFromAuth(resp.AuthTokens)); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if resp.User != nil {
		if err := session.SetUser(resp.User); err != nil {
			return fmt.Errorf("failed to store user: %w", err)
		}
		if resp.User.CurrentAccountID != "" {
			if err := session.SetAccountID(resp.User.CurrentAccountID); err != nil {
				return fmt.Errorf("failed to store account: %w", err)
			}
		}
	}
	return nil
}

// Logout ends the backend session. The local session is cleared even when the call fails.
func (a *AuthAPI) Logout(ctx context.Context) error {
	err := a.client.action(ctx, "/auth/logout", nil)
	if cerr := a.client.session.Clear(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

// Refresh exchanges refreshToken for a new token pair. The exchange only succeeds when the backend
// answers with success true and an access token.
func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	if refreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	body, err := a.client.Raw(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/auth/refresh",
		Body:   models.RefreshRequest{RefreshToken: refreshToken},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	if !gjson.GetBytes(body, "success").Bool() {
		return nil, fmt.Errorf("%w: %s", shared.ErrRefreshFailed, errorMessage(body))
	}

	data := gjson.GetBytes(body, "data")
	var tokens models.AuthTokens
	if err := json.Unmarshal([]byte(data.Raw), &tokens); err != nil || tokens.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token in response", shared.ErrRefreshFailed)
	}
	return &tokens, nil
}

// Me returns the authenticated user and caches it in the session.
func (a *AuthAPI) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := a.client.get(ctx, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	if err := a.client.session.SetUser(&u); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}
	return &u, nil
}
