package api

import (
	"context"
	"fmt"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
)

// AccountAPI wraps /account (the current account) and /accounts.
type AccountAPI struct {
	client *Client
}

// Get returns the current account.
func (a *AccountAPI) Get(ctx context.Context) (*models.Account, error) {
	var acc models.Account
	if err := a.client.get(ctx, "/account", nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Update modifies the current account.
func (a *AccountAPI) Update(ctx context.Context, req models.UpdateAccountRequest) (*models.Account, error) {
	var acc models.Account
	if err := a.client.put(ctx, "/account", req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// List returns every account the user can access.
func (a *AccountAPI) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := a.client.list(ctx, "/accounts", nil, "accounts", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (a *AccountAPI) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var acc models.Account
	if err := a.client.get(ctx, resourcePath("accounts", id), nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Create creates a sub-account.
func (a *AccountAPI) Create(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error) {
	var acc models.Account
	if err := a.client.post(ctx, "/accounts", req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (a *AccountAPI) UpdateByID(ctx context.Context, id string, req models.UpdateAccountRequest) (*models.Account, error) {
	var acc models.Account
	if err := a.client.put(ctx, resourcePath("accounts", id), req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (a *AccountAPI) Delete(ctx context.Context, id string) error {
	return a.client.delete(ctx, resourcePath("accounts", id))
}

// Switch makes id the current account and records it in the session.
func (a *AccountAPI) Switch(ctx context.Context, id string) (*models.Account, error) {
	var acc models.Account
	if err := a.client.action(ctx, resourcePath("accounts", id, "switch"), &acc); err != nil {
		return nil, err
	}

	current := acc.ID
	if current == "" {
		current = id
	}
	if err := a.client.session.SetAccountID(current); err != nil {
		return nil, fmt.Errorf("failed to store account: %w", err)
	}
	return &acc, nil
}

// Users lists the members of an account.
func (a *AccountAPI) Users(ctx context.Context, id string) ([]models.AccountUser, error) {
	var users []models.AccountUser
	if err := a.client.list(ctx, resourcePath("accounts", id, "users"), nil, "users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Invite invites a user into an account.
func (a *AccountAPI) Invite(ctx context.Context, id string, req models.InviteUserRequest) (*models.AccountUser, error) {
	var u models.AccountUser
	if err := a.client.post(ctx, resourcePath("accounts", id, "invite"), req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
