package api

import (
	"context"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
)

// ClientsAPI wraps /clients.
type ClientsAPI struct {
	client *Client
}

func (c *ClientsAPI) List(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := c.client.list(ctx, "/clients", nil, "clients", &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (c *ClientsAPI) Get(ctx context.Context, id string) (*models.Client, error) {
	var cl models.Client
	if err := c.client.get(ctx, resourcePath("clients", id), nil, &cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

func (c *ClientsAPI) Create(ctx context.Context, req models.CreateClientRequest) (*models.Client, error) {
	var cl models.Client
	if err := c.client.post(ctx, "/clients", req, &cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

func (c *ClientsAPI) Update(ctx context.Context, id string, req models.UpdateClientRequest) (*models.Client, error) {
	var cl models.Client
	if err := c.client.put(ctx, resourcePath("clients", id), req, &cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

func (c *ClientsAPI) Delete(ctx context.Context, id string) error {
	return c.client.delete(ctx, resourcePath("clients", id))
}

// Accounts lists the accounts managed for a client.
func (c *ClientsAPI) Accounts(ctx context.Context, id string) ([]models.Account, error) {
	var accounts []models.Account
	if err := c.client.list(ctx, resourcePath("clients", id, "accounts"), nil, "accounts", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// AssignAccount links accountID to the client.
func (c *ClientsAPI) AssignAccount(ctx context.Context, id, accountID string) error {
	return c.client.post(ctx, resourcePath("clients", id, "accounts"), models.AssignAccountRequest{AccountID: accountID}, nil)
}
