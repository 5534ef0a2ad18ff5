package api

import (
	"context"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
)

// BrandingAPI wraps /branding for the current account.
type BrandingAPI struct {
	client *Client
}

func (b *BrandingAPI) Get(ctx context.Context) (*models.Branding, error) {
	var br models.Branding
	if err := b.client.get(ctx, "/branding", nil, &br); err != nil {
		return nil, err
	}
	return &br, nil
}

func (b *BrandingAPI) Update(ctx context.Context, req models.UpdateBrandingRequest) (*models.Branding, error) {
	var br models.Branding
	if err := b.client.put(ctx, "/branding", req, &br); err != nil {
		return nil, err
	}
	return &br, nil
}

// Reset restores the default theme.
func (b *BrandingAPI) Reset(ctx context.Context) error {
	return b.client.delete(ctx, "/branding")
}
