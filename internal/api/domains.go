package api

import (
	"context"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
)

// DomainsAPI wraps /domains.
type DomainsAPI struct {
	client *Client
}

func (d *DomainsAPI) List(ctx context.Context) ([]models.Domain, error) {
	var domains []models.Domain
	if err := d.client.list(ctx, "/domains", nil, "domains", &domains); err != nil {
		return nil, err
	}
	return domains, nil
}

func (d *DomainsAPI) Get(ctx context.Context, id string) (*models.Domain, error) {
	var dom models.Domain
	if err := d.client.get(ctx, resourcePath("domains", id), nil, &dom); err != nil {
		return nil, err
	}
	return &dom, nil
}

// Add registers a domain; it stays pending until verified.
func (d *DomainsAPI) Add(ctx context.Context, req models.AddDomainRequest) (*models.Domain, error) {
	var dom models.Domain
	if err := d.client.post(ctx, "/domains", req, &dom); err != nil {
		return nil, err
	}
	return &dom, nil
}

func (d *DomainsAPI) Delete(ctx context.Context, id string) error {
	return d.client.delete(ctx, resourcePath("domains", id))
}

// Verify asks the backend to check the domain's DNS records.
func (d *DomainsAPI) Verify(ctx context.Context, id string) (*models.Domain, error) {
	var dom models.Domain
	if err := d.client.action(ctx, resourcePath("domains", id, "verify"), &dom); err != nil {
		return nil, err
	}
	return &dom, nil
}

// DNSRecords returns the records the customer must publish.
func (d *DomainsAPI) DNSRecords(ctx context.Context, id string) ([]models.DNSRecord, error) {
	var records []models.DNSRecord
	if err := d.client.list(ctx, resourcePath("domains", id, "dns"), nil, "records", &records); err != nil {
		return nil, err
	}
	return records, nil
}
