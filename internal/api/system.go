package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
)

// SystemAPI wraps the /admin/system endpoints, available to system administrators only.
type SystemAPI struct {
	client *Client
}

func (s *SystemAPI) Health(ctx context.Context) (*models.SystemHealth, error) {
	var h models.SystemHealth
	if err := s.client.get(ctx, "/admin/system/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *SystemAPI) Metrics(ctx context.Context) (*models.SystemMetrics, error) {
	var m models.SystemMetrics
	if err := s.client.get(ctx, "/admin/system/metrics", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// AuditLog returns recent audit events; limit <= 0 uses the backend default.
func (s *SystemAPI) AuditLog(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}

	var events []models.AuditEvent
	if err := s.client.list(ctx, "/admin/system/audit", q, "events", &events); err != nil {
		return nil, err
	}
	return events, nil
}
