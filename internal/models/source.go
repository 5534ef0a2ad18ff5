package models

import "time"

// Source status values reported by the backend.
const (
	SourceActive   = "active"
	SourceInactive = "inactive"
	SourcePending  = "pending"
	SourceError    = "error"
)

// Source is a connected third-party system whose data is backed up (CRM, billing, email platform, ...).
type Source struct {
	ID         string         `json:"sourceId"`
	AccountID  string         `json:"accountId"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Status     string         `json:"status"`
	Config     map[string]any `json:"config,omitempty"`
	LastSyncAt *time.Time     `json:"lastSyncAt,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// CreateSourceRequest is the body of POST /sources.
type CreateSourceRequest struct {
	Name        string            `json:"name" validate:"required"`
	Type        string            `json:"type" validate:"required"`
	Config      map[string]any    `json:"config,omitempty"`
	Credentials map[string]string `json:"credentials,omitempty"`
}

// UpdateSourceRequest is the body of PUT /sources/{id}; empty fields are left unchanged.
type UpdateSourceRequest struct {
	Name   string         `json:"name,omitempty"`
	Status string         `json:"status,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

// SourceTestResult is returned by POST /sources/{id}/test.
type SourceTestResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	LatencyMs int    `json:"latencyMs,omitempty"`
}

// OAuthURL is returned by GET /sources/oauth/{platform}/url.
type OAuthURL struct {
	AuthURL string `json:"authUrl"`
	State   string `json:"state"`
}

// OAuthCallbackRequest is the body of POST /sources/oauth/{platform}/callback.
type OAuthCallbackRequest struct {
	Code        string `json:"code"`
	State       string `json:"state"`
	RedirectURI string `json:"redirectUri"`
	Name        string `json:"name,omitempty"`
}
