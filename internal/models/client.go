package models

import "time"

// Client is an agency customer whose accounts are managed on their behalf.
type Client struct {
	ID           string         `json:"clientId"`
	AccountID    string         `json:"accountId"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Company      string         `json:"company,omitempty"`
	ContactName  string         `json:"contactName,omitempty"`
	ContactEmail string         `json:"contactEmail"`
	Phone        string         `json:"phone,omitempty"`
	Plan         string         `json:"plan,omitempty"`
	Status       string         `json:"status"`
	AccountIDs   []string       `json:"accountIds,omitempty"`
	Settings     map[string]any `json:"settings,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// CreateClientRequest is the body of POST /clients, assembled by the client registration flow.
type CreateClientRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Type         string `json:"type" validate:"required,oneof=business individual agency"`
	Company      string `json:"company,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,e164"`
	Plan         string `json:"plan" validate:"required,oneof=starter professional enterprise"`
	Notes        string `json:"notes,omitempty"`
}

// UpdateClientRequest is the body of PUT /clients/{id}; empty fields are left unchanged.
type UpdateClientRequest struct {
	Name         string `json:"name,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Plan         string `json:"plan,omitempty"`
	Status       string `json:"status,omitempty"`
}

// AssignAccountRequest links an account to a client.
type AssignAccountRequest struct {
	AccountID string `json:"accountId"`
}
