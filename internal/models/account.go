package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Account is a tenant. Accounts nest: ParentID links a sub-account to its parent.
//
// The backend still returns the legacy shape (accountId, accountName, parentAccountId, epoch-millis timestamps)
// from some endpoints; UnmarshalJSON accepts both and Account always encodes the current shape.
type Account struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	ParentID  string         `json:"parentId,omitempty"`
	OwnerID   string         `json:"ownerId,omitempty"`
	Company   string         `json:"company,omitempty"`
	Plan      string         `json:"plan,omitempty"`
	Status    string         `json:"status,omitempty"`
	Level     int            `json:"level"`
	Path      string         `json:"accountPath,omitempty"`
	Settings  map[string]any `json:"settings,omitempty"`
	Usage     *AccountUsage  `json:"usage,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// AccountUsage summarizes what an account consumes against its plan.
type AccountUsage struct {
	Sources      int   `json:"sources"`
	Jobs         int   `json:"jobs"`
	Users        int   `json:"users"`
	StorageBytes int64 `json:"storageBytes"`
}

// IsRoot reports whether the account has no parent.
func (a *Account) IsRoot() bool { return a.ParentID == "" }

type accountWire struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	Name            string          `json:"name"`
	AccountName     string          `json:"accountName"`
	ParentID        string          `json:"parentId"`
	ParentAccountID string          `json:"parentAccountId"`
	OwnerID         string          `json:"ownerId"`
	OwnerUserID     string          `json:"ownerUserId"`
	Company         string          `json:"company"`
	Plan            string          `json:"plan"`
	Status          string          `json:"status"`
	Level           int             `json:"level"`
	Path            string          `json:"accountPath"`
	Settings        map[string]any  `json:"settings"`
	Usage           *AccountUsage   `json:"usage"`
	CreatedAt       json.RawMessage `json:"createdAt"`
	UpdatedAt       json.RawMessage `json:"updatedAt"`
}

// UnmarshalJSON decodes either the legacy or the current account shape.
func (a *Account) UnmarshalJSON(data []byte) error {
	var w accountWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	created, err := parseTimestamp(w.CreatedAt)
	if err != nil {
		return fmt.Errorf("account createdAt: %w", err)
	}
	updated, err := parseTimestamp(w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("account updatedAt: %w", err)
	}

	*a = Account{
		ID:        firstNonEmpty(w.ID, w.AccountID),
		Name:      firstNonEmpty(w.Name, w.AccountName),
		ParentID:  firstNonEmpty(w.ParentID, w.ParentAccountID),
		OwnerID:   firstNonEmpty(w.OwnerID, w.OwnerUserID),
		Company:   w.Company,
		Plan:      w.Plan,
		Status:    w.Status,
		Level:     w.Level,
		Path:      w.Path,
		Settings:  w.Settings,
		Usage:     w.Usage,
		CreatedAt: created,
		UpdatedAt: updated,
	}
	return nil
}

// parseTimestamp accepts null, RFC3339 strings, numeric strings and epoch milliseconds.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, err
		}
		if s == "" {
			return time.Time{}, nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		return time.Parse(time.RFC3339, s)
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// CreateAccountRequest creates a sub-account under ParentID (or the current account when empty).
type CreateAccountRequest struct {
	Name     string         `json:"name" validate:"required,max=120"`
	ParentID string         `json:"parentId,omitempty"`
	Company  string         `json:"company,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// UpdateAccountRequest carries the mutable account fields; empty fields are left unchanged.
type UpdateAccountRequest struct {
	Name     string         `json:"name,omitempty"`
	Company  string         `json:"company,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// AccountUser is a user's membership in an account.
type AccountUser struct {
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joinedAt"`
}

// InviteUserRequest invites a user into an account with a role.
type InviteUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=owner admin manager viewer"`
}
