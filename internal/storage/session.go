package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"golang.org/x/oauth2"
)

// Session reads and writes the listbackup session keys of a [Storage].
type Session struct {
	store Storage
}

// NewSession wraps store.
func NewSession(store Storage) *Session {
	return &Session{store: store}
}

// get returns "" for absent keys.
func (s *Session) get(key string) (string, error) {
	v, err := s.store.Get(key)
	if errors.Is(err, shared.ErrKeyNotFound) {
		return "", nil
	}
	return v, err
}

// AccessToken returns the stored access token, or "" when there is none.
func (s *Session) AccessToken() string {
	v, _ := s.get(KeyAuthToken)
	return v
}

// RefreshToken returns the stored refresh token, or "" when there is none.
func (s *Session) RefreshToken() string {
	v, _ := s.get(KeyRefreshToken)
	return v
}

// Token assembles the stored token pair. It returns nil when no access token is stored.
func (s *Session) Token() (*oauth2.Token, error) {
	access, err := s.get(KeyAuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}
	if access == "" {
		return nil, nil
	}

	refresh, err := s.get(KeyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}

	tok := &oauth2.Token{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}

	expires, err := s.get(KeyTokenExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read token expiry: %w", err)
	}
	if expires != "" {
		if t, err := time.Parse(time.RFC3339, expires); err == nil {
			tok.Expiry = t
		}
	}
	return tok, nil
}

// SetToken persists tok. An empty refresh token leaves the stored one untouched, since refresh responses
// may omit it. A zero expiry removes the stored expiry, which belonged to the previous access token.
func (s *Session) SetToken(tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return fmt.Errorf("%w: access token is required", shared.ErrInvalidInput)
	}

	if err := s.store.Set(KeyAuthToken, tok.AccessToken); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if tok.RefreshToken != "" {
		if err := s.store.Set(KeyRefreshToken, tok.RefreshToken); err != nil {
			return fmt.Errorf("failed to store refresh token: %w", err)
		}
	}
	if tok.Expiry.IsZero() {
		if err := s.store.Remove(KeyTokenExpiresAt); err != nil {
			return fmt.Errorf("failed to remove token expiry: %w", err)
		}
		return nil
	}
	if err := s.store.Set(KeyTokenExpiresAt, tok.Expiry.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to store token expiry: %w", err)
	}
	return nil
}

// TokenFromAuth converts backend tokens into an [oauth2.Token], computing the expiry from ExpiresIn.
func TokenFromAuth(t models.AuthTokens) *oauth2.Token {
	tok := &oauth2.Token{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken, TokenType: "Bearer"}
	if t.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return tok
}

// User decodes the cached user. It returns nil when none is stored.
func (s *Session) User() (*models.User, error) {
	raw, err := s.get(KeyUserData)
	if err != nil || raw == "" {
		return nil, err
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return &u, nil
}

// SetUser caches u as JSON.
func (s *Session) SetUser(u *models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return s.store.Set(KeyUserData, string(data))
}

// AccountID returns the current account id, or "".
func (s *Session) AccountID() string {
	v, _ := s.get(KeyAccountID)
	return v
}

func (s *Session) SetAccountID(id string) error {
	return s.store.Set(KeyAccountID, id)
}

// Authenticated reports whether an access token is stored.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// Entries lists the stored session keys, most recently written first.
func (s *Session) Entries() ([]Entry, error) {
	l, ok := s.store.(Lister)
	if !ok {
		return nil, fmt.Errorf("%w: storage cannot list keys", shared.ErrNotImplemented)
	}
	entries, err := l.List(KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list session keys: %w", err)
	}
	return entries, nil
}

// Clear removes every session key, attempting all of them even if one fails.
func (s *Session) Clear() error {
	var errs []error
	for _, k := range Keys {
		if err := s.store.Remove(k); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}
