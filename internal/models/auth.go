package models

// User is the authenticated principal, as cached in platform storage.
type User struct {
	UserID           string   `json:"userId"`
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	Role             string   `json:"role,omitempty"`
	CurrentAccountID string   `json:"currentAccountId,omitempty"`
	AccountIDs       []string `json:"accountIds,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Company  string `json:"company,omitempty"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthTokens is the token pair issued by login and refresh.
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	IDToken      string `json:"idToken,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
	ExpiresIn    int    `json:"expiresIn,omitempty"` // seconds
}

// LoginResponse is the data returned by POST /auth/login and POST /auth/register.
type LoginResponse struct {
	AuthTokens
	User *User `json:"user,omitempty"`
}
