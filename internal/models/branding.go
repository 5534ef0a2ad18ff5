package models

import "time"

// Branding is the white-label theme of an account.
type Branding struct {
	AccountID      string    `json:"accountId"`
	CompanyName    string    `json:"companyName,omitempty"`
	LogoURL        string    `json:"logoUrl,omitempty"`
	FaviconURL     string    `json:"faviconUrl,omitempty"`
	PrimaryColor   string    `json:"primaryColor,omitempty"`
	SecondaryColor string    `json:"secondaryColor,omitempty"`
	AccentColor    string    `json:"accentColor,omitempty"`
	CustomCSS      string    `json:"customCss,omitempty"`
	SupportEmail   string    `json:"supportEmail,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UpdateBrandingRequest is the body of PUT /branding; empty fields are left unchanged.
type UpdateBrandingRequest struct {
	CompanyName    string `json:"companyName,omitempty"`
	LogoURL        string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	FaviconURL     string `json:"faviconUrl,omitempty" validate:"omitempty,url"`
	PrimaryColor   string `json:"primaryColor,omitempty" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondaryColor,omitempty" validate:"omitempty,hexcolor"`
	AccentColor    string `json:"accentColor,omitempty" validate:"omitempty,hexcolor"`
	CustomCSS      string `json:"customCss,omitempty"`
	SupportEmail   string `json:"supportEmail,omitempty" validate:"omitempty,email"`
}
