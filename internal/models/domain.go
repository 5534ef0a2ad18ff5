package models

import "time"

// Domain verification states.
const (
	DomainPending  = "pending"
	DomainVerified = "verified"
	DomainFailed   = "failed"
)

// Domain is a custom domain serving the white-labelled dashboard.
type Domain struct {
	ID                string     `json:"domainId"`
	AccountID         string     `json:"accountId"`
	Domain            string     `json:"domain"`
	Type              string     `json:"type"`
	Status            string     `json:"status"`
	SSLStatus         string     `json:"sslStatus,omitempty"`
	VerificationToken string     `json:"verificationToken,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	VerifiedAt        *time.Time `json:"verifiedAt,omitempty"`
}

// Verified reports whether DNS verification succeeded.
func (d Domain) Verified() bool { return d.Status == DomainVerified }

// DNSRecord is a record the customer must publish to verify a domain.
type DNSRecord struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Value  string `json:"value"`
	TTL    int    `json:"ttl,omitempty"`
	Status string `json:"status,omitempty"`
}

// AddDomainRequest is the body of POST /domains.
type AddDomainRequest struct {
	Domain string `json:"domain" validate:"required,fqdn"`
	Type   string `json:"type" validate:"oneof=custom subdomain"`
}
