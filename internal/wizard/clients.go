package wizard

import (
	"fmt"
	"strings"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
)

// ClientRegistration assembles a [models.CreateClientRequest]: company, contact, settings, review.
type ClientRegistration struct {
	*Wizard[models.CreateClientRequest]
}

func NewClientRegistration() *ClientRegistration {
	initial := models.CreateClientRequest{Type: "business", Plan: "starter"}
	return &ClientRegistration{New(initial,
		Step[models.CreateClientRequest]{Title: "Company", Fields: []string{"Name", "Type"}},
		Step[models.CreateClientRequest]{Title: "Contact", Fields: []string{"ContactEmail", "Phone"}},
		Step[models.CreateClientRequest]{Title: "Settings", Fields: []string{"Plan"}},
		Step[models.CreateClientRequest]{Title: "Review"},
	)}
}

// Set assigns a form field by its JSON name.
func (r *ClientRegistration) Set(field, value string) error {
	c := r.Form()
	value = strings.TrimSpace(value)
	switch field {
	case "name":
		c.Name = value
	case "type":
		c.Type = strings.ToLower(value)
	case "company":
		c.Company = value
	case "contactName":
		c.ContactName = value
	case "contactEmail":
		c.ContactEmail = value
	case "phone":
		c.Phone = value
	case "plan":
		c.Plan = strings.ToLower(value)
	case "notes":
		c.Notes = value
	default:
		return fmt.Errorf("%w: unknown client field %q", shared.ErrInvalidArgument, field)
	}
	return nil
}
