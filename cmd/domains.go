package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/formatter"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) DomainsList(ctx context.Context, cmd *cli.Command) error {
	domains, err := r.api.Domains.List(ctx)
	if err != nil {
		return err
	}
	return r.render(formatter.DomainsTable(domains), domains)
}

// DomainsAdd registers a domain and prints the DNS records needed to verify it.
func (r *Runner) DomainsAdd(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, "domain")
	if err != nil {
		return err
	}

	domain, err := r.api.Domains.Add(ctx, models.AddDomainRequest{Domain: name, Type: cmd.String("type")})
	if err != nil {
		return err
	}
	if r.structured() {
		return r.render(nil, domain)
	}

	r.writePlain("✓ Added %s (%s)\n", domain.Domain, domain.ID)
	records, err := r.api.Domains.DNSRecords(ctx, domain.ID)
	if err != nil {
		r.logger.Warn("failed to load DNS records", "domain", domain.ID, "error", err)
		return nil
	}
	r.writePlainln("Publish these records, then run 'listbackup domains verify %s':", domain.ID)
	return r.render(formatter.DNSRecordsTable(records), records)
}

func (r *Runner) DomainsVerify(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	domain, err := r.api.Domains.Verify(ctx, id)
	if err != nil {
		return err
	}
	if r.structured() {
		return r.render(nil, domain)
	}
	if !domain.Verified() {
		return r.writePlain("✗ %s is %s; DNS changes can take a while to propagate\n", domain.Domain, domain.Status)
	}
	return r.writePlain("✓ %s verified\n", domain.Domain)
}

func (r *Runner) DomainsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.api.Domains.Delete(ctx, id); err != nil {
		return err
	}
	return r.done(map[string]string{"deleted": id}, "Deleted domain %s", id)
}

func (r *Runner) DomainsDNS(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	records, err := r.api.Domains.DNSRecords(ctx, id)
	if err != nil {
		return err
	}
	return r.render(formatter.DNSRecordsTable(records), records)
}

func (r *Runner) BrandingShow(ctx context.Context, cmd *cli.Command) error {
	branding, err := r.api.Branding.Get(ctx)
	if err != nil {
		return err
	}
	return r.render(formatter.BrandingDetail(branding), branding)
}

// BrandingUpdate sends only the flags that were given.
func (r *Runner) BrandingUpdate(ctx context.Context, cmd *cli.Command) error {
	req := models.UpdateBrandingRequest{
		CompanyName:    cmd.String("company"),
		LogoURL:        cmd.String("logo"),
		FaviconURL:     cmd.String("favicon"),
		PrimaryColor:   cmd.String("primary"),
		SecondaryColor: cmd.String("secondary"),
		AccentColor:    cmd.String("accent"),
		SupportEmail:   cmd.String("support-email"),
	}
	if path := cmd.String("css"); path != "" {
		css, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read CSS file: %w", err)
		}
		req.CustomCSS = string(css)
	}
	if req == (models.UpdateBrandingRequest{}) {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	branding, err := r.api.Branding.Update(ctx, req)
	if err != nil {
		return err
	}
	if r.structured() {
		return r.render(nil, branding)
	}
	r.writePlain("✓ Branding updated\n")
	return r.render(formatter.BrandingDetail(branding), branding)
}

func (r *Runner) BrandingReset(ctx context.Context, cmd *cli.Command) error {
	if err := r.api.Branding.Reset(ctx); err != nil {
		return err
	}
	return r.done(map[string]bool{"reset": true}, "Branding reset to defaults")
}
