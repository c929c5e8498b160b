package vercel

import (
	"context"
	"errors"
)

type DomainResult struct {
	Success bool
	Error   string
}

type VerifyResult struct {
	Verified bool
	Error    string
}

// AddCustomDomain attaches domain to a resolved Vercel project.
func (d *Deployer) AddCustomDomain(ctx context.Context, projectID, domain string) DomainResult {
	if !d.client.Configured() {
		return DomainResult{Error: ErrTokenMissing.Error()}
	}
	if err := d.client.AddDomain(ctx, projectID, domain); err != nil {
		d.log.Warn("failed to add domain", "vercel_project_id", projectID, "domain", domain, "error", err)
		return DomainResult{Error: apiMessage(err)}
	}
	return DomainResult{Success: true}
}

func (d *Deployer) VerifyCustomDomain(ctx context.Context, projectID, domain string) VerifyResult {
	if !d.client.Configured() {
		return VerifyResult{Error: ErrTokenMissing.Error()}
	}
	verified, err := d.client.VerifyDomain(ctx, projectID, domain)
	if err != nil {
		return VerifyResult{Error: apiMessage(err)}
	}
	return VerifyResult{Verified: verified}
}

// GetDomainConfig returns the DNS configuration Vercel expects for domain.
func (d *Deployer) GetDomainConfig(ctx context.Context, projectID, domain string) (map[string]interface{}, error) {
	if !d.client.Configured() {
		return nil, ErrTokenMissing
	}
	return d.client.GetDomainConfig(ctx, projectID, domain)
}

func (d *Deployer) RemoveCustomDomain(ctx context.Context, projectID, domain string) DomainResult {
	if !d.client.Configured() {
		return DomainResult{Error: ErrTokenMissing.Error()}
	}
	if err := d.client.RemoveDomain(ctx, projectID, domain); err != nil {
		d.log.Warn("failed to remove domain", "vercel_project_id", projectID, "domain", domain, "error", err)
		return DomainResult{Error: apiMessage(err)}
	}
	return DomainResult{Success: true}
}

func apiMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
