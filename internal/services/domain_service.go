package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"appforge-backend/internal/logger"
	"appforge-backend/internal/models"
	"appforge-backend/internal/supabase"
)

var domainPattern = regexp.MustCompile(`(?i)^([a-z0-9]+(-[a-z0-9]+)*\.)+[a-z]{2,}$`)

// ValidDomain reports whether domain is a syntactically valid hostname with
// at least one dot and an alphabetic TLD.
func ValidDomain(domain string) bool {
	return domainPattern.MatchString(domain)
}

type DomainService struct {
	store   Store
	hosting Hosting
	events  EventPublisher
	log     *logger.Logger
}

func NewDomainService(store Store, hosting Hosting, events EventPublisher, log *logger.Logger) *DomainService {
	if log == nil {
		log = logger.Nop()
	}
	return &DomainService{
		store:   store,
		hosting: hosting,
		events:  events,
		log:     log.With("service", "DomainService"),
	}
}

type AddDomainOutcome struct {
	Domain            *models.CustomDomain
	DNSRecords        map[string]interface{}
	VerificationToken string
}

type VerifyDomainOutcome struct {
	Verified bool
	Error    string
}

func (s *DomainService) List(ctx context.Context, userID, projectID uuid.UUID) ([]models.CustomDomain, error) {
	if _, err := loadProject(ctx, s.store, userID, projectID); err != nil {
		return nil, err
	}
	domains, err := s.store.ListDomains(ctx, projectID)
	if err != nil {
		return nil, InternalError(err)
	}
	return domains, nil
}

func (s *DomainService) Add(ctx context.Context, userID, projectID uuid.UUID, domain string) (*AddDomainOutcome, error) {
	domain = strings.TrimSpace(domain)
	if !ValidDomain(domain) {
		return nil, ValidationError("Invalid domain format")
	}

	project, err := loadProject(ctx, s.store, userID, projectID)
	if err != nil {
		return nil, err
	}
	if !project.VercelProjectID.Valid || project.VercelProjectID.String == "" {
		return nil, ValidationError("Project must be deployed before adding a custom domain")
	}

	exists, err := s.store.DomainExists(ctx, domain)
	if err != nil {
		return nil, InternalError(err)
	}
	if exists {
		return nil, ConflictError(supabase.ErrDomainTaken)
	}

	token, err := verificationToken()
	if err != nil {
		return nil, InternalError(err)
	}

	vercelProjectID := project.VercelProjectID.String
	if res := s.hosting.AddCustomDomain(ctx, vercelProjectID, domain); !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "Failed to add domain to Vercel"
		}
		return nil, DeploymentError(msg)
	}

	dnsRecords, err := s.hosting.GetDomainConfig(ctx, vercelProjectID, domain)
	if err != nil {
		s.log.Warn("failed to read domain config", "domain", domain, "error", err)
		dnsRecords = map[string]interface{}{}
	}

	record := &models.CustomDomain{
		ProjectID:         projectID,
		Domain:            domain,
		VerificationToken: token,
		Status:            models.DomainStatusPending,
		DNSRecords:        dnsRecords,
	}
	if err := s.store.CreateDomain(ctx, record); err != nil {
		if errors.Is(err, supabase.ErrDomainTaken) {
			return nil, ConflictError(err)
		}
		return nil, InternalError(err)
	}

	s.log.Info("custom domain added", "project_id", projectID, "domain", domain)
	return &AddDomainOutcome{
		Domain:            record,
		DNSRecords:        dnsRecords,
		VerificationToken: token,
	}, nil
}

// Verify asks the host whether DNS is in place. A verified domain becomes
// the project's custom domain; otherwise the row moves to verifying, or to
// failed when the host rejected the request.
func (s *DomainService) Verify(ctx context.Context, userID, domainID uuid.UUID) (*VerifyDomainOutcome, error) {
	record, project, err := s.loadOwnedDomain(ctx, userID, domainID)
	if err != nil {
		return nil, err
	}
	if !project.VercelProjectID.Valid || project.VercelProjectID.String == "" {
		return nil, ValidationError("Project not deployed to Vercel")
	}

	res := s.hosting.VerifyCustomDomain(ctx, project.VercelProjectID.String, record.Domain)
	if res.Verified {
		if err := s.store.MarkDomainVerified(ctx, record); err != nil {
			return nil, InternalError(err)
		}
		if s.events != nil {
			if err := s.events.Publish(ctx, models.ProjectEvent{
				ProjectID: project.ID,
				UserID:    project.UserID,
				Event:     supabase.EventDomainVerified,
				Payload:   supabase.DomainVerifiedPayload(record.Domain),
			}); err != nil {
				s.log.Warn("failed to publish project event", "project_id", project.ID, "error", err)
			}
		}
		return &VerifyDomainOutcome{Verified: true}, nil
	}

	status := models.DomainStatusVerifying
	msg := "Domain not yet verified"
	if res.Error != "" {
		status = models.DomainStatusFailed
		msg = res.Error
	}
	if err := s.store.UpdateDomainStatus(ctx, record.ID, status); err != nil {
		return nil, InternalError(err)
	}
	return &VerifyDomainOutcome{Verified: false, Error: msg}, nil
}

func (s *DomainService) Remove(ctx context.Context, userID, domainID uuid.UUID) error {
	record, project, err := s.loadOwnedDomain(ctx, userID, domainID)
	if err != nil {
		return err
	}

	if project.VercelProjectID.Valid && project.VercelProjectID.String != "" {
		if res := s.hosting.RemoveCustomDomain(ctx, project.VercelProjectID.String, record.Domain); !res.Success {
			s.log.Warn("failed to remove domain from vercel", "domain", record.Domain, "error", res.Error)
		}
	}

	if err := s.store.DeleteDomain(ctx, record); err != nil {
		return InternalError(err)
	}
	return nil
}

func (s *DomainService) loadOwnedDomain(ctx context.Context, userID, domainID uuid.UUID) (*models.CustomDomain, *models.Project, error) {
	record, err := s.store.GetDomain(ctx, domainID)
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, nil, NotFoundError("Domain not found")
	}
	if err != nil {
		return nil, nil, InternalError(err)
	}

	project, err := s.store.GetProject(ctx, record.ProjectID, userID)
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, nil, ForbiddenError("Unauthorized")
	}
	if err != nil {
		return nil, nil, InternalError(err)
	}
	return record, project, nil
}

func verificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
