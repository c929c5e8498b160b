package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"appforge-backend/internal/logger"
	"appforge-backend/internal/models"
	"appforge-backend/internal/services"
)

// DomainManager is implemented by *services.DomainService.
type DomainManager interface {
	List(ctx context.Context, userID, projectID uuid.UUID) ([]models.CustomDomain, error)
	Add(ctx context.Context, userID, projectID uuid.UUID, domain string) (*services.AddDomainOutcome, error)
	Verify(ctx context.Context, userID, domainID uuid.UUID) (*services.VerifyDomainOutcome, error)
	Remove(ctx context.Context, userID, domainID uuid.UUID) error
}

var _ DomainManager = (*services.DomainService)(nil)

type DomainsHandler struct {
	domains DomainManager
	log     *logger.Logger
}

func NewDomainsHandler(domains DomainManager, log *logger.Logger) *DomainsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DomainsHandler{domains: domains, log: log.With("handler", "domains")}
}

// ListDomains godoc
// @Summary     List custom domains
// @Tags        domains
// @Produce     json
// @Security    Bearer
// @Param       projectId query string true "Project ID"
// @Success     200 {object} models.DomainsResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/projects/domains [get]
func (h *DomainsHandler) ListDomains(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := parseID(c, c.Query("projectId"), "Project ID")
	if !ok {
		return
	}

	domains, err := h.domains.List(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := models.DomainsResponse{Success: true, Domains: make([]models.DomainResponse, len(domains))}
	for i := range domains {
		resp.Domains[i] = models.NewDomainResponse(&domains[i])
	}
	c.JSON(http.StatusOK, resp)
}

// AddDomain godoc
// @Summary     Add a custom domain
// @Description Attaches a domain to the project's Vercel deployment and returns the DNS records to configure
// @Tags        domains
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.AddDomainRequest true "Domain"
// @Success     200 {object} models.AddDomainResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/projects/domains [post]
func (h *DomainsHandler) AddDomain(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.AddDomainRequest
	_ = c.ShouldBindJSON(&req)
	if strings.TrimSpace(req.ProjectID) == "" || strings.TrimSpace(req.Domain) == "" {
		badRequest(c, "Project ID and domain are required")
		return
	}
	projectID, ok := parseID(c, strings.TrimSpace(req.ProjectID), "Project ID")
	if !ok {
		return
	}

	out, err := h.domains.Add(c.Request.Context(), userID, projectID, req.Domain)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.AddDomainResponse{
		Success:           true,
		Domain:            models.NewDomainResponse(out.Domain),
		DNSRecords:        out.DNSRecords,
		VerificationToken: out.VerificationToken,
	})
}

// VerifyDomain godoc
// @Summary     Verify a custom domain
// @Tags        domains
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.VerifyDomainRequest true "Domain"
// @Success     200 {object} models.VerifyDomainResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/projects/domains [patch]
func (h *DomainsHandler) VerifyDomain(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.VerifyDomainRequest
	_ = c.ShouldBindJSON(&req)
	domainID, ok := parseID(c, strings.TrimSpace(req.DomainID), "Domain ID")
	if !ok {
		return
	}

	out, err := h.domains.Verify(c.Request.Context(), userID, domainID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.VerifyDomainResponse{
		Success:  true,
		Verified: out.Verified,
		Error:    out.Error,
	})
}

// RemoveDomain godoc
// @Summary     Remove a custom domain
// @Tags        domains
// @Produce     json
// @Security    Bearer
// @Param       domainId query string true "Domain ID"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/projects/domains [delete]
func (h *DomainsHandler) RemoveDomain(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	domainID, ok := parseID(c, c.Query("domainId"), "Domain ID")
	if !ok {
		return
	}

	if err := h.domains.Remove(c.Request.Context(), userID, domainID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
