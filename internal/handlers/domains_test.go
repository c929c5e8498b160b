package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"appforge-backend/internal/models"
	"appforge-backend/internal/services"
	"appforge-backend/internal/supabase"
)

func TestAddDomain_Success(t *testing.T) {
	api := newAPI(t, true)
	projectID := uuid.New()
	dns := map[string]interface{}{"misconfigured": true}
	api.domains.On("Add", mock.Anything, api.userID, projectID, "app.example.com").Return(&services.AddDomainOutcome{
		Domain: &models.CustomDomain{
			ID:        uuid.New(),
			ProjectID: projectID,
			Domain:    "app.example.com",
			Status:    models.DomainStatusPending,
		},
		DNSRecords:        dns,
		VerificationToken: "abc123",
	}, nil).Once()

	w := api.do(t, http.MethodPost, "/api/v1/projects/domains", map[string]string{
		"projectId": projectID.String(),
		"domain":    "app.example.com",
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.AddDomainResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "app.example.com", resp.Domain.Domain)
	assert.Equal(t, models.DomainStatusPending, resp.Domain.Status)
	assert.Equal(t, "abc123", resp.VerificationToken)
	assert.Equal(t, dns, resp.DNSRecords)
}

func TestAddDomain_Errors(t *testing.T) {
	api := newAPI(t, true)

	w := api.do(t, http.MethodPost, "/api/v1/projects/domains", map[string]string{"projectId": uuid.NewString()})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Project ID and domain are required", errorBody(t, w))

	api.domains.On("Add", mock.Anything, mock.Anything, mock.Anything, "taken.example.com").
		Return(nil, services.ConflictError(supabase.ErrDomainTaken)).Once()
	w = api.do(t, http.MethodPost, "/api/v1/projects/domains", map[string]string{
		"projectId": uuid.NewString(),
		"domain":    "taken.example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Domain already in use", errorBody(t, w))
}

func TestListDomains(t *testing.T) {
	api := newAPI(t, true)
	projectID := uuid.New()
	api.domains.On("List", mock.Anything, api.userID, projectID).Return([]models.CustomDomain{
		{ID: uuid.New(), Domain: "app.example.com", Verified: true, Status: models.DomainStatusActive},
	}, nil).Once()

	w := api.do(t, http.MethodGet, "/api/v1/projects/domains?projectId="+projectID.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.DomainsResponse](t, w)
	require.Len(t, resp.Domains, 1)
	assert.True(t, resp.Domains[0].Verified)
}

func TestVerifyDomain(t *testing.T) {
	api := newAPI(t, true)
	domainID := uuid.New()
	api.domains.On("Verify", mock.Anything, api.userID, domainID).
		Return(&services.VerifyDomainOutcome{Verified: false, Error: "Domain not yet verified"}, nil).Once()

	w := api.do(t, http.MethodPatch, "/api/v1/projects/domains", map[string]string{"domainId": domainID.String()})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.VerifyDomainResponse{
		Success:  true,
		Verified: false,
		Error:    "Domain not yet verified",
	}, decode[models.VerifyDomainResponse](t, w))
}

func TestVerifyDomain_NotOwner(t *testing.T) {
	api := newAPI(t, true)
	api.domains.On("Verify", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, services.ForbiddenError("Unauthorized")).Once()

	w := api.do(t, http.MethodPatch, "/api/v1/projects/domains", map[string]string{"domainId": uuid.NewString()})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized", errorBody(t, w))
}

func TestRemoveDomain(t *testing.T) {
	api := newAPI(t, true)

	w := api.do(t, http.MethodDelete, "/api/v1/projects/domains", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Domain ID is required", errorBody(t, w))

	domainID := uuid.New()
	api.domains.On("Remove", mock.Anything, api.userID, domainID).Return(nil).Once()
	w = api.do(t, http.MethodDelete, "/api/v1/projects/domains?domainId="+domainID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	missing := uuid.New()
	api.domains.On("Remove", mock.Anything, api.userID, missing).Return(services.NotFoundError("Domain not found")).Once()
	w = api.do(t, http.MethodDelete, "/api/v1/projects/domains?domainId="+missing.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	api.domains.AssertExpectations(t)
}

func TestDomains_UnhandledErrorIsGeneric500(t *testing.T) {
	api := newAPI(t, true)
	api.domains.On("List", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()

	w := api.do(t, http.MethodGet, "/api/v1/projects/domains?projectId="+uuid.NewString(), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "connection reset", errorBody(t, w))
}
