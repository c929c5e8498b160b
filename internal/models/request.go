package models

type GenerateScopeRequest struct {
	// Free-text idea, at least 50 characters.
	Description string `json:"description" binding:"required" example:"A booking app for independent yoga studios with class schedules and payments"`
}

type RefineScopeRequest struct {
	Scope    ProjectScope `json:"scope"`
	Feedback string       `json:"feedback" binding:"required"`
}

// CreateProjectRequest persists a reviewed scope as a draft project.
type CreateProjectRequest struct {
	Name           string       `json:"name" binding:"required"`
	OriginalPrompt string       `json:"originalPrompt"`
	Scope          ProjectScope `json:"scope"`
}

type GenerateCodeRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
}

type ChatRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

type DeployRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
}

type AddDomainRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	Domain    string `json:"domain" binding:"required" example:"app.example.com"`
}

type VerifyDomainRequest struct {
	DomainID string `json:"domainId" binding:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
