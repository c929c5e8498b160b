package models

import (
	"database/sql"
	"time"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ProjectResponse struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Description          string            `json:"description"`
	OriginalPrompt       string            `json:"originalPrompt"`
	ExpandedDescription  string            `json:"expandedDescription"`
	TodoList             []TodoCategory    `json:"todoList"`
	AppType              string            `json:"appType"`
	Complexity           string            `json:"complexity"`
	TechStack            []string          `json:"techStack"`
	Status               ProjectStatus     `json:"status"`
	TokensUsed           int               `json:"tokensUsed"`
	Dependencies         map[string]string `json:"dependencies"`
	EnvVariables         []string          `json:"envVariables"`
	PreviewURL           string            `json:"previewUrl,omitempty"`
	ProductionURL        string            `json:"productionUrl,omitempty"`
	CustomDomain         string            `json:"customDomain,omitempty"`
	CustomDomainVerified bool              `json:"customDomainVerified"`
	LastBuildAt          *time.Time        `json:"lastBuildAt,omitempty"`
	LatestBuild          *BuildResponse    `json:"latestBuild,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type BuildResponse struct {
	ID               string      `json:"id"`
	BuildNumber      int         `json:"buildNumber"`
	Status           BuildStatus `json:"status"`
	AIModelUsed      string      `json:"aiModelUsed"`
	TokensConsumed   int         `json:"tokensConsumed"`
	BuildTimeSeconds int         `json:"buildTimeSeconds"`
	ErrorMessage     string      `json:"errorMessage,omitempty"`
	StartedAt        time.Time   `json:"startedAt"`
	CompletedAt      *time.Time  `json:"completedAt,omitempty"`
}

type FilesResponse struct {
	Files []FileResponse `json:"files"`
}

type FileResponse struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Content   string    `json:"content"`
	Type      FileType  `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type GenerateCodeResponse struct {
	Success          bool   `json:"success"`
	BuildID          string `json:"buildId"`
	FilesCount       int    `json:"filesCount"`
	Structure        string `json:"structure"`
	BuildTimeSeconds int    `json:"buildTimeSeconds"`
}

type ChatResponse struct {
	Success         bool   `json:"success"`
	Response        string `json:"response"`
	FilesUpdated    int    `json:"filesUpdated"`
	TokensUsed      int    `json:"tokensUsed"`
	TokensRemaining int    `json:"tokensRemaining"`
}

type ChatHistoryResponse struct {
	Success  bool                  `json:"success"`
	Messages []ChatMessageResponse `json:"messages"`
}

type ChatMessageResponse struct {
	ID         string    `json:"id"`
	Role       ChatRole  `json:"role"`
	Content    string    `json:"content"`
	TokensUsed int       `json:"tokensUsed"`
	CreatedAt  time.Time `json:"createdAt"`
}

type DeployResponse struct {
	Success       bool   `json:"success"`
	PreviewURL    string `json:"previewUrl"`
	ProductionURL string `json:"productionUrl"`
}

type DomainResponse struct {
	ID         string                 `json:"id"`
	Domain     string                 `json:"domain"`
	Verified   bool                   `json:"verified"`
	Status     DomainStatus           `json:"status"`
	DNSRecords map[string]interface{} `json:"dnsRecords,omitempty"`
	VerifiedAt *time.Time             `json:"verifiedAt,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

type DomainsResponse struct {
	Success bool             `json:"success"`
	Domains []DomainResponse `json:"domains"`
}

type AddDomainResponse struct {
	Success           bool                   `json:"success"`
	Domain            DomainResponse         `json:"domain"`
	DNSRecords        map[string]interface{} `json:"dnsRecords"`
	VerificationToken string                 `json:"verificationToken"`
}

type VerifyDomainResponse struct {
	Success  bool   `json:"success"`
	Verified bool   `json:"verified"`
	Error    string `json:"error,omitempty"`
}

type PreviewBundleResponse struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Template    string            `json:"template"`
	Files       map[string]string `json:"files"`
}

func NewProjectResponse(p *Project, latest *Build) ProjectResponse {
	resp := ProjectResponse{
		ID:                   p.ID.String(),
		Name:                 p.Name,
		Description:          p.Description,
		OriginalPrompt:       p.OriginalPrompt,
		ExpandedDescription:  p.ExpandedDescription,
		TodoList:             p.TodoList,
		AppType:              p.AppType,
		Complexity:           p.Complexity,
		TechStack:            p.TechStack,
		Status:               p.Status,
		TokensUsed:           p.TokensUsed,
		Dependencies:         p.Dependencies,
		EnvVariables:         p.EnvVariables,
		PreviewURL:           p.PreviewURL.String,
		ProductionURL:        p.ProductionURL.String,
		CustomDomain:         p.CustomDomain.String,
		CustomDomainVerified: p.CustomDomainVerified,
		LastBuildAt:          timePtr(p.LastBuildAt),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	if latest != nil {
		b := NewBuildResponse(latest)
		resp.LatestBuild = &b
	}
	return resp
}

func NewBuildResponse(b *Build) BuildResponse {
	return BuildResponse{
		ID:               b.ID.String(),
		BuildNumber:      b.BuildNumber,
		Status:           b.Status,
		AIModelUsed:      b.AIModelUsed,
		TokensConsumed:   b.TokensConsumed,
		BuildTimeSeconds: b.BuildTimeSeconds,
		ErrorMessage:     b.ErrorMessage.String,
		StartedAt:        b.StartedAt,
		CompletedAt:      timePtr(b.CompletedAt),
	}
}

func NewDomainResponse(d *CustomDomain) DomainResponse {
	return DomainResponse{
		ID:         d.ID.String(),
		Domain:     d.Domain,
		Verified:   d.Verified,
		Status:     d.Status,
		DNSRecords: d.DNSRecords,
		VerifiedAt: timePtr(d.VerifiedAt),
		CreatedAt:  d.CreatedAt,
	}
}

func NewChatMessageResponse(m *ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:         m.ID.String(),
		Role:       m.Role,
		Content:    m.Content,
		TokensUsed: m.TokensUsed,
		CreatedAt:  m.CreatedAt,
	}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
