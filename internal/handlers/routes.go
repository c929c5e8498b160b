package handlers

import "github.com/gin-gonic/gin"

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Scope    *ScopeHandler
	Projects *ProjectsHandler
	Builds   *BuildsHandler
	Deploy   *DeployHandler
	Domains  *DomainsHandler
}

// RegisterRoutes mounts the authenticated API on api. Auth middleware must
// already be installed on the group.
func RegisterRoutes(api *gin.RouterGroup, h Handlers) {
	projects := api.Group("/projects")

	// Scope
	projects.POST("/generate-scope", h.Scope.GenerateScope)
	projects.POST("/refine-scope", h.Scope.RefineScope)

	// Builds and chat
	projects.POST("/generate-code", h.Builds.GenerateCode)
	projects.POST("/chat", h.Builds.Chat)
	projects.GET("/chat", h.Projects.GetChatHistory)

	// Deployment and domains
	projects.POST("/deploy", h.Deploy.Deploy)
	projects.GET("/domains", h.Domains.ListDomains)
	projects.POST("/domains", h.Domains.AddDomain)
	projects.PATCH("/domains", h.Domains.VerifyDomain)
	projects.DELETE("/domains", h.Domains.RemoveDomain)

	// Project records
	projects.POST("", h.Projects.CreateProject)
	projects.GET("", h.Projects.ListProjects)
	projects.GET("/:project_id", h.Projects.GetProject)
	projects.DELETE("/:project_id", h.Projects.DeleteProject)
	projects.GET("/:project_id/files", h.Projects.GetFiles)
	projects.GET("/:project_id/builds", h.Projects.ListBuilds)
	projects.GET("/:project_id/builds/:build_number/files", h.Projects.GetBuildFiles)
	projects.GET("/:project_id/preview", h.Projects.GetPreviewBundle)
}
