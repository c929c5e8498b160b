package services

import (
	"strings"

	"appforge-backend/internal/models"
)

// Preview templates understood by in-browser sandboxes.
const (
	TemplateNode           = "node"
	TemplateCreateReactApp = "create-react-app"
	TemplateVue            = "vue"
	TemplateAngular        = "angular-cli"
	TemplateTypeScript     = "typescript"
	TemplateHTML           = "html"
	TemplateJavaScript     = "javascript"
)

// NewPreviewBundle packs a file set for an in-browser sandbox preview.
func NewPreviewBundle(project *models.Project, files []models.GeneratedFile) models.PreviewBundleResponse {
	bundle := models.PreviewBundleResponse{
		Title:       project.Name,
		Description: project.Description,
		Template:    DetectTemplate(files),
		Files:       make(map[string]string, len(files)),
	}
	for _, f := range files {
		bundle.Files[f.Path] = f.Content
	}
	return bundle
}

// DetectTemplate picks the sandbox template from the files present. Next.js
// projects run on the plain node template.
func DetectTemplate(files []models.GeneratedFile) string {
	find := func(name string) *models.GeneratedFile {
		for i := range files {
			if strings.Contains(files[i].Path, name) {
				return &files[i]
			}
		}
		return nil
	}

	if find("next.config") != nil {
		return TemplateNode
	}
	if pkg := find("package.json"); pkg != nil {
		switch {
		case strings.Contains(pkg.Content, "react"):
			return TemplateCreateReactApp
		case strings.Contains(pkg.Content, "vue"):
			return TemplateVue
		case strings.Contains(pkg.Content, "angular"):
			return TemplateAngular
		default:
			return TemplateNode
		}
	}
	if find("tsconfig.json") != nil {
		return TemplateTypeScript
	}
	if find("index.html") != nil {
		return TemplateHTML
	}
	return TemplateJavaScript
}
