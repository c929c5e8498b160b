package models

type FileType string

const (
	FileTypeComponent FileType = "component"
	FileTypePage      FileType = "page"
	FileTypeAPI       FileType = "api"
	FileTypeConfig    FileType = "config"
	FileTypeStyle     FileType = "style"
	FileTypeType      FileType = "type"
)

type GeneratedFile struct {
	Path    string   `json:"path"`
	Content string   `json:"content"`
	Type    FileType `json:"type"`
}

// CodeGenerationResult is a complete file set for one project. It always
// replaces the previous set; partial patches are not supported.
type CodeGenerationResult struct {
	Files        []GeneratedFile   `json:"files"`
	Structure    string            `json:"structure"`
	Dependencies map[string]string `json:"dependencies"`
	EnvVariables []string          `json:"envVariables"`
}

// Normalize collapses duplicate paths (last occurrence wins, original order
// kept) and replaces nil collections with empty ones.
func (r *CodeGenerationResult) Normalize() {
	index := make(map[string]int, len(r.Files))
	files := make([]GeneratedFile, 0, len(r.Files))
	for _, f := range r.Files {
		if i, ok := index[f.Path]; ok {
			files[i] = f
			continue
		}
		index[f.Path] = len(files)
		files = append(files, f)
	}
	r.Files = files
	if r.Dependencies == nil {
		r.Dependencies = map[string]string{}
	}
	if r.EnvVariables == nil {
		r.EnvVariables = []string{}
	}
}
