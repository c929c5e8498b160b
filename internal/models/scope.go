package models

type AppType string

const (
	AppTypeLandingPage  AppType = "landing_page"
	AppTypeSaaS         AppType = "saas"
	AppTypeInternalTool AppType = "internal_tool"
	AppTypeEcommerce    AppType = "ecommerce"
	AppTypeCMS          AppType = "cms"
	AppTypeSocial       AppType = "social"
	AppTypeProductivity AppType = "productivity"
)

type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// ProjectScope is the structured expansion of a user's free-text idea.
type ProjectScope struct {
	ExpandedDescription string         `json:"expandedDescription"`
	AppType             AppType        `json:"appType"`
	Complexity          Complexity     `json:"complexity"`
	EstimatedTokens     int            `json:"estimatedTokens"`
	TechStack           []string       `json:"techStack"`
	TodoCategories      []TodoCategory `json:"todoCategories"`
}

type TodoCategory struct {
	Name  string     `json:"name"`
	Items []TodoItem `json:"items"`
}

type TodoItem struct {
	Title   string `json:"title"`
	Checked bool   `json:"checked"`
	Note    string `json:"note,omitempty"`
}

// Normalize replaces nil collections so the scope always serializes as arrays.
func (s *ProjectScope) Normalize() {
	if s.TechStack == nil {
		s.TechStack = []string{}
	}
	if s.TodoCategories == nil {
		s.TodoCategories = []TodoCategory{}
	}
	for i := range s.TodoCategories {
		if s.TodoCategories[i].Items == nil {
			s.TodoCategories[i].Items = []TodoItem{}
		}
	}
}
