package entities

// TaskPriority
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

type TaskPriority string

// TaskType
const (
	TaskTypeExplicit TaskType = "explicit"
	TaskTypeImplicit TaskType = "implicit"
)

type TaskType string

// ExtractedTask is a task candidate. It has no id: persisting it is up to the caller.
type ExtractedTask struct {
	Title      string       `json:"title"`
	Assignee   string       `json:"assignee,omitempty"`
	Priority   TaskPriority `json:"priority"`
	SourceText string       `json:"source_text"`
	Confidence float64      `json:"confidence"`
	Type       TaskType     `json:"type"`
}

// ProjectContext lists repository files relevant to a meeting. It only feeds prompts.
type ProjectContext struct {
	ProjectName string          `json:"project_name"`
	Files       []FileReference `json:"files"`
}

// FileReference is one file the project matcher considered relevant
type FileReference struct {
	Path   string `json:"path"`
	Reason string `json:"reason,omitempty"`
}

// IsEmpty reports whether the context carries nothing worth prompting with
func (p *ProjectContext) IsEmpty() bool {
	return p == nil || (p.ProjectName == "" && len(p.Files) == 0)
}
