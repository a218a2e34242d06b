package entities

import (
	"time"

	"github.com/google/uuid"
)

// DecisionStatus
const (
	DecisionStatusDecided DecisionStatus = "decided"
	DecisionStatusPending DecisionStatus = "pending"
)

type DecisionStatus string

// QuestionType
const (
	QuestionTypeExplicit QuestionType = "explicit" // asked directly in the meeting
	QuestionTypeImplicit QuestionType = "implicit" // inferred from missing information
)

type QuestionType string

// Decision represents a decision made (or still open) during the meeting.
// SuggestedAction is only meaningful for pending decisions, and may be empty.
type Decision struct {
	ID              uuid.UUID      `json:"id"`
	Text            string         `json:"text"`
	Context         string         `json:"context,omitempty"`
	Participants    []string       `json:"participants"`
	Status          DecisionStatus `json:"status"`
	SuggestedAction string         `json:"suggested_action,omitempty"`
	Assignee        string         `json:"assignee,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// NewDecision creates a decision with a fresh id
func NewDecision(text string, status DecisionStatus) Decision {
	return Decision{
		ID:           uuid.New(),
		Text:         text,
		Participants: []string{},
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}
}

// Question represents an open question raised or implied in the meeting
type Question struct {
	ID        uuid.UUID    `json:"id"`
	Text      string       `json:"text"`
	AskedBy   string       `json:"asked_by,omitempty"`
	Answered  bool         `json:"answered"`
	Type      QuestionType `json:"type"`
	Context   string       `json:"context,omitempty"`
	Assignee  string       `json:"assignee,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewQuestion creates an unanswered question with a fresh id
func NewQuestion(text string, questionType QuestionType) Question {
	return Question{
		ID:        uuid.New(),
		Text:      text,
		Type:      questionType,
		CreatedAt: time.Now().UTC(),
	}
}

// ActionItem is a free-form follow-up noted in the summary
type ActionItem struct {
	Text     string `json:"text"`
	Assignee string `json:"assignee,omitempty"`
}

// MeetingSummary is the structured record produced for one meeting
type MeetingSummary struct {
	Overview    string       `json:"overview"`
	KeyPoints   []string     `json:"key_points"`
	Decisions   []Decision   `json:"decisions"`
	Questions   []Question   `json:"questions"`
	ActionItems []ActionItem `json:"action_items,omitempty"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// NewMeetingSummary returns a summary with empty, non-nil lists
func NewMeetingSummary() MeetingSummary {
	return MeetingSummary{
		KeyPoints:   []string{},
		Decisions:   []Decision{},
		Questions:   []Question{},
		GeneratedAt: time.Now().UTC(),
	}
}
