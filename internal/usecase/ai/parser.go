package ai

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// DefaultTaskConfidence is used when the model omits a task's confidence
const DefaultTaskConfidence = 0.8

var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// Parser turns noisy model output into typed records. Nothing it returns
// carries an untyped value, and it never fails loudly: on unparseable input
// it returns an empty result and ok=false.
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseSummary parses a summary-shaped object response
func (p *Parser) ParseSummary(raw string) (PartialResult, bool) {
	result := newPartialResult()
	result.Raw = raw

	obj, ok := decodeObject(raw)
	if !ok {
		return result, false
	}

	result.Overview = asString(lookup(obj, "overview", "summary"))
	result.KeyPoints = asStringList(lookup(obj, "keyPoints", "key_points"))
	result.Decisions = decisionsFrom(lookup(obj, "decisions"))
	result.Questions = questionsFrom(lookup(obj, "openQuestions", "open_questions", "questions"))
	result.ActionItems = actionItemsFrom(lookup(obj, "actionItems", "action_items"))

	return result, true
}

// ParseDecisions parses a list-shaped decision response
func (p *Parser) ParseDecisions(raw string) ([]entities.Decision, bool) {
	items, ok := decodeArray(raw)
	if !ok {
		return []entities.Decision{}, false
	}
	return decisionsFrom(items), true
}

// ParseQuestions parses a list-shaped question response
func (p *Parser) ParseQuestions(raw string) ([]entities.Question, bool) {
	items, ok := decodeArray(raw)
	if !ok {
		return []entities.Question{}, false
	}
	return questionsFrom(items), true
}

// ParseTasks parses a list-shaped task response
func (p *Parser) ParseTasks(raw string) ([]entities.ExtractedTask, bool) {
	items, ok := decodeArray(raw)
	if !ok {
		return []entities.ExtractedTask{}, false
	}

	tasks := make([]entities.ExtractedTask, 0, len(items))
	for _, item := range items {
		m, isMap := item.(map[string]any)
		if !isMap {
			if title := asString(item); title != "" {
				tasks = append(tasks, entities.ExtractedTask{
					Title:      title,
					Priority:   entities.TaskPriorityMedium,
					SourceText: title,
					Confidence: DefaultTaskConfidence,
					Type:       entities.TaskTypeExplicit,
				})
			}
			continue
		}

		title := asString(lookup(m, "title", "task", "text"))
		if title == "" {
			continue
		}
		confidence := DefaultTaskConfidence
		if v, found := asFloat(lookup(m, "confidence")); found {
			confidence = clamp01(v)
		}
		tasks = append(tasks, entities.ExtractedTask{
			Title:      title,
			Assignee:   asString(lookup(m, "assignee", "owner")),
			Priority:   coercePriority(asString(lookup(m, "priority"))),
			SourceText: asString(lookup(m, "sourceText", "source_text", "evidence")),
			Confidence: confidence,
			Type:       coerceTaskType(asString(lookup(m, "type"))),
		})
	}
	return tasks, true
}

// extractJSONObject returns the span from the first '{' to the last '}'
func extractJSONObject(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}

// extractJSONArray returns the first bracketed span
func extractJSONArray(content string) (string, bool) {
	span := arrayPattern.FindString(content)
	return span, span != ""
}

func decodeObject(raw string) (map[string]any, bool) {
	span, ok := extractJSONObject(raw)
	if !ok {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func decodeArray(raw string) ([]any, bool) {
	span, ok := extractJSONArray(raw)
	if !ok {
		return nil, false
	}
	var items []any
	if err := json.Unmarshal([]byte(span), &items); err != nil {
		return nil, false
	}
	return items, true
}

func decisionsFrom(v any) []entities.Decision {
	items, _ := v.([]any)
	decisions := make([]entities.Decision, 0, len(items))
	for _, item := range items {
		m, isMap := item.(map[string]any)
		if !isMap {
			if text := asString(item); text != "" {
				decisions = append(decisions, entities.NewDecision(text, entities.DecisionStatusDecided))
			}
			continue
		}

		text := asString(lookup(m, "text", "decision"))
		if text == "" {
			continue
		}
		d := entities.NewDecision(text, coerceStatus(asString(lookup(m, "status"))))
		d.Context = asString(lookup(m, "context"))
		d.Participants = uniqueStrings(asParticipants(lookup(m, "participants")))
		d.SuggestedAction = asString(lookup(m, "suggestedAction", "suggested_action"))
		d.Assignee = asString(lookup(m, "assignee", "owner"))
		decisions = append(decisions, d)
	}
	return decisions
}

func questionsFrom(v any) []entities.Question {
	items, _ := v.([]any)
	questions := make([]entities.Question, 0, len(items))
	for _, item := range items {
		m, isMap := item.(map[string]any)
		if !isMap {
			if text := asString(item); text != "" {
				questions = append(questions, entities.NewQuestion(text, entities.QuestionTypeExplicit))
			}
			continue
		}

		text := asString(lookup(m, "text", "question"))
		if text == "" {
			continue
		}
		q := entities.NewQuestion(text, coerceQuestionType(asString(lookup(m, "type"))))
		q.AskedBy = asString(lookup(m, "askedBy", "asked_by"))
		q.Context = asString(lookup(m, "context"))
		q.Assignee = asString(lookup(m, "assignee"))
		questions = append(questions, q)
	}
	return questions
}

func actionItemsFrom(v any) []entities.ActionItem {
	items, _ := v.([]any)
	actionItems := make([]entities.ActionItem, 0, len(items))
	for _, item := range items {
		if m, isMap := item.(map[string]any); isMap {
			if text := asString(lookup(m, "text", "title", "task")); text != "" {
				actionItems = append(actionItems, entities.ActionItem{
					Text:     text,
					Assignee: asString(lookup(m, "assignee", "owner")),
				})
			}
			continue
		}
		if text := asString(item); text != "" {
			actionItems = append(actionItems, entities.ActionItem{Text: text})
		}
	}
	return actionItems
}

func coerceStatus(s string) entities.DecisionStatus {
	switch entities.DecisionStatus(strings.ToLower(strings.TrimSpace(s))) {
	case entities.DecisionStatusPending:
		return entities.DecisionStatusPending
	default:
		return entities.DecisionStatusDecided
	}
}

func coerceQuestionType(s string) entities.QuestionType {
	switch entities.QuestionType(strings.ToLower(strings.TrimSpace(s))) {
	case entities.QuestionTypeImplicit:
		return entities.QuestionTypeImplicit
	default:
		return entities.QuestionTypeExplicit
	}
}

func coercePriority(s string) entities.TaskPriority {
	switch p := entities.TaskPriority(strings.ToLower(strings.TrimSpace(s))); p {
	case entities.TaskPriorityLow, entities.TaskPriorityMedium, entities.TaskPriorityHigh, entities.TaskPriorityUrgent:
		return p
	default:
		return entities.TaskPriorityMedium
	}
}

func coerceTaskType(s string) entities.TaskType {
	switch entities.TaskType(strings.ToLower(strings.TrimSpace(s))) {
	case entities.TaskTypeImplicit:
		return entities.TaskTypeImplicit
	default:
		return entities.TaskTypeExplicit
	}
}

// lookup returns the first present key
func lookup(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		return asString(lookup(t, "text", "name"))
	default:
		return ""
	}
}

func asStringList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// asParticipants also accepts a comma separated string
func asParticipants(v any) []string {
	if s, ok := v.(string); ok {
		out := []string{}
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return asStringList(v)
}

// asFloat reports false for anything that is not a finite number
func asFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(t), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
