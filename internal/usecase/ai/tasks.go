package ai

import (
	"context"
	"regexp"
	"strings"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// Confidence assigned per task source
const (
	PendingDecisionConfidence  = 0.85
	ImplicitQuestionConfidence = 0.75
	ActionItemConfidence       = 0.9

	resolveTitlePrefix = "Resolve: "
)

// TaskExtractor finds tasks across a whole transcript
type TaskExtractor interface {
	ExtractTasks(ctx context.Context, text string, project *entities.ProjectContext) ([]entities.ExtractedTask, error)
}

// TaskSources are the inputs of BuildTaskList, listed in priority order
type TaskSources struct {
	Extracted []entities.ExtractedTask
	Decisions []entities.Decision
	Questions []entities.Question
	// RawSummaries are the unparsed summary responses, scanned for action-item lines
	RawSummaries []string
	ActionItems  []entities.ActionItem
}

// BuildTaskList combines every source in priority order and drops prefix duplicates.
// Earlier sources win.
func BuildTaskList(src TaskSources, prefixLen int) []entities.ExtractedTask {
	candidates := make([]entities.ExtractedTask, 0, len(src.Extracted))
	candidates = append(candidates, src.Extracted...)
	candidates = append(candidates, TasksFromDecisions(src.Decisions)...)
	candidates = append(candidates, TasksFromQuestions(src.Questions)...)
	for _, raw := range src.RawSummaries {
		candidates = append(candidates, tasksFromActionItems(ParseActionItemLines(raw))...)
	}
	candidates = append(candidates, tasksFromActionItems(src.ActionItems)...)

	set := newPrefixSet(prefixLen)
	out := make([]entities.ExtractedTask, 0, len(candidates))
	for _, t := range candidates {
		if strings.TrimSpace(t.Title) == "" {
			continue
		}
		if set.add(t.Title) {
			out = append(out, t)
		}
	}
	return out
}

// TasksFromDecisions turns pending decisions with a suggested action into tasks
func TasksFromDecisions(decisions []entities.Decision) []entities.ExtractedTask {
	var tasks []entities.ExtractedTask
	for _, d := range decisions {
		if d.Status != entities.DecisionStatusPending || strings.TrimSpace(d.SuggestedAction) == "" {
			continue
		}
		tasks = append(tasks, entities.ExtractedTask{
			Title:      strings.TrimSpace(d.SuggestedAction),
			Assignee:   d.Assignee,
			Priority:   entities.TaskPriorityMedium,
			SourceText: d.Text,
			Confidence: PendingDecisionConfidence,
			Type:       entities.TaskTypeImplicit,
		})
	}
	return tasks
}

// TasksFromQuestions turns unanswered implicit questions that have an owner into tasks
func TasksFromQuestions(questions []entities.Question) []entities.ExtractedTask {
	var tasks []entities.ExtractedTask
	for _, q := range questions {
		if q.Type != entities.QuestionTypeImplicit || q.Answered || strings.TrimSpace(q.Assignee) == "" {
			continue
		}
		tasks = append(tasks, entities.ExtractedTask{
			Title:      resolveTitlePrefix + q.Text,
			Assignee:   q.Assignee,
			Priority:   entities.TaskPriorityMedium,
			SourceText: q.Text,
			Confidence: ImplicitQuestionConfidence,
			Type:       entities.TaskTypeImplicit,
		})
	}
	return tasks
}

func tasksFromActionItems(items []entities.ActionItem) []entities.ExtractedTask {
	var tasks []entities.ExtractedTask
	for _, item := range items {
		tasks = append(tasks, entities.ExtractedTask{
			Title:      item.Text,
			Assignee:   item.Assignee,
			Priority:   entities.TaskPriorityMedium,
			SourceText: item.Text,
			Confidence: ActionItemConfidence,
			Type:       entities.TaskTypeExplicit,
		})
	}
	return tasks
}

var (
	// "## Action Items", "**Next steps:**", "To-Dos:", "Aufgaben"
	actionHeadingPattern = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?(?:\*\*|__)?\s*(?:action[\s-]*items?|next\s+steps|tasks|to[\s-]?dos?|follow[\s-]*ups?|aufgaben|maßnahmen|nächste\s+schritte)\s*:?\s*(?:\*\*|__)?\s*:?\s*$`)
	// any other heading ends the section
	headingPattern = regexp.MustCompile(`^\s*(?:#{1,6}\s+\S|(?:\*\*|__)[^*_]+(?:\*\*|__)\s*:?\s*$|[^\s\-*•\d\[][^:]{0,60}:\s*$)`)
	// "- [ ] text", "* text", "• text", "1. text", "[x] text"
	itemPattern = regexp.MustCompile(`^\s*(?:[-*•+]\s+|\d+[.)]\s+)?(?:\[[ xX]?\]\s*)?(.*\S)\s*$`)
	listMarker  = regexp.MustCompile(`^\s*(?:[-*•+]\s+|\d+[.)]\s+|\[[ xX]?\]\s)`)

	assigneePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s*\(\s*(?:@|assignee:\s*|assigned\s+to:?\s*|owner:\s*|verantwortlich:\s*)([^)]+?)\s*\)\s*$`),
		regexp.MustCompile(`(?i)\s*\[\s*(?:@|assignee:\s*|owner:\s*)?([^\]]+?)\s*\]\s*$`),
		regexp.MustCompile(`\s*(?:[-–—]\s*)?@([\p{L}][\p{L}.\-]*(?:\s[\p{Lu}][\p{L}.\-]*)?)\s*$`),
		regexp.MustCompile(`\s*(?:→|->)\s*([^→>]+?)\s*$`),
	}
)

// ParseActionItemLines scans free text for list items under an action-item
// heading. A trailing assignee annotation is split off the item text.
func ParseActionItemLines(text string) []entities.ActionItem {
	var items []entities.ActionItem
	inSection := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if actionHeadingPattern.MatchString(trimmed) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if !listMarker.MatchString(line) {
			if headingPattern.MatchString(trimmed) || strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "{") {
				inSection = false
			}
			continue
		}

		m := itemPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		itemText, assignee := splitAssignee(m[1])
		itemText = strings.Trim(itemText, " *_")
		if itemText == "" {
			continue
		}
		items = append(items, entities.ActionItem{Text: itemText, Assignee: assignee})
	}
	return items
}

func splitAssignee(text string) (string, string) {
	for _, p := range assigneePatterns {
		loc := p.FindStringSubmatchIndex(text)
		if loc == nil || loc[0] == 0 {
			continue
		}
		assignee := strings.TrimSpace(text[loc[2]:loc[3]])
		return strings.TrimSpace(text[:loc[0]]), assignee
	}
	return strings.TrimSpace(text), ""
}
