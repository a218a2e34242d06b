package ai

import (
	"strings"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// Default prefix lengths used for duplicate detection. They are kept separate
// on purpose: each list was tuned on its own.
const (
	DefaultDecisionPrefixLen   = 20
	DefaultQuestionPrefixLen   = 30
	DefaultActionItemPrefixLen = 25
	DefaultTaskPrefixLen       = 25
)

// PartialResult is what one extraction call yields for one chunk
type PartialResult struct {
	Overview    string
	KeyPoints   []string
	Decisions   []entities.Decision
	Questions   []entities.Question
	ActionItems []entities.ActionItem
	// Raw is the unparsed model response, kept for action-item line parsing
	Raw string
}

func newPartialResult() PartialResult {
	return PartialResult{
		KeyPoints:   []string{},
		Decisions:   []entities.Decision{},
		Questions:   []entities.Question{},
		ActionItems: []entities.ActionItem{},
	}
}

// MergeConfig holds the prefix lengths used by MergePartials
type MergeConfig struct {
	DecisionPrefixLen   int
	QuestionPrefixLen   int
	ActionItemPrefixLen int
}

// DefaultMergeConfig returns the default prefix lengths
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		DecisionPrefixLen:   DefaultDecisionPrefixLen,
		QuestionPrefixLen:   DefaultQuestionPrefixLen,
		ActionItemPrefixLen: DefaultActionItemPrefixLen,
	}
}

// MergePartials folds per-chunk results into one, in chunk order.
// A single partial is returned untouched.
func MergePartials(partials []PartialResult, cfg MergeConfig) PartialResult {
	switch len(partials) {
	case 0:
		return newPartialResult()
	case 1:
		return partials[0]
	}

	merged := newPartialResult()
	var overviews, raws []string
	seenKeyPoints := make(map[string]struct{})
	decisions := newPrefixSet(cfg.DecisionPrefixLen)
	questions := newPrefixSet(cfg.QuestionPrefixLen)
	actionItems := newPrefixSet(cfg.ActionItemPrefixLen)

	for _, p := range partials {
		if o := strings.TrimSpace(p.Overview); o != "" {
			overviews = append(overviews, o)
		}
		if p.Raw != "" {
			raws = append(raws, p.Raw)
		}
		for _, kp := range p.KeyPoints {
			if _, dup := seenKeyPoints[kp]; dup {
				continue
			}
			seenKeyPoints[kp] = struct{}{}
			merged.KeyPoints = append(merged.KeyPoints, kp)
		}
		for _, d := range p.Decisions {
			if decisions.add(d.Text) {
				merged.Decisions = append(merged.Decisions, d)
			}
		}
		for _, q := range p.Questions {
			if questions.add(q.Text) {
				merged.Questions = append(merged.Questions, q)
			}
		}
		for _, a := range p.ActionItems {
			if actionItems.add(a.Text) {
				merged.ActionItems = append(merged.ActionItems, a)
			}
		}
	}

	merged.Overview = strings.Join(overviews, " ")
	merged.Raw = strings.Join(raws, "\n\n")
	return merged
}

// MergeDecisions appends extra to base, dropping prefix duplicates
func MergeDecisions(base, extra []entities.Decision, prefixLen int) []entities.Decision {
	set := newPrefixSet(prefixLen)
	out := make([]entities.Decision, 0, len(base)+len(extra))
	for _, d := range append(append([]entities.Decision{}, base...), extra...) {
		if set.add(d.Text) {
			out = append(out, d)
		}
	}
	return out
}

// MergeQuestions appends extra to base, dropping prefix duplicates
func MergeQuestions(base, extra []entities.Question, prefixLen int) []entities.Question {
	set := newPrefixSet(prefixLen)
	out := make([]entities.Question, 0, len(base)+len(extra))
	for _, q := range append(append([]entities.Question{}, base...), extra...) {
		if set.add(q.Text) {
			out = append(out, q)
		}
	}
	return out
}

// PrefixKey lowercases and trims text, then truncates it to n runes
func PrefixKey(text string, n int) string {
	key := strings.ToLower(strings.TrimSpace(text))
	if n <= 0 {
		return key
	}
	runes := []rune(key)
	if len(runes) > n {
		return string(runes[:n])
	}
	return key
}

// prefixSet remembers which prefix keys were already taken
type prefixSet struct {
	n    int
	seen map[string]struct{}
}

func newPrefixSet(n int) *prefixSet {
	return &prefixSet{n: n, seen: make(map[string]struct{})}
}

// add reports whether text's key was new
func (s *prefixSet) add(text string) bool {
	key := PrefixKey(text, s.n)
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (p PartialResult) toSummary() entities.MeetingSummary {
	summary := entities.NewMeetingSummary()
	summary.Overview = p.Overview
	if p.KeyPoints != nil {
		summary.KeyPoints = p.KeyPoints
	}
	if p.Decisions != nil {
		summary.Decisions = p.Decisions
	}
	if p.Questions != nil {
		summary.Questions = p.Questions
	}
	if len(p.ActionItems) > 0 {
		summary.ActionItems = p.ActionItems
	}
	return summary
}
