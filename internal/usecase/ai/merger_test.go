package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

func decision(text string) entities.Decision {
	return entities.NewDecision(text, entities.DecisionStatusDecided)
}

func question(text string) entities.Question {
	return entities.NewQuestion(text, entities.QuestionTypeExplicit)
}

func decisionTexts(ds []entities.Decision) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Text)
	}
	return out
}

func TestMergePartials_Empty(t *testing.T) {
	got := MergePartials(nil, DefaultMergeConfig())

	assert.Empty(t, got.Overview)
	assert.NotNil(t, got.KeyPoints)
	assert.NotNil(t, got.Decisions)
	assert.NotNil(t, got.Questions)
}

func TestMergePartials_SingleIsIdentity(t *testing.T) {
	p := PartialResult{
		Overview:  "  spaced overview  ",
		KeyPoints: []string{"a", "a"},
		Decisions: []entities.Decision{decision("Migrate the database to Postgres"), decision("Migrate the database to a hosted service")},
		Raw:       "raw",
	}

	got := MergePartials([]PartialResult{p}, DefaultMergeConfig())

	assert.Equal(t, p, got)
}

func TestMergePartials_Order(t *testing.T) {
	p1 := newPartialResult()
	p1.Overview = "First part."
	p1.KeyPoints = []string{"k1", "shared"}
	p1.Decisions = []entities.Decision{decision("Adopt the new CI pipeline")}

	p2 := newPartialResult()
	p2.KeyPoints = []string{"shared", "k2"}
	p2.Decisions = []entities.Decision{decision("Hire two backend engineers")}

	p3 := newPartialResult()
	p3.Overview = "Third part."
	p3.KeyPoints = []string{"k3"}
	p3.Decisions = []entities.Decision{decision("Freeze the release branch")}

	got := MergePartials([]PartialResult{p1, p2, p3}, DefaultMergeConfig())

	assert.Equal(t, "First part. Third part.", got.Overview)
	assert.Equal(t, []string{"k1", "shared", "k2", "k3"}, got.KeyPoints)
	assert.Equal(t, []string{
		"Adopt the new CI pipeline",
		"Hire two backend engineers",
		"Freeze the release branch",
	}, decisionTexts(got.Decisions))
}

func TestMergePartials_PrefixDedup(t *testing.T) {
	p1 := newPartialResult()
	p1.Decisions = []entities.Decision{decision("Migrate the database to Postgres")}
	p1.Questions = []entities.Question{question("Who is going to own the migration plan?")}
	p1.ActionItems = []entities.ActionItem{{Text: "Write the migration runbook today"}}

	p2 := newPartialResult()
	p2.Decisions = []entities.Decision{decision("  MIGRATE THE DATABASE to a hosted service")}
	p2.Questions = []entities.Question{question("Who is going to own the migration budget?")}
	p2.ActionItems = []entities.ActionItem{{Text: "Write the migration runbook tomorrow"}}

	got := MergePartials([]PartialResult{p1, p2}, DefaultMergeConfig())

	assert.Equal(t, []string{"Migrate the database to Postgres"}, decisionTexts(got.Decisions))
	require.Len(t, got.Questions, 1)
	assert.Equal(t, "Who is going to own the migration plan?", got.Questions[0].Text)
	require.Len(t, got.ActionItems, 1)
	assert.Equal(t, "Write the migration runbook today", got.ActionItems[0].Text)
}

func TestMergePartials_IndependentPrefixLengths(t *testing.T) {
	p1 := newPartialResult()
	p1.Decisions = []entities.Decision{decision("Migrate the database to Postgres")}
	p2 := newPartialResult()
	p2.Decisions = []entities.Decision{decision("Migrate the database to a hosted service")}

	cfg := DefaultMergeConfig()
	cfg.DecisionPrefixLen = 40

	got := MergePartials([]PartialResult{p1, p2}, cfg)

	assert.Len(t, got.Decisions, 2)
}

func TestMergePartials_JoinsRaw(t *testing.T) {
	p1 := newPartialResult()
	p1.Raw = "one"
	p2 := newPartialResult()
	p3 := newPartialResult()
	p3.Raw = "three"

	got := MergePartials([]PartialResult{p1, p2, p3}, DefaultMergeConfig())

	assert.Equal(t, "one\n\nthree", got.Raw)
}

func TestMergeDecisions(t *testing.T) {
	base := []entities.Decision{decision("Use Kafka for events")}
	extra := []entities.Decision{decision("use kafka for events and logs"), decision("Drop the legacy API")}

	got := MergeDecisions(base, extra, 20)

	assert.Equal(t, []string{"Use Kafka for events", "Drop the legacy API"}, decisionTexts(got))
}

func TestPrefixKey(t *testing.T) {
	assert.Equal(t, "migrate the database", PrefixKey("  Migrate the Database to Postgres", 20))
	assert.Equal(t, "short", PrefixKey("Short", 20))
	assert.Equal(t, "überprüfen", PrefixKey("Überprüfen Sie das", 10))
	assert.Equal(t, "no limit here", PrefixKey("No limit here", 0))
}
