package ai

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// KeywordCluster is a named set of phrases that mean the same kind of task
type KeywordCluster struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Matches reports whether any keyword occurs in title, ignoring case
func (c KeywordCluster) Matches(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range c.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DedupEngine drops tasks that fall into a keyword cluster already claimed by an
// earlier task. Cluster order matters: a task is assigned to the first cluster
// it matches. The list is closed; phrasings outside it are never merged.
type DedupEngine struct {
	clusters []KeywordCluster
}

// NewDedupEngine creates an engine over an ordered cluster list
func NewDedupEngine(clusters []KeywordCluster) *DedupEngine {
	return &DedupEngine{clusters: clusters}
}

// Clusters returns the configured clusters
func (e *DedupEngine) Clusters() []KeywordCluster {
	return e.clusters
}

// ClusterOf returns the index of the first matching cluster, or -1
func (e *DedupEngine) ClusterOf(title string) int {
	for i, c := range e.clusters {
		if c.Matches(title) {
			return i
		}
	}
	return -1
}

// Deduplicate keeps the first task per cluster and every task matching no cluster
func (e *DedupEngine) Deduplicate(tasks []entities.ExtractedTask) []entities.ExtractedTask {
	claimed := make(map[int]struct{})
	out := make([]entities.ExtractedTask, 0, len(tasks))
	for _, t := range tasks {
		idx := e.ClusterOf(t.Title)
		if idx < 0 {
			out = append(out, t)
			continue
		}
		if _, taken := claimed[idx]; taken {
			continue
		}
		claimed[idx] = struct{}{}
		out = append(out, t)
	}
	return out
}

type clusterFile struct {
	Clusters []KeywordCluster `yaml:"clusters"`
}

// LoadKeywordClusters reads an ordered cluster list from a YAML file:
//
//	clusters:
//	  - name: working-group
//	    keywords: ["working group", "taskforce"]
func LoadKeywordClusters(path string) ([]KeywordCluster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cluster file: %w", err)
	}
	return ParseKeywordClusters(data)
}

// ParseKeywordClusters decodes the YAML cluster format
func ParseKeywordClusters(data []byte) ([]KeywordCluster, error) {
	var f clusterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse cluster file: %w", err)
	}
	for i, c := range f.Clusters {
		if len(c.Keywords) == 0 {
			return nil, fmt.Errorf("cluster %d (%q) has no keywords", i, c.Name)
		}
	}
	return f.Clusters, nil
}

// DefaultKeywordClusters returns the curated cluster list
func DefaultKeywordClusters() []KeywordCluster {
	return []KeywordCluster{
		{
			Name: "working-group",
			Keywords: []string{
				"form a working group", "working group", "establish", "create a taskforce",
				"taskforce", "task force", "set up a team", "committee", "arbeitsgruppe",
			},
		},
		{
			Name: "follow-up-meeting",
			Keywords: []string{
				"follow-up meeting", "follow up meeting", "schedule a meeting", "schedule a follow-up",
				"set up a meeting", "book a meeting", "arrange a call", "folgetermin",
			},
		},
		{
			Name: "meeting-notes",
			Keywords: []string{
				"send the minutes", "share the minutes", "meeting notes", "share the summary",
				"send the summary", "distribute the notes", "protokoll",
			},
		},
		{
			Name: "documentation",
			Keywords: []string{
				"write documentation", "update the documentation", "update the docs",
				"document the", "dokumentation",
			},
		},
		{
			Name: "budget",
			Keywords: []string{
				"budget", "cost estimate", "estimate the cost", "calculate costs", "kostenschätzung",
			},
		},
		{
			Name: "stakeholder-update",
			Keywords: []string{
				"inform stakeholders", "notify stakeholders", "update stakeholders",
				"communicate to stakeholders", "stakeholder update",
			},
		},
	}
}
