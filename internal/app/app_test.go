package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/internal/usecase/ai"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		AI: config.AIConfig{Provider: "groq"},
		Pipeline: config.PipelineConfig{
			ChunkThreshold:      8000,
			StageTimeout:        time.Minute,
			MinDecisions:        3,
			MinQuestions:        1,
			DecisionPrefixLen:   15,
			QuestionPrefixLen:   35,
			ActionItemPrefixLen: 20,
			TaskPrefixLen:       30,
			ChunkConcurrency:    4,
		},
		Cache: config.CacheConfig{TTL: time.Hour},
	}
}

func TestPipelineConfig(t *testing.T) {
	pc := PipelineConfig(testConfig())

	assert.Equal(t, 8000, pc.ChunkThreshold)
	assert.Equal(t, time.Minute, pc.StageTimeout)
	assert.Equal(t, 3, pc.MinDecisions)
	assert.Equal(t, 1, pc.MinQuestions)
	assert.Equal(t, ai.MergeConfig{DecisionPrefixLen: 15, QuestionPrefixLen: 35, ActionItemPrefixLen: 20}, pc.Merge)
	assert.Equal(t, 30, pc.TaskPrefixLen)
	assert.Equal(t, 4, pc.ChunkConcurrency)
}

func TestClusters(t *testing.T) {
	cfg := testConfig()

	clusters, err := Clusters(cfg)
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultKeywordClusters(), clusters)

	path := filepath.Join(t.TempDir(), "clusters.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clusters:\n  - name: billing\n    keywords: [invoice, payment]\n"), 0o600))
	cfg.Pipeline.ClustersFile = path

	clusters, err = Clusters(cfg)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, "billing", clusters[0].Name)

	cfg.Pipeline.ClustersFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = Clusters(cfg)
	assert.Error(t, err)
}

func TestNew_WithoutInfrastructure(t *testing.T) {
	a, err := New(context.Background(), testConfig(), nil, Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Pipeline)
	assert.NotNil(t, a.Service)
	assert.Nil(t, a.DB)
	assert.Equal(t, StatusMemory, a.Components["cache"])
	assert.Equal(t, StatusDisabled, a.Components["assemblyai"])

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNew_ImporterEnabledWithKey(t *testing.T) {
	cfg := testConfig()
	cfg.AssemblyAI.APIKey = "key"

	a, err := New(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, StatusEnabled, a.Components["assemblyai"])
}
