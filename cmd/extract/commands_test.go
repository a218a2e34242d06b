package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/internal/adapter/dto"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/usecase/ai"
	pkgai "github.com/johnquangdev/meeting-insights/pkg/ai"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

const cannedSummary = `{
  "overview": "The team agreed on the CLI release.",
  "keyPoints": ["Release on Friday"],
  "decisions": [
    {"text": "Release the CLI on Friday", "status": "decided"},
    {"text": "Ship binaries for Linux and macOS", "status": "decided"}
  ],
  "openQuestions": [{"text": "Who writes the changelog?", "type": "question"}],
  "participants": ["Ana", "Bo"]
}`

type cannedProvider struct{}

func (cannedProvider) Name() string { return "canned" }

func (cannedProvider) Generate(ctx context.Context, prompt string) (<-chan pkgai.Fragment, error) {
	ch := make(chan pkgai.Fragment, 1)
	ch <- pkgai.Fragment{Text: cannedSummary}
	close(ch)
	return ch, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AI: config.AIConfig{Provider: "groq", GroqAPIKey: "test"},
		Pipeline: config.PipelineConfig{
			ChunkThreshold:      8000,
			StageTimeout:        time.Minute,
			MinDecisions:        2,
			MinQuestions:        1,
			DecisionPrefixLen:   20,
			QuestionPrefixLen:   30,
			ActionItemPrefixLen: 30,
			TaskPrefixLen:       30,
			ChunkConcurrency:    2,
		},
		Cache: config.CacheConfig{TTL: time.Hour},
	}
}

func newTestDeps(cfg *config.Config) (*deps, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &deps{
		loadConfig: func() (*config.Config, error) { return cfg, nil },
		pipelineOptions: []ai.Option{
			ai.WithProviderFactory(func(entities.Settings) (pkgai.Provider, error) { return cannedProvider{}, nil }),
		},
		stdin:  strings.NewReader(""),
		stdout: &stdout,
		stderr: &stderr,
	}, &stdout, &stderr
}

func execute(d *deps, args ...string) error {
	cmd := newRootCommand(d)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func writeInput(t *testing.T, req dto.ProcessMeetingRequest) string {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "meeting.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func sampleRequest() dto.ProcessMeetingRequest {
	return dto.ProcessMeetingRequest{
		Meeting: dto.MeetingDTO{ID: "m-cli", Title: "CLI release"},
		Segments: []dto.SegmentDTO{
			{Start: 0, End: 4, SpeakerID: "a", Text: "We release the CLI on Friday."},
			{Start: 4, End: 9, SpeakerID: "b", Text: "Binaries for Linux and macOS."},
		},
		Speakers: []dto.SpeakerDTO{{ID: "a", Name: "Ana"}, {ID: "b", Name: "Bo"}},
	}
}

func TestProcessCommand_WritesResultAndProgress(t *testing.T) {
	d, stdout, stderr := newTestDeps(testConfig())
	input := writeInput(t, sampleRequest())

	require.NoError(t, execute(d, "process", "--input", input))

	var resp dto.ProcessMeetingResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "m-cli", resp.MeetingID)
	assert.Equal(t, "The team agreed on the CLI release.", resp.Summary.Overview)
	assert.NotNil(t, resp.Tasks)

	progress := stderr.String()
	assert.Contains(t, progress, "[  0%] summary")
	assert.Contains(t, progress, "[100%] done")
}

func TestProcessCommand_OutFile(t *testing.T) {
	d, stdout, stderr := newTestDeps(testConfig())
	input := writeInput(t, sampleRequest())
	out := filepath.Join(t.TempDir(), "result.json")

	require.NoError(t, execute(d, "process", "-i", input, "--out", out, "--provider", "anthropic"))

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Result written to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var resp dto.ProcessMeetingResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "anthropic", resp.Provider)
}

func TestProcessCommand_Stdin(t *testing.T) {
	d, stdout, _ := newTestDeps(testConfig())
	data, err := json.Marshal(sampleRequest())
	require.NoError(t, err)
	d.stdin = bytes.NewReader(data)

	require.NoError(t, execute(d, "process", "--input", "-"))
	assert.Contains(t, stdout.String(), `"meeting_id": "m-cli"`)
}

func TestProcessCommand_InvalidInput(t *testing.T) {
	d, _, _ := newTestDeps(testConfig())
	req := sampleRequest()
	req.Meeting.ID = ""
	input := writeInput(t, req)

	err := execute(d, "process", "--input", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")
	assert.Contains(t, err.Error(), "required")
}

func TestProcessCommand_MissingInputFlag(t *testing.T) {
	d, _, _ := newTestDeps(testConfig())
	assert.Error(t, execute(d, "process"))
}

func TestProcessCommand_FlagsOverrideConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Pipeline.ChunkConcurrency = 0
	d, _, _ := newTestDeps(cfg)
	input := writeInput(t, sampleRequest())

	assert.NoError(t, execute(d, "process", "--input", input, "--concurrency", "3"))
	assert.Equal(t, 3, cfg.Pipeline.ChunkConcurrency)
}

func TestImportCommand_NotConfigured(t *testing.T) {
	d, _, _ := newTestDeps(testConfig())

	err := execute(d, "import", "tr-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AssemblyAI import is unavailable")
}

func TestClustersCommand(t *testing.T) {
	t.Run("json defaults", func(t *testing.T) {
		d, stdout, _ := newTestDeps(testConfig())
		require.NoError(t, execute(d, "clusters", "-o", "json"))

		var doc struct {
			Clusters []ai.KeywordCluster `json:"clusters"`
		}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
		assert.Equal(t, ai.DefaultKeywordClusters(), doc.Clusters)
	})

	t.Run("yaml from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "clusters.yaml")
		require.NoError(t, os.WriteFile(path, []byte("clusters:\n  - name: billing\n    keywords: [invoice]\n"), 0o600))

		d, stdout, _ := newTestDeps(testConfig())
		require.NoError(t, execute(d, "clusters", "--clusters", path))

		clusters, err := ai.ParseKeywordClusters(stdout.Bytes())
		require.NoError(t, err)
		require.Len(t, clusters, 1)
		assert.Equal(t, "billing", clusters[0].Name)
		assert.Equal(t, []string{"invoice"}, clusters[0].Keywords)
	})

	t.Run("unknown format", func(t *testing.T) {
		d, _, _ := newTestDeps(testConfig())
		assert.Error(t, execute(d, "clusters", "-o", "toml"))
	})
}

func TestChunkCommand(t *testing.T) {
	d, stdout, _ := newTestDeps(testConfig())
	req := sampleRequest()
	req.Segments = nil
	req.Speakers = nil
	req.Meeting.Text = "First sentence here. Second sentence here. Third sentence here."
	input := writeInput(t, req)

	require.NoError(t, execute(d, "chunk", "--input", input, "--threshold", "25"))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "threshold 25")

	chunks := ai.Chunks(req.Meeting.Text, 25)
	assert.Len(t, lines, len(chunks)+1)
	assert.Contains(t, lines[1], "offset=0")
}

func TestMigrateCommand_RejectsUnknownDirection(t *testing.T) {
	d, _, _ := newTestDeps(testConfig())
	assert.Error(t, execute(d, "migrate", "sideways"))
}
