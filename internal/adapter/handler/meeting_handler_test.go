package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	httpmw "github.com/johnquangdev/meeting-insights/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-insights/internal/usecase/ai"
	"github.com/johnquangdev/meeting-insights/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-insights/pkg/config"
	"github.com/johnquangdev/meeting-insights/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/meeting-insights/pkg/validator"
)

type stubService struct {
	lastInput  meeting.ProcessInput
	lastImport meeting.ImportInput
	processErr error
	runs       map[uuid.UUID]*entities.ProcessingRun
}

func (s *stubService) Process(_ context.Context, input meeting.ProcessInput) (*ai.Result, *entities.ProcessingRun, error) {
	s.lastInput = input
	if s.processErr != nil {
		return nil, nil, s.processErr
	}
	run := entities.NewProcessingRun(input.Meeting.ID, input.Meeting.Title, "groq", "llama")
	return &ai.Result{
		Summary: entities.MeetingSummary{Overview: "Planning"},
		Tasks:   []entities.ExtractedTask{{Title: "Send the recap", Priority: entities.TaskPriorityMedium}},
	}, run, nil
}

func (s *stubService) ImportAndProcess(ctx context.Context, input meeting.ImportInput) (*ai.Result, *entities.ProcessingRun, error) {
	s.lastImport = input
	if input.TranscriptID == "pending" {
		return nil, nil, errors.ErrTranscriptNotReady(input.TranscriptID, "processing")
	}
	return s.Process(ctx, meeting.ProcessInput{Meeting: &entities.Meeting{ID: input.TranscriptID}})
}

func (s *stubService) GetRun(_ context.Context, runID uuid.UUID) (*entities.ProcessingRun, error) {
	if run, ok := s.runs[runID]; ok {
		return run, nil
	}
	return nil, errors.ErrNotFound("Processing run")
}

func (s *stubService) ListRuns(_ context.Context, meetingID string, _ int) ([]*entities.ProcessingRun, error) {
	var out []*entities.ProcessingRun
	for _, r := range s.runs {
		if r.MeetingID == meetingID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubService) ResolveSettings(requested entities.Settings) entities.Settings {
	return requested
}

type envelope struct {
	Code    interface{}       `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Details map[string]string `json:"details"`
}

func newTestServer(svc meeting.Service, authMW echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	cfg := &config.Config{Server: config.ServerConfig{Environment: "test"}}
	NewRouter(cfg, NewMeetingHandler(svc, nil), authMW, prometheus.NewRegistry()).Setup(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

const processBody = `{
	"meeting": {"id": "m-1", "title": "Planning"},
	"segments": [
		{"start": 0, "end": 4, "speaker_id": "a", "text": "We go with vendor B."},
		{"start": 4, "end": 9, "speaker_id": "b", "text": "I'll send the recap."}
	],
	"speakers": [{"id": "a", "name": "Ana"}, {"id": "b", "name": "Ben"}],
	"settings": {"provider": "anthropic", "model": "claude-x"},
	"project": {"project_name": "web", "files": [{"path": "api/billing.go"}]}
}`

func TestProcessMeeting(t *testing.T) {
	svc := &stubService{}
	e := newTestServer(svc, nil)

	rec, env := do(t, e, http.MethodPost, "/v1/meetings/process", processBody, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		RunID   string                   `json:"run_id"`
		Summary entities.MeetingSummary  `json:"summary"`
		Tasks   []entities.ExtractedTask `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.RunID)
	assert.Equal(t, "Planning", data.Summary.Overview)
	assert.Equal(t, "Send the recap", data.Tasks[0].Title)

	in := svc.lastInput
	assert.Equal(t, "m-1", in.Meeting.ID)
	require.Len(t, in.Meeting.Transcript.Segments, 2)
	assert.Equal(t, "We go with vendor B. I'll send the recap.", in.Meeting.Transcript.FullText)
	assert.Equal(t, "Ana", in.Speakers[0].Name)
	assert.Equal(t, "anthropic", in.Settings.Provider)
	assert.Equal(t, "web", in.Project.ProjectName)
	assert.Equal(t, "api", in.Source)
}

func TestProcessMeeting_PlainText(t *testing.T) {
	svc := &stubService{}
	e := newTestServer(svc, nil)

	rec, _ := do(t, e, http.MethodPost, "/v1/meetings/process", `{"meeting": {"id": "m-2", "text": "Short sync."}}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "Short sync.", svc.lastInput.Meeting.Transcript.FullText)
	assert.Nil(t, svc.lastInput.Project)
}

func TestProcessMeeting_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{
			name:       "malformed json",
			body:       `{"meeting":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing meeting id",
			body:       `{"meeting": {"title": "x"}}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "ProcessMeetingRequest.Meeting.ID",
		},
		{
			name:       "unknown provider",
			body:       `{"meeting": {"id": "m"}, "settings": {"provider": "palm"}}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "ProcessMeetingRequest.Settings.Provider",
		},
		{
			name:       "segment ends before it starts",
			body:       `{"meeting": {"id": "m"}, "segments": [{"start": 5, "end": 1, "text": "x"}]}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "ProcessMeetingRequest.Segments[0].End",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			e := newTestServer(svc, nil)

			rec, env := do(t, e, http.MethodPost, "/v1/meetings/process", tt.body, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "INVALID_ARGUMENT", env.Code)
			if tt.wantField != "" {
				assert.Contains(t, env.Details, tt.wantField)
			}
			assert.Nil(t, svc.lastInput.Meeting)
		})
	}
}

func TestProcessMeeting_ConfigurationError(t *testing.T) {
	svc := &stubService{processErr: errors.ErrAIProviderNotConfigured("openai")}
	e := newTestServer(svc, nil)

	rec, env := do(t, e, http.MethodPost, "/v1/meetings/process", processBody, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "AI_PROVIDER_NOT_CONFIGURED", env.Code)
	assert.Equal(t, "openai", env.Details["provider"])
}

func TestImportAssemblyAI(t *testing.T) {
	svc := &stubService{}
	e := newTestServer(svc, nil)

	rec, _ := do(t, e, http.MethodPost, "/v1/transcripts/assemblyai/tr-9/process", `{"title": "Retro"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tr-9", svc.lastImport.TranscriptID)
	assert.Equal(t, "Retro", svc.lastImport.Title)

	rec, env := do(t, e, http.MethodPost, "/v1/transcripts/assemblyai/pending/process", "", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "TRANSCRIPT_NOT_READY", env.Code)
}

func TestRuns(t *testing.T) {
	run := entities.NewProcessingRun("m-1", "Planning", "groq", "llama")
	svc := &stubService{runs: map[uuid.UUID]*entities.ProcessingRun{run.ID: run}}
	e := newTestServer(svc, nil)

	rec, env := do(t, e, http.MethodGet, "/v1/runs/"+run.ID.String(), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "m-1", got["meeting_id"])
	assert.Equal(t, []interface{}{}, got["tasks"])

	rec, env = do(t, e, http.MethodGet, "/v1/runs/not-a-uuid", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", env.Code)

	rec, _ = do(t, e, http.MethodGet, "/v1/runs/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = do(t, e, http.MethodGet, "/v1/meetings/m-1/runs?limit=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Count)
}

func TestAuth(t *testing.T) {
	manager := jwt.NewManager("secret", "meeting-insights", time.Hour)
	svc := &stubService{}
	e := newTestServer(svc, httpmw.EchoAuth(manager, nil))

	rec, env := do(t, e, http.MethodPost, "/v1/meetings/process", processBody, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", env.Code)

	rec, env = do(t, e, http.MethodPost, "/v1/meetings/process", processBody, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_INVALID_TOKEN", env.Code)

	full, err := manager.GenerateAccessToken("user-1", "ana@example.com", "member")
	require.NoError(t, err)
	rec, _ = do(t, e, http.MethodPost, "/v1/meetings/process", processBody, full)
	assert.Equal(t, http.StatusOK, rec.Code)

	readOnly, err := manager.GenerateAccessToken("user-2", "ben@example.com", "viewer", ScopeRunsRead)
	require.NoError(t, err)
	rec, _ = do(t, e, http.MethodPost, "/v1/meetings/process", processBody, readOnly)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = do(t, e, http.MethodGet, "/v1/meetings/m-1/runs", "", readOnly)
	assert.Equal(t, http.StatusOK, rec.Code)

	expired, err := jwt.NewManager("secret", "meeting-insights", -time.Minute).GenerateAccessToken("user-3", "", "")
	require.NoError(t, err)
	rec, env = do(t, e, http.MethodGet, "/v1/meetings/m-1/runs", "", expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_TOKEN_EXPIRED", env.Code)

	rec, _ = do(t, e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	e := newTestServer(&stubService{}, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"environment":"test"`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
