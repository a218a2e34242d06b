package assemblyai

import (
	"context"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/errors"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

func newTestImporter(t *testing.T, body string, status int) *Importer {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		if !strings.HasSuffix(r.URL.Path, "/transcript/tr-1") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	importer, err := NewImporter(&config.AssemblyAIConfig{APIKey: "test-key", BaseURL: server.URL}, nil)
	require.NoError(t, err)
	return importer
}

func TestNewImporter_RequiresKey(t *testing.T) {
	_, err := NewImporter(&config.AssemblyAIConfig{}, nil)
	assert.ErrorIs(t, err, usecaseErrors.ErrImporterNotConfigured)

	_, err = NewImporter(nil, nil)
	assert.ErrorIs(t, err, usecaseErrors.ErrImporterNotConfigured)
}

func TestImport_Completed(t *testing.T) {
	body := `{
		"id": "tr-1",
		"status": "completed",
		"text": "Let's ship Friday. Agreed. I'll write the notes.",
		"audio_duration": 12,
		"utterances": [
			{"speaker": "A", "start": 0, "end": 2500, "text": "Let's ship Friday."},
			{"speaker": "B", "start": 2600, "end": 3100, "text": "Agreed."},
			{"speaker": "A", "start": 4000, "end": 6250, "text": "I'll write the notes."}
		]
	}`
	importer := newTestImporter(t, body, http.StatusOK)

	meeting, speakers, err := importer.Import(context.Background(), "tr-1")
	require.NoError(t, err)

	assert.Equal(t, "tr-1", meeting.ID)
	require.Len(t, meeting.Transcript.Segments, 3)
	first := meeting.Transcript.Segments[0]
	assert.Equal(t, "A", first.SpeakerID)
	assert.InDelta(t, 2.5, first.End, 1e-9)
	assert.InDelta(t, 4.0, meeting.Transcript.Segments[2].Start, 1e-9)
	assert.InDelta(t, 6.25, meeting.Transcript.Duration, 1e-9)
	assert.Equal(t, "Let's ship Friday. Agreed. I'll write the notes.", meeting.Transcript.FullText)

	require.Len(t, speakers, 2)
	assert.Equal(t, "A", speakers[0].ID)
	assert.Equal(t, "Speaker A", speakers[0].Name)
	assert.Equal(t, "Speaker B", speakers[1].Name)
}

func TestImport_TextOnly(t *testing.T) {
	body := `{"id": "tr-1", "status": "completed", "text": "Just one voice.", "audio_duration": 30}`
	importer := newTestImporter(t, body, http.StatusOK)

	meeting, speakers, err := importer.Import(context.Background(), "tr-1")
	require.NoError(t, err)

	assert.Empty(t, speakers)
	require.Len(t, meeting.Transcript.Segments, 1)
	assert.Equal(t, "Just one voice.", meeting.Transcript.FullText)
	assert.InDelta(t, 30.0, meeting.Transcript.Duration, 1e-9)
}

func TestImport_Statuses(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode errors.ErrorCode
		wantIs   error
	}{
		{
			name:     "still processing",
			body:     `{"id": "tr-1", "status": "processing"}`,
			wantCode: errors.ErrorCode_TRANSCRIPT_NOT_READY,
		},
		{
			name:     "queued",
			body:     `{"id": "tr-1", "status": "queued"}`,
			wantCode: errors.ErrorCode_TRANSCRIPT_NOT_READY,
		},
		{
			name:     "failed upstream",
			body:     `{"id": "tr-1", "status": "error", "error": "audio too short"}`,
			wantCode: errors.ErrorCode_TRANSCRIPT_IMPORT_FAILED,
		},
		{
			name:     "completed but empty",
			body:     `{"id": "tr-1", "status": "completed", "text": "  "}`,
			wantCode: errors.ErrorCode_TRANSCRIPT_INVALID,
			wantIs:   usecaseErrors.ErrNoUtterances,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			importer := newTestImporter(t, tt.body, http.StatusOK)

			_, _, err := importer.Import(context.Background(), "tr-1")

			var appErr errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
			if tt.wantIs != nil {
				assert.True(t, stdErrors.Is(err, tt.wantIs))
			}
		})
	}
}

func TestImport_UpstreamError(t *testing.T) {
	importer := newTestImporter(t, `{"error": "transcript not found"}`, http.StatusNotFound)

	_, _, err := importer.Import(context.Background(), "tr-1")

	var appErr errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorCode_TRANSCRIPT_IMPORT_FAILED, appErr.Code)
}

func TestImport_EmptyID(t *testing.T) {
	importer, err := NewImporter(&config.AssemblyAIConfig{APIKey: "k"}, nil)
	require.NoError(t, err)

	_, _, err = importer.Import(context.Background(), " ")

	var appErr errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorCode_INVALID_ARGUMENT, appErr.Code)
}
