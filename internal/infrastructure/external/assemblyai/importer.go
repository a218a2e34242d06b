package assemblyai

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// Importer turns completed AssemblyAI transcripts into meetings
type Importer struct {
	client *aai.Client
	logger *zap.Logger
}

// NewImporter creates an importer. It returns ErrImporterNotConfigured without an API key.
func NewImporter(cfg *config.AssemblyAIConfig, logger *zap.Logger) (*Importer, error) {
	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, usecaseErrors.ErrImporterNotConfigured
	}

	opts := []aai.ClientOption{aai.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, aai.WithBaseURL(cfg.BaseURL))
	}

	return &Importer{
		client: aai.NewClientWithOptions(opts...),
		logger: logger,
	}, nil
}

// Import fetches a transcript and converts its utterances into segments.
// Speakers are returned in order of first appearance.
func (i *Importer) Import(ctx context.Context, transcriptID string) (*entities.Meeting, []entities.Speaker, error) {
	transcriptID = strings.TrimSpace(transcriptID)
	if transcriptID == "" {
		return nil, nil, errors.ErrInvalidArgument("transcript id is required")
	}

	transcript, err := i.client.Transcripts.Get(ctx, transcriptID)
	if err != nil {
		if i.logger != nil {
			i.logger.Error("❌ Failed to fetch AssemblyAI transcript",
				zap.String("transcript_id", transcriptID),
				zap.Error(err))
		}
		return nil, nil, errors.ErrTranscriptImportFailed(transcriptID, err)
	}

	switch transcript.Status {
	case aai.TranscriptStatusCompleted:
	case aai.TranscriptStatusError:
		reason := "transcription failed"
		if msg := deref(transcript.Error); msg != "" {
			reason = msg
		}
		return nil, nil, errors.ErrTranscriptImportFailed(transcriptID, fmt.Errorf("assemblyai: %s", reason))
	default:
		return nil, nil, errors.ErrTranscriptNotReady(transcriptID, string(transcript.Status))
	}

	meeting, speakers, err := convert(transcriptID, transcript)
	if err != nil {
		appErr := errors.ErrInvalidTranscript("transcript has no utterances or text")
		appErr.Raw = err
		return nil, nil, appErr.WithDetail("transcript_id", transcriptID)
	}

	if i.logger != nil {
		i.logger.Info("✅ AssemblyAI transcript imported",
			zap.String("transcript_id", transcriptID),
			zap.Int("segments", len(meeting.Transcript.Segments)),
			zap.Int("speakers", len(speakers)))
	}
	return meeting, speakers, nil
}

func convert(transcriptID string, t aai.Transcript) (*entities.Meeting, []entities.Speaker, error) {
	segments := make([]entities.Segment, 0, len(t.Utterances))
	seen := make(map[string]bool)
	var speakers []entities.Speaker

	for _, u := range t.Utterances {
		text := strings.TrimSpace(deref(u.Text))
		if text == "" {
			continue
		}
		label := deref(u.Speaker)
		segments = append(segments, entities.Segment{
			Start:     msToSeconds(deref(u.Start)),
			End:       msToSeconds(deref(u.End)),
			SpeakerID: label,
			Text:      text,
		})
		if label != "" && !seen[label] {
			seen[label] = true
			speakers = append(speakers, entities.Speaker{ID: label, Name: "Speaker " + label})
		}
	}

	// no diarization: keep the plain text as one segment
	if len(segments) == 0 {
		text := strings.TrimSpace(deref(t.Text))
		if text == "" {
			return nil, nil, usecaseErrors.ErrNoUtterances
		}
		segments = append(segments, entities.Segment{
			End:  float64(deref(t.AudioDuration)),
			Text: text,
		})
	}

	sort.SliceStable(segments, func(a, b int) bool { return segments[a].Start < segments[b].Start })

	meeting := &entities.Meeting{
		ID:         transcriptID,
		Title:      "AssemblyAI transcript " + transcriptID,
		StartedAt:  time.Now().UTC(),
		Transcript: entities.NewTranscript(segments),
	}
	return meeting, speakers, nil
}

func msToSeconds[N int64 | float64](ms N) float64 {
	return float64(ms) / 1000.0
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
