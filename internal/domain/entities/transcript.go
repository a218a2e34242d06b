package entities

import (
	"fmt"
	"strings"
	"time"
)

// Segment represents a contiguous speech segment
type Segment struct {
	Start     float64 `json:"start"` // seconds
	End       float64 `json:"end"`   // seconds
	SpeakerID string  `json:"speaker_id,omitempty"`
	Text      string  `json:"text"`
}

// Transcript is the ordered list of segments of one meeting plus derived fields.
// Treat it as read-only once built.
type Transcript struct {
	Segments []Segment `json:"segments"`
	FullText string    `json:"full_text"`
	Duration float64   `json:"duration"` // seconds
}

// NewTranscript builds a transcript and derives FullText and Duration
func NewTranscript(segments []Segment) *Transcript {
	texts := make([]string, 0, len(segments))
	var duration float64
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			texts = append(texts, t)
		}
		if s.End > duration {
			duration = s.End
		}
	}

	return &Transcript{
		Segments: segments,
		FullText: strings.Join(texts, " "),
		Duration: duration,
	}
}

// HasSpeakers reports whether any segment carries a speaker id
func (t *Transcript) HasSpeakers() bool {
	if t == nil {
		return false
	}
	for _, s := range t.Segments {
		if s.SpeakerID != "" {
			return true
		}
	}
	return false
}

// DurationString formats the duration as "1h05m" or "42m"
func (t *Transcript) DurationString() string {
	if t == nil || t.Duration <= 0 {
		return "unknown"
	}
	d := time.Duration(t.Duration * float64(time.Second)).Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// Speaker is a named participant referenced by Segment.SpeakerID
type Speaker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Meeting owns the transcript handed to the extraction pipeline
type Meeting struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	StartedAt  time.Time   `json:"started_at"`
	Transcript *Transcript `json:"transcript"`
}
