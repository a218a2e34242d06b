package ai

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// Prompt headers. The first line of every prompt names its task.
const (
	summaryPromptHeader  = "TASK: MEETING SUMMARY"
	decisionPromptHeader = "TASK: DECISION EXTRACTION"
	questionPromptHeader = "TASK: OPEN QUESTION EXTRACTION"
	taskPromptHeader     = "TASK: ACTION ITEM EXTRACTION"
)

const summaryPrompt = summaryPromptHeader + `
You are an assistant that writes structured minutes for business meetings.

%s
Read the transcript below and return ONLY a JSON object with this shape:
{
  "overview": "3-5 sentences describing what the meeting was about and its outcome",
  "keyPoints": ["short statement", "..."],
  "decisions": [
    {
      "text": "what was decided or still needs deciding",
      "context": "why it came up",
      "participants": ["names involved"],
      "status": "decided | pending",
      "suggestedAction": "next step, only for pending decisions",
      "assignee": "who owns the next step, if named"
    }
  ],
  "openQuestions": [
    {
      "text": "the question",
      "askedBy": "name, if known",
      "type": "explicit | implicit",
      "context": "surrounding discussion",
      "assignee": "who should answer it, if named"
    }
  ],
  "actionItems": [{"text": "what needs doing", "assignee": "name, if named"}]
}

Rules:
- "explicit" questions were asked out loud; "implicit" questions are gaps nobody addressed.
- Use participant names exactly as they appear in the transcript.
- Do not invent content. Use empty lists when nothing applies.
- Write in the language of the transcript.

Transcript:
%s`

const decisionPrompt = decisionPromptHeader + `
You extract decisions from meeting transcripts.

%s
List every decision made in the transcript below, and every decision that was
discussed but left open. Return ONLY a JSON array:
[
  {
    "text": "the decision",
    "context": "why it came up",
    "participants": ["names involved"],
    "status": "decided | pending",
    "suggestedAction": "next step, only for pending decisions",
    "assignee": "owner of the next step, if named"
  }
]
Return [] when there are none.

Transcript:
%s`

const questionPrompt = questionPromptHeader + `
You find unresolved questions in meeting transcripts.

%s
List questions that were asked but not answered ("explicit"), and information
the group clearly needs but never discussed ("implicit"). Return ONLY a JSON array:
[
  {
    "text": "the question",
    "askedBy": "name, if known",
    "type": "explicit | implicit",
    "context": "surrounding discussion",
    "assignee": "who should answer it, if named"
  }
]
Return [] when there are none.

Transcript:
%s`

const taskPrompt = taskPromptHeader + `
You extract concrete, assignable tasks from meeting transcripts.

%s
Return ONLY a JSON array of tasks:
[
  {
    "title": "imperative, self-contained task title",
    "assignee": "name, if someone took or was given the task",
    "priority": "low | medium | high | urgent",
    "sourceText": "the transcript sentence the task comes from",
    "confidence": 0.0,
    "type": "explicit | implicit"
  }
]
"explicit" tasks were stated as commitments; "implicit" tasks follow from the
discussion without anyone committing. Return [] when there are none.

Transcript:
%s`

// PromptContext carries the meeting facts shared by every prompt
type PromptContext struct {
	Title        string
	Participants []string
	Duration     string
	Language     string
	Project      *entities.ProjectContext
	ChunkIndex   int
	ChunkCount   int
}

func (pc PromptContext) render() string {
	var b strings.Builder
	b.WriteString("Meeting context:\n")
	if pc.Title != "" {
		fmt.Fprintf(&b, "- Title: %s\n", pc.Title)
	}
	if len(pc.Participants) > 0 {
		fmt.Fprintf(&b, "- Participants: %s\n", strings.Join(pc.Participants, ", "))
	}
	if pc.Duration != "" {
		fmt.Fprintf(&b, "- Duration: %s\n", pc.Duration)
	}
	if pc.Language != "" {
		fmt.Fprintf(&b, "- Language: %s\n", pc.Language)
	}
	if pc.ChunkCount > 1 {
		fmt.Fprintf(&b, "- This is part %d of %d of the transcript. Only report what appears in this part.\n", pc.ChunkIndex+1, pc.ChunkCount)
	}
	if !pc.Project.IsEmpty() {
		b.WriteString(renderProject(pc.Project))
	}
	return b.String()
}

func renderProject(p *entities.ProjectContext) string {
	var b strings.Builder
	if p.ProjectName != "" {
		fmt.Fprintf(&b, "- Project: %s\n", p.ProjectName)
	}
	if len(p.Files) > 0 {
		b.WriteString("- Relevant files (mention them in tasks when they clearly apply):\n")
		for _, f := range p.Files {
			if f.Reason != "" {
				fmt.Fprintf(&b, "  - %s (%s)\n", f.Path, f.Reason)
			} else {
				fmt.Fprintf(&b, "  - %s\n", f.Path)
			}
		}
	}
	return b.String()
}

func buildPrompt(template string, pc PromptContext, chunk string) string {
	return fmt.Sprintf(template, pc.render(), chunk)
}
