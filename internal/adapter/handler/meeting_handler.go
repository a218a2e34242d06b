package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/adapter/dto"
	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-insights/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-insights/pkg/jobcontext"
)

const defaultRunsPageSize = 20

// Meeting handles meeting processing endpoints
type Meeting struct {
	svc    meeting.Service
	logger *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(svc meeting.Service, logger *zap.Logger) *Meeting {
	return &Meeting{svc: svc, logger: logger}
}

// ProcessMeeting extracts the summary and tasks of a transcript
// @Summary      Process meeting transcript
// @Description  Runs summary, decision, question and task extraction over a transcript and deduplicates the tasks
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.ProcessMeetingRequest   true  "Meeting, transcript segments and optional provider settings"
// @Success      200      {object}  dto.ProcessMeetingResponse  "Extraction result"
// @Failure      400      {object}  map[string]interface{}      "Invalid request or provider not configured"
// @Failure      401      {object}  map[string]interface{}      "Missing or invalid token"
// @Failure      500      {object}  map[string]interface{}      "Processing failed"
// @Router       /meetings/process [post]
func (h *Meeting) ProcessMeeting(c echo.Context) error {
	var req dto.ProcessMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, run, err := h.svc.Process(c.Request().Context(), meeting.ProcessInput{
		Meeting:   req.ToMeeting(),
		Speakers:  req.ToSpeakers(),
		Settings:  req.Settings.ToSettings(),
		Project:   req.Project.ToProject(),
		Source:    jobcontext.SourceAPI,
		SkipCache: req.SkipCache,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, dto.NewProcessMeetingResponse(result, run))
}

// ImportAssemblyAI imports a completed AssemblyAI transcript and processes it
// @Summary      Process AssemblyAI transcript
// @Description  Fetches a completed AssemblyAI transcript by id, converts its utterances and runs the extraction
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true   "AssemblyAI transcript ID"
// @Param        request  body      dto.ImportTranscriptRequest  false  "Optional title and provider settings"
// @Success      200      {object}  dto.ProcessMeetingResponse   "Extraction result"
// @Failure      409      {object}  map[string]interface{}       "Transcript not completed yet"
// @Failure      502      {object}  map[string]interface{}       "Import failed"
// @Failure      503      {object}  map[string]interface{}       "Import not configured"
// @Router       /transcripts/assemblyai/{id}/process [post]
func (h *Meeting) ImportAssemblyAI(c echo.Context) error {
	var req dto.ImportTranscriptRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, run, err := h.svc.ImportAndProcess(c.Request().Context(), meeting.ImportInput{
		TranscriptID: c.Param("id"),
		Title:        req.Title,
		Settings:     req.Settings.ToSettings(),
		Project:      req.Project.ToProject(),
		SkipCache:    req.SkipCache,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, dto.NewProcessMeetingResponse(result, run))
}

// GetRun returns a stored processing run
// @Summary      Get processing run
// @Tags         Runs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string           true  "Run ID (UUID)"
// @Success      200  {object}  dto.RunResponse  "Stored run"
// @Failure      400  {object}  map[string]interface{}  "Invalid run ID"
// @Failure      404  {object}  map[string]interface{}  "Run not found"
// @Router       /runs/{id} [get]
func (h *Meeting) GetRun(c echo.Context) error {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("run ID must be a valid UUID"))
	}

	run, err := h.svc.GetRun(c.Request().Context(), runID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, dto.NewRunResponse(run))
}

// ListMeetingRuns lists the stored runs of a meeting
// @Summary      List runs of a meeting
// @Tags         Runs
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Meeting ID"
// @Param        limit  query     int     false  "Maximum number of runs"  default(20)
// @Success      200    {object}  common.ListResponse  "Runs, newest first"
// @Router       /meetings/{id}/runs [get]
func (h *Meeting) ListMeetingRuns(c echo.Context) error {
	runs, err := h.svc.ListRuns(c.Request().Context(), c.Param("id"), queryInt(c, "limit", defaultRunsPageSize))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	items := dto.NewRunResponses(runs)
	return HandleSuccess(h.logger, c, common.ListResponse{Data: items, Count: len(items)})
}
