package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/saeedalam/trendvision-mcp/internal/alerts"
	"github.com/saeedalam/trendvision-mcp/internal/gateway"
)

// =============================================================================
// TOOL DEFINITIONS
// =============================================================================

const (
	toolSystemInstructions = "get-system-instructions"
	toolAlertsList         = "get-alerts-list"
	toolAlertDetails       = "get-alert-details"
	toolAddAlertNote       = "add-alert-note"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(systemInstructionsTool(), s.handleSystemInstructions)
	s.mcp.AddTool(alertsListTool(), s.handleAlertsList)
	s.mcp.AddTool(alertDetailsTool(), s.handleAlertDetails)
	s.mcp.AddTool(addAlertNoteTool(), s.handleAddAlertNote)
}

func systemInstructionsTool() mcp.Tool {
	return mcp.NewTool(toolSystemInstructions,
		mcp.WithDescription("Retrieve system instructions on how to use the Trend Vision One tools effectively"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

func alertsListTool() mcp.Tool {
	return mcp.NewTool(toolAlertsList,
		mcp.WithDescription("Get alerts list from Trend Vision One API. IMPORTANT: By default, you should filter for 'new' status alerts from 2020 until today, sorted by lastUpdatedDateTime in descending order, unless the user explicitly asks for different criteria."),
		mcp.WithString("startDateTime",
			mcp.Description("Start of time range to filter alerts (ISO-8601 format). Default: "+alerts.DefaultStartDate),
		),
		mcp.WithString("endDateTime",
			mcp.Description("End of time range to filter alerts (ISO-8601 format). Default: current date"),
		),
		mcp.WithNumber("top",
			mcp.Description("Maximum number of alerts to return"),
			mcp.Min(1),
		),
		mcp.WithString("dateTimeTarget",
			mcp.Description("Indicates which date field to filter on (created or lastUpdated)"),
			mcp.Enum("created", "lastUpdated"),
		),
		mcp.WithString("sortBy",
			mcp.Description("Field to sort results by. Default: lastUpdatedDateTime"),
			mcp.Enum("createdDateTime", "lastUpdatedDateTime", "severity", "status"),
		),
		mcp.WithString("sortOrder",
			mcp.Description("Sort order (ascending or descending). Default: desc"),
			mcp.Enum("asc", "desc"),
		),
		mcp.WithString("severity",
			mcp.Description("Filter by alert severity"),
			mcp.Enum("critical", "high", "medium", "low", "informational"),
		),
		mcp.WithString("status",
			mcp.Description("Filter by alert status. Default: new"),
			mcp.Enum("new", "in_progress", "closed", "reopened"),
		),
		mcp.WithString("sourceProduct", mcp.Description("Filter by source product")),
		mcp.WithString("model", mcp.Description("Filter by alert model")),
		mcp.WithString("description", mcp.Description("Filter by description (substring match)")),
		mcp.WithString("entityValue", mcp.Description("Filter by entity value")),
		mcp.WithString("skipToken", mcp.Description("Token for pagination")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

func alertDetailsTool() mcp.Tool {
	return mcp.NewTool(toolAlertDetails,
		mcp.WithDescription("Get detailed information about a specific alert from Trend Vision One API, including related notes and an investigation summary"),
		mcp.WithString("alertId",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("The unique identifier of the alert to retrieve details for"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

func addAlertNoteTool() mcp.Tool {
	return mcp.NewTool(toolAddAlertNote,
		mcp.WithDescription("Add a new investigation note to a specific alert in Trend Vision One"),
		mcp.WithString("alertId",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("The unique identifier of the alert to add a note to"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.MaxLength(maxNoteLength),
			mcp.Description("The content of the note to add (max 10000 characters)"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

// =============================================================================
// TOOL HANDLERS
// Handlers detach from the caller's cancellation: once a call has started,
// its requests run to completion.
// =============================================================================

const maxNoteLength = 10000

type alertIDParams struct {
	AlertID string `json:"alertId" validate:"required"`
}

type addNoteParams struct {
	AlertID string `json:"alertId" validate:"required"`
	Content string `json:"content" validate:"required,max=10000"`
}

func (s *Server) handleSystemInstructions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(alerts.Defaults(s.now()))
}

func (s *Server) handleAlertsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var q alerts.ListQuery
	if err := bindArguments(req, &q); err != nil {
		return nil, err
	}

	page, err := s.alerts.ListAlerts(context.WithoutCancel(ctx), q)
	if err != nil {
		s.logger.Warn("alert list unavailable",
			zap.String("query", q.Encode()),
			zap.Int("status", gateway.StatusOf(err)),
			zap.Error(err))
		return failureResult(listFailedMessage), nil
	}
	return textResult(page)
}

func (s *Server) handleAlertDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p alertIDParams
	if err := bindArguments(req, &p); err != nil {
		return nil, err
	}

	enriched := s.alerts.Enrich(context.WithoutCancel(ctx), p.AlertID)
	s.logger.Debug("alert enriched",
		zap.String("alert_id", p.AlertID),
		zap.Bool("details", enriched.AlertDetails != nil),
		zap.Bool("notes", enriched.Notes != nil))
	return textResult(enriched)
}

func (s *Server) handleAddAlertNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p addNoteParams
	if err := bindArguments(req, &p); err != nil {
		return nil, err
	}

	result := s.alerts.AppendNote(context.WithoutCancel(ctx), p.AlertID, p.Content)
	s.logger.Info("alert note appended",
		zap.String("alert_id", p.AlertID),
		zap.Bool("success", result.Success),
		zap.Bool("confirmed", result.Confirmed))
	return textResult(result)
}
