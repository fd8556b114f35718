// Package alerts turns tool parameters into workbench calls and derives the
// investigation summary from what comes back.
package alerts

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/saeedalam/trendvision-mcp/internal/gateway"
	"github.com/saeedalam/trendvision-mcp/pkg/types"
)

const (
	noteAddedMessage  = "Note added successfully"
	noteFailedMessage = "Failed to add note to the alert"
)

// Service runs the alert workflows against a Requester
type Service struct {
	requester gateway.Requester
	endpoints Endpoints
	logger    *zap.Logger
}

func NewService(requester gateway.Requester, baseURL string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		requester: requester,
		endpoints: NewEndpoints(baseURL),
		logger:    logger,
	}
}

// ListAlerts fetches one page of alerts. The skip token in q is passed through untouched.
func (s *Service) ListAlerts(ctx context.Context, q ListQuery) (*types.AlertsPage, error) {
	return gateway.GetInto[types.AlertsPage](ctx, s.requester, s.endpoints.Alerts(q))
}

// GetAlert fetches the full alert record
func (s *Service) GetAlert(ctx context.Context, alertID string) (*types.AlertDetail, error) {
	return gateway.GetInto[types.AlertDetail](ctx, s.requester, s.endpoints.Alert(alertID))
}

// GetNotes fetches the first page of the alert's note log
func (s *Service) GetNotes(ctx context.Context, alertID string) (*types.NotesPage, error) {
	return gateway.GetInto[types.NotesPage](ctx, s.requester, s.endpoints.Notes(alertID))
}

// Enrich fetches the alert and its notes, one after the other, and derives
// the summary. It always returns a result; failed fetches leave the
// corresponding field nil and the summary falls back to its sentinels.
func (s *Service) Enrich(ctx context.Context, alertID string) types.EnrichedAlert {
	detail, err := s.GetAlert(ctx, alertID)
	if err != nil {
		s.logger.Warn("alert details unavailable",
			zap.String("alert_id", alertID),
			zap.Int("status", gateway.StatusOf(err)),
			zap.Error(err))
		detail = nil
	}

	notes, err := s.GetNotes(ctx, alertID)
	if err != nil {
		s.logger.Warn("alert notes unavailable",
			zap.String("alert_id", alertID),
			zap.Int("status", gateway.StatusOf(err)),
			zap.Error(err))
		notes = nil
	}

	return types.EnrichedAlert{
		AlertDetails: detail,
		Notes:        notes,
		Summary:      Summarize(detail, notes),
	}
}

// AppendNote posts a note and then reads the note log back.
//
// Only a failed write reports Success false. A write whose read-back fails
// still reports Success with an empty list and Confirmed false, since the
// note was most likely stored.
func (s *Service) AppendNote(ctx context.Context, alertID, content string) types.NoteAppendResult {
	if _, err := s.requester.Post(ctx, s.endpoints.Notes(alertID), types.NewNote{Content: content}); err != nil {
		return types.NoteAppendResult{Success: false, Message: noteFailedMessage}
	}

	items := []types.Note{}
	notes, err := s.GetNotes(ctx, alertID)
	if err != nil {
		s.logger.Warn("note written but read-back failed",
			zap.String("alert_id", alertID),
			zap.Error(err))
	} else if notes.Items != nil {
		items = notes.Items
	}

	confirmed := slices.ContainsFunc(items, func(n types.Note) bool { return n.Content == content })

	return types.NoteAppendResult{
		Success:   true,
		Message:   noteAddedMessage,
		Notes:     &items,
		Confirmed: confirmed,
	}
}
