package trigger

import (
	"context"
	"errors"
	"fmt"

	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/chad-area/area/registry"
	"go.uber.org/zap"
)

var _ registry.ActionHandler = new(SpotifyTrackSavedHandler)

// SpotifyTrackSavedHandler needs no user configuration; Create only checks
// that the user holds a Spotify grant.
type SpotifyTrackSavedHandler struct {
	workflows    persistence.WorkflowDao
	userServices persistence.UserServiceDao
	logs         persistence.LogDao
	cursors      persistence.CursorStore
}

func NewSpotifyTrackSavedHandler(workflows persistence.WorkflowDao, userServices persistence.UserServiceDao, logs persistence.LogDao, cursors persistence.CursorStore) *SpotifyTrackSavedHandler {
	return &SpotifyTrackSavedHandler{
		workflows:    workflows,
		userServices: userServices,
		logs:         logs,
		cursors:      cursors,
	}
}

func (h *SpotifyTrackSavedHandler) Create(ctx context.Context, workflowId string, data []string) error {
	logger.Info("configuring spotify track saved", zap.String("workflowId", workflowId))
	wf, err := h.workflows.Get(ctx, workflowId)
	if err != nil {
		return fmt.Errorf("workflow %s not found: %w", workflowId, err)
	}
	us, err := h.userServices.FindFirst(ctx, wf.UserId, model.SERVICE_SPOTIFY)
	if errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("user has not connected a Spotify account, please connect Spotify first")
	}
	if err != nil {
		return err
	}
	if us.Token == "" {
		return fmt.Errorf("spotify token not found, please reconnect your Spotify account")
	}
	appendAuditLog(ctx, h.logs, model.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("Spotify Track Saved action configured for workflow %s", workflowId),
		Context: "Spotify Webhook",
		Metadata: map[string]any{
			"workflowId": workflowId,
			"userId":     wf.UserId,
			"actionId":   model.ACTION_SPOTIFY_TRACK_SAVED,
		},
	})
	return nil
}

func (h *SpotifyTrackSavedHandler) Delete(ctx context.Context, workflowId string, data []string) error {
	logger.Info("cleaning up spotify track saved", zap.String("workflowId", workflowId))
	if err := h.cursors.Delete(ctx, workflowId); err != nil {
		logger.Error("error deleting spotify cursor", zap.String("workflowId", workflowId), zap.Error(err))
	}
	appendAuditLog(ctx, h.logs, model.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("Spotify Track Saved action removed for workflow %s", workflowId),
		Context: "Spotify Webhook",
		Metadata: map[string]any{
			"workflowId": workflowId,
			"actionId":   model.ACTION_SPOTIFY_TRACK_SAVED,
		},
	})
	return nil
}
