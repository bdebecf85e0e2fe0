package trigger

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/chad-area/area/provider/slack"
	"github.com/chad-area/area/registry"
	"go.uber.org/zap"
)

var channelIdPattern = regexp.MustCompile(`^[CG][A-Z0-9]{8,}$`)

var _ registry.ActionHandler = new(SlackNewMessageHandler)

type SlackNewMessageHandler struct {
	workflows    persistence.WorkflowDao
	userServices persistence.UserServiceDao
	logs         persistence.LogDao
	cursors      persistence.CursorStore
	client       *slack.Client
}

func NewSlackNewMessageHandler(workflows persistence.WorkflowDao, userServices persistence.UserServiceDao, logs persistence.LogDao, cursors persistence.CursorStore, client *slack.Client) *SlackNewMessageHandler {
	return &SlackNewMessageHandler{
		workflows:    workflows,
		userServices: userServices,
		logs:         logs,
		cursors:      cursors,
		client:       client,
	}
}

func (h *SlackNewMessageHandler) Create(ctx context.Context, workflowId string, data []string) error {
	logger.Info("configuring slack new message", zap.String("workflowId", workflowId), zap.Strings("data", data))
	wf, err := h.workflows.Get(ctx, workflowId)
	if err != nil {
		return fmt.Errorf("workflow %s not found: %w", workflowId, err)
	}
	us, err := h.userServices.FindFirst(ctx, wf.UserId, model.SERVICE_SLACK)
	if errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("user has not connected a Slack account, please connect Slack first")
	}
	if err != nil {
		return err
	}
	if us.Token == "" {
		return fmt.Errorf("slack token not found, please reconnect your Slack account")
	}
	if len(data) < 1 || strings.TrimSpace(data[0]) == "" {
		return fmt.Errorf("slack channel id is required")
	}
	channelId := strings.TrimSpace(data[0])
	if !channelIdPattern.MatchString(channelId) {
		return fmt.Errorf("invalid slack channel id format, should start with C or G followed by alphanumeric characters")
	}

	// Probe channel visibility; a definite not_found/not_in_channel rejects
	// the workflow, other probe failures are logged only.
	name, err := h.client.ConversationsInfo(ctx, us.Token, channelId)
	if err != nil {
		if slack.IsAPIError(err, "channel_not_found") {
			return fmt.Errorf("slack channel %s does not exist", channelId)
		}
		if slack.IsAPIError(err, "not_in_channel") {
			return fmt.Errorf("bot is not a member of channel %s, please invite the bot to this channel first", channelId)
		}
		logger.Error("error validating slack channel", zap.String("channelId", channelId), zap.Error(err))
	} else {
		logger.Info("slack channel validated", zap.String("channel", name))
	}

	appendAuditLog(ctx, h.logs, model.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("Slack New Message action configured for workflow %s (channel: %s)", workflowId, channelId),
		Context: "Slack Webhook",
		Metadata: map[string]any{
			"workflowId": workflowId,
			"userId":     wf.UserId,
			"channelId":  channelId,
			"actionId":   model.ACTION_SLACK_NEW_MESSAGE,
		},
	})
	return nil
}

func (h *SlackNewMessageHandler) Delete(ctx context.Context, workflowId string, data []string) error {
	logger.Info("cleaning up slack new message", zap.String("workflowId", workflowId))
	if err := h.cursors.Delete(ctx, workflowId); err != nil {
		logger.Error("error deleting slack cursor", zap.String("workflowId", workflowId), zap.Error(err))
	}
	metadata := map[string]any{
		"workflowId": workflowId,
		"actionId":   model.ACTION_SLACK_NEW_MESSAGE,
	}
	if len(data) > 0 {
		metadata["channelId"] = data[0]
	}
	appendAuditLog(ctx, h.logs, model.LogEntry{
		Level:    "info",
		Message:  fmt.Sprintf("Slack New Message action removed for workflow %s", workflowId),
		Context:  "Slack Webhook",
		Metadata: metadata,
	})
	return nil
}
