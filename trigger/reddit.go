package trigger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/chad-area/area/provider"
	"github.com/chad-area/area/provider/reddit"
	"github.com/chad-area/area/registry"
	"go.uber.org/zap"
)

var subredditPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

var _ registry.ActionHandler = new(RedditNewPostHandler)

type RedditNewPostHandler struct {
	workflows    persistence.WorkflowDao
	userServices persistence.UserServiceDao
	logs         persistence.LogDao
	cursors      persistence.CursorStore
	client       *reddit.Client
}

func NewRedditNewPostHandler(workflows persistence.WorkflowDao, userServices persistence.UserServiceDao, logs persistence.LogDao, cursors persistence.CursorStore, client *reddit.Client) *RedditNewPostHandler {
	return &RedditNewPostHandler{
		workflows:    workflows,
		userServices: userServices,
		logs:         logs,
		cursors:      cursors,
		client:       client,
	}
}

func (h *RedditNewPostHandler) Create(ctx context.Context, workflowId string, data []string) error {
	logger.Info("configuring reddit new post", zap.String("workflowId", workflowId), zap.Strings("data", data))
	wf, err := h.workflows.Get(ctx, workflowId)
	if err != nil {
		return fmt.Errorf("workflow %s not found: %w", workflowId, err)
	}
	us, err := h.userServices.FindFirst(ctx, wf.UserId, model.SERVICE_REDDIT)
	if errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("user has not connected a Reddit account, please connect Reddit first")
	}
	if err != nil {
		return err
	}
	if us.Token == "" {
		return fmt.Errorf("reddit token not found, please reconnect your Reddit account")
	}
	if len(data) < 1 || strings.TrimSpace(data[0]) == "" {
		return fmt.Errorf("subreddit name is required")
	}
	subreddit := strings.ToLower(strings.TrimSpace(data[0]))
	if !subredditPattern.MatchString(subreddit) {
		return fmt.Errorf("invalid subreddit name, use only letters, numbers and underscores (no r/ prefix)")
	}

	// Probe the subreddit. A definite 404/403 rejects the workflow; any other
	// probe failure is logged only, the worker will surface it later.
	if err := h.client.AboutSubreddit(ctx, us.Token, subreddit); err != nil {
		if provider.IsStatus(err, http.StatusNotFound) {
			return fmt.Errorf("subreddit r/%s does not exist", subreddit)
		}
		if provider.IsStatus(err, http.StatusForbidden) {
			return fmt.Errorf("subreddit r/%s is private or banned", subreddit)
		}
		logger.Error("error validating subreddit", zap.String("subreddit", subreddit), zap.Error(err))
	}

	appendAuditLog(ctx, h.logs, model.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("Reddit New Post action configured for workflow %s (r/%s)", workflowId, subreddit),
		Context: "Reddit Webhook",
		Metadata: map[string]any{
			"workflowId": workflowId,
			"userId":     wf.UserId,
			"subreddit":  subreddit,
			"actionId":   model.ACTION_REDDIT_NEW_POST,
		},
	})
	return nil
}

// Delete clears the polling cursor; there is no external resource to
// release, the worker simply stops seeing the workflow.
func (h *RedditNewPostHandler) Delete(ctx context.Context, workflowId string, data []string) error {
	logger.Info("cleaning up reddit new post", zap.String("workflowId", workflowId))
	if err := h.cursors.Delete(ctx, workflowId); err != nil {
		logger.Error("error deleting reddit cursor", zap.String("workflowId", workflowId), zap.Error(err))
	}
	metadata := map[string]any{
		"workflowId": workflowId,
		"actionId":   model.ACTION_REDDIT_NEW_POST,
	}
	if len(data) > 0 {
		metadata["subreddit"] = data[0]
	}
	appendAuditLog(ctx, h.logs, model.LogEntry{
		Level:    "info",
		Message:  fmt.Sprintf("Reddit New Post action removed for workflow %s", workflowId),
		Context:  "Reddit Webhook",
		Metadata: metadata,
	})
	return nil
}
