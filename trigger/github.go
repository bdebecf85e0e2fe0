package trigger

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/chad-area/area/provider"
	"github.com/chad-area/area/provider/github"
	"github.com/chad-area/area/registry"
	"go.uber.org/zap"
)

var _ registry.ActionHandler = new(GithubPushHandler)

// GithubPushHandler provisions a real push webhook on the configured
// repository. The callback URL embeds the workflow id, which is how the
// inbound receiver routes events back to the workflow.
type GithubPushHandler struct {
	workflows    persistence.WorkflowDao
	userServices persistence.UserServiceDao
	client       *github.Client
	workflowURL  string
}

func NewGithubPushHandler(workflows persistence.WorkflowDao, userServices persistence.UserServiceDao, client *github.Client, workflowURL string) *GithubPushHandler {
	return &GithubPushHandler{
		workflows:    workflows,
		userServices: userServices,
		client:       client,
		workflowURL:  workflowURL,
	}
}

func (h *GithubPushHandler) callbackURL(workflowId string) string {
	return fmt.Sprintf("%s/webhook/github/%s", h.workflowURL, workflowId)
}

func (h *GithubPushHandler) token(ctx context.Context, workflowId string) (string, error) {
	wf, err := h.workflows.Get(ctx, workflowId)
	if err != nil {
		return "", fmt.Errorf("workflow not valid: %w", err)
	}
	us, err := h.userServices.FindFirst(ctx, wf.UserId, model.SERVICE_GITHUB)
	if errors.Is(err, persistence.ErrNotFound) {
		return "", fmt.Errorf("user isn't logged in with github")
	}
	if err != nil {
		return "", err
	}
	return us.Token, nil
}

func (h *GithubPushHandler) Create(ctx context.Context, workflowId string, data []string) error {
	logger.Info("creating github push webhook", zap.String("workflowId", workflowId), zap.Strings("data", data))
	if len(data) != 2 {
		return fmt.Errorf("github push requires exactly 2 parameters: repository owner and name")
	}
	token, err := h.token(ctx, workflowId)
	if err != nil {
		return err
	}
	return h.client.CreateHook(ctx, token, data[0], data[1], h.callbackURL(workflowId))
}

// Delete removes the external hook. GitHub side state can drift
// independently of our database (manual removal, repo deletion, token
// revocation), so absence at any step counts as success.
func (h *GithubPushHandler) Delete(ctx context.Context, workflowId string, data []string) error {
	logger.Info("deleting github push webhook", zap.String("workflowId", workflowId), zap.Strings("data", data))
	if len(data) != 2 {
		return fmt.Errorf("github push requires exactly 2 parameters: repository owner and name")
	}
	token, err := h.token(ctx, workflowId)
	if err != nil {
		return err
	}
	hooks, err := h.client.ListHooks(ctx, token, data[0], data[1])
	if err != nil {
		if provider.IsStatus(err, http.StatusNotFound, http.StatusForbidden) {
			logger.Info("github repository not found or no access, skipping webhook deletion",
				zap.String("workflowId", workflowId))
			return nil
		}
		return err
	}
	desiredURL := h.callbackURL(workflowId)
	var found *github.Hook
	for i := range hooks {
		if hooks[i].Config.URL == desiredURL {
			found = &hooks[i]
			break
		}
	}
	if found == nil {
		logger.Info("github webhook not found, it may have been deleted manually",
			zap.String("workflowId", workflowId))
		return nil
	}
	err = h.client.DeleteHook(ctx, token, data[0], data[1], found.Id)
	if err != nil {
		if provider.IsStatus(err, http.StatusNotFound) {
			logger.Info("github webhook already deleted", zap.String("workflowId", workflowId))
			return nil
		}
		return err
	}
	return nil
}
