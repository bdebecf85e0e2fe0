package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/chad-area/area/provider/reddit"
	"github.com/chad-area/area/registry"
	"go.uber.org/zap"
)

const redditPollInterval = 120 * time.Second

// redditGraceWindow bounds the cold start guard: on the first ever check of
// a workflow, a most-recent post older than this is treated as pre-existing
// content and only primes the cursor.
const redditGraceWindow = 5 * time.Minute

type redditAPI interface {
	NewPosts(ctx context.Context, token, subreddit string, limit int) ([]reddit.Post, error)
}

type RedditWorker struct {
	workflows    persistence.WorkflowDao
	userServices persistence.UserServiceDao
	logs         persistence.LogDao
	cursors      persistence.CursorStore
	client       redditAPI
	registry     *registry.Registry
	poller       *PollWorker
	wg           *sync.WaitGroup
	now          func() time.Time
}

func NewRedditWorker(workflows persistence.WorkflowDao, userServices persistence.UserServiceDao, logs persistence.LogDao, cursors persistence.CursorStore, client redditAPI, reg *registry.Registry, wg *sync.WaitGroup) *RedditWorker {
	return &RedditWorker{
		workflows:    workflows,
		userServices: userServices,
		logs:         logs,
		cursors:      cursors,
		client:       client,
		registry:     reg,
		wg:           wg,
		now:          time.Now,
	}
}

func (w *RedditWorker) Start() {
	w.poller = NewPollWorker("reddit-worker", redditPollInterval, w.run, w.wg)
	w.poller.Start()
}

func (w *RedditWorker) Stop() {
	w.poller.Stop()
}

func (w *RedditWorker) run() {
	ctx := context.Background()
	workflows, err := w.workflows.FindByActionIds(ctx, model.ACTION_REDDIT_NEW_POST)
	if err != nil {
		logger.Error("error listing reddit workflows", zap.Error(err))
		appendAuditLog(ctx, w.logs, model.LogEntry{
			Level:    "error",
			Message:  fmt.Sprintf("Reddit Worker error: %v", err),
			Context:  "Reddit Worker",
			Metadata: map[string]any{"error": err.Error()},
		})
		return
	}
	if len(workflows) == 0 {
		return
	}
	logger.Info("checking reddit workflows", zap.Int("count", len(workflows)))
	for _, wf := range workflows {
		// One workflow's failure never aborts the rest of the cycle.
		if err := w.checkWorkflow(ctx, wf); err != nil {
			logger.Error("error checking reddit workflow", zap.String("workflowId", wf.Id), zap.Error(err))
			appendAuditLog(ctx, w.logs, model.LogEntry{
				Level:   "error",
				Message: fmt.Sprintf("Reddit Worker error for workflow %s: %v", wf.Id, err),
				Context: "Reddit Worker",
				Metadata: map[string]any{
					"workflowId": wf.Id,
					"error":      err.Error(),
				},
			})
		}
	}
}

func (w *RedditWorker) checkWorkflow(ctx context.Context, wf model.Workflow) error {
	us, err := w.userServices.FindFirst(ctx, wf.UserId, model.SERVICE_REDDIT)
	if errors.Is(err, persistence.ErrNotFound) || (err == nil && us.Token == "") {
		logger.Warn("user has no reddit token, skipping workflow",
			zap.String("userId", wf.UserId), zap.String("workflowId", wf.Id))
		return nil
	}
	if err != nil {
		return err
	}
	if len(wf.ActionData) < 1 || wf.ActionData[0] == "" {
		logger.Error("workflow has no subreddit configured", zap.String("workflowId", wf.Id))
		return nil
	}
	subreddit := wf.ActionData[0]

	posts, err := w.client.NewPosts(ctx, us.Token, subreddit, 1)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return nil
	}
	latest := posts[0]

	lastKnownId, err := w.cursors.Get(ctx, wf.Id)
	if err != nil {
		return err
	}
	if lastKnownId == latest.Id {
		return nil
	}

	// Cold start: never prime a fresh workflow with content that predates it.
	if lastKnownId == "" && w.now().Sub(latest.CreatedAt()) > redditGraceWindow {
		logger.Info("first run for workflow, priming cursor with current post",
			zap.String("workflowId", wf.Id), zap.String("postId", latest.Id))
		return w.cursors.Set(ctx, wf.Id, latest.Id)
	}

	logger.Info("new post detected",
		zap.String("workflowId", wf.Id),
		zap.String("subreddit", subreddit),
		zap.String("title", latest.Title),
		zap.String("author", latest.Author))

	handler, ok := w.registry.Reaction(wf.ReactionId)
	if !ok {
		logger.Error("no reaction handler registered", zap.Int("reactionId", wf.ReactionId), zap.String("workflowId", wf.Id))
		return nil
	}
	postURL := "https://reddit.com" + latest.Permalink
	enriched := append(append([]string{}, wf.ReactionData...),
		fmt.Sprintf("Title: %s", latest.Title),
		fmt.Sprintf("Author: u/%s", latest.Author),
		fmt.Sprintf("Subreddit: r/%s", latest.Subreddit),
		fmt.Sprintf("URL: %s", postURL),
		fmt.Sprintf("Score: %d", latest.Score),
		fmt.Sprintf("Comments: %d", latest.NumComments),
	)
	if err := handler.Execute(ctx, wf.UserId, enriched); err != nil {
		return err
	}
	if err := w.cursors.Set(ctx, wf.Id, latest.Id); err != nil {
		return err
	}
	appendAuditLog(ctx, w.logs, model.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("Reddit workflow %s triggered: new post in r/%s", wf.Id, subreddit),
		Context: "Reddit Worker",
		Metadata: map[string]any{
			"workflowId": wf.Id,
			"userId":     wf.UserId,
			"subreddit":  subreddit,
			"postId":     latest.Id,
			"postTitle":  latest.Title,
			"postAuthor": latest.Author,
			"postUrl":    postURL,
		},
	})
	logger.Info("reddit workflow triggered", zap.String("workflowId", wf.Id))
	return nil
}
