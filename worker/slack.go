package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/chad-area/area/provider/slack"
	"github.com/chad-area/area/registry"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const slackPollInterval = 60 * time.Second

const slackGraceWindow = 2 * time.Minute

type slackAPI interface {
	ConversationsHistory(ctx context.Context, token, channelId string, limit int) ([]slack.Message, error)
	UsersInfo(ctx context.Context, token, userId string) slack.UserInfo
}

type SlackWorker struct {
	workflows    persistence.WorkflowDao
	userServices persistence.UserServiceDao
	logs         persistence.LogDao
	cursors      persistence.CursorStore
	client       slackAPI
	registry     *registry.Registry
	poller       *PollWorker
	wg           *sync.WaitGroup
	now          func() time.Time
	// userCache memoizes users.info lookups so a busy channel does not burn
	// the Tier 4 rate limit on the same author every minute.
	userCache *gocache.Cache
}

func NewSlackWorker(workflows persistence.WorkflowDao, userServices persistence.UserServiceDao, logs persistence.LogDao, cursors persistence.CursorStore, client slackAPI, reg *registry.Registry, wg *sync.WaitGroup) *SlackWorker {
	return &SlackWorker{
		workflows:    workflows,
		userServices: userServices,
		logs:         logs,
		cursors:      cursors,
		client:       client,
		registry:     reg,
		wg:           wg,
		now:          time.Now,
		userCache:    gocache.New(10*time.Minute, 15*time.Minute),
	}
}

func (w *SlackWorker) Start() {
	w.poller = NewPollWorker("slack-worker", slackPollInterval, w.run, w.wg)
	w.poller.Start()
}

func (w *SlackWorker) Stop() {
	w.poller.Stop()
}

func (w *SlackWorker) run() {
	ctx := context.Background()
	workflows, err := w.workflows.FindByActionIds(ctx, model.ACTION_SLACK_NEW_MESSAGE)
	if err != nil {
		logger.Error("error listing slack workflows", zap.Error(err))
		appendAuditLog(ctx, w.logs, model.LogEntry{
			Level:    "error",
			Message:  fmt.Sprintf("Slack Worker error: %v", err),
			Context:  "Slack Worker",
			Metadata: map[string]any{"error": err.Error()},
		})
		return
	}
	if len(workflows) == 0 {
		return
	}
	logger.Info("checking slack workflows", zap.Int("count", len(workflows)))
	for _, wf := range workflows {
		if err := w.checkWorkflow(ctx, wf); err != nil {
			logger.Error("error checking slack workflow", zap.String("workflowId", wf.Id), zap.Error(err))
			appendAuditLog(ctx, w.logs, model.LogEntry{
				Level:   "error",
				Message: fmt.Sprintf("Slack Worker error for workflow %s: %v", wf.Id, err),
				Context: "Slack Worker",
				Metadata: map[string]any{
					"workflowId": wf.Id,
					"error":      err.Error(),
				},
			})
		}
	}
}

func (w *SlackWorker) checkWorkflow(ctx context.Context, wf model.Workflow) error {
	us, err := w.userServices.FindFirst(ctx, wf.UserId, model.SERVICE_SLACK)
	if errors.Is(err, persistence.ErrNotFound) || (err == nil && us.Token == "") {
		logger.Warn("user has no slack token, skipping workflow",
			zap.String("userId", wf.UserId), zap.String("workflowId", wf.Id))
		return nil
	}
	if err != nil {
		return err
	}
	if len(wf.ActionData) < 1 || wf.ActionData[0] == "" {
		logger.Error("workflow has no channel configured", zap.String("workflowId", wf.Id))
		return nil
	}
	channelId := wf.ActionData[0]

	messages, err := w.client.ConversationsHistory(ctx, us.Token, channelId, 1)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}
	latest := messages[0]

	lastKnownTs, err := w.cursors.Get(ctx, wf.Id)
	if err != nil {
		return err
	}
	if lastKnownTs == latest.Ts {
		return nil
	}

	if lastKnownTs == "" && w.now().Sub(slackTsToTime(latest.Ts)) > slackGraceWindow {
		logger.Info("first run for workflow, priming cursor with current message",
			zap.String("workflowId", wf.Id), zap.String("ts", latest.Ts))
		return w.cursors.Set(ctx, wf.Id, latest.Ts)
	}

	author := w.userInfo(ctx, us.Token, latest.User)
	logger.Info("new slack message detected",
		zap.String("workflowId", wf.Id),
		zap.String("channelId", channelId),
		zap.String("user", author.Name))

	handler, ok := w.registry.Reaction(wf.ReactionId)
	if !ok {
		logger.Error("no reaction handler registered", zap.Int("reactionId", wf.ReactionId), zap.String("workflowId", wf.Id))
		return nil
	}
	enriched := append(append([]string{}, wf.ReactionData...),
		fmt.Sprintf("Message: %s", latest.Text),
		fmt.Sprintf("User: %s (@%s)", author.RealName, author.Name),
		fmt.Sprintf("Channel: %s", channelId),
		fmt.Sprintf("Timestamp: %s", latest.Ts),
	)
	if err := handler.Execute(ctx, wf.UserId, enriched); err != nil {
		return err
	}
	if err := w.cursors.Set(ctx, wf.Id, latest.Ts); err != nil {
		return err
	}
	appendAuditLog(ctx, w.logs, model.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("Slack workflow %s triggered: new message in channel %s", wf.Id, channelId),
		Context: "Slack Worker",
		Metadata: map[string]any{
			"workflowId": wf.Id,
			"userId":     wf.UserId,
			"channelId":  channelId,
			"messageTs":  latest.Ts,
			"author":     author.Name,
		},
	})
	logger.Info("slack workflow triggered", zap.String("workflowId", wf.Id))
	return nil
}

func (w *SlackWorker) userInfo(ctx context.Context, token, slackUserId string) slack.UserInfo {
	if cached, found := w.userCache.Get(slackUserId); found {
		return cached.(slack.UserInfo)
	}
	info := w.client.UsersInfo(ctx, token, slackUserId)
	w.userCache.Set(slackUserId, info, gocache.DefaultExpiration)
	return info
}

// slackTsToTime converts a Slack "seconds.micros" ts string. A malformed ts
// maps to the zero time, which the grace window treats as old.
func slackTsToTime(ts string) time.Time {
	seconds, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(int64(seconds), 0)
}
