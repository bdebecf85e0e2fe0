package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/chad-area/area/registry"
	"go.uber.org/zap"
)

const timerPollInterval = 60 * time.Second

// TimerWorker checks timer workflows every minute against wall clock time.
// No external API is involved and no cursor is kept: the daily trigger fires
// at most once per matching minute, the annual date trigger only in the
// midnight minute, and the future date trigger is self limiting because the
// calendar date equality holds on exactly one day.
type TimerWorker struct {
	workflows persistence.WorkflowDao
	logs      persistence.LogDao
	registry  *registry.Registry
	poller    *PollWorker
	wg        *sync.WaitGroup
	now       func() time.Time
}

func NewTimerWorker(workflows persistence.WorkflowDao, logs persistence.LogDao, reg *registry.Registry, wg *sync.WaitGroup) *TimerWorker {
	return &TimerWorker{
		workflows: workflows,
		logs:      logs,
		registry:  reg,
		wg:        wg,
		now:       time.Now,
	}
}

func (w *TimerWorker) Start() {
	w.poller = NewPollWorker("timer-worker", timerPollInterval, w.run, w.wg)
	w.poller.Start()
}

func (w *TimerWorker) Stop() {
	w.poller.Stop()
}

func (w *TimerWorker) run() {
	ctx := context.Background()
	workflows, err := w.workflows.FindByActionIds(ctx,
		model.ACTION_TIMER_DAILY,
		model.ACTION_TIMER_DATE,
		model.ACTION_TIMER_FUTURE_DATE,
	)
	if err != nil {
		logger.Error("error listing timer workflows", zap.Error(err))
		appendAuditLog(ctx, w.logs, model.LogEntry{
			Level:    "error",
			Message:  fmt.Sprintf("Timer Worker error: %v", err),
			Context:  "Timer Worker",
			Metadata: map[string]any{"error": err.Error()},
		})
		return
	}
	if len(workflows) == 0 {
		return
	}
	now := w.now()
	for _, wf := range workflows {
		if shouldTrigger(wf, now) {
			w.triggerReaction(ctx, wf)
		}
	}
}

func (w *TimerWorker) triggerReaction(ctx context.Context, wf model.Workflow) {
	logger.Info("triggering timer workflow", zap.String("workflowId", wf.Id), zap.String("name", wf.Name))
	handler, ok := w.registry.Reaction(wf.ReactionId)
	if !ok {
		logger.Error("no reaction handler registered", zap.Int("reactionId", wf.ReactionId), zap.String("workflowId", wf.Id))
		return
	}
	if err := handler.Execute(ctx, wf.UserId, wf.ReactionData); err != nil {
		logger.Error("error executing timer workflow", zap.String("workflowId", wf.Id), zap.Error(err))
		appendAuditLog(ctx, w.logs, model.LogEntry{
			Level:   "error",
			Message: fmt.Sprintf("Timer workflow %q (ID: %s) failed: %v", wf.Name, wf.Id, err),
			Context: "Timer Worker",
			Metadata: map[string]any{
				"workflowId": wf.Id,
				"error":      err.Error(),
			},
		})
		return
	}
	appendAuditLog(ctx, w.logs, model.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("Timer workflow %q (ID: %s) triggered", wf.Name, wf.Id),
		Context: "Timer Worker",
		Metadata: map[string]any{
			"workflowId": wf.Id,
			"actionId":   wf.ActionId,
			"reactionId": wf.ReactionId,
		},
	})
}

func shouldTrigger(wf model.Workflow, now time.Time) bool {
	switch wf.ActionId {
	case model.ACTION_TIMER_DAILY:
		return shouldTriggerDaily(wf.ActionData, now)
	case model.ACTION_TIMER_DATE:
		return shouldTriggerDate(wf.ActionData, now)
	case model.ACTION_TIMER_FUTURE_DATE:
		return shouldTriggerFutureDate(wf.ActionData, now)
	default:
		return false
	}
}

// shouldTriggerDaily fires when the current HH:MM string equals the
// configured pattern.
func shouldTriggerDaily(actionData []string, now time.Time) bool {
	if len(actionData) < 1 {
		return false
	}
	return now.Format("15:04") == actionData[0]
}

// shouldTriggerDate fires on the configured DD/MM, in the midnight minute
// only.
func shouldTriggerDate(actionData []string, now time.Time) bool {
	if len(actionData) < 1 {
		return false
	}
	return now.Format("02/01") == actionData[0] && now.Hour() == 0 && now.Minute() == 0
}

// shouldTriggerFutureDate fires on the calendar day createdAt+daysAhead,
// ignoring time of day.
func shouldTriggerFutureDate(actionData []string, now time.Time) bool {
	if len(actionData) < 2 {
		return false
	}
	daysAhead, err := strconv.Atoi(actionData[0])
	if err != nil {
		return false
	}
	createdAt, err := time.Parse(time.RFC3339, actionData[1])
	if err != nil {
		return false
	}
	target := createdAt.AddDate(0, 0, daysAhead)
	ty, tm, td := target.Date()
	ny, nm, nd := now.Date()
	return ty == ny && tm == nm && td == nd
}

func appendAuditLog(ctx context.Context, logs persistence.LogDao, entry model.LogEntry) {
	if logs == nil {
		return
	}
	if err := logs.Append(ctx, entry); err != nil {
		logger.Error("error writing audit log", zap.Error(err))
	}
}
