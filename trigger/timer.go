package trigger

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/chad-area/area/registry"
	"go.uber.org/zap"
)

// Timer actions create no external resource. Create validates the pattern
// and the timer worker does the rest by scanning the database; Delete only
// leaves an audit trail, removing the workflow row is enough.

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
var datePattern = regexp.MustCompile(`^(0[1-9]|[12]\d|3[01])/(0[1-9]|1[0-2])$`)

var _ registry.ActionHandler = new(TimerDailyHandler)

type TimerDailyHandler struct {
	workflows persistence.WorkflowDao
	logs      persistence.LogDao
}

func NewTimerDailyHandler(workflows persistence.WorkflowDao, logs persistence.LogDao) *TimerDailyHandler {
	return &TimerDailyHandler{workflows: workflows, logs: logs}
}

func (h *TimerDailyHandler) Create(ctx context.Context, workflowId string, data []string) error {
	logger.Info("configuring timer daily", zap.String("workflowId", workflowId), zap.Strings("data", data))
	if len(data) != 1 {
		return fmt.Errorf("timer daily requires exactly 1 parameter: time in HH:MM format")
	}
	if !timePattern.MatchString(data[0]) {
		return fmt.Errorf("invalid time format, expected HH:MM (00:00 to 23:59)")
	}
	if _, err := h.workflows.Get(ctx, workflowId); err != nil {
		return err
	}
	logger.Info("timer daily configured", zap.String("workflowId", workflowId), zap.String("time", data[0]))
	return nil
}

func (h *TimerDailyHandler) Delete(ctx context.Context, workflowId string, data []string) error {
	logger.Info("timer daily trigger removed", zap.String("workflowId", workflowId))
	return nil
}

var _ registry.ActionHandler = new(TimerDateHandler)

type TimerDateHandler struct {
	workflows persistence.WorkflowDao
	logs      persistence.LogDao
}

func NewTimerDateHandler(workflows persistence.WorkflowDao, logs persistence.LogDao) *TimerDateHandler {
	return &TimerDateHandler{workflows: workflows, logs: logs}
}

func (h *TimerDateHandler) Create(ctx context.Context, workflowId string, data []string) error {
	logger.Info("configuring timer date", zap.String("workflowId", workflowId), zap.Strings("data", data))
	if len(data) != 1 {
		return fmt.Errorf("timer date requires exactly 1 parameter: date in DD/MM format")
	}
	if !datePattern.MatchString(data[0]) {
		return fmt.Errorf("invalid date format, expected DD/MM (01/01 to 31/12)")
	}
	if _, err := h.workflows.Get(ctx, workflowId); err != nil {
		return err
	}
	logger.Info("timer date configured", zap.String("workflowId", workflowId), zap.String("date", data[0]))
	return nil
}

func (h *TimerDateHandler) Delete(ctx context.Context, workflowId string, data []string) error {
	logger.Info("timer date trigger removed", zap.String("workflowId", workflowId))
	return nil
}

var _ registry.ActionHandler = new(TimerFutureDateHandler)

type TimerFutureDateHandler struct {
	workflows persistence.WorkflowDao
	logs      persistence.LogDao
}

func NewTimerFutureDateHandler(workflows persistence.WorkflowDao, logs persistence.LogDao) *TimerFutureDateHandler {
	return &TimerFutureDateHandler{workflows: workflows, logs: logs}
}

// Create accepts [daysAhead] or [daysAhead, createdAtISO]. When the creation
// date is absent it is stamped now and written back into ActionData, so the
// worker always sees both slots. This is the only place ActionData is written
// after provisioning starts.
func (h *TimerFutureDateHandler) Create(ctx context.Context, workflowId string, data []string) error {
	logger.Info("configuring timer future date", zap.String("workflowId", workflowId), zap.Strings("data", data))
	if len(data) < 1 || len(data) > 2 {
		return fmt.Errorf("timer future date requires 1 or 2 parameters: days ahead and optional creation date")
	}
	daysAhead, err := strconv.Atoi(data[0])
	if err != nil || daysAhead < 1 || daysAhead > 365 {
		return fmt.Errorf("days ahead must be a number between 1 and 365")
	}
	var createdAt time.Time
	if len(data) == 2 {
		createdAt, err = time.Parse(time.RFC3339, data[1])
		if err != nil {
			return fmt.Errorf("invalid creation date format, expected RFC3339 date string")
		}
	} else {
		createdAt = time.Now()
		err = h.workflows.UpdateActionData(ctx, workflowId, []string{data[0], createdAt.Format(time.RFC3339)})
		if err != nil {
			return err
		}
	}
	targetDate := createdAt.AddDate(0, 0, daysAhead)
	logger.Info("timer future date configured",
		zap.String("workflowId", workflowId),
		zap.Time("target", targetDate))
	return nil
}

func (h *TimerFutureDateHandler) Delete(ctx context.Context, workflowId string, data []string) error {
	logger.Info("timer future date trigger removed", zap.String("workflowId", workflowId))
	return nil
}

func appendAuditLog(ctx context.Context, logs persistence.LogDao, entry model.LogEntry) {
	if logs == nil {
		return
	}
	if err := logs.Append(ctx, entry); err != nil {
		logger.Error("error writing audit log", zap.Error(err))
	}
}
