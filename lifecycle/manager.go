package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/chad-area/area/registry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager keeps each workflow's trigger provisioning in lockstep with the
// workflow row. Create is transactional with external provisioning: a failed
// create handler rolls the row back so no workflow ever references a
// provisioning failure.
type Manager struct {
	workflows persistence.WorkflowDao
	logs      persistence.LogDao
	registry  *registry.Registry
}

func NewManager(workflows persistence.WorkflowDao, logs persistence.LogDao, reg *registry.Registry) *Manager {
	return &Manager{
		workflows: workflows,
		logs:      logs,
		registry:  reg,
	}
}

func (m *Manager) Create(ctx context.Context, userId string, action model.Binding, reaction model.Binding, name, description string) (*model.Workflow, error) {
	wf := model.Workflow{
		Id:           uuid.New().String(),
		UserId:       userId,
		Name:         name,
		Description:  description,
		ActionId:     action.Id,
		ActionData:   action.Data,
		ReactionId:   reaction.Id,
		ReactionData: reaction.Data,
		CreatedAt:    time.Now().UTC(),
	}
	if err := m.workflows.Save(ctx, wf); err != nil {
		return nil, err
	}
	handler, ok := m.registry.Action(action.Id)
	if !ok {
		// Invariant violation: every catalog action must be registered.
		m.rollback(ctx, nil, wf.Id, action.Data)
		return nil, fmt.Errorf("no create handler registered for actionId %d", action.Id)
	}
	if err := handler.Create(ctx, wf.Id, action.Data); err != nil {
		m.rollback(ctx, handler, wf.Id, action.Data)
		return nil, fmt.Errorf("failed to create webhook for action %d: %w", action.Id, err)
	}
	logger.Info("workflow created", zap.String("workflowId", wf.Id), zap.Int("actionId", action.Id), zap.Int("reactionId", reaction.Id))
	return &wf, nil
}

// rollback compensates a failed provisioning: best effort teardown, then the
// just inserted row is removed.
func (m *Manager) rollback(ctx context.Context, handler registry.ActionHandler, workflowId string, actionData []string) {
	if handler != nil {
		if err := handler.Delete(ctx, workflowId, actionData); err != nil {
			logger.Error("error in compensating webhook delete", zap.String("workflowId", workflowId), zap.Error(err))
		}
	}
	if err := m.workflows.Delete(ctx, workflowId); err != nil {
		logger.Error("error rolling back workflow row", zap.String("workflowId", workflowId), zap.Error(err))
	}
}

// Delete tears down the trigger before removing the row, so the handler can
// still read the workflow and its relations.
func (m *Manager) Delete(ctx context.Context, workflowId string) error {
	wf, err := m.workflows.Get(ctx, workflowId)
	if err != nil {
		return err
	}
	handler, ok := m.registry.Action(wf.ActionId)
	if !ok {
		return fmt.Errorf("no delete handler registered for actionId %d", wf.ActionId)
	}
	if err := handler.Delete(ctx, workflowId, wf.ActionData); err != nil {
		return err
	}
	if err := m.workflows.Delete(ctx, workflowId); err != nil {
		return err
	}
	logger.Info("workflow deleted", zap.String("workflowId", workflowId))
	return nil
}

func (m *Manager) Get(ctx context.Context, workflowId string) (*model.Workflow, error) {
	return m.workflows.Get(ctx, workflowId)
}

func (m *Manager) FindByUser(ctx context.Context, userId string) ([]model.Workflow, error) {
	return m.workflows.FindByUser(ctx, userId)
}
