package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/chad-area/area/model"
)

var ErrNotFound = errors.New("not found")

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

type WorkflowDao interface {
	Save(ctx context.Context, wf model.Workflow) error
	Get(ctx context.Context, id string) (*model.Workflow, error)
	FindByUser(ctx context.Context, userId string) ([]model.Workflow, error)
	FindByActionIds(ctx context.Context, actionIds ...int) ([]model.Workflow, error)
	UpdateActionData(ctx context.Context, id string, actionData []string) error
	Delete(ctx context.Context, id string) error
}

type UserServiceDao interface {
	// FindFirst returns the first grant for (userId, serviceId) or
	// ErrNotFound. Duplicate rows are tolerated; ordering by insertion makes
	// the returned token deterministic.
	FindFirst(ctx context.Context, userId string, serviceId int) (*model.UserService, error)
}

type LogDao interface {
	Append(ctx context.Context, entry model.LogEntry) error
}

// CursorStore keeps the last seen external item id per polling workflow,
// separate from user supplied action configuration. A lost cursor only
// re-primes the workflow through the cold start guard.
type CursorStore interface {
	Get(ctx context.Context, workflowId string) (string, error)
	Set(ctx context.Context, workflowId string, cursor string) error
	Delete(ctx context.Context, workflowId string) error
}
