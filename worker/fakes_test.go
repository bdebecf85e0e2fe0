package worker

import (
	"context"
	"sync"

	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
)

type fakeWorkflowDao struct {
	workflows []model.Workflow
	findErr   error
}

func (f *fakeWorkflowDao) Save(ctx context.Context, wf model.Workflow) error { return nil }

func (f *fakeWorkflowDao) Get(ctx context.Context, id string) (*model.Workflow, error) {
	for i := range f.workflows {
		if f.workflows[i].Id == id {
			return &f.workflows[i], nil
		}
	}
	return nil, persistence.ErrNotFound
}

func (f *fakeWorkflowDao) FindByUser(ctx context.Context, userId string) ([]model.Workflow, error) {
	return nil, nil
}

func (f *fakeWorkflowDao) FindByActionIds(ctx context.Context, actionIds ...int) ([]model.Workflow, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []model.Workflow
	for _, wf := range f.workflows {
		for _, id := range actionIds {
			if wf.ActionId == id {
				out = append(out, wf)
			}
		}
	}
	return out, nil
}

func (f *fakeWorkflowDao) UpdateActionData(ctx context.Context, id string, actionData []string) error {
	return nil
}

func (f *fakeWorkflowDao) Delete(ctx context.Context, id string) error { return nil }

type fakeUserServiceDao struct {
	grants map[int]*model.UserService
}

func (f *fakeUserServiceDao) FindFirst(ctx context.Context, userId string, serviceId int) (*model.UserService, error) {
	if us, ok := f.grants[serviceId]; ok {
		return us, nil
	}
	return nil, persistence.ErrNotFound
}

type fakeLogDao struct {
	mu      sync.Mutex
	entries []model.LogEntry
}

func (f *fakeLogDao) Append(ctx context.Context, entry model.LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLogDao) byLevel(level string) []model.LogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.LogEntry
	for _, e := range f.entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

type fakeCursorStore struct {
	cursors map[string]string
}

func newFakeCursorStore() *fakeCursorStore {
	return &fakeCursorStore{cursors: make(map[string]string)}
}

func (f *fakeCursorStore) Get(ctx context.Context, workflowId string) (string, error) {
	return f.cursors[workflowId], nil
}

func (f *fakeCursorStore) Set(ctx context.Context, workflowId string, cursor string) error {
	f.cursors[workflowId] = cursor
	return nil
}

func (f *fakeCursorStore) Delete(ctx context.Context, workflowId string) error {
	delete(f.cursors, workflowId)
	return nil
}

type recordingReaction struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (r *recordingReaction) Execute(ctx context.Context, userId string, data []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, data)
	return r.err
}

func (r *recordingReaction) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recordingReaction) lastCall() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}
