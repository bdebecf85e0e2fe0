package trigger

import (
	"context"

	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
)

type fakeWorkflowDao struct {
	workflows         map[string]model.Workflow
	updatedActionData map[string][]string
}

func newFakeWorkflowDao(workflows ...model.Workflow) *fakeWorkflowDao {
	d := &fakeWorkflowDao{
		workflows:         make(map[string]model.Workflow),
		updatedActionData: make(map[string][]string),
	}
	for _, wf := range workflows {
		d.workflows[wf.Id] = wf
	}
	return d
}

func (d *fakeWorkflowDao) Save(ctx context.Context, wf model.Workflow) error {
	d.workflows[wf.Id] = wf
	return nil
}

func (d *fakeWorkflowDao) Get(ctx context.Context, id string) (*model.Workflow, error) {
	wf, ok := d.workflows[id]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return &wf, nil
}

func (d *fakeWorkflowDao) FindByUser(ctx context.Context, userId string) ([]model.Workflow, error) {
	return nil, nil
}

func (d *fakeWorkflowDao) FindByActionIds(ctx context.Context, actionIds ...int) ([]model.Workflow, error) {
	return nil, nil
}

func (d *fakeWorkflowDao) UpdateActionData(ctx context.Context, id string, actionData []string) error {
	d.updatedActionData[id] = actionData
	return nil
}

func (d *fakeWorkflowDao) Delete(ctx context.Context, id string) error {
	delete(d.workflows, id)
	return nil
}

type fakeUserServiceDao struct {
	grants map[int]*model.UserService
}

func (d *fakeUserServiceDao) FindFirst(ctx context.Context, userId string, serviceId int) (*model.UserService, error) {
	if us, ok := d.grants[serviceId]; ok {
		return us, nil
	}
	return nil, persistence.ErrNotFound
}

type fakeLogDao struct {
	entries []model.LogEntry
}

func (d *fakeLogDao) Append(ctx context.Context, entry model.LogEntry) error {
	d.entries = append(d.entries, entry)
	return nil
}

type fakeCursorStore struct {
	cursors map[string]string
	deleted []string
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
	f.deleted = append(f.deleted, workflowId)
	return nil
}
