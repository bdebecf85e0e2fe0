package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
)

var _ persistence.WorkflowDao = new(WorkflowDao)

type WorkflowDao struct {
	db *sql.DB
}

func NewWorkflowDao(db *sql.DB) *WorkflowDao {
	return &WorkflowDao{db: db}
}

func (d *WorkflowDao) Save(ctx context.Context, wf model.Workflow) error {
	actionData, err := json.Marshal(wf.ActionData)
	if err != nil {
		return err
	}
	reactionData, err := json.Marshal(wf.ReactionData)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, `
		insert into workflows(id, user_id, name, description, action_id, action_data, reaction_id, reaction_data, created_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, wf.Id, wf.UserId, wf.Name, wf.Description, wf.ActionId, actionData, wf.ReactionId, reactionData, wf.CreatedAt)
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (d *WorkflowDao) Get(ctx context.Context, id string) (*model.Workflow, error) {
	row := d.db.QueryRowContext(ctx, `
		select id, user_id, name, description, action_id, action_data, reaction_id, reaction_data, created_at
		from workflows where id=$1
	`, id)
	wf, err := scanWorkflow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return wf, nil
}

func (d *WorkflowDao) FindByUser(ctx context.Context, userId string) ([]model.Workflow, error) {
	rows, err := d.db.QueryContext(ctx, `
		select id, user_id, name, description, action_id, action_data, reaction_id, reaction_data, created_at
		from workflows where user_id=$1 order by created_at
	`, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkflows(rows)
}

func (d *WorkflowDao) FindByActionIds(ctx context.Context, actionIds ...int) ([]model.Workflow, error) {
	if len(actionIds) == 0 {
		return nil, nil
	}
	placeholders := make([]string, 0, len(actionIds))
	args := make([]any, 0, len(actionIds))
	for i, id := range actionIds {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}
	query := fmt.Sprintf(`
		select id, user_id, name, description, action_id, action_data, reaction_id, reaction_data, created_at
		from workflows where action_id in (%s) order by created_at
	`, strings.Join(placeholders, ","))
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkflows(rows)
}

func (d *WorkflowDao) UpdateActionData(ctx context.Context, id string, actionData []string) error {
	data, err := json.Marshal(actionData)
	if err != nil {
		return err
	}
	res, err := d.db.ExecContext(ctx, `update workflows set action_data=$2 where id=$1`, id, data)
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (d *WorkflowDao) Delete(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `delete from workflows where id=$1`, id)
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*model.Workflow, error) {
	var wf model.Workflow
	var description sql.NullString
	var actionData, reactionData []byte
	err := row.Scan(&wf.Id, &wf.UserId, &wf.Name, &description, &wf.ActionId, &actionData, &wf.ReactionId, &reactionData, &wf.CreatedAt)
	if err != nil {
		return nil, err
	}
	wf.Description = description.String
	if err := json.Unmarshal(actionData, &wf.ActionData); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reactionData, &wf.ReactionData); err != nil {
		return nil, err
	}
	return &wf, nil
}

func collectWorkflows(rows *sql.Rows) ([]model.Workflow, error) {
	var workflows []model.Workflow
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, *wf)
	}
	return workflows, rows.Err()
}
