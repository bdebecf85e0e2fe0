package postgres

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/stretchr/testify/require"
)

var workflowColumns = []string{"id", "user_id", "name", "description", "action_id", "action_data", "reaction_id", "reaction_data", "created_at"}

func workflowRow(wf model.Workflow) *sqlmock.Rows {
	return sqlmock.NewRows(workflowColumns).AddRow(
		wf.Id, wf.UserId, wf.Name, wf.Description, wf.ActionId,
		[]byte(`["golang"]`), wf.ReactionId, []byte(`["chan","msg"]`), wf.CreatedAt,
	)
}

func TestWorkflowDaoSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec("insert into workflows").
		WithArgs("wf-1", "u1", "name", "desc", 6, []byte(`["golang"]`), 1, []byte(`["chan","msg"]`), createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dao := NewWorkflowDao(db)
	err = dao.Save(context.Background(), model.Workflow{
		Id: "wf-1", UserId: "u1", Name: "name", Description: "desc",
		ActionId: 6, ActionData: []string{"golang"},
		ReactionId: 1, ReactionData: []string{"chan", "msg"},
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowDaoGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	wf := model.Workflow{Id: "wf-1", UserId: "u1", Name: "n", ActionId: 6, ReactionId: 1, CreatedAt: time.Now()}
	mock.ExpectQuery("select (.+) from workflows where id=").
		WithArgs("wf-1").
		WillReturnRows(workflowRow(wf))

	dao := NewWorkflowDao(db)
	got, err := dao.Get(context.Background(), "wf-1")
	require.NoError(t, err)
	require.Equal(t, "wf-1", got.Id)
	require.Equal(t, []string{"golang"}, got.ActionData)
	require.Equal(t, []string{"chan", "msg"}, got.ReactionData)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowDaoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("select (.+) from workflows where id=").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(workflowColumns))

	dao := NewWorkflowDao(db)
	_, err = dao.Get(context.Background(), "missing")
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestWorkflowDaoFindByActionIds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	wf := model.Workflow{Id: "wf-1", UserId: "u1", ActionId: 2, ReactionId: 1, CreatedAt: time.Now()}
	mock.ExpectQuery(`select (.+) from workflows where action_id in \(\$1,\$2,\$3\)`).
		WithArgs(2, 3, 4).
		WillReturnRows(workflowRow(wf))

	dao := NewWorkflowDao(db)
	got, err := dao.FindByActionIds(context.Background(), 2, 3, 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowDaoFindByActionIdsEmpty(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dao := NewWorkflowDao(db)
	got, err := dao.FindByActionIds(context.Background())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestWorkflowDaoUpdateActionData(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("update workflows set action_data=").
		WithArgs("wf-1", []byte(`["7","2025-01-01T12:00:00Z"]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dao := NewWorkflowDao(db)
	err = dao.UpdateActionData(context.Background(), "wf-1", []string{"7", "2025-01-01T12:00:00Z"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowDaoDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("delete from workflows where id=").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	dao := NewWorkflowDao(db)
	err = dao.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestUserServiceDaoFindFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("select user_id, service_id, token, refresh_token").
		WithArgs("u1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "service_id", "token", "refresh_token"}).
			AddRow("u1", 3, "tok", "refresh"))

	dao := NewUserServiceDao(db)
	us, err := dao.FindFirst(context.Background(), "u1", 3)
	require.NoError(t, err)
	require.Equal(t, "tok", us.Token)
	require.Equal(t, "refresh", us.RefreshToken)
}

func TestUserServiceDaoFindFirstNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("select user_id, service_id, token, refresh_token").
		WithArgs("u1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "service_id", "token", "refresh_token"}))

	dao := NewUserServiceDao(db)
	_, err = dao.FindFirst(context.Background(), "u1", 3)
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestLogDaoAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("insert into logs").
		WithArgs("info", "msg", "Timer Worker", []byte(`{"workflowId":"wf-1"}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	dao := NewLogDao(db)
	err = dao.Append(context.Background(), model.LogEntry{
		Level:    "info",
		Message:  "msg",
		Context:  "Timer Worker",
		Metadata: map[string]any{"workflowId": "wf-1"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
