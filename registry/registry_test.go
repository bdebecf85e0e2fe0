package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type noopActionHandler struct{}

func (noopActionHandler) Create(ctx context.Context, workflowId string, data []string) error {
	return nil
}

func (noopActionHandler) Delete(ctx context.Context, workflowId string, data []string) error {
	return nil
}

func TestRegistry(t *testing.T) {
	for scenario, fn := range map[string]func(
		t *testing.T, reg *Registry,
	){
		"test register and lookup action":    testRegisterAction,
		"test duplicate action rejected":     testDuplicateAction,
		"test register and lookup reaction":  testRegisterReaction,
		"test duplicate reaction rejected":   testDuplicateReaction,
		"test lookup of unregistered ids":    testUnknownIds,
		"test reaction func adapter invoked": testReactionFunc,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, New())
		})
	}
}

func testRegisterAction(t *testing.T, reg *Registry) {
	err := reg.RegisterAction(1, noopActionHandler{})
	require.NoError(t, err)

	handler, ok := reg.Action(1)
	require.True(t, ok)
	require.NotNil(t, handler)
}

func testDuplicateAction(t *testing.T, reg *Registry) {
	require.NoError(t, reg.RegisterAction(1, noopActionHandler{}))
	err := reg.RegisterAction(1, noopActionHandler{})
	require.Error(t, err)
}

func testRegisterReaction(t *testing.T, reg *Registry) {
	err := reg.RegisterReaction(2, ReactionFunc(func(ctx context.Context, userId string, data []string) error {
		return nil
	}))
	require.NoError(t, err)

	handler, ok := reg.Reaction(2)
	require.True(t, ok)
	require.NotNil(t, handler)
}

func testDuplicateReaction(t *testing.T, reg *Registry) {
	fn := ReactionFunc(func(ctx context.Context, userId string, data []string) error { return nil })
	require.NoError(t, reg.RegisterReaction(2, fn))
	require.Error(t, reg.RegisterReaction(2, fn))
}

func testUnknownIds(t *testing.T, reg *Registry) {
	_, ok := reg.Action(99)
	require.False(t, ok)
	_, ok = reg.Reaction(99)
	require.False(t, ok)
}

func testReactionFunc(t *testing.T, reg *Registry) {
	wantErr := errors.New("boom")
	var gotUserId string
	var gotData []string
	fn := ReactionFunc(func(ctx context.Context, userId string, data []string) error {
		gotUserId = userId
		gotData = data
		return wantErr
	})
	require.NoError(t, reg.RegisterReaction(3, fn))

	handler, ok := reg.Reaction(3)
	require.True(t, ok)
	err := handler.Execute(context.Background(), "user-1", []string{"a", "b"})
	require.Equal(t, wantErr, err)
	require.Equal(t, "user-1", gotUserId)
	require.Equal(t, []string{"a", "b"}, gotData)
}
