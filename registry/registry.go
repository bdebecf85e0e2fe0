package registry

import (
	"context"
	"fmt"
	"sync"
)

// ActionHandler provisions and tears down the trigger side of a workflow.
// Create is invoked after the workflow row is persisted; Delete is invoked
// before the row is removed, so handlers may still read the workflow.
type ActionHandler interface {
	Create(ctx context.Context, workflowId string, data []string) error
	Delete(ctx context.Context, workflowId string, data []string) error
}

// ReactionHandler performs one externally visible side effect.
type ReactionHandler interface {
	Execute(ctx context.Context, userId string, data []string) error
}

// ReactionFunc adapts a plain function to a ReactionHandler.
type ReactionFunc func(ctx context.Context, userId string, data []string) error

func (f ReactionFunc) Execute(ctx context.Context, userId string, data []string) error {
	return f(ctx, userId, data)
}

// Registry is the id keyed dispatch table for actions and reactions. It is
// built once at process start by each integration registering its handlers,
// then consulted concurrently by the lifecycle manager, the polling workers
// and the inbound webhook receiver.
type Registry struct {
	mu        sync.RWMutex
	actions   map[int]ActionHandler
	reactions map[int]ReactionHandler
}

func New() *Registry {
	return &Registry{
		actions:   make(map[int]ActionHandler),
		reactions: make(map[int]ReactionHandler),
	}
}

func (r *Registry) RegisterAction(actionId int, handler ActionHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.actions[actionId]; ok {
		return fmt.Errorf("action handler already registered for actionId %d", actionId)
	}
	r.actions[actionId] = handler
	return nil
}

func (r *Registry) RegisterReaction(reactionId int, handler ReactionHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reactions[reactionId]; ok {
		return fmt.Errorf("reaction handler already registered for reactionId %d", reactionId)
	}
	r.reactions[reactionId] = handler
	return nil
}

func (r *Registry) Action(actionId int) (ActionHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.actions[actionId]
	return handler, ok
}

func (r *Registry) Reaction(reactionId int) (ReactionHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.reactions[reactionId]
	return handler, ok
}
