package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/chad-area/area/persistence"
	rd "github.com/go-redis/redis/v9"
)

const CURSOR_PREFIX string = "CURSOR"

type Config struct {
	Addrs     []string
	Namespace string
}

var _ persistence.CursorStore = new(CursorStore)

type CursorStore struct {
	redisClient rd.UniversalClient
	namespace   string
}

func NewCursorStore(conf Config) *CursorStore {
	redisClient := rd.NewUniversalClient(&rd.UniversalOptions{
		Addrs: conf.Addrs,
	})
	return &CursorStore{
		redisClient: redisClient,
		namespace:   conf.Namespace,
	}
}

func (cs *CursorStore) getNamespaceKey(args ...string) string {
	return fmt.Sprintf("%s:%s", cs.namespace, strings.Join(args, ":"))
}

// Get returns the empty string when no cursor has been recorded yet, which
// the workers treat as a cold start.
func (cs *CursorStore) Get(ctx context.Context, workflowId string) (string, error) {
	key := cs.getNamespaceKey(CURSOR_PREFIX, workflowId)
	val, err := cs.redisClient.Get(ctx, key).Result()
	if err == rd.Nil {
		return "", nil
	}
	if err != nil {
		return "", persistence.StorageLayerError{Message: err.Error()}
	}
	return val, nil
}

func (cs *CursorStore) Set(ctx context.Context, workflowId string, cursor string) error {
	key := cs.getNamespaceKey(CURSOR_PREFIX, workflowId)
	err := cs.redisClient.Set(ctx, key, cursor, 0).Err()
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (cs *CursorStore) Delete(ctx context.Context, workflowId string) error {
	key := cs.getNamespaceKey(CURSOR_PREFIX, workflowId)
	err := cs.redisClient.Del(ctx, key).Err()
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (cs *CursorStore) Close() error {
	return cs.redisClient.Close()
}
