package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chad-area/area/model"
	"github.com/chad-area/area/provider/reddit"
	"github.com/chad-area/area/registry"
	"github.com/stretchr/testify/require"
)

type fakeRedditAPI struct {
	posts []reddit.Post
	err   error
}

func (f *fakeRedditAPI) NewPosts(ctx context.Context, token, subreddit string, limit int) ([]reddit.Post, error) {
	return f.posts, f.err
}

func redditFixture(t *testing.T, api *fakeRedditAPI) (*RedditWorker, *fakeCursorStore, *recordingReaction, *fakeLogDao) {
	t.Helper()
	dao := &fakeWorkflowDao{workflows: []model.Workflow{
		{Id: "wf-1", UserId: "u1", ActionId: model.ACTION_REDDIT_NEW_POST,
			ActionData: []string{"golang"}, ReactionId: model.REACTION_DISCORD_MESSAGE,
			ReactionData: []string{"chan-1", "new post!"}},
	}}
	users := &fakeUserServiceDao{grants: map[int]*model.UserService{
		model.SERVICE_REDDIT: {UserId: "u1", ServiceId: model.SERVICE_REDDIT, Token: "tok"},
	}}
	logs := &fakeLogDao{}
	cursors := newFakeCursorStore()
	reg := registry.New()
	executor := &recordingReaction{}
	require.NoError(t, reg.RegisterReaction(model.REACTION_DISCORD_MESSAGE, executor))

	var wg sync.WaitGroup
	w := NewRedditWorker(dao, users, logs, cursors, api, reg, &wg)
	return w, cursors, executor, logs
}

func recentPost(id string) reddit.Post {
	return reddit.Post{
		Id:          id,
		Title:       "Go 1.25 released",
		Author:      "gopher",
		Subreddit:   "golang",
		CreatedUTC:  float64(time.Now().Unix()),
		Permalink:   "/r/golang/comments/abc/go_125_released/",
		Score:       128,
		NumComments: 42,
	}
}

func TestRedditColdStartPrimesCursor(t *testing.T) {
	old := recentPost("t3_old")
	old.CreatedUTC = float64(time.Now().Add(-time.Hour).Unix())
	w, cursors, executor, _ := redditFixture(t, &fakeRedditAPI{posts: []reddit.Post{old}})

	w.run()

	require.Equal(t, 0, executor.callCount())
	require.Equal(t, "t3_old", cursors.cursors["wf-1"])
}

func TestRedditNewPostTriggersAndAdvancesCursor(t *testing.T) {
	w, cursors, executor, logs := redditFixture(t, &fakeRedditAPI{posts: []reddit.Post{recentPost("t3_new")}})
	cursors.cursors["wf-1"] = "t3_old"

	w.run()

	require.Equal(t, 1, executor.callCount())
	require.Equal(t, "t3_new", cursors.cursors["wf-1"])

	data := executor.lastCall()
	require.Equal(t, "chan-1", data[0])
	require.Equal(t, "new post!", data[1])
	require.Contains(t, data, "Title: Go 1.25 released")
	require.Contains(t, data, "Author: u/gopher")
	require.Contains(t, data, "Subreddit: r/golang")
	require.Contains(t, data, "URL: https://reddit.com/r/golang/comments/abc/go_125_released/")
	require.Contains(t, data, "Score: 128")
	require.Contains(t, data, "Comments: 42")

	require.Len(t, logs.byLevel("info"), 1)
}

func TestRedditUnchangedCursorDoesNothing(t *testing.T) {
	w, cursors, executor, _ := redditFixture(t, &fakeRedditAPI{posts: []reddit.Post{recentPost("t3_same")}})
	cursors.cursors["wf-1"] = "t3_same"

	w.run()

	require.Equal(t, 0, executor.callCount())
}

func TestRedditExecuteErrorKeepsCursor(t *testing.T) {
	w, cursors, executor, logs := redditFixture(t, &fakeRedditAPI{posts: []reddit.Post{recentPost("t3_new")}})
	cursors.cursors["wf-1"] = "t3_old"
	executor.err = errors.New("discord down")

	w.run()

	// cursor stays put so the event retries next cycle
	require.Equal(t, "t3_old", cursors.cursors["wf-1"])
	require.NotEmpty(t, logs.byLevel("error"))
}

func TestRedditFetchErrorLoggedAndIsolated(t *testing.T) {
	w, cursors, executor, logs := redditFixture(t, &fakeRedditAPI{err: errors.New("reddit 503")})
	cursors.cursors["wf-1"] = "t3_old"

	w.run()

	require.Equal(t, 0, executor.callCount())
	require.Equal(t, "t3_old", cursors.cursors["wf-1"])
	require.NotEmpty(t, logs.byLevel("error"))
}

func TestRedditMissingTokenSkipsWorkflow(t *testing.T) {
	w, _, executor, logs := redditFixture(t, &fakeRedditAPI{posts: []reddit.Post{recentPost("t3_new")}})
	w.userServices = &fakeUserServiceDao{grants: map[int]*model.UserService{}}

	w.run()

	require.Equal(t, 0, executor.callCount())
	require.Empty(t, logs.byLevel("error"))
}
