package trigger

import (
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/chad-area/area/provider/github"
	"github.com/chad-area/area/provider/reddit"
	"github.com/chad-area/area/provider/slack"
	"github.com/chad-area/area/registry"
)

type Deps struct {
	Workflows    persistence.WorkflowDao
	UserServices persistence.UserServiceDao
	Logs         persistence.LogDao
	Cursors      persistence.CursorStore
	Github       *github.Client
	Reddit       *reddit.Client
	Slack        *slack.Client
	WorkflowURL  string
}

// RegisterAll binds one action handler per catalog action id. Every action
// the catalog exposes must be registered here; the lifecycle manager treats a
// missing handler as an invariant violation.
func RegisterAll(reg *registry.Registry, deps Deps) error {
	handlers := map[int]registry.ActionHandler{
		model.ACTION_GITHUB_PUSH:         NewGithubPushHandler(deps.Workflows, deps.UserServices, deps.Github, deps.WorkflowURL),
		model.ACTION_TIMER_DAILY:         NewTimerDailyHandler(deps.Workflows, deps.Logs),
		model.ACTION_TIMER_DATE:          NewTimerDateHandler(deps.Workflows, deps.Logs),
		model.ACTION_TIMER_FUTURE_DATE:   NewTimerFutureDateHandler(deps.Workflows, deps.Logs),
		model.ACTION_SPOTIFY_TRACK_SAVED: NewSpotifyTrackSavedHandler(deps.Workflows, deps.UserServices, deps.Logs, deps.Cursors),
		model.ACTION_REDDIT_NEW_POST:     NewRedditNewPostHandler(deps.Workflows, deps.UserServices, deps.Logs, deps.Cursors, deps.Reddit),
		model.ACTION_SLACK_NEW_MESSAGE:   NewSlackNewMessageHandler(deps.Workflows, deps.UserServices, deps.Logs, deps.Cursors, deps.Slack),
	}
	for actionId, handler := range handlers {
		if err := reg.RegisterAction(actionId, handler); err != nil {
			return err
		}
	}
	return nil
}
