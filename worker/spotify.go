package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/chad-area/area/provider/spotify"
	"github.com/chad-area/area/registry"
	"go.uber.org/zap"
)

const spotifyPollInterval = 120 * time.Second

const spotifyGraceWindow = 5 * time.Minute

type spotifyAPI interface {
	SavedTracks(ctx context.Context, token string, limit int) ([]spotify.Track, error)
}

type SpotifyWorker struct {
	workflows    persistence.WorkflowDao
	userServices persistence.UserServiceDao
	logs         persistence.LogDao
	cursors      persistence.CursorStore
	client       spotifyAPI
	registry     *registry.Registry
	poller       *PollWorker
	wg           *sync.WaitGroup
	now          func() time.Time
}

func NewSpotifyWorker(workflows persistence.WorkflowDao, userServices persistence.UserServiceDao, logs persistence.LogDao, cursors persistence.CursorStore, client spotifyAPI, reg *registry.Registry, wg *sync.WaitGroup) *SpotifyWorker {
	return &SpotifyWorker{
		workflows:    workflows,
		userServices: userServices,
		logs:         logs,
		cursors:      cursors,
		client:       client,
		registry:     reg,
		wg:           wg,
		now:          time.Now,
	}
}

func (w *SpotifyWorker) Start() {
	w.poller = NewPollWorker("spotify-worker", spotifyPollInterval, w.run, w.wg)
	w.poller.Start()
}

func (w *SpotifyWorker) Stop() {
	w.poller.Stop()
}

func (w *SpotifyWorker) run() {
	ctx := context.Background()
	workflows, err := w.workflows.FindByActionIds(ctx, model.ACTION_SPOTIFY_TRACK_SAVED)
	if err != nil {
		logger.Error("error listing spotify workflows", zap.Error(err))
		appendAuditLog(ctx, w.logs, model.LogEntry{
			Level:    "error",
			Message:  fmt.Sprintf("Spotify Worker error: %v", err),
			Context:  "Spotify Worker",
			Metadata: map[string]any{"error": err.Error()},
		})
		return
	}
	if len(workflows) == 0 {
		return
	}
	logger.Info("checking spotify workflows", zap.Int("count", len(workflows)))
	for _, wf := range workflows {
		if err := w.checkWorkflow(ctx, wf); err != nil {
			logger.Error("error checking spotify workflow", zap.String("workflowId", wf.Id), zap.Error(err))
			appendAuditLog(ctx, w.logs, model.LogEntry{
				Level:   "error",
				Message: fmt.Sprintf("Spotify Worker error for workflow %s: %v", wf.Id, err),
				Context: "Spotify Worker",
				Metadata: map[string]any{
					"workflowId": wf.Id,
					"error":      err.Error(),
				},
			})
		}
	}
}

func (w *SpotifyWorker) checkWorkflow(ctx context.Context, wf model.Workflow) error {
	us, err := w.userServices.FindFirst(ctx, wf.UserId, model.SERVICE_SPOTIFY)
	if errors.Is(err, persistence.ErrNotFound) || (err == nil && us.Token == "") {
		logger.Warn("user has no spotify token, skipping workflow",
			zap.String("userId", wf.UserId), zap.String("workflowId", wf.Id))
		return nil
	}
	if err != nil {
		return err
	}

	tracks, err := w.client.SavedTracks(ctx, us.Token, 1)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return nil
	}
	latest := tracks[0]

	lastKnownId, err := w.cursors.Get(ctx, wf.Id)
	if err != nil {
		return err
	}
	if lastKnownId == latest.Id {
		return nil
	}

	if lastKnownId == "" && w.now().Sub(latest.AddedAt) > spotifyGraceWindow {
		logger.Info("first run for workflow, priming cursor with current track",
			zap.String("workflowId", wf.Id), zap.String("trackId", latest.Id))
		return w.cursors.Set(ctx, wf.Id, latest.Id)
	}

	logger.Info("new saved track detected",
		zap.String("workflowId", wf.Id),
		zap.String("track", latest.Name),
		zap.String("artist", latest.ArtistNames()))

	handler, ok := w.registry.Reaction(wf.ReactionId)
	if !ok {
		logger.Error("no reaction handler registered", zap.Int("reactionId", wf.ReactionId), zap.String("workflowId", wf.Id))
		return nil
	}
	enriched := append(append([]string{}, wf.ReactionData...),
		fmt.Sprintf("Track: %s", latest.Name),
		fmt.Sprintf("Artist: %s", latest.ArtistNames()),
		fmt.Sprintf("Album: %s", latest.Album),
	)
	if err := handler.Execute(ctx, wf.UserId, enriched); err != nil {
		return err
	}
	if err := w.cursors.Set(ctx, wf.Id, latest.Id); err != nil {
		return err
	}
	appendAuditLog(ctx, w.logs, model.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("Spotify workflow %s triggered: saved track %q", wf.Id, latest.Name),
		Context: "Spotify Worker",
		Metadata: map[string]any{
			"workflowId": wf.Id,
			"userId":     wf.UserId,
			"trackId":    latest.Id,
			"trackName":  latest.Name,
			"artist":     latest.ArtistNames(),
			"album":      latest.Album,
		},
	})
	logger.Info("spotify workflow triggered", zap.String("workflowId", wf.Id))
	return nil
}
