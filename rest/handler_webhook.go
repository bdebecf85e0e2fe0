package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/gorilla/mux"
	"github.com/oliveagle/jsonpath"
	"go.uber.org/zap"
)

// HandleGithubWebhook receives a provider push event and acknowledges it
// immediately; the reaction runs in the background so GitHub never sees our
// downstream latency or failures.
func (s *Server) HandleGithubWebhook(w http.ResponseWriter, r *http.Request) {
	workflowId := mux.Vars(r)["id"]
	event := r.Header.Get("X-GitHub-Event")
	logger.Info("github webhook received",
		zap.String("workflowId", workflowId),
		zap.String("event", event))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "error reading body")
		return
	}

	wf, err := s.workflows.Get(r.Context(), workflowId)
	if errors.Is(err, persistence.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "workflow not found")
		return
	}
	if err != nil {
		logger.Error("error fetching workflow", zap.String("workflowId", workflowId), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error fetching workflow")
		return
	}

	// Ping events arrive right after hook creation; acknowledge and ignore.
	if event != "" && event != "push" {
		respondOK(w, map[string]any{"received": true})
		return
	}

	push := parsePushEvent(body)
	respondOK(w, map[string]any{"received": true})

	go s.dispatchGithubReaction(context.Background(), *wf, push)
}

type pushEvent struct {
	Pusher     string
	Repository string
	Message    string
}

// parsePushEvent pulls the fields we enrich and audit with out of the raw
// payload. Anything missing stays empty; a malformed payload still triggers
// the reaction.
func parsePushEvent(body []byte) pushEvent {
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return pushEvent{}
	}
	var push pushEvent
	if v, err := jsonpath.JsonPathLookup(payload, "$.pusher.name"); err == nil {
		if s, ok := v.(string); ok {
			push.Pusher = s
		}
	}
	if v, err := jsonpath.JsonPathLookup(payload, "$.repository.full_name"); err == nil {
		if s, ok := v.(string); ok {
			push.Repository = s
		}
	}
	if v, err := jsonpath.JsonPathLookup(payload, "$.head_commit.message"); err == nil {
		if s, ok := v.(string); ok {
			push.Message = s
		}
	}
	return push
}

func (s *Server) dispatchGithubReaction(ctx context.Context, wf model.Workflow, push pushEvent) {
	handler, ok := s.registry.Reaction(wf.ReactionId)
	if !ok {
		logger.Error("no reaction handler registered", zap.Int("reactionId", wf.ReactionId), zap.String("workflowId", wf.Id))
		return
	}
	enriched := append([]string{}, wf.ReactionData...)
	if push.Pusher != "" {
		enriched = append(enriched, fmt.Sprintf("Pusher: %s", push.Pusher))
	}
	if push.Repository != "" {
		enriched = append(enriched, fmt.Sprintf("Repository: %s", push.Repository))
	}
	if push.Message != "" {
		enriched = append(enriched, fmt.Sprintf("Commit: %s", push.Message))
	}
	if err := handler.Execute(ctx, wf.UserId, enriched); err != nil {
		logger.Error("error executing github workflow", zap.String("workflowId", wf.Id), zap.Error(err))
		s.audit(ctx, model.LogEntry{
			Level:   "error",
			Message: fmt.Sprintf("GitHub workflow %s failed: %v", wf.Id, err),
			Context: "GitHub Webhook",
			Metadata: map[string]any{
				"workflowId": wf.Id,
				"error":      err.Error(),
			},
		})
		return
	}
	s.audit(ctx, model.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("GitHub workflow %s triggered: push to %s", wf.Id, push.Repository),
		Context: "GitHub Webhook",
		Metadata: map[string]any{
			"workflowId": wf.Id,
			"userId":     wf.UserId,
			"pusher":     push.Pusher,
			"repository": push.Repository,
			"commit":     push.Message,
		},
	})
	logger.Info("github workflow triggered", zap.String("workflowId", wf.Id))
}

func (s *Server) audit(ctx context.Context, entry model.LogEntry) {
	if s.logs == nil {
		return
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		logger.Error("error writing audit log", zap.Error(err))
	}
}
