package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chad-area/area/catalog"
	"github.com/chad-area/area/logger"
	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const userIdHeader = "X-User-Id"

func userIdFrom(r *http.Request) string {
	return r.Header.Get(userIdHeader)
}

func (s *Server) HandleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	userId := userIdFrom(r)
	if userId == "" {
		respondWithError(w, http.StatusUnauthorized, "missing X-User-Id header")
		return
	}
	var req model.WorkflowCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, ok := catalog.GetAction(req.Action.Id); !ok {
		respondWithError(w, http.StatusBadRequest, "unknown action id")
		return
	}
	if _, ok := catalog.GetReaction(req.Reaction.Id); !ok {
		respondWithError(w, http.StatusBadRequest, "unknown reaction id")
		return
	}
	wf, err := s.manager.Create(r.Context(), userId, req.Action, req.Reaction, req.Name, req.Description)
	if err != nil {
		logger.Error("error creating workflow", zap.Error(err))
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, wf)
}

func (s *Server) HandleListWorkflows(w http.ResponseWriter, r *http.Request) {
	userId := userIdFrom(r)
	if userId == "" {
		respondWithError(w, http.StatusUnauthorized, "missing X-User-Id header")
		return
	}
	workflows, err := s.manager.FindByUser(r.Context(), userId)
	if err != nil {
		logger.Error("error listing workflows", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing workflows")
		return
	}
	if workflows == nil {
		workflows = []model.Workflow{}
	}
	respondWithJSON(w, http.StatusOK, workflows)
}

func (s *Server) HandleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	userId := userIdFrom(r)
	if userId == "" {
		respondWithError(w, http.StatusUnauthorized, "missing X-User-Id header")
		return
	}
	workflowId := mux.Vars(r)["id"]
	wf, err := s.manager.Get(r.Context(), workflowId)
	if errors.Is(err, persistence.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "workflow not found")
		return
	}
	if err != nil {
		logger.Error("error fetching workflow", zap.String("workflowId", workflowId), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error fetching workflow")
		return
	}
	if wf.UserId != userId {
		respondWithError(w, http.StatusNotFound, "workflow not found")
		return
	}
	respondWithJSON(w, http.StatusOK, wf)
}

func (s *Server) HandleDeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	userId := userIdFrom(r)
	if userId == "" {
		respondWithError(w, http.StatusUnauthorized, "missing X-User-Id header")
		return
	}
	workflowId := mux.Vars(r)["id"]
	wf, err := s.manager.Get(r.Context(), workflowId)
	if errors.Is(err, persistence.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "workflow not found")
		return
	}
	if err != nil {
		logger.Error("error fetching workflow", zap.String("workflowId", workflowId), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error fetching workflow")
		return
	}
	if wf.UserId != userId {
		respondWithError(w, http.StatusNotFound, "workflow not found")
		return
	}
	if err := s.manager.Delete(r.Context(), workflowId); err != nil {
		logger.Error("error deleting workflow", zap.String("workflowId", workflowId), zap.Error(err))
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondOK(w, map[string]any{"deleted": workflowId})
}
