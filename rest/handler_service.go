package rest

import (
	"net/http"

	"github.com/chad-area/area/catalog"
)

func (s *Server) HandleListServices(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, catalog.Services())
}

func (s *Server) HandleListActions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, catalog.Actions())
}

func (s *Server) HandleListReactions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, catalog.Reactions())
}
