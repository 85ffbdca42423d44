package server

import (
	"net/http"

	"github.com/mmynk/rondo/internal/middleware"
	"github.com/mmynk/rondo/internal/service"
	"github.com/mmynk/rondo/internal/storage"
)

func (s *Server) handleCreateRound(w http.ResponseWriter, r *http.Request) {
	var in service.CreateRoundInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	detail, err := s.rounds.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (s *Server) handleListRounds(w http.ResponseWriter, r *http.Request) {
	filter := storage.RoundFilter(r.URL.Query().Get("filter"))
	rounds, err := s.rounds.List(r.Context(), middleware.GetUserID(r.Context()), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rounds": rounds})
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	detail, err := s.rounds.Get(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.rounds.Overview(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	events, err := s.rounds.Timeline(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleArchiveRound(w http.ResponseWriter, r *http.Request) {
	if err := s.rounds.Archive(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	filter := storage.RoundFilter(r.URL.Query().Get("filter"))
	entries, err := s.rounds.Calendar(r.Context(), middleware.GetUserID(r.Context()), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.rounds.Dashboard(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleListPayouts(w http.ResponseWriter, r *http.Request) {
	payouts, err := s.rounds.ListPayouts(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payouts": payouts})
}

func (s *Server) handleCompletePayout(w http.ResponseWriter, r *http.Request) {
	payout, err := s.rounds.CompletePayout(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payout)
}
