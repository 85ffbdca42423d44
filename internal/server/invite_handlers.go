package server

import (
	"net/http"

	"github.com/mmynk/rondo/internal/middleware"
	"github.com/mmynk/rondo/internal/service"
)

func (s *Server) handlePreviewInvite(w http.ResponseWriter, r *http.Request) {
	preview, err := s.invites.Preview(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (s *Server) handleJoinRound(w http.ResponseWriter, r *http.Request) {
	member, err := s.invites.Redeem(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"round_id":        member.RoundID,
		"payout_position": member.PayoutPosition,
	})
}

func (s *Server) handleCreateInviteLink(w http.ResponseWriter, r *http.Request) {
	var in service.CreateLinkInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	invite, err := s.invites.CreateLink(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invite)
}
