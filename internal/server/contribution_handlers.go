package server

import (
	"net/http"

	"github.com/mmynk/rondo/internal/middleware"
	"github.com/mmynk/rondo/internal/service"
)

func (s *Server) handleListContributions(w http.ResponseWriter, r *http.Request) {
	views, err := s.contributions.ListForRound(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contributions": views})
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	view, err := s.contributions.MarkPaid(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUploadProof(w http.ResponseWriter, r *http.Request) {
	var in service.SubmitProofInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	proof, err := s.proofs.Submit(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, proof)
}

func (s *Server) handleCurrentProof(w http.ResponseWriter, r *http.Request) {
	proof, err := s.proofs.Current(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if proof == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no proof submitted"})
		return
	}
	writeJSON(w, http.StatusOK, proof)
}

func (s *Server) handleApproveProof(w http.ResponseWriter, r *http.Request) {
	proof, err := s.proofs.Approve(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proof)
}

func (s *Server) handleRejectProof(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Reason string `json:"reason"`
	}
	if err := readJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	proof, err := s.proofs.Reject(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), in.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proof)
}
