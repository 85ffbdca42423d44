package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/rondo/internal/auth"
	"github.com/mmynk/rondo/internal/middleware"
	"github.com/mmynk/rondo/internal/service"
)

// Server holds the service dependencies behind the HTTP surface.
type Server struct {
	auth          *service.AuthService
	rounds        *service.RoundService
	contributions *service.ContributionService
	proofs        *service.ProofService
	invites       *service.InviteService
	jwt           *auth.JWTManager
}

// New creates a Server over the given services.
func New(
	authSvc *service.AuthService,
	rounds *service.RoundService,
	contributions *service.ContributionService,
	proofs *service.ProofService,
	invites *service.InviteService,
	jwt *auth.JWTManager,
) *Server {
	return &Server{
		auth:          authSvc,
		rounds:        rounds,
		contributions: contributions,
		proofs:        proofs,
		invites:       invites,
		jwt:           jwt,
	}
}

// Routes registers every endpoint on a new mux. Authenticated routes are
// wrapped per-route so the public ones (auth, invite preview, health,
// metrics) stay open.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	authed := middleware.RequireAuth(s.jwt)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.Handle("POST /api/rounds", authed(http.HandlerFunc(s.handleCreateRound)))
	mux.Handle("GET /api/rounds", authed(http.HandlerFunc(s.handleListRounds)))
	mux.Handle("GET /api/rounds/{id}", authed(http.HandlerFunc(s.handleGetRound)))
	mux.Handle("GET /api/rounds/{id}/overview", authed(http.HandlerFunc(s.handleOverview)))
	mux.Handle("GET /api/rounds/{id}/contributions", authed(http.HandlerFunc(s.handleListContributions)))
	mux.Handle("GET /api/rounds/{id}/payouts", authed(http.HandlerFunc(s.handleListPayouts)))
	mux.Handle("GET /api/rounds/{id}/timeline", authed(http.HandlerFunc(s.handleTimeline)))
	mux.Handle("POST /api/rounds/{id}/archive", authed(http.HandlerFunc(s.handleArchiveRound)))
	mux.Handle("POST /api/rounds/{id}/invites", authed(http.HandlerFunc(s.handleCreateInviteLink)))

	mux.Handle("GET /api/calendar", authed(http.HandlerFunc(s.handleCalendar)))
	mux.Handle("GET /api/dashboard", authed(http.HandlerFunc(s.handleDashboard)))

	mux.Handle("POST /api/contributions/{id}/mark-paid", authed(http.HandlerFunc(s.handleMarkPaid)))
	mux.Handle("POST /api/contributions/{id}/upload-proof", authed(http.HandlerFunc(s.handleUploadProof)))
	mux.Handle("GET /api/contributions/{id}/proof", authed(http.HandlerFunc(s.handleCurrentProof)))

	mux.Handle("POST /api/payment-proofs/{id}/approve", authed(http.HandlerFunc(s.handleApproveProof)))
	mux.Handle("POST /api/payment-proofs/{id}/reject", authed(http.HandlerFunc(s.handleRejectProof)))
	mux.Handle("POST /api/payouts/{id}/complete", authed(http.HandlerFunc(s.handleCompletePayout)))

	// Share-link routes live outside /api: the code is the whole URL an
	// invitee receives. They also must not sit under /api/rounds, where
	// the {id} wildcard patterns would conflict with the literal
	// preview/join segments.
	mux.HandleFunc("GET /rounds/preview/{code}", s.handlePreviewInvite)
	mux.Handle("POST /rounds/join/{code}", authed(http.HandlerFunc(s.handleJoinRound)))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}
