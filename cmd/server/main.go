package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/rondo/internal/auth"
	"github.com/mmynk/rondo/internal/config"
	"github.com/mmynk/rondo/internal/middleware"
	"github.com/mmynk/rondo/internal/notify"
	"github.com/mmynk/rondo/internal/server"
	"github.com/mmynk/rondo/internal/service"
	"github.com/mmynk/rondo/internal/storage/sqlite"
	"github.com/mmynk/rondo/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	recorder := notify.NewRecorder(store)
	notifier := notify.LogNotifier{}

	rounds := service.NewRoundService(store, recorder, notifier)
	contributions := service.NewContributionService(store, rounds, recorder, notifier)
	proofs := service.NewProofService(store, recorder, notifier)
	invites := service.NewInviteService(store, recorder, notifier)
	authSvc := service.NewAuthService(authenticator, jwtManager)

	mux := server.New(authSvc, rounds, contributions, proofs, invites, jwtManager).Routes()
	handler := middleware.Logging(middleware.Metrics(mux)(mux))

	// h2c lets gRPC-style and plain HTTP/2 clients connect without TLS.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
