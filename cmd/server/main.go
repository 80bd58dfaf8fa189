package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/danielpatrickdp/alien-probe/internal/api"
	"github.com/danielpatrickdp/alien-probe/internal/config"
	"github.com/danielpatrickdp/alien-probe/internal/ending"
	"github.com/danielpatrickdp/alien-probe/internal/logging"
	"github.com/danielpatrickdp/alien-probe/internal/progression"
	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/rpc"
	"github.com/danielpatrickdp/alien-probe/internal/schedule"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// #region main
func main() {
	settings := config.FromEnv()
	logger := settings.Logger()

	game, err := config.LoadOrDefault(settings.GamePath)
	if err != nil {
		log.Fatalf("failed to load game: %v", err)
	}

	store, err := state.NewStore(settings.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	recorder, err := logging.NewDBRecorder(store.DB())
	if err != nil {
		log.Fatalf("failed to open outcome log: %v", err)
	}

	cfg := game.Tuning.Ending
	ctrl := progression.New(game.Catalog, progression.Options{
		Presenter:       &logPresenter{log: logger},
		Loader:          &logPresenter{log: logger},
		Persister:       store,
		Recorder:        recorder,
		Scheduler:       schedule.Real{},
		Logger:          logger,
		Ending:          &cfg,
		TransitionDelay: game.Tuning.TransitionDelay,
	})
	defer ctrl.Close()
	if err := ctrl.Start(); err != nil {
		log.Fatalf("failed to start session: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// gRPC
	lis, err := net.Listen("tcp", settings.GRPCAddr)
	if err != nil {
		log.Fatalf("failed to listen on %s: %v", settings.GRPCAddr, err)
	}
	grpcServer := grpc.NewServer()
	rpc.RegisterProgressionServer(grpcServer, rpc.NewServer(ctrl, logger))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc server stopped", "err", err)
		}
	}()

	// HTTP
	outcomes := func(limit int) ([]logging.OutcomeRecord, error) {
		return logging.ListOutcomes(store.DB(), limit)
	}
	httpServer := &http.Server{
		Addr:              settings.HTTPAddr,
		Handler:           api.NewServer(ctrl, outcomes, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "err", err)
			stop()
		}
	}()

	logger.Info("probe server ready",
		"grpc", settings.GRPCAddr,
		"http", settings.HTTPAddr,
		"db", settings.DBPath,
		"session", recorder.SessionID(),
		"puzzles", game.Catalog.Len(),
	)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "err", err)
	}
	grpcServer.GracefulStop()
	ctrl.Pause()
}

// #endregion main

// #region presenter
// logPresenter turns controller notifications into structured log lines for a
// headless server.
type logPresenter struct {
	progression.NopPresenter
	log *slog.Logger
}

func (p *logPresenter) EndingDetermined(k ending.Kind) {
	p.log.Info("session ended", "ending", k.String())
}

func (p *logPresenter) LoadPuzzle(def puzzle.Definition) {
	p.log.Info("puzzle ready", "puzzle", def.ID, "letters", len([]rune(def.Solution)))
}

// #endregion presenter
