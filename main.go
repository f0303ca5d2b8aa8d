package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BaselBoulos/la-maison-privee/api/handlers"
	"github.com/BaselBoulos/la-maison-privee/api/scheduler"
	"github.com/BaselBoulos/la-maison-privee/config"
	"github.com/BaselBoulos/la-maison-privee/databases"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err := a.Initialize(initCtx) //initialize database and router
	cancel()
	if err != nil {
		zap.S().Fatalw("failed to initialize", "error", err)
	}

	var s *scheduler.Scheduler
	if a.Config.SchedulerEnabled {
		db := a.DB()
		s = scheduler.NewScheduler(
			databases.NewEventDatabase(db),
			databases.NewMemberDatabase(db),
			databases.NewInvitationCodeDatabase(db),
			databases.NewClubDatabase(db),
			a.Sender,
		)
		s.Start()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", a.Config.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zap.S().Infow("la-maison-privee is up and running",
			"port", a.Config.Port,
			"url", a.Config.BaseURL,
			"env", a.Config.Env,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	zap.S().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if s != nil {
		s.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorw("failed to shut down server", "error", err)
	}
	if err := a.Close(shutdownCtx); err != nil {
		zap.S().Errorw("failed to disconnect from database", "error", err)
	}
	_ = zap.L().Sync()
}
