package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/shinyyama/overbid-backend/internal/config"
	"github.com/shinyyama/overbid-backend/internal/db"
	"github.com/shinyyama/overbid-backend/internal/logging"
	"github.com/shinyyama/overbid-backend/internal/server"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := logging.Configure(cfg.LogLevel); err != nil {
		log.Warnf("log level: %v", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	srv, err := server.New(cfg, conn)
	if err != nil {
		log.Fatalf("server init error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("starting server on %s collection=%s driver=%s", addr, srv.Deployment().Address, cfg.DBDriver)
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped")
}
