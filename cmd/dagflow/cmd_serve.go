package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/warriorguo/dagflow"
	"github.com/warriorguo/dagflow/server"
	"github.com/warriorguo/dagflow/types"
)

func runServe(cmd *cobra.Command, args []string) {
	opts := []types.Option{}
	switch storeKind {
	case "postgres":
		opts = append(opts, types.WithPostgresConfig(&types.PostgresConfig{
			Host:     pgHost,
			Port:     pgPort,
			User:     pgUser,
			Password: pgPassword,
			Database: pgDatabase,
			SSLMode:  pgSSLMode,
		}))
	case "badger":
		opts = append(opts, types.WithBadgerConfig(&types.BadgerConfig{
			Path:       badgerPath,
			SyncWrites: true,
		}))
	case "mem":
		opts = append(opts, types.EnableMemStore())
	default:
		log.Fatalf("unknown store backend %q", storeKind)
	}

	engine, err := dagflow.NewEngine(opts...)
	if err != nil {
		log.Fatalf("start engine: %v", err)
	}

	srv := &http.Server{Addr: listenAddr, Handler: server.New(engine).Router()}
	go func() {
		log.Infof("serving on %s with %s store", listenAddr, storeKind)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// stop accepting requests first, then drain the engine
	log.Infof("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("http shutdown: %v", err)
	}
	if err := engine.Close(ctx); err != nil {
		log.Errorf("engine close: %v", err)
	}
}
