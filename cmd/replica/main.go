// cmd/replica is the entrypoint for one ABD replica.
//
// Configuration is environment-first (QUORUMKV_NODE_ID, QUORUMKV_ADDR,
// QUORUMKV_LOG_LEVEL), with a flag to override the listen address for
// quick local runs:
//
//	QUORUMKV_NODE_ID=r1 ./replica -addr :8081
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quorumkv/internal/config"
	"quorumkv/internal/lock"
	"quorumkv/internal/replicarpc"
	"quorumkv/internal/store"
	httptransport "quorumkv/internal/transport/http"
)

func main() {
	addrFlag := flag.String("addr", "", "listen address override (host:port)")
	flag.Parse()

	cfg, err := config.LoadReplicaConfig()
	if err != nil {
		panic(err)
	}
	if *addrFlag != "" {
		cfg.Addr = *addrFlag
	}
	if cfg.NodeID == "" {
		panic("QUORUMKV_NODE_ID is required")
	}

	log := newLogger(cfg.LogLevel)
	defer log.Sync()

	svc := replicarpc.NewService(store.New(), lock.New())

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(httptransport.Logger(log), httptransport.Recovery(log))

	server := httptransport.NewServer(svc)
	server.Register(router)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("replica listening", zap.String("node_id", cfg.NodeID), zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down replica", zap.String("node_id", cfg.NodeID))
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zapLevel
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
