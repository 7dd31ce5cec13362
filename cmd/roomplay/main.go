package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	appcfg "github.com/park285/roomplay/internal/config"
	"github.com/park285/roomplay/internal/game"
	"github.com/park285/roomplay/internal/httpapi"
	"github.com/park285/roomplay/internal/msgcat"
	"github.com/park285/roomplay/internal/obslog"
	"github.com/park285/roomplay/internal/session"
	"github.com/park285/roomplay/internal/store"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	st := selectStore(cfg)
	registry := game.NewRegistry()
	mgr := session.NewManager(st, registry, time.Duration(cfg.SessionTTLSec)*time.Second, cfg.CodeAttempts)

	var archive *session.Archive
	if cfg.DatabaseURL != "" {
		archive, err = session.NewArchive(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("archive init error: %v", err)
		}
		mgr.AttachArchive(archive)
	}

	cat, err := msgcat.New()
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	api := httpapi.New(mgr, registry, st, cat, cfg.AllowedOrigins)
	srv := &fasthttp.Server{
		Handler:      api.Handler(),
		Name:         "roomplay",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		obslog.L().Info("server_start",
			zap.String("addr", cfg.ListenAddr),
			zap.Int("session_ttl_sec", cfg.SessionTTLSec),
			zap.Strings("game_types", registry.Types()),
		)
		if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
			obslog.L().Fatal("server_error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	_ = srv.Shutdown()
	if archive != nil {
		_ = archive.Close()
	}
	_ = st.Close()
}

// selectStore picks the durable Redis store when REDIS_URL is set and
// reachable, falling back to the process-local store otherwise. The fallback
// never expires records and must not be used across multiple processes.
func selectStore(cfg *appcfg.AppConfig) store.Store {
	if cfg.RedisURL != "" {
		rs, err := store.NewRedis(cfg.RedisURL)
		if err == nil {
			obslog.L().Info("store_select", zap.String("backend", "redis"))
			return rs
		}
		obslog.L().Warn("store_redis_unavailable", zap.Error(err))
	}
	obslog.L().Warn("store_select",
		zap.String("backend", "memory"),
		zap.String("note", "single-process only, records never expire"),
	)
	return store.NewMemory()
}
