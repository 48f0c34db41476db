// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"coord-api/internal/api"
	"coord-api/internal/config"
	"coord-api/internal/logger"
	"coord-api/internal/metrics"
	"coord-api/internal/middleware"
	"coord-api/internal/migrate"
	"coord-api/internal/store"
	"coord-api/internal/utils"
)

func main() {
	config.LoadDotEnv()
	l := logger.Setup()
	l.Debug("log_init_ok")
	cfg := config.FromEnv()
	l.Debug("config_loaded", "addr", cfg.Addr, "base", cfg.APIBase, "batch_max", cfg.BatchMaxPoints, "workers", cfg.BatchWorkers)

	// 统计为可选：未开启时完全不连数据库，换算本身无任何外部依赖
	opts := api.Options{BatchMaxPoints: cfg.BatchMaxPoints, BatchWorkers: cfg.BatchWorkers}
	if cfg.StatsEnabled {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		st := store.AttachDB(db)
		defer st.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := db.PingContext(ctx); err != nil {
			l.Error("db_ping_error", "err", err)
		} else {
			l.Info("db_ping_ok")
		}
		if err := migrate.EnsureSchema(ctx, db); err != nil {
			cancel()
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		cancel()
		opts.Stats = st
		l.Info("stats_enabled")
	} else {
		l.Info("stats_disabled")
	}

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(opts)
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiMux))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())

	var handler http.Handler = mux
	if cfg.RateLimitEnabled {
		rc := utils.OpenRedisFromEnv()
		if rc != nil && !cfg.RedisRateLimit {
			_ = rc.Close()
			rc = nil
		}
		if rc != nil {
			if err := rc.Ping(context.Background()).Err(); err != nil {
				l.Error("redis_ping_error", "err", err)
			} else {
				l.Info("redis_ping_ok")
			}
		}
		handler = middleware.NewRateLimiter(cfg.RateLimitQPS, rc).Wrap(handler)
		l.Info("rate_limit_enabled", "qps", cfg.RateLimitQPS, "redis", rc != nil)
	}
	handler = logger.AccessMiddleware(l)(handler)

	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	var err error
	if cfg.TLSEnable {
		if e := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "coord-api.local"); e != nil {
			l.Error("tls_cert_error", "err", e)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		err = s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
	} else {
		l.Info("listening", "addr", cfg.Addr)
		err = s.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
}
