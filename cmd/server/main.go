package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	zerologlog "github.com/rs/zerolog/log"

	"losiento/internal/app"
	"losiento/internal/applog"
	"losiento/internal/config"
	"losiento/internal/httpapi"
	"losiento/internal/store"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	applog.Setup(cfg.LogPretty, cfg.LogLevel)

	backend, err := newStore(cfg)
	if err != nil {
		zerologlog.Fatal().Err(err).Msg("store init failed")
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		backend = store.NewCachedStore(backend, store.NewRedisActiveGameCache(client))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	session := app.NewSession(backend, rng, time.Now)
	session.SetAutoFillDelay(time.Duration(cfg.BotAutoFillDelaySeconds) * time.Second)
	turn := app.NewTurn(backend, rng, time.Now)
	session.OnEvent(applog.LogEvent)
	turn.OnEvent(applog.LogEvent)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := httpapi.NewHandler(session, turn)
	h.Register(r)

	zerologlog.Info().Str("addr", cfg.HTTPAddr).Str("store", string(cfg.StoreBackend)).Msg("listening")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		zerologlog.Fatal().Err(err).Msg("server stopped")
	}
}

func newStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreBackend != config.StorePostgres {
		return store.NewMemoryStore(), nil
	}
	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	pg := store.NewPostgresStore(pool)
	if err := pg.Migrate(context.Background()); err != nil {
		return nil, err
	}
	return pg, nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zerologlog.Info().
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Msg("http")
	}
}
