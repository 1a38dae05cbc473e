package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"dominom/internal/analytics"
	"dominom/internal/config"
	"dominom/internal/game"
	"dominom/internal/handlers"
	"dominom/pkg/realtime"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = log.Level(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker := analytics.NewTracker(analytics.DefaultRetention)
	sinks := []analytics.Sink{tracker, analytics.NewLogSink(log.With().Str("component", "analytics").Logger())}

	if cfg.NATSURL != "" {
		nc, err := analytics.ConnectNATS(cfg.NATSURL, log)
		if err != nil {
			log.Warn().Err(err).Str("url", cfg.NATSURL).Msg("NATS unavailable, analytics not published")
		} else {
			defer nc.Drain()
			sinks = append(sinks, analytics.NewNATSSink(nc, cfg.NATSSubjectPrefix))
		}
	}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, analytics not stored")
			_ = rdb.Close()
		} else {
			defer rdb.Close()
			sinks = append(sinks, analytics.NewRedisSink(rdb, "dominom:analytics", 0))
		}
		cancel()
	}

	dispatcher := analytics.NewDispatcher(cfg.AnalyticsBuffer, log, sinks...)
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		dispatcher.Run(dispatchCtx)
	}()

	hub := realtime.NewBroadcaster(cfg.SendBuffer)
	store := game.NewStore(hub, game.Config{
		TargetScore:  cfg.TargetScore,
		StartDelay:   cfg.StartDelay,
		RestartDelay: cfg.RestartDelay,
		Notifier:     dispatcher,
	}, log.With().Str("component", "game").Logger())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log))
	r.Use(middleware.Recoverer)

	handlers.NewSocketHandler(store, hub, log.With().Str("component", "ws").Logger()).RegisterRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("request")
		}))
		r.Use(middleware.Timeout(15 * time.Second))
		handlers.NewHomeHandler(store, cfg.BaseURL, cfg.TargetScore).RegisterRoutes(r)
		handlers.NewAnalyticsHandler(tracker).RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	stopDispatch()
	<-dispatched
	if n := dispatcher.Dropped(); n > 0 {
		log.Warn().Int64("dropped", n).Msg("analytics events dropped")
	}
}
