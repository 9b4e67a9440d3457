package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"bookcurator/internal/backend"
	"bookcurator/internal/config"
	"bookcurator/internal/logger"
	"bookcurator/internal/render"
	"bookcurator/internal/session"
	"bookcurator/internal/view"
	"bookcurator/internal/web"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format, nil)
	if cfg.WebUI.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	logger.SlowThreshold = cfg.Backend.SlowCall

	opts := []backend.Option{backend.WithTimeout(cfg.Backend.Timeout), backend.WithLogger(log)}
	if !cfg.Backend.ValidateJSON {
		opts = append(opts, backend.WithoutSchemaChecks())
	}
	api, err := backend.New(cfg.Backend.URL, opts...)
	if err != nil {
		log.Fatalf("backend client: %v", err)
	}

	store, err := session.Open(cfg.Session.Backend, cfg.Session.RedisURL, cfg.Session.TTL)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}
	defer store.Close()

	p := render.NewPrinter(cfg.UI.Language)
	html, err := render.NewHTML(p, log)
	if err != nil {
		log.Fatalf("templates: %v", err)
	}
	ctl := view.NewController(api, html, view.Options{
		ListLimit:     cfg.UI.ListLimit,
		MaxTranscript: cfg.Session.MaxTranscript,
	})

	srv, err := web.NewServer(ctl, store, p, web.Options{
		Lang:          cfg.UI.Language,
		CookieSecure:  cfg.Session.CookieSecure,
		RatePerSecond: cfg.RateLimit.PerSecond,
		RateBurst:     cfg.RateLimit.Burst,
	})
	if err != nil {
		log.Fatalf("web server: %v", err)
	}
	defer srv.Close()

	server := &http.Server{
		Addr:              cfg.WebUI.Address(),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// backend calls may take up to backend.timeout
		WriteTimeout: cfg.Backend.Timeout + 10*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":    server.Addr,
		"backend": api.BaseURL(),
		"session": cfg.Session.Backend,
	}).Info("🌐 web UI started")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("failed to start web server: %v", err)
	}
}
