package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/meetgrid/meetgrid/internal/backend"
	"github.com/meetgrid/meetgrid/internal/booking"
	"github.com/meetgrid/meetgrid/internal/config"
	httpserver "github.com/meetgrid/meetgrid/internal/http"
	"github.com/meetgrid/meetgrid/internal/render"
	"github.com/meetgrid/meetgrid/internal/schedule"
	"github.com/meetgrid/meetgrid/internal/tz"
	"github.com/meetgrid/meetgrid/internal/ui"
	"github.com/meetgrid/meetgrid/internal/view"
)

func main() {
	log.Println("Starting MeetGrid server...")

	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conv, err := tz.NewConverter(cfg.DisplayTimezone)
	if err != nil {
		log.Fatalf("failed to load display timezone: %v", err)
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	store := view.NewStore(conv.Location(), time.Now())
	agg := schedule.NewAggregator(client, conv)
	workflow := booking.NewWorkflow(client, agg, store)
	renderer := render.New(conv)

	// Every navigation that moves the fetch window refetches the viewer's
	// events. Competing responses are resolved by the aggregator, so
	// firing on every change is safe.
	store.OnWindowChange(func(w view.Window) {
		go func() {
			fetchCtx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
			defer cancel()
			if err := agg.LoadOwnEvents(fetchCtx, w); err != nil {
				log.Printf("[WARN] window refetch: %v", err)
			}
		}()
	})

	var scheduler *cron.Cron
	if cfg.RefreshSchedule != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.RefreshSchedule, func() {
			refreshCtx, cancel := context.WithTimeout(ctx, cfg.Backend.Timeout)
			defer cancel()
			if err := agg.LoadOwnEvents(refreshCtx, store.Window()); err != nil {
				log.Printf("[WARN] scheduled refresh: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("invalid refresh schedule %q: %v", cfg.RefreshSchedule, err)
		}
		scheduler.Start()
	}

	uiHandler := ui.NewHandler(cfg, store, agg, workflow, renderer, conv)
	r := httpserver.NewRouter(cfg, uiHandler, client)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
