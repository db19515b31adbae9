package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/controllers"
	"github.com/Andii-12/Deltasoft-backend/internal/providers"
	"github.com/Andii-12/Deltasoft-backend/internal/ratelimit"
	"github.com/Andii-12/Deltasoft-backend/internal/statistic/interfaces"
	"github.com/Andii-12/Deltasoft-backend/internal/store"
	"github.com/Andii-12/Deltasoft-backend/internal/structures"
	"github.com/Andii-12/Deltasoft-backend/internal/tracking"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
}

func NewApp(healthController *controllers.HealthController, tracker *tracking.Tracker, recorder *tracking.VisitRecorder, visitStore store.VisitStoreInterface, scheduler interfaces.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface, limiter *ratelimit.Limiter) (*App, error) {
	// Inner mux: dashboard API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Dashboard API: rate limited and instrumented
	api := ratelimit.Middleware(limiter, tracking.ClientIP,
		providers.MetricsMiddleware(metrics, apiMux))

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/api/", api)
	mux.Handle("/", publicHandler(conf))

	// Every request enters through the tracking middleware; it skips
	// the admin/api/worker prefixes and static assets itself.
	handler := tracker.Middleware(mux)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		return nil, fmt.Errorf("server error: %w", err)
	}

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}

	// Flush in-flight visit writes before the store closes.
	if err := recorder.Close(conf.Tracking.FlushTimeout); err != nil {
		logger.Errorf(providers.TypeTrack, "Error flushing visit recorder: %s", err)
	}

	if err := scheduler.Persist(); err != nil {
		logger.Errorf(providers.TypeStats, "Error writing final snapshot: %s", err)
	}

	if err := visitStore.Close(); err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}

func publicHandler(conf *structures.Config) http.Handler {
	if conf.WebServer.PublicDir != "" {
		return http.FileServer(http.Dir(conf.WebServer.PublicDir))
	}
	return http.NotFoundHandler()
}
