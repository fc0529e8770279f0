package internal

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"os"
	"os/signal"
	"processingd/internal/controllers"
	"processingd/internal/localstate/interfaces"
	"processingd/internal/providers"
	"processingd/internal/services"
	"processingd/internal/socket"
	"processingd/internal/structures"
	"strconv"
	"syscall"
	"time"
)

type App struct {
	WebServer *http.Server
}

func NewApp(
	healthController *controllers.HealthController,
	scheduler interfaces.SchedulerInterface,
	processing services.ProcessingServiceInterface,
	reconciler services.ReconcilerInterface,
	processingSocket socket.ProcessingSocketInterface,
	conf *structures.Config,
	logger providers.Logger,
	router providers.RouterProviderInterface,
	metrics providers.MetricsProviderInterface,
) (*App, error) {
	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, providers.NewRouteMux(router))

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	logger.Infof(providers.TypeApp, "Starting %s for event %d", conf.AppName, conf.Tracker.EventId)
	if err := scheduler.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	ctx, cancelSocket := context.WithCancel(context.Background())
	defer cancelSocket()

	unsubscribe := reconciler.Subscribe(processingSocket)
	defer unsubscribe()

	socketDone := make(chan struct{})
	go func() {
		defer close(socketDone)
		if err := processingSocket.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf(providers.TypeSocket, "processing socket stopped: %s", err)
		}
	}()

	bootCtx, cancelBoot := context.WithTimeout(ctx, conf.Processing.RefreshInterval)
	if err := processing.Bootstrap(bootCtx); err != nil {
		logger.Errorf(providers.TypeApp, "Bootstrap error: %s", err)
	}
	cancelBoot()

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
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
		scheduler.Stop()
		return nil, fmt.Errorf("server error: %w", err)
	}

	scheduler.Stop()
	cancelSocket()
	<-socketDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.WebServer.Shutdown(shutdownCtx); err != nil {
		return nil, err
	}
	if err := scheduler.Persist(); err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
