package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"hiring-platform/internal/common/camunda"
	"hiring-platform/internal/common/config"
	"hiring-platform/internal/common/observability"
	"hiring-platform/internal/store"
	ms "hiring-platform/internal/workers/matching/match-suggestions"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the Camunda job worker for match suggestions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWorker()
	},
}

func runWorker() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	cfg, log := rt.cfg, rt.log

	if !cfg.Features.Workflows {
		return fmt.Errorf("features.workflows is disabled")
	}
	if !config.IsWorkerEnabled(cfg, ms.TaskType) {
		log.Warn("worker disabled in config", map[string]interface{}{"taskType": ms.TaskType})
		return nil
	}

	obs, err := observability.New(cfg.Observability.ServiceName+"-worker", prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	engine, err := rt.newEngine(ctx, store.New(rt.pg.DB), obs)
	if err != nil {
		return err
	}

	zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ClientConfigFrom(cfg.Camunda))
	if err != nil {
		return err
	}
	defer zeebe.Close()
	log.Info("Zeebe client connected successfully", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	wc := config.GetWorkerConfig(cfg, ms.TaskType)
	maxJobs := wc.MaxJobsActive
	if maxJobs <= 0 {
		maxJobs = cfg.Camunda.MaxJobsActive
	}
	handler := ms.NewHandler(ms.LoadConfig(cfg), engine, log)
	w := camunda.NewWorker(zeebe.GetClient(), ms.TaskType, handler, camunda.WorkerOptions{
		MaxJobsActive: maxJobs,
		Timeout:       config.GetDuration(wc.Timeout),
	}, log)
	w.Start()
	defer w.Stop()

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", func(rw http.ResponseWriter, r *http.Request) {
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			http.Error(rw, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = rw.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	log.Info("shutting down worker", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
