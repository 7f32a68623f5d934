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

	"hiring-platform/internal/api"
	"hiring-platform/internal/common/auth"
	awsclients "hiring-platform/internal/common/aws"
	"hiring-platform/internal/common/config"
	"hiring-platform/internal/common/database"
	"hiring-platform/internal/common/observability"
	"hiring-platform/internal/notify"
	"hiring-platform/internal/search"
	"hiring-platform/internal/store"
	"hiring-platform/internal/uploads"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe()
	},
}

func runServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	cfg, log := rt.cfg, rt.log

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx, rt.pg.DB); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	obs, err := observability.New(cfg.Observability.ServiceName, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	st := store.New(rt.pg.DB)
	engine, err := rt.newEngine(ctx, st, obs)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		return err
	}

	readiness := []api.ReadinessCheck{{Name: "postgres", Check: rt.pg.Ping}}

	var revocations auth.RevocationStore = auth.NoopRevocationStore{}
	if cfg.Database.Redis.Address != "" {
		var rdb *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(ctx, cfg.Database.Redis)
			return err
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			return err
		}
		defer rdb.Close()
		revocations = auth.NewRedisRevocationStore(rdb.GetClient())
		readiness = append(readiness, api.ReadinessCheck{Name: "redis", Check: rdb.Ping})
		log.Info("Redis connected successfully", nil)
	} else {
		log.Warn("redis not configured, logout will not revoke tokens", nil)
	}

	deps := api.Dependencies{
		Config:      cfg,
		Users:       st,
		Challenges:  st,
		Submissions: st,
		Tokens:      tokens,
		Revocations: revocations,
		Suggester:   engine,
		Readiness:   readiness,
		Metrics:     promhttp.Handler(),
		Logger:      log,
	}

	if cfg.Features.Search {
		index, check, err := newChallengeIndex(ctx, rt)
		if err != nil {
			return err
		}
		deps.Search = index
		readiness = append(readiness, check)
		deps.Readiness = readiness
	}

	if cfg.Features.Notifications {
		notifier, err := newNotifier(ctx, rt)
		if err != nil {
			return err
		}
		deps.Notifier = notifier
	}

	if cfg.Features.Uploads {
		deps.Uploads = uploads.NewOSStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes())
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewServer(deps).Handler(),
		ReadTimeout:       config.GetDuration(cfg.Server.ReadTimeout),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      config.GetDuration(cfg.Server.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("server stopped", nil)
	return nil
}

func newChallengeIndex(ctx context.Context, rt *runtime) (*search.ChallengeIndex, api.ReadinessCheck, error) {
	esCfg := rt.cfg.Database.Elasticsearch

	var es *database.ElasticsearchClient
	err := retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(esCfg)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, 10, 2*time.Second, rt.log, "Elasticsearch connection")
	if err != nil {
		return nil, api.ReadinessCheck{}, err
	}

	index := search.NewChallengeIndex(es.Client, esCfg.Index, rt.log)
	if err := index.EnsureIndex(ctx); err != nil {
		return nil, api.ReadinessCheck{}, err
	}
	rt.log.Info("Elasticsearch connected successfully", map[string]interface{}{"index": esCfg.Index})
	return index, api.ReadinessCheck{Name: "elasticsearch", Check: es.Ping}, nil
}

func newNotifier(ctx context.Context, rt *runtime) (*notify.Notifier, error) {
	awsCfg, err := awsclients.LoadConfig(ctx, rt.cfg.AWS.Region)
	if err != nil {
		return nil, err
	}

	var (
		sesClient awsclients.SESService
		snsClient awsclients.SNSService
	)
	if rt.cfg.AWS.SES.Enabled {
		sesClient = awsclients.NewSESClient(awsCfg)
	}
	if rt.cfg.AWS.SNS.Enabled {
		snsClient = awsclients.NewSNSClient(awsCfg)
	}

	return notify.NewNotifier(notify.Config{
		FromEmail: rt.cfg.AWS.SES.FromEmail,
		TopicARN:  rt.cfg.AWS.SNS.TopicARN,
	}, sesClient, snsClient, rt.log), nil
}
