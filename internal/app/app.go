package app

import (
	"CourseMarket/internal/app/server"
	"CourseMarket/internal/config"
	"CourseMarket/internal/delivery/http"
	"CourseMarket/internal/models"
	"CourseMarket/internal/service"
	"CourseMarket/internal/service/auth"
	"CourseMarket/internal/storage/elastic"
	"CourseMarket/internal/storage/memory"
	"CourseMarket/internal/storage/minio_storage"
	"CourseMarket/internal/storage/postgres"
	"CourseMarket/pkg/keylock"
	"CourseMarket/pkg/logger"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("starting", "env", cfg.Env, "storage", cfg.Storage)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	deps, closeStorage, err := buildDeps(ctx, log, cfg)
	cancel()
	if err != nil {
		log.FatalErr("error initializing storage", err)
	}
	defer closeStorage()

	u := service.New(log, deps)

	if cfg.Admin.Username != "" {
		if err := u.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.FatalErr("error creating admin account", err)
		}
	}

	r := http.InitRoutes(log, u, cfg.CORS.AllowOrigins)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	log.Info("http server started", "address", cfg.HTTPServer.Address)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal", "signal", s.String())
	case err := <-srv.Notify():
		log.ErrorErr("http server stopped", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("error shutting down http server", err)
	}
}

func buildDeps(ctx context.Context, log logger.Log, cfg *config.Config) (service.Deps, func(), error) {
	initialBalance := models.DefaultInitialBalance
	if cfg.Billing.InitialBalance != "" {
		parsed, err := models.ParseMoney(cfg.Billing.InitialBalance)
		if err != nil || parsed.IsNegative() {
			return service.Deps{}, nil, fmt.Errorf("billing.initial_balance %q: invalid amount", cfg.Billing.InitialBalance)
		}
		initialBalance = parsed
	}

	deps := service.Deps{
		JWT:            auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL),
		InitialBalance: initialBalance,
	}
	closeStorage := func() {}

	switch cfg.Storage {
	case config.StorageMemory:
		store := memory.New()
		deps.Users = store
		deps.Tokens = memory.NewTokenRepo(store)
		deps.Balances = store
		deps.Courses = store
		deps.Lessons = store
		deps.Groups = store
		deps.Subscriptions = store
		deps.Search = memory.NewCourseSearch(store)
		deps.Locker = keylock.New()
	default:
		pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
		if err != nil {
			return service.Deps{}, nil, err
		}
		closeStorage = pg.Close
		if cfg.Postgres.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				pg.Close()
				return service.Deps{}, nil, err
			}
		}
		deps.Users = postgres.NewUserPostgres(pg.Pool)
		deps.Tokens = postgres.NewTokensPostgres(pg.Pool)
		deps.Balances = postgres.NewBalancePostgres(pg.Pool)
		deps.Courses = postgres.NewCoursePostgres(pg.Pool)
		deps.Lessons = postgres.NewLessonPostgres(pg.Pool)
		deps.Groups = postgres.NewGroupPostgres(pg.Pool)
		deps.Subscriptions = postgres.NewSubscriptionPostgres(pg.Pool)
		deps.Search = postgres.NewCourseSearchPostgres(pg.Pool)
		deps.Locker = postgres.NewAdvisoryLocker(pg.Pool)
	}

	if len(cfg.ES.Hosts) > 0 {
		client, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
		if err != nil {
			closeStorage()
			return service.Deps{}, nil, err
		}
		search := elastic.NewCourseSearchRepository(client, cfg.ES.Index)
		if err := search.CreateIndexIfNotExist(ctx); err != nil {
			closeStorage()
			return service.Deps{}, nil, err
		}
		deps.Search = search
	} else {
		log.Warn("elasticsearch is not configured, using in-process course search")
	}

	if cfg.Minio.Endpoint != "" {
		client, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
		if err != nil {
			closeStorage()
			return service.Deps{}, nil, err
		}
		logos, err := minio_storage.NewLogoStorage(ctx, client, cfg.Minio.LogoBucket, cfg.Minio.PresignTTL)
		if err != nil {
			closeStorage()
			return service.Deps{}, nil, err
		}
		deps.Logos = logos
	} else {
		log.Warn("minio is not configured, course logo upload is disabled")
	}

	return deps, closeStorage, nil
}
