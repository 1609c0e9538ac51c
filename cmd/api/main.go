package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/collabforge/collabforge-backend/config"
	"github.com/collabforge/collabforge-backend/internal/bootstrap"
	collabrepo "github.com/collabforge/collabforge-backend/internal/collaboration/repository"
	collabservice "github.com/collabforge/collabforge-backend/internal/collaboration/service"
	"github.com/collabforge/collabforge-backend/internal/db"
	"github.com/collabforge/collabforge-backend/internal/featured/janitor"
	featuredrepo "github.com/collabforge/collabforge-backend/internal/featured/repository"
	featuredservice "github.com/collabforge/collabforge-backend/internal/featured/service"
	"github.com/collabforge/collabforge-backend/internal/payments"
	projectrepo "github.com/collabforge/collabforge-backend/internal/projects/repository"
	projectservice "github.com/collabforge/collabforge-backend/internal/projects/service"
	storagepg "github.com/collabforge/collabforge-backend/internal/storage/postgres"
	userrepo "github.com/collabforge/collabforge-backend/internal/users/repository"
	userservice "github.com/collabforge/collabforge-backend/internal/users/service"
)

const serviceName = "collabforge-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	// Store selection: a configured DB host means postgres, otherwise
	// everything runs in memory.
	var (
		userStore    userservice.Store
		projectStore interface {
			projectservice.Store
			bootstrap.OwnershipSource
		}
		collabStore interface {
			collabservice.Store
			bootstrap.PendingRequestSource
		}
		healthPool *pgxpool.Pool
	)

	if cfg.Database.Host != "" {
		sqlDB, err := storagepg.NewConnection(&cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer sqlDB.Close()

		pool, err := db.Open(ctx, storagepg.DSN(&cfg.Database))
		if err != nil {
			log.Fatalf("failed to open health pool: %v", err)
		}
		defer pool.Close()
		healthPool = pool.Pool

		userStore = userrepo.NewPostgres(sqlDB)
		projectStore = projectrepo.NewPostgres(sqlDB)
		collabStore = collabrepo.NewPostgres(sqlDB)
		log.Println("using postgres stores")
	} else {
		userStore = userrepo.NewMemory()
		projectStore = projectrepo.NewMemory()
		collabStore = collabrepo.NewMemory()
		log.Println("DB_HOST not set, using in-memory stores")
	}

	var featuredStore featuredservice.Store
	if cfg.Redis.Addr != "" {
		client, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer client.Close()
		featuredStore = featuredrepo.NewRedis(client)
		log.Println("using redis featured store")
	} else {
		featuredStore = featuredrepo.NewMemory()
		log.Println("REDIS_ADDR not set, using in-memory featured store")
	}

	var settler payments.Settler
	if cfg.Payments.SettlementURL != "" {
		settler = payments.NewSettlementClient(cfg.Payments.SettlementURL, cfg.Payments.SettlementTimeout)
	} else {
		settler = payments.NopSettler{}
		log.Println("SETTLEMENT_URL not set, settling charges locally")
	}
	gate := payments.NewGate(settler, payments.Fees{
		ConnectionRequestCents: cfg.Payments.ConnectionRequestFeeCents,
		FeaturedProfileCents:   cfg.Payments.FeaturedProfileFeeCents,
	})

	featuredSvc := featuredservice.NewFeaturedService(
		featuredStore,
		bootstrap.StoreUserDirectory{Users: userStore},
		gate,
		time.Duration(cfg.Featured.DefaultDurationHours)*time.Hour,
	)
	userSvc := userservice.NewUserService(
		userStore,
		bootstrap.UserReferences{Requests: collabStore, Projects: projectStore},
		featuredSvc,
	)
	projectSvc := projectservice.NewProjectService(
		projectStore,
		userSvc,
		bootstrap.ProjectReferences{Requests: collabStore},
	)
	collabSvc := collabservice.NewWorkflow(collabStore, userSvc, projectSvc, gate)

	if cfg.Featured.JanitorEnabled {
		j := janitor.New(featuredSvc, cfg.Featured.JanitorSchedule)
		if err := j.Start(); err != nil {
			log.Fatalf("failed to start featured janitor: %v", err)
		}
		defer j.Stop()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		DB:             healthPool,
		Users:          userSvc,
		Projects:       projectSvc,
		Collaborations: collabSvc,
		Featured:       featuredSvc,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("%s listening on :%s", serviceName, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
