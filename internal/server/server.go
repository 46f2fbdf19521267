// Package server boots the whole application: config, logging, database,
// cache, storage, queue workers, scheduler, event listeners, the HTTP
// server and the gRPC health endpoint — and tears it all down cleanly on
// SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/vastra/app/controllers"
	"github.com/shashiranjanraj/vastra/app/graph"
	"github.com/shashiranjanraj/vastra/app/jobs"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/routes"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/event"
	grpcserver "github.com/shashiranjanraj/vastra/pkg/grpc"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/notification"
	"github.com/shashiranjanraj/vastra/pkg/orm"
	"github.com/shashiranjanraj/vastra/pkg/queue"
	"github.com/shashiranjanraj/vastra/pkg/router"
	"github.com/shashiranjanraj/vastra/pkg/schedule"
	"github.com/shashiranjanraj/vastra/pkg/storage"
	"github.com/shashiranjanraj/vastra/pkg/ws"

	"github.com/shashiranjanraj/vastra/pkg/migration"

	// Register all migrations so Start can run pending ones at boot.
	_ "github.com/shashiranjanraj/vastra/database/migrations"
)

// cacheAdapter plugs pkg/cache into the orm read-through hook.
type cacheAdapter struct{}

func (cacheAdapter) Get(key string, dest interface{}) bool { return cache.Get(key, dest) }
func (cacheAdapter) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}

// Start boots everything and blocks until a shutdown signal arrives.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Setup()
	defer logger.Close()

	// ── Database ────────────────────────────────────────────────────
	gormDB, err := database.Connect()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close(gormDB) //nolint:errcheck

	if err := migration.New(gormDB).Run(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	db := orm.New(gormDB)

	// ── Cache (optional) ────────────────────────────────────────────
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	} else {
		orm.CacheStore = cacheAdapter{}
		defer cache.Close()
	}

	// ── Storage ─────────────────────────────────────────────────────
	storage.Connect()

	// ── Repositories and services ───────────────────────────────────
	users := repositories.NewUserRepository(db)
	items := repositories.NewItemRepository(db)
	carts := repositories.NewCartRepository(db)
	orders := repositories.NewOrderRepository(db)

	authService := services.NewAuthService(users)
	cartService := services.NewCartService(carts, items)
	orderService := services.NewOrderService(db, carts, orders, items)
	historyService := services.NewHistoryService(orders)
	itemService := services.NewItemService(items)

	// ── Background work ─────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs.Repos.Users = users
	jobs.Repos.Orders = orders
	queue.Register(jobs.JobOrderConfirmation, func() queue.Job {
		return &jobs.OrderConfirmationJob{}
	})
	queue.UseDB(gormDB)
	notification.UseDB(gormDB)
	if hook := config.Get("SLACK_WEBHOOK_URL", ""); hook != "" {
		notification.SetSlackWebhook(hook)
	}
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, 4)

	schedule.Daily().Name("purge-stale-pending-orders").WithoutOverlapping().Run(func() {
		n, err := orders.PurgeStalePending(time.Now().Add(-24 * time.Hour))
		if err != nil {
			logger.Error("purge stale pending orders", "error", err)
			return
		}
		if n > 0 {
			logger.Info("purged stale pending orders", "count", n)
		}
	})
	schedule.Start(ctx)

	// ── Order-placed fan-out: websocket feed + confirmation email ───
	orderFeed := ws.NewHub()

	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		placed, ok := payload.(services.OrderPlaced)
		if !ok {
			return
		}

		if err := orderFeed.Publish(placed); err != nil {
			logger.Error("publish order feed", "order_id", placed.OrderID, "error", err)
		}

		if err := queue.Dispatch(jobs.OrderConfirmationJob{
			OrderID: placed.OrderID,
			UserID:  placed.UserID,
			Total:   placed.Total,
		}); err != nil {
			logger.Error("dispatch order confirmation", "order_id", placed.OrderID, "error", err)
		}
	})

	// ── HTTP surface ────────────────────────────────────────────────
	schema, err := graph.NewSchema(itemService, historyService)
	if err != nil {
		return fmt.Errorf("build graphql schema: %w", err)
	}

	r := router.New()
	routes.RegisterAPI(r, routes.Controllers{
		Auth:    controllers.NewAuthController(authService),
		Cart:    controllers.NewCartController(cartService),
		Order:   controllers.NewOrderController(orderService, historyService),
		Item:    controllers.NewItemController(itemService),
		GraphQL: controllers.NewGraphQLController(schema),
		OrderWS: orderFeed,
	})

	httpSrv := &http.Server{
		Addr:         ":" + config.AppPort(),
		Handler:      r.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	grpcSrv, _, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		return fmt.Errorf("start grpc: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// ── Wait for shutdown ───────────────────────────────────────────
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case s := <-sig:
		logger.Info("shutting down", "signal", s.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	grpcserver.Stop(grpcSrv)
	cancel() // stops queue workers and the scheduler

	return nil
}
