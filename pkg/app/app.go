// Package app assembles LogiTrack: it opens the store and cache, builds the
// services and controllers, and exposes the HTTP handler and the startup
// initializer used by the CLI.
//
//	cfg, _ := config.Load()
//	a, err := app.New(ctx, cfg)
//	defer a.Close()
//	a.Initialize(ctx)   // migrations + seeders
//	a.Serve(ctx)        // until ctx is cancelled
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/app/controllers"
	"github.com/shashiranjanraj/logitrack/app/repositories"
	"github.com/shashiranjanraj/logitrack/app/routes"
	"github.com/shashiranjanraj/logitrack/app/services"
	"github.com/shashiranjanraj/logitrack/config"
	"github.com/shashiranjanraj/logitrack/pkg/auth"
	"github.com/shashiranjanraj/logitrack/pkg/cache"
	"github.com/shashiranjanraj/logitrack/pkg/database"
	"github.com/shashiranjanraj/logitrack/pkg/middleware"
	"github.com/shashiranjanraj/logitrack/pkg/router"
)

// Application is the wired LogiTrack service.
type Application struct {
	Config *config.Config
	DB     *gorm.DB
	Cache  cache.Store
	Issuer *auth.Issuer

	router  *router.Router
	limiter *middleware.RateLimiter
	closers []func() error
}

// New validates cfg, opens the database and cache, and wires the
// application. Close releases what New opened.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseDSN, database.DefaultPool)
	if err != nil {
		return nil, err
	}

	store, err := cache.New(ctx, cache.Options{
		Driver:        cfg.CacheDriver,
		SizeLimit:     cfg.CacheSizeLimit,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
	})
	if err != nil {
		database.Close(db)
		return nil, err
	}

	a, err := Build(cfg, db, store)
	if err != nil {
		database.Close(db)
		return nil, err
	}
	if c, ok := store.(interface{ Close() error }); ok {
		a.closers = append(a.closers, c.Close)
	}
	a.closers = append(a.closers, func() error { return database.Close(db) })
	return a, nil
}

// Build wires an application around an open database and cache. It does not
// take ownership of either.
func Build(cfg *config.Config, db *gorm.DB, store cache.Store) (*Application, error) {
	issuer, err := auth.NewIssuer(cfg.JWTKey, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	a := &Application{
		Config:  cfg,
		DB:      db,
		Cache:   store,
		Issuer:  issuer,
		router:  router.New(),
		limiter: middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute),
	}

	authSvc := services.NewAuthService(repositories.NewUserRepository(db), issuer)
	inventorySvc := services.NewInventoryService(repositories.NewInventoryRepository(db), store, cfg.CacheTTL)
	orderSvc := services.NewOrderService(repositories.NewOrderRepository(db), store, cfg.CacheTTL)

	a.mountGlobal()
	routes.RegisterAPI(a.router, routes.API{
		Auth:      controllers.NewAuthController(authSvc),
		Inventory: controllers.NewInventoryController(inventorySvc, a.router),
		Orders:    controllers.NewOrderController(orderSvc, a.router),
	}, middleware.Authenticate(issuer))

	return a, nil
}

// Routes lists every registered route.
func (a *Application) Routes() []router.RouteInfo {
	return a.router.Routes()
}

// RouteTable lists the routes an application built from cfg would serve.
// Routing touches neither the store nor the signing secrets, so no
// connection is opened and missing JWT settings are filled with placeholders.
func RouteTable(cfg *config.Config) ([]router.RouteInfo, error) {
	c := *cfg
	if c.JWTKey == "" {
		c.JWTKey = "route-table"
	}
	if c.JWTIssuer == "" {
		c.JWTIssuer = "route-table"
	}
	a, err := Build(&c, nil, cache.NewMemory(0))
	if err != nil {
		return nil, err
	}
	return a.Routes(), nil
}

// Close releases the resources opened by New.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("app: close: %w", err)
	}
	return nil
}
