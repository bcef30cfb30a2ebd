package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mercaved/marketplace/internal/authz"
	"github.com/mercaved/marketplace/internal/config"
	"github.com/mercaved/marketplace/internal/es"
	"github.com/mercaved/marketplace/internal/events"
	"github.com/mercaved/marketplace/internal/handlers"
	"github.com/mercaved/marketplace/internal/logging"
	authmw "github.com/mercaved/marketplace/internal/middleware/auth"
	"github.com/mercaved/marketplace/internal/promosweep"
	httpserver "github.com/mercaved/marketplace/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := config.InitDB(ctx, configuration)
	if err != nil {
		log.Fatalf("db init failed: %v", err)
	}

	secret := []byte(configuration.JWT_SECRET)
	if len(secret) == 0 {
		log.Fatal("JWT_SECRET is empty")
	}

	var producer events.Publisher = events.Noop{}
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	resolver := &authz.Resolver{DB: db, Secret: secret}

	sweeper := &promosweep.Sweeper{DB: db, Log: logger}
	runner := &promosweep.Runner{Sweeper: sweeper, Log: logger}
	if err := runner.Start(ctx); err != nil {
		log.Fatalf("sweep cadence failed to start: %v", err)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		Auth:       &authmw.Middleware{Resolver: resolver},
		AuthAPI:    &handlers.AuthHandler{DB: db, Secret: secret, Producer: producer},
		Products:   &handlers.ProductHandler{DB: db, Producer: producer},
		Combos:     &handlers.ComboHandler{DB: db, Producer: producer},
		Promotions: &handlers.PromotionHandler{DB: db, Producer: producer},
		Admins:     &handlers.AdminHandler{DB: db, Resolver: resolver},
		Vendors:    &handlers.VendorAdminHandler{DB: db, Resolver: resolver},
		Couriers:   &handlers.CourierAdminHandler{DB: db, Resolver: resolver},
		Profile:    &handlers.ProfileHandler{DB: db},
	}

	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init failed: %v", err)
		}
		deps.Search = &handlers.SearchHandler{ES: esClient, Index: "productos"}
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	runner.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
