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

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/zelora/backend/internal/config"
	"github.com/zelora/backend/internal/es"
	"github.com/zelora/backend/internal/handlers"
	"github.com/zelora/backend/internal/logging"
	"github.com/zelora/backend/internal/mykafka"
	"github.com/zelora/backend/internal/service/token"
	httpserver "github.com/zelora/backend/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init failed: %v", err)
	}

	tokens := token.NewTokenService([]byte(cfg.JWT_SECRET), []byte(cfg.REFRESH_SECRET))

	prod := mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS})

	// ES is optional: searches fall back to the database when it is absent.
	var esClient *elasticsearch.Client
	if cfg.ES_URL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			logger.Warn("es_unavailable", "error", err)
			esClient = nil
		}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	e.Static("/images/products", cfg.UPLOAD_DIR)

	deps := httpserver.Deps{
		DB:               db,
		Tokens:           tokens,
		AuthHandler:      &handlers.AuthHandler{DB: db, Tokens: tokens},
		ProductHandler:   &handlers.ProductHandler{DB: db, Producer: prod, ES: esClient},
		CategoryHandler:  &handlers.CategoryHandler{DB: db},
		CartHandler:      &handlers.CartHandler{DB: db},
		OrderHandler:     &handlers.OrderHandler{DB: db, Producer: prod},
		ReviewHandler:    &handlers.ReviewHandler{DB: db, Producer: prod},
		InventoryHandler: &handlers.InventoryHandler{DB: db},
		WishlistHandler:  &handlers.WishlistHandler{DB: db},
		CustomerHandler:  &handlers.CustomerHandler{DB: db},
		SupplierHandler:  &handlers.SupplierHandler{DB: db},
		UploadHandler:    &handlers.UploadHandler{UploadDir: cfg.UPLOAD_DIR, BaseURL: cfg.UPLOAD_BASE_URL},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db_close_error", "error", err)
		}
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
