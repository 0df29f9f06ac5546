package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/oyvindh/shiplist-api/internal/config"
	"github.com/oyvindh/shiplist-api/internal/database"
	"github.com/oyvindh/shiplist-api/internal/handlers"
	"github.com/oyvindh/shiplist-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	identityService := services.NewIdentityService(db)
	templateService := services.NewTemplateService(db)
	runService := services.NewRunService(db)

	identityHandler := handlers.NewIdentityHandler(identityService)
	templateHandler := handlers.NewTemplateHandler(templateService, identityService)
	runHandler := handlers.NewRunHandler(runService, identityService, cfg.DefaultRunLimit)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	api.Get("/me", identityHandler.Me)
	api.Post("/register", identityHandler.Register)

	api.Get("/templates", templateHandler.List)
	api.Post("/templates", templateHandler.Create)
	api.Delete("/templates/:templateId", templateHandler.Delete)

	api.Get("/runs", runHandler.List)
	api.Post("/runs", runHandler.Start)
	api.Get("/runs/:runId", runHandler.Get)
	api.Patch("/runs/:runId/items/:taskId", runHandler.ToggleItem)
	api.Post("/runs/:runId/finish", runHandler.Finish)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
