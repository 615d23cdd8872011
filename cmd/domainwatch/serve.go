package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"domainwatch/internal/config"
	"domainwatch/internal/database"
	"domainwatch/internal/handlers"
	"domainwatch/internal/middleware"
	"domainwatch/internal/repository"
	"domainwatch/internal/scheduler"
	"domainwatch/internal/services"
	"domainwatch/internal/whois"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and check scheduler",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrationPaths := []string{
		"/usr/share/domainwatch/migrations",
		"migrations",
	}
	var migrated bool
	for _, path := range migrationPaths {
		if _, err := os.Stat(path); err == nil {
			if err := db.Migrate(path); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
			migrated = true
			break
		}
	}
	if !migrated {
		log.Fatal("Migrations directory not found")
	}

	domainRepo := repository.NewDomainRepository(db)
	logRepo := repository.NewNotificationLogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	settingsService := services.NewSettingsService(settingsRepo)
	notificationService := services.NewNotificationService(settingsService, logRepo)
	domainService := services.NewDomainService(domainRepo)
	whoisClient := whois.New(cfg.Check.WhoisTimeoutDuration())
	checkerService := services.NewCheckerService(
		domainRepo, notificationService, whoisClient, cfg.Check.RateLimitDelayDuration())

	sched := scheduler.New(func() {
		if _, err := checkerService.CheckAll(context.Background()); err != nil {
			log.Printf("Scheduled check run skipped: %v", err)
		}
	})
	if err := sched.Start(settingsService.CronSchedule()); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	domainHandler := handlers.NewDomainHandler(domainService, checkerService)
	checkHandler := handlers.NewCheckHandler(checkerService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, sched)
	notificationHandler := handlers.NewNotificationHandler(notificationService, logRepo)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	api := r.Group("/api/v1")
	api.Use(middleware.IPAllowlist(cfg.API.AllowedIPs))
	api.Use(middleware.APIToken(cfg.API.Tokens))
	{
		api.GET("/domains", domainHandler.List)
		api.POST("/domains", domainHandler.Create)
		api.GET("/domains/export", domainHandler.Export)
		api.POST("/domains/import", domainHandler.Import)
		api.GET("/domains/:id", domainHandler.Get)
		api.PUT("/domains/:id", domainHandler.Update)
		api.DELETE("/domains/:id", domainHandler.Delete)
		api.POST("/domains/:id/check", domainHandler.Check)

		api.GET("/stats", domainHandler.Stats)
		api.GET("/check/status", checkHandler.Status)

		api.GET("/settings", settingsHandler.Get)
		api.PUT("/settings", settingsHandler.Update)

		api.GET("/notifications", notificationHandler.List)
		api.POST("/notifications/test", notificationHandler.Test)
	}

	// The check trigger additionally accepts the cron secret so external
	// schedulers can hit it without a token.
	trigger := r.Group("/api/v1")
	trigger.Use(middleware.IPAllowlist(cfg.API.AllowedIPs))
	trigger.Use(middleware.CronOrToken(cfg.Check.CronSecret, cfg.API.Tokens))
	{
		trigger.POST("/check", checkHandler.Trigger)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
		log.Printf("Starting server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
}
