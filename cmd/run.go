package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CommandLineFox/NotificationBot/bot"
	"github.com/CommandLineFox/NotificationBot/config"
	"github.com/CommandLineFox/NotificationBot/database"
	"github.com/CommandLineFox/NotificationBot/events"
	"github.com/CommandLineFox/NotificationBot/poller"
	"github.com/CommandLineFox/NotificationBot/repository"
	"github.com/CommandLineFox/NotificationBot/service"
	"github.com/CommandLineFox/NotificationBot/youtube"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting notification bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize repository and services
	guildRepo := repository.NewGuildRepository(db)

	youtubeClient, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey, cfg.YouTubeTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize youtube client: %w", err)
	}

	notifierService := service.NewNotifierService(guildRepo, youtubeClient)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{Token: cfg.DiscordToken}, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Expose metrics when configured
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			log.Printf("Metrics listening on %s", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Start the poll loop
	p := poller.New(poller.Config{
		BaseInterval:  cfg.PollInterval,
		RetryInterval: cfg.PollRetryInterval,
	}, guildRepo, notifierService, eventBus)
	go func() {
		if err := p.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Poller stopped: %v", err)
		}
	}()

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down metrics server: %v", err)
		}
	}

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
