package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ai-content-planner/internal/api"
	"ai-content-planner/internal/config"
	"ai-content-planner/internal/database"
	"ai-content-planner/internal/ghost"
	"ai-content-planner/internal/llm"
	"ai-content-planner/internal/metrics"
	"ai-content-planner/internal/planner"
	"ai-content-planner/internal/sitebrief"
	"ai-content-planner/internal/telegram"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "telegram-bot",
		Short: "Serve the content planner over Telegram and HTTP",
		RunE:  runServer,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}

	logger := cfg.NewLogger(os.Stdout)
	ctx := logger.WithContext(context.Background())

	db, err := database.NewDB(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)

	textGen, err := llm.NewGenerator(cfg)
	if err != nil {
		return err
	}
	contentPlanner := planner.NewPlanner(textGen, metricsStore, cfg.Temperature)

	deps := telegram.Deps{
		Fetcher: sitebrief.NewFetcher(),
		Usage:   metricsStore,
	}
	if cfg.GhostEnabled() {
		deps.Publisher = ghost.NewClient(cfg)
	}

	bot, err := telegram.NewBot(cfg, contentPlanner, deps, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram Bot: %w", err)
	}

	logger.Info().
		Str("provider", textGen.Provider()).
		Bool("ghost", cfg.GhostEnabled()).
		Msg("content planner ready")

	server := api.NewWebAPI(logger, api.Config{
		Addr: ":" + cfg.Port,
		Dependencies: api.Dependencies{
			Generator: contentPlanner,
			Webhook:   bot.WebhookHandler(),
		},
	})
	return server.Start()
}
