package main

import (
	"errors"
	"fmt"
	"os"

	"ai-content-planner/internal/app"
	"ai-content-planner/internal/config"
	"ai-content-planner/internal/database"
	"ai-content-planner/internal/llm"
	"ai-content-planner/internal/metrics"
	"ai-content-planner/internal/planner"
	"ai-content-planner/internal/profile"
	"ai-content-planner/internal/sitebrief"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "content-planner",
		Short:         "Generate a 7-day social media content plan for a small business",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newGenerateCmd(), newMetricsCmd(), newMetricsCleanupCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type services struct {
	app    *app.App
	db     *database.DB
	logger zerolog.Logger
}

func (r *services) Close() {
	if err := r.db.Close(); err != nil {
		r.logger.Warn().Err(err).Msg("failed to close database")
	}
}

// setup loads configuration and wires the application.
func setup(cmd *cobra.Command) (*services, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := cfg.NewLogger(os.Stderr)
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	db, err := database.NewDB(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	metricsStore := metrics.NewStore(db.SQL)

	textGen, err := llm.NewGenerator(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	contentPlanner := planner.NewPlanner(textGen, metricsStore, cfg.Temperature)

	return &services{
		app: app.NewApp(
			contentPlanner,
			sitebrief.NewFetcher(),
			metricsStore,
			cfg.DatabasePath,
			cmd.OutOrStdout(),
		),
		db:     db,
		logger: logger,
	}, nil
}

func newGenerateCmd() *cobra.Command {
	var (
		prof         profile.BusinessProfile
		businessType string
		opts         app.GenerateOptions
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a content plan and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if businessType != "" {
				bt, err := profile.ParseBusinessType(businessType)
				if err != nil {
					return fmt.Errorf("%w (choose one of %v)", err, profile.BusinessTypes())
				}
				prof.BusinessType = bt
			}
			if err := prof.Validate(); err != nil {
				return err
			}

			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if _, err := rt.app.GenerateContentPlan(cmd.Context(), prof, opts); err != nil {
				rt.logger.Error().
					Err(err).
					Str("kind", planner.ErrorKind(err)).
					Msg("plan generation failed")
				return errors.New(planner.FailureMessage)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prof.BusinessName, "name", "", "Business name")
	cmd.Flags().StringVar(&businessType, "type", "", "Business type (e.g. Café, Restaurant, Gym/Fitness)")
	cmd.Flags().StringVar(&prof.Niche, "niche", "", "Niche or specialty")
	cmd.Flags().StringVar(&prof.Location, "location", "", "Business location")
	cmd.Flags().StringVar(&prof.TargetAudience, "audience", "", "Target audience")
	cmd.Flags().StringVar(&opts.Website, "website", "", "Optional website to summarize as extra context")
	cmd.Flags().StringVar(&opts.ExportPath, "export", "", "Write the plan document to this file")

	return cmd
}

func newMetricsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show recent generation usage and process health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			return rt.app.ShowMetrics(days)
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to report")
	return cmd
}

func newMetricsCleanupCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "metrics-cleanup",
		Short: "Remove old metric records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			return rt.app.CleanupMetrics(days)
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "Keep records for the last N days")
	return cmd
}
