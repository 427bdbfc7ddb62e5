package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"ai-content-planner/internal/export"
	"ai-content-planner/internal/metrics"
	"ai-content-planner/internal/planner"
	"ai-content-planner/internal/profile"
	"ai-content-planner/internal/sitebrief"

	"github.com/rs/zerolog"
)

type briefFetcher interface {
	Fetch(ctx context.Context, url string) (sitebrief.Brief, error)
}

type metricsStore interface {
	GetDailyUsage(days int) ([]metrics.DailyUsage, error)
	Cleanup(olderThanDays int) (int64, error)
}

// App holds the dependencies of the command line tool.
type App struct {
	generator    planner.PlanGenerator
	fetcher      briefFetcher
	metricsStore metricsStore
	dbPath       string
	out          io.Writer
}

// NewApp creates and initializes a new App instance. fetcher may be nil.
func NewApp(generator planner.PlanGenerator, fetcher briefFetcher, metricsStore metricsStore, dbPath string, out io.Writer) *App {
	return &App{
		generator:    generator,
		fetcher:      fetcher,
		metricsStore: metricsStore,
		dbPath:       dbPath,
		out:          out,
	}
}

// GenerateOptions are the optional extras of a generate run.
type GenerateOptions struct {
	Website    string
	ExportPath string
}

// GenerateContentPlan creates a plan for the profile, prints it and
// optionally writes the export document.
func (a *App) GenerateContentPlan(ctx context.Context, prof profile.BusinessProfile, opts GenerateOptions) (*planner.ContentPlan, error) {
	logger := zerolog.Ctx(ctx)

	if opts.Website != "" && a.fetcher != nil {
		brief, err := a.fetcher.Fetch(ctx, opts.Website)
		if err != nil {
			logger.Warn().Err(err).Str("url", opts.Website).Msg("failed to fetch website brief")
		} else {
			prof.WebsiteBrief = brief.String()
		}
	}

	fmt.Fprintf(a.out, "Generating content plan for %q...\n", prof.BusinessName)
	plan, err := a.generator.GeneratePlan(ctx, prof)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan: %w", err)
	}

	a.PrintPlan(plan)

	if opts.ExportPath != "" {
		doc := export.RenderText(export.Layout(plan))
		if err := os.WriteFile(opts.ExportPath, []byte(doc), 0644); err != nil {
			return plan, fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Fprintf(a.out, "\nExported to %s\n", opts.ExportPath)
	}
	return plan, nil
}

// PrintPlan writes the full plan as plain text.
func (a *App) PrintPlan(plan *planner.ContentPlan) {
	fmt.Fprintln(a.out, "\n=== WEEKLY CONTENT PLAN ===")
	fmt.Fprintf(a.out, "Goal: %s\n", plan.WeekGoal)
	for _, d := range plan.Schedule {
		fmt.Fprintf(a.out, "\n%-10s %s [%s] at %s\n", d.Day+":", d.Theme, d.PostType, d.BestTime)
		fmt.Fprintf(a.out, "  Idea: %s\n", d.ContentIdea)
		fmt.Fprintf(a.out, "  EN:   %s\n", d.CaptionEnglish)
		fmt.Fprintf(a.out, "  AR:   %s\n", d.CaptionArabic)
		if len(d.Hashtags) > 0 {
			fmt.Fprintf(a.out, "  %s\n", strings.Join(d.Hashtags, " "))
		}
	}
}

// ShowMetrics prints usage for the last days plus process health.
func (a *App) ShowMetrics(days int) error {
	usage, err := a.metricsStore.GetDailyUsage(days)
	if err != nil {
		return fmt.Errorf("failed to fetch metrics: %w", err)
	}
	fmt.Fprint(a.out, metrics.FormatReport(usage, metrics.CollectHealth(a.dbPath, -1)))
	return nil
}

// CleanupMetrics removes metric records older than days.
func (a *App) CleanupMetrics(days int) error {
	affected, err := a.metricsStore.Cleanup(days)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	fmt.Fprintf(a.out, "Successfully removed %d old metric records.\n", affected)
	return nil
}
