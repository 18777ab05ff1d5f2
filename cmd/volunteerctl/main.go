package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"volunteer-hub-backend/internal/bootstrap"
	"volunteer-hub-backend/internal/config"
	"volunteer-hub-backend/internal/jobs"
	"volunteer-hub-backend/internal/repository"
	"volunteer-hub-backend/internal/service"
)

// App holds the dependencies every command needs
type App struct {
	cfg   *config.Config
	store repository.Store
	ctx   context.Context
}

var (
	configPath string
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "volunteerctl",
		Short: "Volunteer Hub admin CLI",
		Long:  `Administrative tasks for the Volunteer Hub backend: schema migration, one-off jobs and rating maintenance.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.store != nil {
				app.store.Close(context.Background())
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.dev.yaml", "Path to configuration file")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(runJobCmd())
	rootCmd.AddCommand(recomputeRatingCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp loads config and connects to the store
func initApp() error {
	cfg, err := bootstrap.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app = &App{cfg: cfg, store: store, ctx: ctx}
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables, collections and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.store.Migrate(app.ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Schema is up to date (%s)\n", app.cfg.Database.Driver)
			return nil
		},
	}
}

func runJobCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "run-job <name>",
		Short:     "Run a scheduled job once",
		Long:      "Run a scheduled job once. Available jobs: " + strings.Join(jobs.JobNames(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: jobs.JobNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := jobs.NewJobRunner(app.store, bootstrap.NewEmailService(app.cfg), app.cfg)
			if !runner.RunByName(args[0]) {
				return fmt.Errorf("unknown job %q, expected one of: %s", args[0], strings.Join(jobs.JobNames(), ", "))
			}
			fmt.Printf("Job %s finished\n", args[0])
			return nil
		},
	}
}

func recomputeRatingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-rating <organizationId>...",
		Short: "Recompute the average rating of one or more organizations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews := service.NewReviewService(
				app.store.Reviews(),
				app.store.Signups(),
				app.store.Opportunities(),
				app.store.Volunteers(),
				app.store.Organizations(),
				nil,
			)
			for _, id := range args {
				if err := reviews.RecomputeOrganizationRating(app.ctx, id); err != nil {
					return fmt.Errorf("organization %s: %w", id, err)
				}
				org, err := app.store.Organizations().GetByID(app.ctx, id)
				if err != nil {
					return fmt.Errorf("organization %s: %w", id, err)
				}
				fmt.Printf("- %s (%s): %.1f from %d reviews\n", org.OrganizationName, org.ID, org.AverageRating, org.TotalReviews)
			}
			return nil
		},
	}
}
