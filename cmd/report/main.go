package main

import (
	"context"
	"fmt"
	"os"

	"github.com/claimsight/revcycle-analytics/internal/adapters/database"
	"github.com/claimsight/revcycle-analytics/internal/application/services"
	"github.com/claimsight/revcycle-analytics/internal/infrastructure/clients/postgres"
	"github.com/claimsight/revcycle-analytics/internal/infrastructure/observability"
	"github.com/claimsight/revcycle-analytics/pkg/config"
)

// One-shot executive summary for cron jobs and ad-hoc runs. Reads the
// snapshot, computes every metric view and prints the rendered briefing to
// stdout.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	analyticsService := services.NewAnalyticsService(
		database.NewClaimAdapter(pgClient),
		database.NewPaymentAdapter(pgClient),
		database.NewDenialAdapter(pgClient),
		database.NewEncounterAdapter(pgClient),
		database.NewPayerAdapter(pgClient),
		nil,
	)

	report, err := analyticsService.GenerateReport(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to generate report")
	}

	fmt.Print(services.RenderExecutiveSummary(report))
}
