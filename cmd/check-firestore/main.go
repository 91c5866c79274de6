package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/ev-dashboard/apps/api/internal/platform/firestore"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/platform/logging"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/repository"
)

// check-firestore prints the published overview and the latest load runs.
func main() {
	_ = godotenv.Load(".env.local", ".env")
	limit := flag.Int("runs", 5, "number of recent load runs to show")
	flag.Parse()

	logger := logging.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, source, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("firestore init")
	}
	defer client.Close()
	logger.Info().Str("project", cfg.FirebaseProjectID).Str("credentials", source).Msg("connected")

	ov, err := repository.NewStatsRepository(client).GetOverview(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("no overview published yet")
	} else {
		fmt.Printf("Overview (updated %s)\n", ov.LastUpdated.Format(time.RFC3339))
		fmt.Printf("  Total EVs:        %d\n", ov.TotalEVs)
		fmt.Printf("  Top city:         %s (%d)\n", ov.TopCity.City, ov.TopCity.Count)
		fmt.Printf("  Top manufacturer: %s (%d)\n", ov.TopManufacturer.Make, ov.TopManufacturer.Count)
		fmt.Printf("  Fingerprint:      %s\n\n", ov.Fingerprint)
	}

	runs, err := repository.NewRunRepository(client).ListRecent(ctx, *limit)
	if err != nil {
		logger.Error().Err(err).Msg("list load runs")
		os.Exit(1)
	}
	fmt.Printf("Latest %d load runs:\n", len(runs))
	for _, r := range runs {
		fmt.Printf("  %s  %-8s %7d records  %s", r.StartedAt.Format(time.RFC3339), r.Status, r.Records, r.Source)
		if r.Error != "" {
			fmt.Printf("  error: %s", r.Error)
		}
		fmt.Println()
	}
}
