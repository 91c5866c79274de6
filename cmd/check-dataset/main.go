package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dashboard"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dataset"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/platform/logging"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

// check-dataset loads the dataset once and prints what the dashboard would show.
func main() {
	_ = godotenv.Load(".env.local", ".env")

	path := flag.String("dataset", os.Getenv("DATASET_PATH"), "CSV path or http(s) URL")
	query := flag.String("query", "", "dashboard query string, e.g. city=Seattle&model_year=2022")
	topN := flag.Int("top", dashboard.DefaultTopN, "named buckets kept in make/county views")
	asJSON := flag.Bool("json", false, "print the dashboard as JSON")
	timeout := flag.Duration("timeout", 2*time.Minute, "give up after this long")
	flag.Parse()

	logger := logging.New("warn", "console")
	if *path == "" {
		*path = "data/Electric_Vehicle_Population_Data.csv"
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store := dataset.NewStore(dataset.NewSource(*path, nil), logger)
	ds, err := store.Load(ctx)
	if err != nil {
		fatal(logger, err, "load dataset")
	}

	criteria, err := dashboard.DecodeQuery(*query)
	if err != nil {
		fatal(logger, err, "decode query")
	}
	d := dashboard.Build(ds.Records, criteria, *topN)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			fatal(logger, err, "encode dashboard")
		}
		return
	}

	ov := dashboard.BuildOverview(ds.Records)
	fmt.Printf("Source: %s (%d records, fingerprint %s)\n", ds.Source, len(ds.Records), ds.Fingerprint)
	fmt.Printf("Top city: %s (%d)  Top manufacturer: %s (%d)\n\n",
		ov.TopCity.City, ov.TopCity.Count, ov.TopManufacturer.Make, ov.TopManufacturer.Count)

	fmt.Println("=== Filter options ===")
	for _, cat := range dashboard.DeriveFilters(ds.Records) {
		opts := cat.Options
		more := ""
		if len(opts) > 8 {
			more = fmt.Sprintf(" ... (+%d)", len(opts)-8)
			opts = opts[:8]
		}
		fmt.Printf("  %-40s %s%s\n", cat.Name, strings.Join(opts, ", "), more)
	}

	fmt.Printf("\n=== Dashboard for %q ===\n", criteria.Encode())
	fmt.Printf("Vehicles: %d  Top make: %s  Avg range: %d  Most common year: %s\n",
		d.Count, d.Summary.TopMake, d.Summary.AvgElectricRange, d.Summary.MostCommonYear)
	printDist("Makes", d.MakeDistribution)
	printDist("EV types", d.EVTypeDistribution)
	printDist("Model years", d.YearlyTrend)
	printDist("Range", d.RangeDistribution)
	printDist("Counties", d.CountyDistribution)
}

func printDist(title string, dist model.Distribution) {
	fmt.Printf("\n%s:\n", title)
	for _, b := range dist {
		fmt.Printf("  %-45s %d\n", b.Name, b.Value)
	}
}

func fatal(logger zerolog.Logger, err error, msg string) {
	logger.Error().Err(err).Msg(msg)
	os.Exit(1)
}
