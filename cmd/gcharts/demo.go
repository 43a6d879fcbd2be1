package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/leengari/gcharts/gcharts"
	"github.com/leengari/gcharts/internal/config"
	"github.com/leengari/gcharts/internal/demo"
)

var demoFlags struct {
	seed   uint64
	format string
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Seed random demo data and print the demo charts",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

func init() {
	fs := demoCmd.Flags()
	fs.Uint64Var(&demoFlags.seed, "seed", 1, "Random seed for the demo data")
	fs.StringVar(&demoFlags.format, "format", config.FormatJSON, "Output format: json, response, csv, html, js")
}

func runDemo(cmd *cobra.Command, _ []string) error {
	today := time.Now()
	tables := demo.NewTables()
	if err := demo.Seed(tables, rand.New(rand.NewPCG(demoFlags.seed, demoFlags.seed)), today); err != nil {
		return err
	}
	slog.Info("demo data seeded",
		"geodata", tables.GeoData.Len(),
		"otherdata", tables.OtherData.Len(),
	)

	observer := gcharts.NewLoggingObserver(slog.Default())
	for _, c := range demo.Charts(tables, today) {
		qs := gcharts.New(c.Query)
		qs.AddObserver(observer)

		out, err := renderChart(qs, config.ChartSpec{Format: demoFlags.format, Name: c.Name + "_data"}, c.Options)
		if err != nil {
			return fmt.Errorf("%s chart: %w", c.Name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "// %s\n%s", c.Name, out)
	}
	return nil
}
