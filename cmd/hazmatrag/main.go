// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/hazmatrag"
	"github.com/poiesic/hazmatrag/catalog"
	"github.com/poiesic/hazmatrag/config"
	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/search"
)

// smokeQueries are run after a build with --smoke.
var smokeQueries = []string{"UN1133", "锂电池", "易燃液体的包装要求"}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "hazmatrag",
		Usage: "Hybrid retrieval over the hazardous chemicals catalog and transport regulations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Database directory (overrides config)",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Catalog backend: badger or sqlite (overrides config)",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "Colorize output (auto, always, never)",
				Value: "auto",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "query",
				Usage:     "Answer a query from the catalog and the regulation index",
				ArgsUsage: "<query>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "strategy",
						Aliases: []string{"s"},
						Usage:   "Search strategy (auto, exact, semantic, hybrid)",
						Value:   "auto",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum hits per search (0 uses the configured default)",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Print the query flow",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the result as JSON",
					},
				},
			},
			{
				Name:   "build",
				Usage:  "Import the catalog and the regulation appendix, then index both",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "catalog",
						Usage:    "Catalog file (.csv or .xlsx)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "sheet",
						Usage: "Workbook sheet name or zero-based index",
					},
					&cli.StringFlag{
						Name:  "appendix",
						Usage: "Regulation appendix in markdown",
					},
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "Replace an existing catalog and index",
					},
					&cli.BoolFlag{
						Name:  "smoke",
						Usage: "Run sample queries after the build",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print catalog and index statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the statistics as JSON",
					},
				},
			},
			{
				Name:   "reset",
				Usage:  "Remove every document from the semantic index",
				Action: resetCommand,
			},
			{
				Name:   "rebuild",
				Usage:  "Reset the index and re-index the catalog and appendix",
				Action: rebuildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "appendix",
						Usage: "Regulation appendix in markdown",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 500 * time.Millisecond,
					},
				},
			},
			{
				Name:   "convert",
				Usage:  "Convert a catalog workbook to UTF-8 CSV",
				Action: convertCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Workbook to convert",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "CSV file to write (default: input with .csv extension)",
					},
					&cli.StringFlag{
						Name:  "sheet",
						Usage: "Sheet name or zero-based index",
					},
				},
			},
		},
	}
}

// loadConfig layers the config file, HAZMAT_* variables and global flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if dir := c.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if backend := c.String("backend"); backend != "" {
		cfg.CatalogBackend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openDatabase(c *cli.Context) (*hazmatrag.Database, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	db, err := hazmatrag.NewDatabase(cfg.DataDir, hazmatrag.WithConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query text is required")
	}
	strategy, err := core.ParseStrategy(c.String("strategy"))
	if err != nil {
		return err
	}
	if c.Int("top-k") < 0 {
		return fmt.Errorf("top-k must not be negative")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var monitor search.Monitor
	if c.Bool("verbose") {
		monitor = search.NewVerboseMonitor(c.App.ErrWriter)
	}
	result := db.QueryWithMonitor(ctx, query, strategy, c.Int("top-k"), monitor)

	if c.Bool("json") {
		return writeJSON(c.App.Writer, newResultView(&result))
	}
	p, err := newPrinter(c)
	if err != nil {
		return err
	}
	p.result(&result)
	return nil
}

func buildCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	cfg := db.Config()
	fmt.Fprintf(c.App.ErrWriter, "Database: %s (catalog backend: %s)\n", cfg.DataDir, cfg.CatalogBackend)
	fmt.Fprintf(c.App.ErrWriter, "Catalog: %s\n", c.String("catalog"))
	if appendix := c.String("appendix"); appendix != "" {
		fmt.Fprintf(c.App.ErrWriter, "Appendix: %s\n", appendix)
	}
	fmt.Fprintln(c.App.ErrWriter)

	report, err := db.Build(ctx, hazmatrag.BuildInput{
		CatalogPath:  c.String("catalog"),
		Sheet:        c.String("sheet"),
		AppendixPath: c.String("appendix"),
		Overwrite:    c.Bool("overwrite"),
	})
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	p, err := newPrinter(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Imported %d catalog records (%d skipped)\n", report.ChemicalsAdded, report.ChemicalsSkipped)
	fmt.Fprintf(c.App.Writer, "Indexed %d chemical documents and %d regulation chunks\n\n", report.ChemicalDocs, report.RegulationChunks)
	p.stats(&report.Stats)

	if c.Bool("smoke") {
		fmt.Fprintln(c.App.Writer)
		for _, q := range smokeQueries {
			result := db.Query(ctx, q, core.StrategyAuto, 0)
			fmt.Fprintf(c.App.Writer, "%s: %d chemicals, %d regulations\n", q, result.TotalChemicals, result.TotalRegulations)
		}
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read statistics: %w", err)
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, newStatsView(&stats))
	}
	p, err := newPrinter(c)
	if err != nil {
		return err
	}
	p.stats(&stats)
	return nil
}

func resetCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ResetIndex(context.Background()); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Fprintln(c.App.Writer, "Index reset. The catalog was kept; run rebuild to re-index it.")
	return nil
}

func rebuildCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if c.Int("max-retries") <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	rebuilder, err := db.NewRebuilder(c.App.ErrWriter,
		hazmatrag.WithReportInterval(c.Int("report-interval")),
		hazmatrag.WithRetries(c.Int("max-retries"), c.Duration("retry-delay")),
	)
	if err != nil {
		return err
	}

	appendix, err := readOptional(c.String("appendix"))
	if err != nil {
		return err
	}

	summary, err := rebuilder.Run(ctx, appendix)
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Indexed %d chemical documents and %d regulation chunks\n", summary.Chemicals, summary.Regulations)
	return nil
}

func convertCommand(c *cli.Context) error {
	output, rows, err := catalog.ConvertXLSXToCSV(c.String("input"), c.String("output"), c.String("sheet"))
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote %d rows to %s\n", rows, output)
	return nil
}

func newPrinter(c *cli.Context) (*printer, error) {
	useColors, err := resolveColors(c.String("color"))
	if err != nil {
		return nil, err
	}
	return &printer{out: c.App.Writer, useColors: useColors}, nil
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read appendix: %w", err)
	}
	return string(data), nil
}

func setupLogger(c *cli.Context) error {
	level, err := config.ParseLogLevel(c.String("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.String("log-level"))
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
