// agendactl is the operator's management tool: schema setup, manual
// ingestion, summary sweeps, demo data, and quick stats.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"AgendaScanner/internal/app"
	"AgendaScanner/internal/config"
	"AgendaScanner/internal/infrastructure/storage"
	"AgendaScanner/internal/logging"
	"AgendaScanner/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	if err := newCLIApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newCLIApp() *cli.App {
	return &cli.App{
		Name:  "agendactl",
		Usage: "Manage the municipal agenda scanner",
		Commands: []*cli.Command{
			initDBCmd(),
			ingestCmd(),
			sweepCmd(),
			statsCmd(),
			seedCmd(),
		},
	}
}

// openStore builds the store from config, initializing the schema so
// every command works on a fresh database.
func openStore(c *cli.Context) (config.Config, *storage.SQLStore, error) {
	cfg := config.Load()
	store, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return cfg, nil, err
	}
	if err := store.InitSchema(c.Context); err != nil {
		store.Close()
		return cfg, nil, err
	}
	return cfg, store, nil
}

func buildPipeline(c *cli.Context) (*usecase.Pipeline, *storage.SQLStore, error) {
	cfg, store, err := openStore(c)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cfg.Logging.Level)
	return app.BuildPipeline(cfg, store, logger), store, nil
}

func initDBCmd() *cli.Command {
	return &cli.Command{
		Name:  "init-db",
		Usage: "Create database tables and indexes",
		Action: func(c *cli.Context) error {
			_, store, err := openStore(c)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Println("Database initialized successfully!")
			return nil
		},
	}
}

func ingestCmd() *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "Run one ingestion pass over all sources",
		Action: func(c *cli.Context) error {
			pipeline, store, err := buildPipeline(c)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := pipeline.RunIngestion(c.Context)
			if err != nil {
				return err
			}
			fmt.Printf("Ingestion %s: %d new records\n", entry.Status, entry.ItemCount)
			return nil
		},
	}
}

func sweepCmd() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Generate summaries for stored records that have none",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 10, Usage: "Max records to process"},
		},
		Action: func(c *cli.Context) error {
			pipeline, store, err := buildPipeline(c)
			if err != nil {
				return err
			}
			defer store.Close()

			processed, err := pipeline.RunMissingSummaries(c.Context, c.Int("limit"))
			if err != nil {
				return err
			}
			fmt.Printf("Generated summaries for %d records\n", processed)
			return nil
		},
	}
}

func statsCmd() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show record counts per source and recent ingestion runs",
		Action: func(c *cli.Context) error {
			_, store, err := openStore(c)
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.CountBySource(c.Context)
			if err != nil {
				return err
			}
			fmt.Println("Records by source:")
			for source, count := range counts {
				fmt.Printf("  %-14s %d\n", source, count)
			}

			logs, err := store.RecentLogs(c.Context, 5)
			if err != nil {
				return err
			}
			fmt.Println("Recent runs:")
			for _, entry := range logs {
				detail := ""
				if entry.ErrorDetail != "" {
					detail = " (" + entry.ErrorDetail + ")"
				}
				fmt.Printf("  %s  %-7s items=%d%s\n",
					entry.StartedAt.Format("2006-01-02 15:04"), entry.Status, entry.ItemCount, detail)
			}
			return nil
		},
	}
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load demo meeting records, skipping links that already exist",
		Action: func(c *cli.Context) error {
			_, store, err := openStore(c)
			if err != nil {
				return err
			}
			defer store.Close()

			added := 0
			for _, rec := range demoRecords() {
				existing, err := store.FindByLink(c.Context, rec.SourceLink)
				if err != nil {
					return err
				}
				if existing != nil {
					fmt.Printf("  Skipping existing: %s\n", rec.Title)
					continue
				}
				if err := store.Upsert(c.Context, &rec); err != nil {
					return err
				}
				fmt.Printf("  Added: %s\n", rec.Title)
				added++
			}
			fmt.Printf("Demo data loaded! Added %d meetings.\n", added)
			return nil
		},
	}
}
