package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"

	"github.com/aistovaai/uavlogviewer/internal/catalog"
	"github.com/aistovaai/uavlogviewer/internal/ingest"
	"github.com/aistovaai/uavlogviewer/internal/query"
	"github.com/aistovaai/uavlogviewer/internal/store"
)

// Run ingests the decoded flight log feed and then either prints the
// parameter catalog or the series of a single requested parameter.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	feed, err := os.Open(config.Log.Path)
	if err != nil {
		return fmt.Errorf("opening flight log feed: %w", err)
	}
	defer feed.Close()

	if stat, statErr := feed.Stat(); statErr == nil {
		logger.Info("ingesting flight log",
			slog.String("path", config.Log.Path),
			slog.String("size", humanize.Bytes(uint64(stat.Size()))))
	}

	st := store.New()
	runner := ingest.New(st, ingest.WithLogger(logger))

	// Single writer: no query runs until the pass has signalled completion.
	done := runner.Begin(ctx, NewJSONLDecoder(feed))
	if err = <-done; err != nil {
		return fmt.Errorf("ingesting flight log: %w", err)
	}

	descriptions, err := catalog.LoadDescriptions(config.Descriptions.Path)
	if err != nil {
		// Reference data is optional; the catalog simply has no text.
		logger.Warn(fmt.Sprintf("failed to load descriptions: %s", err.Error()))
		descriptions = catalog.Descriptions{}
	}

	var options []func(*query.Engine)
	if len(config.Query.DomainPriority) > 0 {
		options = append(options, query.WithDomainPriority(config.Query.DomainPriority...))
	}
	engine := query.New(st, options...)

	if !runner.Reconciliation().Applied() {
		logger.Warn("no clock offset samples observed; the GPS time domain is unavailable")
	}

	if config.Parameter != "" {
		return printSeries(engine, config)
	}
	return printCatalog(catalog.NewBuilder(st, descriptions).Build(), st, engine, config)
}

func printSeries(engine *query.Engine, config *Config) error {
	series, err := engine.Series(config.Parameter, config.Domain)
	if err != nil {
		return fmt.Errorf("querying %s: %w", config.Parameter, err)
	}

	if config.AsJSON {
		return writeJSON(series)
	}

	if series.Empty() {
		// Known parameter, but nothing usable under the current domain
		// fallback. Distinct from the unknown-type error above.
		fmt.Printf("%s: no data under domain %s\n", config.Parameter, config.Domain)
		return nil
	}

	fmt.Printf("%s (%s points, domain %s)\n", config.Parameter, humanize.Comma(int64(series.Len())), config.Domain)
	for i, t := range series.Times {
		fmt.Printf("%.6f\t%s\n", t, series.Values[i])
	}
	return nil
}

func printCatalog(c catalog.Catalog, st *store.Store, engine *query.Engine, config *Config) error {
	if config.AsJSON {
		return writeJSON(c)
	}

	fmt.Printf("%s records, %d message types, domains: %v\n\n",
		humanize.Comma(int64(st.Len())), len(c), engine.AvailableDomains())

	for _, msgType := range st.Types() {
		entry := c[msgType]

		fmt.Printf("%s (%s records, domains %v)", msgType, humanize.Comma(int64(len(st.Records(msgType)))), entry.Domains)
		if entry.Description != "" {
			fmt.Printf(" - %s", entry.Description)
		}
		fmt.Println()

		fields := make([]string, 0, len(entry.Fields))
		for name := range entry.Fields {
			fields = append(fields, name)
		}
		sort.Strings(fields)

		for _, name := range fields {
			f := entry.Fields[name]
			marker := " "
			if f.HasData {
				marker = "*"
			}
			fmt.Printf("  %s %-24s %s\n", marker, f.QualifiedName, f.Description)
		}
		fmt.Println()
	}
	return nil
}

func writeJSON(v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}
