package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mchmarny/punch/pkg/vectors"
	urfave "github.com/urfave/cli/v3"
)

var errVectorsFailed = errors.New("vector cases failed")

const (
	tableFlagName       = "table"
	fileFlagName        = "file"
	toleranceFlagName   = "tolerance"
	parallelismFlagName = "parallelism"
)

func newVectorsCmd() *urfave.Command {
	return &urfave.Command{
		Name:            "vectors",
		Aliases:         []string{"v"},
		Usage:           "Work with the reference test vectors",
		HideHelpCommand: true,
		Commands: []*urfave.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List the embedded tables",
				Action:  cmdListVectors,
			},
			{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "Evaluate tables and report expected vs actual damage",
				UsageText: `punch vectors run                                   # all embedded tables
   punch vectors run --table boundary                  # one embedded table
   punch vectors run --file my-cases.yaml --format json`,
				Action: cmdRunVectors,
				Flags: []urfave.Flag{
					&urfave.StringSliceFlag{
						Name:  tableFlagName,
						Usage: "Embedded table to run (can be specified multiple times, default: all)",
					},
					&urfave.StringSliceFlag{
						Name:  fileFlagName,
						Usage: "YAML table file to run (can be specified multiple times)",
					},
					&urfave.FloatFlag{
						Name:  toleranceFlagName,
						Usage: "Absolute difference under which a case passes (default: from config)",
					},
					&urfave.IntFlag{
						Name:  parallelismFlagName,
						Usage: "Number of cases evaluated concurrently (default: from config)",
					},
				},
			},
		},
	}
}

func cmdListVectors(ctx context.Context, cmd *urfave.Command) error {
	format, err := outputFormat(ctx, cmd)
	if err != nil {
		return err
	}

	tables, err := vectors.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load tables: %w", err)
	}

	list := make([]*tableSummary, 0, len(tables))
	for _, t := range tables {
		list = append(list, &tableSummary{
			Name:        t.Name,
			Description: t.Description,
			Cases:       len(t.Cases),
		})
	}

	text := func(w io.Writer) error { return writeTableList(w, list) }
	if err := encode(cmd.Root().Writer, format, list, text); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func cmdRunVectors(ctx context.Context, cmd *urfave.Command) error {
	format, err := outputFormat(ctx, cmd)
	if err != nil {
		return err
	}
	cfg := getConfig(ctx).Config

	tables, err := selectTables(cmd.StringSlice(tableFlagName), cmd.StringSlice(fileFlagName))
	if err != nil {
		return err
	}

	opts := vectors.RunOptions{
		Tolerance:   cfg.Tolerance,
		Parallelism: cfg.Parallelism,
	}
	if cmd.IsSet(toleranceFlagName) {
		opts.Tolerance = cmd.Float(toleranceFlagName)
	}
	if cmd.IsSet(parallelismFlagName) {
		opts.Parallelism = int(cmd.Int(parallelismFlagName))
	}

	report, err := vectors.Run(ctx, tables, opts)
	if err != nil {
		return fmt.Errorf("failed to run vectors: %w", err)
	}

	text := func(w io.Writer) error { return writeReport(w, report) }
	if err := encode(cmd.Root().Writer, format, report, text); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	if report.Failed > 0 {
		for _, o := range report.Failures() {
			slog.Warn("case failed", "table", o.Table, "id", o.ID, "expected", o.Expected, "got", o.Got)
		}
		return fmt.Errorf("%w: %d of %d", errVectorsFailed, report.Failed, report.Total)
	}
	return nil
}

func selectTables(names, files []string) ([]*vectors.Table, error) {
	if len(names) == 0 && len(files) == 0 {
		list, err := vectors.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to load tables: %w", err)
		}
		return list, nil
	}

	list := make([]*vectors.Table, 0, len(names)+len(files))
	for _, n := range names {
		t, err := vectors.Load(n)
		if err != nil {
			return nil, fmt.Errorf("failed to load table: %w", err)
		}
		list = append(list, t)
	}
	for _, p := range files {
		t, err := vectors.LoadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to load table file: %w", err)
		}
		list = append(list, t)
	}
	return list, nil
}
