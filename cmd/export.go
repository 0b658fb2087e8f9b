package main

import (
	"context"

	"github.com/desertthunder/songdash/internal/dashboard"
	"github.com/desertthunder/songdash/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Export writes the report in the requested format to a file, or to stdout when --output is "-".
//
// csv and txt only need the explorer rows, so the other pages are not rendered for them.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	criteria, err := r.criteria(ctx, cmd)
	if err != nil {
		return err
	}

	var report *dashboard.Report
	switch f {
	case formatter.FormatCSV, formatter.FormatText:
		report = &dashboard.Report{}
		if criteria == nil {
			controls, err := r.dashboard.Controls(ctx)
			if err != nil {
				return err
			}
			criteria = &controls.Defaults
		}
	default:
		if report, err = r.dashboard.Report(ctx); err != nil {
			return err
		}
	}

	if criteria != nil {
		if report.Explore, err = r.dashboard.Explore(ctx, nil, *criteria); err != nil {
			return err
		}
	}

	output := cmd.String("output")
	if output == "-" {
		data, err := formatter.Export(report, f)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	path, err := formatter.WriteExport(report, f, output)
	if err != nil {
		return err
	}

	r.logger.Info("export written", "format", f, "path", path)
	return r.writePlain("✓ Exported %s to %s\n", f, path)
}
