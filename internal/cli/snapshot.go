package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/noah-isme/fms-dashboard-api/internal/models"
	"github.com/noah-isme/fms-dashboard-api/internal/service"
	"github.com/noah-isme/fms-dashboard-api/pkg/timewindow"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// Rates at or above these thresholds print green and yellow respectively.
const (
	healthyRate = 90
	warningRate = 70
)

type snapshotResult struct {
	Window  timewindow.Kind        `json:"window"`
	Range   timewindow.Range       `json:"range"`
	Metrics models.MetricsSnapshot `json:"metrics"`
	AsOf    time.Time              `json:"asOf"`
}

func newSnapshotCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Compute dashboard metrics for a window from a data file.",
		Example: `  fmsctl snapshot --input facility.yaml --window quarterly
  fmsctl snapshot --input facility.json --window custom --start 2024-05-01 --end "last friday" --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := v.GetString("input")
			if input == "" {
				return fmt.Errorf("--input is required")
			}
			data, err := loadDataset(input)
			if err != nil {
				return err
			}

			loc, err := time.LoadLocation(v.GetString("timezone"))
			if err != nil {
				return fmt.Errorf("invalid timezone: %w", err)
			}
			now := time.Now().In(loc)
			if raw := v.GetString("now"); raw != "" {
				if now, err = time.Parse(time.RFC3339, raw); err != nil {
					return fmt.Errorf("invalid --now: %w", err)
				}
				now = now.In(loc)
			}

			parser := timewindow.NewParser(loc, timewindow.KindMonthly)
			sel := parser.Parse(v.GetString("window"), v.GetString("start"), v.GetString("end"), now)
			result := snapshotResult{
				Window:  sel.Kind(),
				Range:   timewindow.Bounds(sel, now),
				Metrics: service.ComputeSnapshot(data.InLocation(loc), sel, now),
				AsOf:    now,
			}

			switch v.GetString("output") {
			case outputJSON:
				return writeJSON(cmd.OutOrStdout(), result)
			case outputTable, "":
				return writeTable(cmd.OutOrStdout(), result, !v.GetBool("no-color"))
			default:
				return fmt.Errorf("unknown output %q (want table or json)", v.GetString("output"))
			}
		},
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", "", "YAML or JSON file with service_requests, work_orders and assets")
	flags.StringP("window", "w", string(timewindow.KindMonthly), "weekly, monthly, quarterly, yearly or custom")
	flags.String("start", "", "custom window start (YYYY-MM-DD or natural language)")
	flags.String("end", "", "custom window end (YYYY-MM-DD or natural language)")
	flags.StringP("output", "o", outputTable, "table or json")
	flags.Bool("no-color", false, "disable colored rates")
	flags.String("timezone", "UTC", "IANA timezone used for calendar days")
	flags.String("now", "", "evaluate as of this RFC3339 instant instead of the wall clock")
	_ = v.BindPFlags(flags)

	return cmd
}

func writeJSON(w io.Writer, result snapshotResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func writeTable(w io.Writer, result snapshotResult, useColors bool) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	rows := service.SnapshotRows(result.Metrics)
	for _, row := range rows {
		if isRate(row[0]) {
			row[1] = colorRate(row[1], useColors)
		}
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Window: %s (%s)\n", result.Window, describeRange(result.Range))
	return err
}

func isRate(metric string) bool {
	return metric == "resolutionRate" || metric == "ppmComplianceRate"
}

func colorRate(value string, useColors bool) string {
	n, err := strconv.Atoi(value)
	if err != nil || !useColors {
		return value + "%"
	}
	paint := color.New(color.FgRed).SprintFunc()
	switch {
	case n >= healthyRate:
		paint = color.New(color.FgGreen).SprintFunc()
	case n >= warningRate:
		paint = color.New(color.FgYellow).SprintFunc()
	}
	return paint(value + "%")
}

func describeRange(r timewindow.Range) string {
	switch {
	case r.From != nil && r.To != nil:
		return r.From.Format("2006-01-02") + " to " + r.To.Format("2006-01-02")
	case r.From != nil:
		return "since " + r.From.Format(time.RFC3339)
	default:
		return "all records"
	}
}
