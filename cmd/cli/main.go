package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"normscope/adapters/excel"
	"normscope/adapters/stats"
	"normscope/domain/cohort"
	"normscope/domain/core"
	"normscope/domain/norms"
	"normscope/internal/report"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "normscope-cli",
		Short: "Normative scoring over a cognitive-assessment spreadsheet",
	}

	rootCmd.AddCommand(
		newColumnsCmd(),
		newSummaryCmd(),
		newScoreCmd(),
		newAssessCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newColumnsCmd() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "columns [data-file]",
		Short: "List the metric columns a spreadsheet provides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColumns(cmd.Context(), args[0], sheet)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet to read (xlsx only)")

	return cmd
}

func newSummaryCmd() *cobra.Command {
	var sheet, metric string
	var ageMin, ageMax, iqMin, iqMax float64

	cmd := &cobra.Command{
		Use:   "summary [data-file]",
		Short: "Cohort statistics for one metric under an age/IQ filter",
		Long: `Filter the cohort by inclusive age and IQ ranges and describe one metric
column over the matching records.

Example: normscope-cli summary battery.xlsx --metric PL --age-min 20 --age-max 60`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cohort.Filter{
				Age: cohort.NewRange(ageMin, ageMax),
				IQ:  cohort.NewRange(iqMin, iqMax),
			}
			return runSummary(cmd.Context(), args[0], sheet, metric, f)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet to read (xlsx only)")
	cmd.Flags().StringVar(&metric, "metric", "", "Metric column to describe (required)")
	cmd.Flags().Float64Var(&ageMin, "age-min", 18, "Minimum age, inclusive")
	cmd.Flags().Float64Var(&ageMax, "age-max", 120, "Maximum age, inclusive")
	cmd.Flags().Float64Var(&iqMin, "iq-min", 70, "Minimum IQ, inclusive")
	cmd.Flags().Float64Var(&iqMax, "iq-max", 180, "Maximum IQ, inclusive")
	cmd.MarkFlagRequired("metric")

	return cmd
}

func newScoreCmd() *cobra.Command {
	var sheet, metric string
	var observed float64
	var ageMin, ageMax, iqMin, iqMax float64

	cmd := &cobra.Command{
		Use:   "score [data-file]",
		Short: "Z-score one observed value against the filtered cohort",
		Long: `Compute the cohort statistics for a metric, then place one observed value
on that distribution: z = (observed - mean) / std.

Example: normscope-cli score battery.xlsx --metric PL --observed 115`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cohort.Filter{
				Age: cohort.NewRange(ageMin, ageMax),
				IQ:  cohort.NewRange(iqMin, iqMax),
			}
			return runScore(cmd.Context(), args[0], sheet, metric, observed, f)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet to read (xlsx only)")
	cmd.Flags().StringVar(&metric, "metric", "", "Metric column to score against (required)")
	cmd.Flags().Float64Var(&observed, "observed", 0, "Observed value to z-score (required)")
	cmd.Flags().Float64Var(&ageMin, "age-min", 18, "Minimum age, inclusive")
	cmd.Flags().Float64Var(&ageMax, "age-max", 120, "Maximum age, inclusive")
	cmd.Flags().Float64Var(&iqMin, "iq-min", 70, "Minimum IQ, inclusive")
	cmd.Flags().Float64Var(&iqMax, "iq-max", 180, "Maximum IQ, inclusive")
	cmd.MarkFlagRequired("metric")
	cmd.MarkFlagRequired("observed")

	return cmd
}

func newAssessCmd() *cobra.Command {
	var sheet, out string
	var obs []string
	var ageMin, ageMax, iqMin, iqMax float64

	cmd := &cobra.Command{
		Use:   "assess [data-file]",
		Short: "Score a full battery and emit the markdown report",
		Long: `Run every supplied construct through the filter-and-score pass and write
the interpretation report as markdown, to stdout or to a file.

Example: normscope-cli assess battery.xlsx --obs PL=50 --obs AVG=46.9 --out report.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cohort.Filter{
				Age: cohort.NewRange(ageMin, ageMax),
				IQ:  cohort.NewRange(iqMin, iqMax),
			}
			observations, err := parseObservations(obs)
			if err != nil {
				return err
			}
			return runAssess(cmd.Context(), args[0], sheet, f, observations, out)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet to read (xlsx only)")
	cmd.Flags().StringArrayVar(&obs, "obs", nil, "Observed value as CONSTRUCT=VALUE (repeatable, required)")
	cmd.Flags().StringVar(&out, "out", "", "Write the markdown report to this file instead of stdout")
	cmd.Flags().Float64Var(&ageMin, "age-min", 18, "Minimum age, inclusive")
	cmd.Flags().Float64Var(&ageMax, "age-max", 120, "Maximum age, inclusive")
	cmd.Flags().Float64Var(&iqMin, "iq-min", 70, "Minimum IQ, inclusive")
	cmd.Flags().Float64Var(&iqMax, "iq-max", 180, "Maximum IQ, inclusive")
	cmd.MarkFlagRequired("obs")

	return cmd
}

func loadTable(ctx context.Context, path, sheet string) (*cohort.Table, error) {
	loader := excel.NewLoader(sheet, cohort.DefaultSchema())
	table, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return table, nil
}

func newEngine() (*stats.Engine, error) {
	return stats.NewEngine(norms.DefaultBands())
}

// parseObservations turns repeated --obs CONSTRUCT=VALUE flags into the
// observation map the engine consumes.
func parseObservations(pairs []string) (map[core.MetricKey]float64, error) {
	observations := make(map[core.MetricKey]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("invalid --obs %q (expected CONSTRUCT=VALUE)", pair)
		}
		key, err := core.ParseMetricKey(name)
		if err != nil {
			return nil, fmt.Errorf("invalid --obs %q: %w", pair, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --obs %q: value is not a number", pair)
		}
		observations[key] = v
	}
	return observations, nil
}

func runColumns(ctx context.Context, path, sheet string) error {
	table, err := loadTable(ctx, path, sheet)
	if err != nil {
		return err
	}

	fmt.Printf("Source: %s (%s)\n", table.Source, table.Fingerprint.Short())
	fmt.Printf("Records: %d\n", table.RowCount())

	ageLo, ageHi := table.AgeBounds()
	iqLo, iqHi := table.IQBounds()
	fmt.Printf("Age span: %g ~ %g\n", ageLo, ageHi)
	fmt.Printf("IQ span: %g ~ %g\n", iqLo, iqHi)

	fmt.Printf("\nMetric columns:\n")
	for _, key := range table.MetricKeys() {
		fmt.Printf("  %s\n", key)
	}

	return nil
}

func runSummary(ctx context.Context, path, sheet, metric string, f cohort.Filter) error {
	table, err := loadTable(ctx, path, sheet)
	if err != nil {
		return err
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}

	key, err := core.ParseMetricKey(metric)
	if err != nil {
		return err
	}
	summary, err := engine.Summarize(table, f, key)
	if err != nil {
		return err
	}

	fmt.Printf("=== COHORT STATISTICS: %s ===\n", summary.Metric)
	fmt.Printf("Age range: %s\n", summary.Filter.Age)
	fmt.Printf("IQ range: %s\n", summary.Filter.IQ)
	fmt.Printf("N: %d\n", summary.Count)
	fmt.Printf("Mean: %.4f\n", summary.Mean)
	fmt.Printf("Std (sample): %.4f\n", summary.StdDev)
	fmt.Printf("Min: %.4f  Max: %.4f\n", summary.Min, summary.Max)
	fmt.Printf("Median: %.4f  Q25: %.4f  Q75: %.4f\n", summary.Median, summary.Q25, summary.Q75)

	return nil
}

func runScore(ctx context.Context, path, sheet, metric string, observed float64, f cohort.Filter) error {
	table, err := loadTable(ctx, path, sheet)
	if err != nil {
		return err
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}

	key, err := core.ParseMetricKey(metric)
	if err != nil {
		return err
	}
	summary, err := engine.Summarize(table, f, key)
	if err != nil {
		return err
	}
	score, err := engine.Score(observed, summary)
	if err != nil {
		return err
	}

	fmt.Printf("=== Z-SCORE: %s ===\n", score.Metric)
	fmt.Printf("Observed: %g\n", score.Observed)
	fmt.Printf("Cohort: N=%d mean=%.4f std=%.4f\n", summary.Count, summary.Mean, summary.StdDev)
	fmt.Printf("Z: %.4f\n", score.Z)
	fmt.Printf("Percentile: %.1f\n", score.Percentile)
	fmt.Printf("Band: %s\n", score.Band)

	return nil
}

func runAssess(ctx context.Context, path, sheet string, f cohort.Filter, observations map[core.MetricKey]float64, out string) error {
	table, err := loadTable(ctx, path, sheet)
	if err != nil {
		return err
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}

	assessment, err := engine.Assess(table, f, observations)
	if err != nil {
		return err
	}

	md := report.Markdown(assessment, engine.Bands())
	if out != "" {
		if err := os.WriteFile(out, []byte(md), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Printf("Report written to %s\n", out)
	} else {
		fmt.Print(md)
	}

	fmt.Fprintf(os.Stderr, "%s\n", report.Summary(assessment))

	return nil
}
