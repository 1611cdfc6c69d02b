package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-forecast-chart/internal/chart"
	"github.com/i474232898/weather-forecast-chart/internal/config"
	"github.com/i474232898/weather-forecast-chart/internal/forecast"
)

var renderFlags struct {
	input  string
	config string
	kind   string
	indent bool
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Build a chart description from a saved payload",
	Long: `Reads a one-call forecast payload (from --input or stdin) and prints the
chart description as JSON. No network access is needed.`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.input, "input", "i", "-", "payload JSON file, - for stdin")
	f.StringVarP(&renderFlags.config, "config", "c", os.Getenv("CHART_CONFIG"), "chart options YAML file")
	f.StringVarP(&renderFlags.kind, "type", "t", "", "hourly or daily (default from chart options)")
	f.BoolVar(&renderFlags.indent, "indent", true, "indent the JSON output")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	opts, err := config.LoadChartOptions(renderFlags.config)
	if err != nil {
		return err
	}

	var kind forecast.Kind
	if renderFlags.kind != "" {
		if kind, err = forecast.ParseKind(renderFlags.kind); err != nil {
			return err
		}
	}

	in := cmd.InOrStdin()
	if renderFlags.input != "-" {
		f, err := os.Open(renderFlags.input)
		if err != nil {
			return fmt.Errorf("open payload: %w", err)
		}
		defer f.Close()
		in = f
	}
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	payload, err := forecast.Decode(raw)
	if err != nil {
		return err
	}

	builder, err := chart.NewBuilder(opts)
	if err != nil {
		return err
	}
	desc, err := builder.Build(payload, kind)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if renderFlags.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(desc)
}
