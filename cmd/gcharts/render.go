package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leengari/gcharts/gcharts"
	"github.com/leengari/gcharts/internal/config"
)

var renderFlags struct {
	spec   string
	format string
	output string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a chart described by a YAML chart spec",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	fs := renderCmd.Flags()
	fs.StringVar(&renderFlags.spec, "spec", "", "Path to the YAML chart spec")
	fs.StringVar(&renderFlags.format, "format", "", "Override the output format: json, response, csv, tsv, html, js")
	fs.StringVarP(&renderFlags.output, "output", "o", "", "Write to this file instead of stdout")
	_ = renderCmd.MarkFlagRequired("spec")
}

func runRender(cmd *cobra.Command, _ []string) error {
	file, err := config.Load(renderFlags.spec)
	if err != nil {
		return err
	}
	if renderFlags.format != "" {
		file.Chart.Format = renderFlags.format
		if err := file.Validate(); err != nil {
			return err
		}
	}

	chart, err := file.Build()
	if err != nil {
		return err
	}
	slog.Info("chart spec loaded",
		"spec", renderFlags.spec,
		"table", chart.Spec.Table,
		"format", chart.Spec.Format,
	)

	qs := gcharts.New(chart.Query)
	qs.AddObserver(gcharts.NewLoggingObserver(slog.Default()))

	out, err := renderChart(qs, chart.Spec, chart.Options)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if renderFlags.output != "" {
		f, err := os.Create(renderFlags.output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err = w.Write(out)
	return err
}

// renderChart encodes qs in the format chosen by spec
func renderChart(qs *gcharts.QuerySet, spec config.ChartSpec, opts gcharts.Options) ([]byte, error) {
	var s string
	var err error
	switch spec.Format {
	case config.FormatJSON:
		s, err = qs.ToJSON(opts)
	case config.FormatResponse:
		s, err = qs.ToJSONResponse(opts, gcharts.ResponseOptions{
			ReqID:   spec.ReqID,
			Handler: spec.Handler,
			Bare:    spec.Bare,
		})
	case config.FormatCSV:
		s, err = qs.ToCSV(opts, spec.SeparatorRune())
	case config.FormatTSV:
		return qs.ToTSVExcel(opts)
	case config.FormatHTML:
		s, err = qs.ToHTML(opts)
	case config.FormatJS:
		s, err = qs.ToJavaScript(spec.Name, opts)
	default:
		return nil, fmt.Errorf("unknown format %q", spec.Format)
	}
	if err != nil {
		return nil, err
	}
	return []byte(s + "\n"), nil
}
