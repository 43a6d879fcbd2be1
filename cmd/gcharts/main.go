package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leengari/gcharts/internal/logging"
)

var rootFlags struct {
	logLevel string
	seqURL   string
}

var closeLogger = func() {}

var rootCmd = &cobra.Command{
	Use:   "gcharts",
	Short: "Render Google Charts DataTables from tabular data",
	Long: `
gcharts builds Google Visualization DataTables from typed tables and prints
them as DataTable JSON, a data source response, CSV, UTF-16 TSV for Excel,
an HTML table or JavaScript.
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger, closeFn := logging.SetupLogger(logging.Config{
			Level:  rootFlags.logLevel,
			SeqURL: rootFlags.seqURL,
			Output: os.Stderr,
		})
		closeLogger = closeFn
		slog.SetDefault(logger)
		logging.InitDiagnostics(logger.With("component", "resolve"))
		slog.Debug("logger ready", "command", cmd.Name())
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		closeLogger()
	},
}

func init() {
	pfs := rootCmd.PersistentFlags()
	pfs.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pfs.StringVar(&rootFlags.seqURL, "seq-url", "", "Ship logs to this Seq endpoint")

	rootCmd.AddCommand(renderCmd, demoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		closeLogger()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
