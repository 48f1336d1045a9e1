package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vovanec/report"
	"github.com/vovanec/report/handler"
	"github.com/vovanec/report/handler/backtrace"
	"github.com/vovanec/report/handler/minimal"
	"github.com/vovanec/report/handler/rich"
	"github.com/vovanec/report/loghelper"
	"github.com/vovanec/report/metrics"
	"github.com/vovanec/report/spantrace"
)

var (
	handlerName string
	themeFile   string
	showMetrics bool
	verbose     bool
	crash       bool
)

var rootCmd = &cobra.Command{
	Use:   "example [user-id]",
	Short: "Render an error report at the program boundary",
	Long: `Looks up a user that does not exist. The failure is wrapped on its way
up, logged with slog and zap, and finally rendered by the selected handler.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// Execute runs the root command and exits non-zero when it fails.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&handlerName, "handler", "minimal", "report handler: minimal, backtrace or rich")
	rootCmd.Flags().StringVar(&themeFile, "theme", "", "YAML colour theme for the rich handler")
	rootCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print report counters after the run")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().BoolVar(&crash, "panic", false, "panic while caching the user to show panic reports")
}

func selectHook(name, theme string, reg *spantrace.Registry) (handler.Hook, error) {
	switch name {
	case "minimal":
		return minimal.Hook(), nil
	case "backtrace":
		return backtrace.Hook(), nil
	case "rich":
		opts := []rich.Option{rich.WithRegistry(reg)}
		if theme != "" {
			t, err := rich.LoadTheme(theme)
			if err != nil {
				return nil, err
			}
			opts = append(opts, rich.WithTheme(t))
		}
		return rich.Hook(opts...), nil
	default:
		// No hook is installed yet, so the rich handler is picked here for
		// the suggestion to be rendered.
		return nil, report.Using(rich.Hook(rich.WithEnvSection(false))).
			Msgf("unknown handler %q", name).
			Suggestion("use one of minimal, backtrace or rich")
	}
}

func run(cmd *cobra.Command, args []string) (err error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	loghelper.InitLogging(loghelper.WithLevel(level), loghelper.WithOutput(cmd.ErrOrStderr()))
	zl := loghelper.NewZapLogger(loghelper.WithLevel(level), loghelper.WithOutput(cmd.ErrOrStderr()))
	defer func() { _ = zl.Sync() }()

	spans := spantrace.NewRegistry()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	defer func() { _ = tp.Shutdown(context.Background()) }()
	spantrace.Install(spans)

	hook, err := selectHook(handlerName, themeFile, spans)
	if err != nil {
		return err
	}
	if err := report.SetHook(hook); err != nil {
		return report.Wrap(err, "install report hook")
	}
	defer report.Recover(&err)

	promReg := prometheus.NewRegistry()
	if err := metrics.Register(promReg); err != nil {
		return report.Wrap(err, "register metrics")
	}
	if showMetrics {
		defer func() { _ = printMetrics(cmd.OutOrStdout(), promReg) }()
	}

	userID := "8b50d0c8-015a-497c-b98a-cc69fec2f9ed"
	if len(args) > 0 {
		userID = args[0]
	}

	app := Application{
		Name:    "vovan",
		Build:   "20b8c3f",
		Version: AppVersion{Major: 1, Minor: 7, Patch: 2},
		tracer:  tp.Tracer("example"),
	}

	ctx := loghelper.Context(cmd.Context(),
		slog.Any("application", app),
		slog.Group("user", slog.String("id", userID)),
	)
	if crash {
		app.cacheUser(userID)
	}
	if err := app.GetUser(ctx, userID); err != nil {
		slog.Error("request failed", loghelper.Attr(ctx, err))
		zl.Error("request failed", loghelper.ZapField(err))
		return err
	}
	return nil
}

func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
			}
			fmt.Fprintf(w, "%s{%s} %v\n", mf.GetName(), labels, m.GetCounter().GetValue())
		}
	}
	return nil
}
