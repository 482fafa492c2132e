package main

import (
	"context"
	"fmt"
	"io"

	"github.com/katalvlaran/wikiwalk/config"
	"github.com/katalvlaran/wikiwalk/internal/logger"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "wikiwalk",
		Short:         "Find a chain of links between two wiki articles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "preferences file (YAML)")
	f.StringVar(&a.graphPath, "graph", "", "offline link table (YAML) used instead of the live wiki")
	f.StringVar(&a.logMode, "log-mode", "quiet", "log mode: quiet, dev or prod")
	f.StringVar(&a.logLevel, "log-level", "info", "log level")
	f.BoolVar(&a.trace, "trace", false, "print trace spans to stderr")

	root.AddCommand(newWalkCmd(a), newReplCmd(a), newServeCmd(a))

	return root
}

func (a *app) setup(ctx context.Context) error {
	prefs, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.prefs = prefs

	log, err := logger.New(a.logMode, a.logLevel)
	if err != nil {
		return err
	}
	a.log = log

	if a.trace {
		a.shutdown, err = initTracing(ctx, a.errOut)
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
	}

	return nil
}

func (a *app) teardown(ctx context.Context) error {
	a.log.Sync()
	if a.shutdown != nil {
		if ctx == nil {
			ctx = context.Background()
		}
		return a.shutdown(ctx)
	}

	return nil
}

// initTracing installs a tracer provider that pretty-prints spans to w.
func initTracing(ctx context.Context, w io.Writer) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(attribute.String("service.name", "wikiwalk")))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
