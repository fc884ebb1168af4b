// Command optigo is the CLI front-end for the ray-tracing engine: a thin,
// test-friendly driver in the teacher's cmd/raytracer idiom (load a spec
// file, run one engine operation, report errors with os.Exit(1)) rebuilt
// on github.com/urfave/cli/v2 for subcommand parsing, matching how
// sixy6e-go-gsf structures its own cmd/ tree.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"raytraceGo/internal/builder"
	"raytraceGo/internal/config"
	"raytraceGo/internal/describe"
	"raytraceGo/internal/telemetry"
	"raytraceGo/internal/tracer"
)

func main() {
	logger := telemetry.NewLogger()

	app := &cli.App{
		Name:  "optigo",
		Usage: "sequential optical ray-tracing engine",
		Commands: []*cli.Command{
			describeCommand(logger),
			traceCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func describeCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "describe",
		Usage:     "print the components, cutaway, and paraxial views of a system spec",
		ArgsUsage: "<spec-file>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "samples", Usage: "cutaway polyline samples per surface", Value: 0},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 1 {
				return fmt.Errorf("describe requires a spec file argument")
			}
			specPath := c.Args().First()

			sys, err := config.LoadFromFile(specPath)
			if err != nil {
				return err
			}

			built, err := builder.New(nil).Build(sys)
			if err != nil {
				return err
			}

			logger.Info("describing system", "spec", specPath, "surfaces", built.SurfaceCount())
			view := describe.Describe(built, c.Int("samples"))
			return printJSON(view)
		},
	}
}

func traceCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "trace",
		Usage:     "trace real ray bundles through a system spec",
		ArgsUsage: "<spec-file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "chief-and-marginal", Usage: "trace only chief and marginal rays per field"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 1 {
				return fmt.Errorf("trace requires a spec file argument")
			}
			specPath := c.Args().First()

			sys, err := config.LoadFromFile(specPath)
			if err != nil {
				return err
			}

			built, err := builder.New(nil).Build(sys)
			if err != nil {
				return err
			}

			ctx := context.Background()

			collection := tracer.Trace(ctx, built)
			if c.Bool("chief-and-marginal") {
				collection = tracer.TraceChiefAndMarginalRays(ctx, built)
			}

			logger.Info("trace complete", "spec", specPath)
			return printJSON(collection)
		},
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
