// Sophrosyne
//   Copyright (C) 2024  Mads R. Havmand
//
// This program is free software: you can redistribute it and/or modify
//   it under the terms of the GNU Affero General Public License as published by
//   the Free Software Foundation, either version 3 of the License, or
//   (at your option) any later version.
//
//   This program is distributed in the hope that it will be useful,
//   but WITHOUT ANY WARRANTY; without even the implied warranty of
//   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//   GNU Affero General Public License for more details.
//
//   You should have received a copy of the GNU Affero General Public License
//   along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/madsrc/jrpc"
	"github.com/madsrc/jrpc/internal/audit"
	"github.com/madsrc/jrpc/internal/configProvider"
	"github.com/madsrc/jrpc/internal/dispatch"
	"github.com/madsrc/jrpc/internal/frame"
	"github.com/madsrc/jrpc/internal/jsonrpc"
	"github.com/madsrc/jrpc/internal/otel"
	"github.com/madsrc/jrpc/internal/pipeline"
	"github.com/madsrc/jrpc/internal/policy"
	"github.com/madsrc/jrpc/internal/registry"
	"github.com/madsrc/jrpc/internal/validator"
)

var (
	version = "0.0.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		_, _ = fmt.Fprintf(c.App.Writer, "v%s\n", c.App.Version)
		if !c.Bool("verbose") {
			return
		}
		_, _ = fmt.Fprintf(c.App.Writer, "commit: %s\n", commit)
		_, _ = fmt.Fprintf(c.App.Writer, "date: %s\n", date)
	}
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "print the version",
	}
	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "The path to the configuration file",
				Value: "config.yaml",
			},
			&cli.StringSliceFlag{
				Name:  "secretfiles",
				Usage: "Files to read individual configuration values from. Multiple files can be specified by separating them with a comma or supplying the option multiple times. The name of the file is used to determine what configuration parameter the content of the file will be read in to. For example, a file called 'audit.database.password' will have its content used as the value for 'audit.database.password' in the configuration. This option is recommended for secrets.",
				Value: nil,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "If set, application will provide verbose outputs for commands that don't use the log.",
				Value: false,
			},
		},
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the JSON-RPC engine over stdin/stdout",
				Action: func(c *cli.Context) error {
					return run(c)
				},
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(c *cli.Context) error {
					cli.VersionPrinter(c)
					return nil
				},
			},
			{
				Name:  "config",
				Usage: "show the current configuration",
				Action: func(c *cli.Context) error {
					validate := validator.NewValidator()
					config, err := getConfig(c.String("config"), nil, c.StringSlice("secretfiles"), validate)
					if err != nil {
						return err
					}

					dat, err := yaml.Marshal(config)
					if err != nil {
						return err
					}

					_, _ = fmt.Fprintf(c.App.Writer, "%s\n", dat)
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate the call audit database to the latest version",
				Action: func(c *cli.Context) error {
					validate := validator.NewValidator()

					config, err := getConfig(c.String("config"), nil, c.StringSlice("secretfiles"), validate)
					if err != nil {
						return err
					}
					migrationService, err := audit.NewMigrationService(config)
					if err != nil {
						return err
					}

					err = migrationService.Up()
					if err != nil {
						if !errors.Is(err, audit.ErrNoChange) {
							return err
						}
						_, _ = fmt.Fprint(c.App.Writer, "No migrations to apply")
						return nil
					}
					v, dirty, err := migrationService.Versions()
					if err != nil {
						return err
					}
					msg := fmt.Sprintf("Migrations applied. Database at version '%d'", v)
					if dirty {
						msg = fmt.Sprintf("%s (dirty)\n", msg)
					} else {
						msg = fmt.Sprintf("%s\n", msg)
					}
					_, _ = fmt.Fprint(c.App.Writer, msg)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		panic(err)
	}
}

func getConfig(filepath string, overwrites map[string]interface{}, secretfiles []string, validate *validator.Validator) (*jrpc.Config, error) {
	cp, err := configProvider.NewConfigProvider(filepath, overwrites, secretfiles, validate)
	if err != nil {
		return nil, err
	}
	return cp.Get(), nil
}

// run wires the ambient stack (config, logging, tracing/metrics), the
// optional Policy Gate and Call Audit Store, the reference method registry,
// and the frame codec into one read-dispatch-write loop over stdin/stdout.
func run(c *cli.Context) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	validate := validator.NewValidator()
	config, err := getConfig(c.String("config"), nil, c.StringSlice("secretfiles"), validate)
	if err != nil {
		return err
	}

	otelService, err := otel.NewOtelService()
	if err != nil {
		return err
	}

	logger := slog.New(jrpc.NewLogHandler(config, otelService))

	otelShutdown, err := otel.SetupOTelSDK(ctx, config)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, otelShutdown(ctx))
	}()

	reg := registry.New()
	if err := registerReferenceHandlers(reg); err != nil {
		return err
	}

	var gate *policy.Gate
	if config.Policy.Enabled {
		gate, err = newConfiguredGate(ctx, config, logger)
		if err != nil {
			return err
		}
	}

	var store *audit.Store
	if config.Audit.Enabled {
		store, err = audit.NewStore(ctx, config, logger)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	wireHooks(reg, gate, store)

	reqPipeline, err := pipeline.NewRequestPipeline(
		pipeline.WithRequestDispatcher(reg),
		pipeline.WithLogger(logger),
		pipeline.WithTracingService(otelService),
		pipeline.WithMetricService(otelService),
	)
	if err != nil {
		return err
	}

	mode := framingMode(config.Framing.Mode)
	reader := frame.NewReader(os.Stdin, frame.ReaderConfig{
		Mode:          mode,
		Delimiter:     framingDelimiterByte(config.Framing.Delimiter),
		MaxFrameBytes: int(config.Framing.MaxFrameBytes),
	})
	writer := frame.NewWriter(os.Stdout, frame.WriterConfig{
		Mode:      mode,
		Delimiter: framingDelimiterByte(config.Framing.Delimiter),
	})

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- frame.Stream(reader, writer, frame.PipelineFunc(reqPipeline.RunRequest), frame.StreamOptions{
			Source: "stdio",
			Logger: frame.SlogLogger{Logger: logger},
		})
	}()

	select {
	case err = <-srvErr:
		return err
	case <-ctx.Done():
		stop()
	}
	return nil
}

func framingDelimiterByte(s string) byte {
	if len(s) == 0 {
		return '\n'
	}
	return s[0]
}

func framingMode(m jrpc.FramingMode) frame.Mode {
	if m == jrpc.FramingContentLength {
		return frame.ModeContentLength
	}
	return frame.ModeDelimiter
}

func newConfiguredGate(ctx context.Context, config *jrpc.Config, logger *slog.Logger) (*policy.Gate, error) {
	opts := []policy.Option{policy.WithLogger(logger)}
	if config.Policy.Cache.TTL > 0 && config.Policy.Cache.CleanupInterval > 0 {
		opts = append(opts, policy.WithDecisionCache(config.Policy.Cache.TTL, config.Policy.Cache.CleanupInterval))
	}

	g, err := policy.NewGate(ctx, opts...)
	if err != nil {
		return nil, err
	}

	if config.Policy.Path != "" {
		b, err := os.ReadFile(config.Policy.Path)
		if err != nil {
			return nil, err
		}
		if err := g.Refresh(ctx, b); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// wireHooks installs the Policy Gate and Call Audit Store as registry
// lifecycle hooks. Both take their timing/abort decision from onBefore:
// since neither hook carries a context.Context, callStart is a plain local
// shared across the closures, which is safe because a RequestPipeline
// drives one request through onBefore/handler/onAfter-or-onError at a time
// before starting the next (see internal/pipeline.RequestPipeline's
// single-goroutine contract).
func wireHooks(reg *registry.Registry, gate *policy.Gate, store *audit.Store) {
	var callStart time.Time

	reg.OnBefore(func(req *jsonrpc.Request) (dispatch.Result, bool) {
		callStart = time.Now()
		if gate == nil {
			return dispatch.Result{}, false
		}
		return gate.BeforeHook(req)
	})

	if store == nil {
		return
	}

	reg.OnAfter(func(req *jsonrpc.Request, result dispatch.Result) {
		store.Observe(context.Background(), audit.CallOutcome{
			Method:         string(req.Method),
			Succeeded:      true,
			DurationMillis: time.Since(callStart).Milliseconds(),
		})
	})
	reg.OnError(func(req *jsonrpc.Request, rpcErr *jsonrpc.Error) {
		store.Observe(context.Background(), audit.CallOutcome{
			Method:         string(req.Method),
			Succeeded:      false,
			ErrorCode:      int32(rpcErr.Code),
			DurationMillis: time.Since(callStart).Milliseconds(),
		})
	})
}
