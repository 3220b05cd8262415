// Command rxrelay serves named JSON channels over HTTP. Clients publish
// with PUT, read the latest value with GET and follow changes as a
// server-sent event stream. Every channel is an rx.Subject living on one
// rx.Loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/rxkit/bootstrap"
	"github.com/kbukum/rxkit/component"
	"github.com/kbukum/rxkit/config"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/observability"
	"github.com/kbukum/rxkit/relay"
	"github.com/kbukum/rxkit/rx"
	"github.com/kbukum/rxkit/server"
	"github.com/kbukum/rxkit/version"
)

const serviceName = "rxrelay"

func main() {
	configFile := flag.String("config", "", "config file (default: search ./cmd/rxrelay, ./config, .)")
	envFile := flag.String("env", "", "env file loaded before the environment is read")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(serviceName, version.Full())
		return
	}

	if err := run(context.Background(), *configFile, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, envFile string) error {
	var cfg AppConfig
	err := config.Load(serviceName, &cfg,
		config.WithConfigFile(configFile),
		config.WithEnvFile(envFile),
		config.WithEnvPrefix("RXRELAY"),
		config.WithDefault("name", serviceName),
		config.WithDefault("version", version.Short()),
	)
	if err != nil {
		return err
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	logger.RegisterDefaults("rx", "relay")

	shutdownTelemetry, err := observability.Init(ctx, cfg.Telemetry, cfg.Name, cfg.Version, cfg.Environment)
	if err != nil {
		return err
	}
	app.OnStop(shutdownTelemetry)

	metrics, err := observability.NewStreamMetrics(observability.Meter(serviceName))
	if err != nil {
		return err
	}

	loop := rx.NewLoop(cfg.Loop)
	hub := relay.NewHub(loop, cfg.Relay, metrics)

	srv := server.New(cfg.Server, app.Logger)
	srv.RegisterHealth(cfg.Name, app.Components.HealthAll)
	relay.RegisterRoutes(srv.Engine(), hub)

	// Stop runs in reverse: the hub completes its channels first, which ends
	// open event streams so the server can drain.
	for _, c := range []component.Component{loop, srv, hub} {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}

	return app.Run(ctx)
}
