// Package bootstrap runs an rxkit service: it applies and validates the
// typed config, starts registered components in order, prints a startup
// summary, waits for a shutdown signal and stops everything in reverse.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(loop)
//	app.RegisterComponent(srv)
//	app.OnStop(flushTelemetry)
//	err = app.Run(ctx)
package bootstrap
