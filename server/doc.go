// Package server runs the HTTP side of an rxkit service: a gin engine on a
// ServeMux, served as HTTP/1.1 and h2c on one port, registered as a
// component.
//
// Every request passes through the middleware stack in server/middleware:
// panic recovery, request ids, OpenTelemetry server spans, request logging,
// CORS and a body size limit.
//
//	srv := server.New(cfg.Server, logger.GetGlobalLogger())
//	srv.RegisterHealth(cfg.Name, registry.HealthAll)
//	relay.RegisterRoutes(srv.Engine(), hub)
//	registry.Register(srv)
package server
