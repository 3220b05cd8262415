// Package observability wires OpenTelemetry tracing and metrics into rxkit
// services and stream chains.
//
// Setup:
//
//	shutdown, err := observability.Init(ctx, cfg, "rxrelay", version, env)
//	defer shutdown(ctx)
//
// Stream metrics count values, errors and completions flowing through a
// chain, labelled by stream name:
//
//	metrics, err := observability.NewStreamMetrics(observability.Meter("rxrelay"))
//	op := observability.Instrument(subject.Pipe(), metrics, "prices")
//
// TraceStep wraps a Sequent or Queue mapper so each inner source runs in
// its own span:
//
//	rx.Sequent(op, observability.TraceStep("price.enrich", enrich))
package observability
