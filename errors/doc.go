// Package errors provides unified error handling for rxkit.
// It implements structured error types with error codes, HTTP status mapping,
// and retryable detection. Stream errors travel through the rx error channel
// as plain error values; AppError is used for protocol violations and for
// the service surfaces built on top of the core.
package errors
