// Package version reports build information for rxkit binaries.
//
//	go build -ldflags "-X github.com/kbukum/rxkit/version.Version=1.0.0" ./cmd/rxrelay
package version
