// Package resilience holds load-shedding primitives shared by rxkit
// services. RateLimiter is a token bucket used by the relay to cap how
// fast a single channel accepts publishes.
package resilience
