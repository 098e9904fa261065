// Package runner fans several search requests out over a bounded pool of
// goroutines using errgroup, collecting results in request order.
package runner
