// Package httputil provides HTTP utilities for the CyREST client.
//
// # Retry
//
// [Retry] re-runs an operation for transient failures only. Callers mark
// an error as transient by wrapping it in [RetryableError]:
//
//   - Network errors (connection refused, timeouts)
//   - 5xx server errors
//
// Any other error is returned immediately. The delay doubles after each
// failed attempt, and cancelling the context stops waiting.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return client.Ping(ctx)
//	})
//
// # Defaults
//
// Remote failures are fatal by default: gocyto issues each request once
// (retries = 0 in the config file). Retrying is opt-in because Cytoscape
// commands are not idempotent (a repeated "create network" creates a
// second network).
package httputil
