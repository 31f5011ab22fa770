// Package cyrest is a typed client for the CyREST v1 API of a running
// Cytoscape desktop instance.
//
// # Overview
//
// Cytoscape exposes its networks, visual styles, layouts and commands over
// HTTP, by default on http://127.0.0.1:1234/v1. This package covers the
// subset gocyto needs:
//
//   - Networks: create from node/edge records, list, views, node positions
//   - Tables: node column listing and column values
//   - Styles: create, delete, defaults, dependencies, mappings, apply
//   - Layouts and commands: layout parameters, "layout attributes-layout",
//     "annotation add bounded text"
//   - Export: session files and view images
//
// # Usage
//
//	c, err := cyrest.New(cyrest.DefaultBaseURL, cyrest.WithTimeout(30*time.Second))
//	if err != nil {
//	    return err
//	}
//	suid, err := c.CreateNetwork(ctx, "ppi", "ppi", cyrest.NetworkData{
//	    Nodes: []map[string]any{{"id": "A"}, {"id": "B"}},
//	    Edges: []cyrest.EdgeData{{Source: "A", Target: "B"}},
//	})
//
// # Errors
//
// A non-2xx response becomes an [*APIError] carrying the method, path,
// status and any messages from the CyREST error body. It unwraps to
// [ErrNotFound] for 404 and [ErrNetwork] for 5xx; transport failures
// also wrap [ErrNetwork]. Transport failures and 5xx responses are marked
// retryable, but requests are only repeated when [WithRetries] is set.
//
// # Observability
//
// Every request reports to [observability.HTTP] hooks, and shape lookups
// report to [observability.Cache] hooks.
package cyrest
