// Package server exposes datasets over HTTP with gin.
//
// Each dataset is mounted under its own URI:
//
//	GET /<uri>/                   metadata document
//	GET /<uri>/count              number of matching rows
//	GET /<uri>/count-by/:facet    histogram page of a facet
//	GET /<uri>/sample             page of matching rows
//
// Declared facets are read from the query string as filters; rows and skip
// select the page. The server adds request IDs, slog request logging,
// optional per-client rate limiting, Prometheus metrics on /metrics and a
// /healthz check.
package server
