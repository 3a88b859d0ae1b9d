// Package http contains the chi HTTP handlers exposing the comparison
// pipeline: upload a raw result table, get back enriched rows plus the
// per-broker summary as JSON, or the same tables as CSV downloads. The
// handlers never compute anything themselves; they parse requests,
// delegate to the comparison service and render responses.
package http
