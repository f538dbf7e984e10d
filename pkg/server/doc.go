// Package server exposes builder sessions over a JSON HTTP API.
//
// Each session is an independent [builder.Session] identified by a UUID.
// Requests against one session are serialized; different sessions proceed
// in parallel over the shared read-only catalog.
//
// # Routes
//
//	GET    /healthz
//	GET    /catalog?category=&manufacturer=&q=
//	GET    /catalog/manufacturers
//	POST   /sessions
//	DELETE /sessions/{id}
//	GET    /sessions/{id}/plan
//	POST   /sessions/{id}/select    {"category": "...", "slug": "..."} or {"category": "...", "model": "..."}
//	POST   /sessions/{id}/advance
//	POST   /sessions/{id}/jump      {"category": "..."}
//	GET    /sessions/{id}/render.{svg|png|json|dot|stack}
//	GET    /metrics
//
// Errors are returned as {"code": "...", "error": "..."} with a status derived
// from the error code.
//
// [builder.Session]: github.com/matzehuels/bikebuilder/pkg/builder.Session
package server
