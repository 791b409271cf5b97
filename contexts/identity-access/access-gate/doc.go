// Package accessgate reconciles externally issued identity sessions with the
// internally persisted authorization records that gate the dealer portal and
// admin panel.
//
// Layering:
// - domain: record/session/capability entities, decision rules, errors
// - application: status queries and record administration commands using explicit ports
// - ports: stable boundaries for persistence, clock, id generation
// - adapters: HTTP handler plus memory and postgres record stores
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Status reconciliation is strictly read-only; capability decisions are
//   recomputed per request and never cached server-side.
// - Records are keyed by email while sessions carry a provider subject id.
//   The join lives in the application layer and nowhere else.
package accessgate
