// Package services defines shared utilities consumed by the composition
// session, the media lifecycle managers, and the backend client.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, asset kinds, and correlation
//     identifiers for logging and tracing.
//   - The closed error taxonomy (kinds plus sentinel markers) and the Wrap
//     helper that tags failures so callers can render one user-visible
//     message carrying the kind.
//
// Use these helpers when wiring new media or backend logic so operational
// behaviour (error reporting, observability) stays uniform.
package services
