// Package preflight provides readiness checks for the announcement backend,
// the local player, and the directories annunciator writes to.
//
// These checks run in two contexts:
//   - The CLI "annunciator status" command renders every result as a table.
//   - Commands that open a composition session call RunAll first and refuse
//     to start when a required check fails, so an operator learns about a
//     missing token before composing rather than after.
package preflight
