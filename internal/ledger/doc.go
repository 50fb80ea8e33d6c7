// Package ledger records every ephemeral asset the backend issues to this
// client so deletions can be retried by a later process.
//
// Rows move from issued to deleted, or to failed when a deletion attempt did
// not succeed. Issued and failed rows are pending: a new session reclaims the
// pending rows left by earlier sessions. The ledger is a SQLite database under
// the state directory, opened in WAL mode so concurrent CLI processes can
// share it.
package ledger
