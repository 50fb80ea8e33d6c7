// Package media drives the lifecycle of ephemeral synthesized media.
//
// AudioManager and VideoManager share one state machine: a request to the
// synthesis collaborator, a fetch of the resulting bytes into a client-side
// handle, and (for audio) local playback. Each manager keeps a single
// tagged State per asset kind and owns at most one live asset. A new
// Generate supersedes whatever came before it: the previous asset is closed
// first, and a stale in-flight request is allowed to finish but its result
// is discarded and its server file deleted.
//
// Every server file is recorded in the ledger as soon as its name is known,
// and every cleanup path (natural end, stop, close, supersede, failure)
// deletes the server file and releases the local handle exactly once.
// Sweeper compensates for deletions that never happened.
package media
