// Package session wires one composition session: the operator's language
// plan, the composer, the editable section document, and the audio and
// video media managers that share a sweeper.
//
// Opening a session reclaims server files that earlier sessions left
// behind. Closing it force-stops playback, deletes live media, and runs a
// debounced sweep of both media kinds.
package session
