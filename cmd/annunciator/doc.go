// Package main hosts the annunciator CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into composition
// sessions: composing an announcement document, previewing it as speech,
// producing a sign-language video, and maintaining the ledger of ephemeral
// server files. It centralizes configuration resolution, logger setup, and
// session wiring so subcommands only deal with flags and output.
//
// Keep this package lean: behaviour belongs in the internal packages and is
// surfaced here through dedicated commands or flags.
package main
