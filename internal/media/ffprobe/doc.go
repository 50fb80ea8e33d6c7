// Package ffprobe checks that a fetched media file is playable.
//
// Inspect runs ffprobe and decodes its JSON report. Checker wraps it for the
// media lifecycle: a file must carry at least one stream of the expected
// type, and the container duration is reported back for display.
package ffprobe
