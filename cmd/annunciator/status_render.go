package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"annunciator/internal/ledger"
	"annunciator/internal/media"
	"annunciator/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 18
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", statusKindLabel(kind))
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

// resultLine renders a preflight result. Failed optional checks are warnings.
func resultLine(r preflight.Result, colorize bool) string {
	kind := statusOK
	switch {
	case r.Passed:
	case r.Optional:
		kind = statusWarn
	default:
		kind = statusError
	}
	return renderStatusLine(r.Name, kind, r.Detail, colorize)
}

// ledgerLines renders one row per ledger status plus a reclaim hint when
// files from earlier runs are still on disk.
func ledgerLines(counts map[ledger.Status]int, colorize bool) []string {
	lines := make([]string, 0, len(ledger.Statuses())+1)
	for _, status := range ledger.Statuses() {
		n := counts[status]
		label := strings.ToUpper(string(status[:1])) + string(status[1:])
		lines = append(lines, renderStatusLine(label, ledgerStatusKind(status, n), fmt.Sprintf("%d file(s)", n), colorize))
	}
	if pending := counts[ledger.StatusIssued] + counts[ledger.StatusFailed]; pending > 0 {
		lines = append(lines, renderStatusLine("Hint", statusInfo, "run `annunciator sweep --reclaim` when no session is open", colorize))
	}
	return lines
}

func ledgerStatusKind(status ledger.Status, n int) statusKind {
	switch {
	case n > 0 && (status == ledger.StatusFailed || status == ledger.StatusIssued):
		return statusWarn
	case status.Pending():
		return statusOK
	default:
		return statusInfo
	}
}

// phaseKind maps a media phase onto the status palette.
func phaseKind(phase media.Phase) statusKind {
	switch phase {
	case media.PhaseReady, media.PhasePlaying:
		return statusOK
	case media.PhaseStopped:
		return statusWarn
	case media.PhaseError:
		return statusError
	default:
		return statusInfo
	}
}

// renderTransition formats a lifecycle change as "kind: from -> to (file)".
// Failed transitions carry the error after the arrow.
func renderTransition(t media.Transition, colorize bool) string {
	line := fmt.Sprintf("%s: %s -> %s", t.Kind, t.From, t.To)
	if t.Filename != "" {
		line += " (" + t.Filename + ")"
	}
	if t.Err != nil {
		line += ": " + t.Err.Error()
	}
	if colorize {
		if color := statusKindColor(phaseKind(t.To)); color != "" {
			return color + line + ansiReset
		}
	}
	return line
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
