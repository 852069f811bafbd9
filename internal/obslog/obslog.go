// Package obslog is the run's diagnostic logger: one line per
// ingest/fixpoint/report milestone, written to stderr so stdout stays
// free for report output, the same split cmd/lsp/main.go makes between
// stdout-as-protocol-channel and stderr-as-log-channel. Grounded on that
// split (log.SetFlags(0) + log.SetOutput(os.Stderr)), enriched with
// TTY-aware coloring and human-friendly counts since this run produces
// a bounded progress narrative rather than a protocol stream.
package obslog

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// Logger writes timestamp-free progress lines; Stage lines carry the
// first 8 characters of RunID as a correlation tag.
// It carries no state that affects analysis output — RunID exists only
// to let a human correlate log lines from one invocation; it is never
// read back by ingest, infer, or fixpoint.
type Logger struct {
	out   io.Writer
	color bool
	RunID string
}

// New builds a Logger writing to out. color is auto-detected via
// go-isatty when out is an *os.File; pass forceColor to override (nil
// means auto-detect, matching termIsTTY's own IsTerminal-or-Cygwin
// check).
func New(out io.Writer, forceColor *bool) *Logger {
	color := false
	if forceColor != nil {
		color = *forceColor
	} else if f, ok := out.(interface{ Fd() uintptr }); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Logger{
		out:   out,
		color: color,
		RunID: uuid.NewString(),
	}
}

func (l *Logger) paint(code, s string) string {
	if !l.color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// Stage logs a milestone — "ingest", "fixpoint", "report" — with a
// free-form detail line.
func (l *Logger) Stage(name, detail string) {
	fmt.Fprintf(l.out, "[%s] %s: %s\n", l.paint("36", name), l.RunID[:8], detail)
}

// Progress reports count out of total in a human-friendly form, e.g.
// "analyzed 1,204 of 3,000" instead of raw integers, mirroring
// the teacher's go.mod inclusion of go-humanize for exactly this kind
// of operator-facing count.
func (l *Logger) Progress(verb string, count, total int) {
	fmt.Fprintf(l.out, "[%s] %s %s of %s\n", l.paint("36", "progress"), verb,
		humanize.Comma(int64(count)), humanize.Comma(int64(total)))
}

// Warn logs a non-fatal condition — a registry miss, a fixpoint
// divergence — distinctly from Stage so operators can grep one level.
func (l *Logger) Warn(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "[%s] %s\n", l.paint("33", "warn"), fmt.Sprintf(format, args...))
}

// Elapsed reports wall time since start in humanize's relative form.
func (l *Logger) Elapsed(start time.Time) string {
	return humanize.RelTime(start, time.Now(), "ago", "from now")
}
