package rip

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// EventSink receives the textual event lines that form the observable
// contract of the executor and reporters. Implementations must be safe for
// use by a single writer; the executor never emits concurrently.
type EventSink interface {
	Emit(line string)
}

type logSink struct {
	logger *slog.Logger
}

// NewLogSink adapts a slog logger into an EventSink. Each event line becomes
// one info record.
func NewLogSink(logger *slog.Logger) EventSink {
	return &logSink{logger: logger}
}

func (s *logSink) Emit(line string) {
	s.logger.Info(line)
}

// MultiSink fans one event out to several sinks in order.
func MultiSink(sinks ...EventSink) EventSink {
	return multiSink(sinks)
}

type multiSink []EventSink

func (m multiSink) Emit(line string) {
	for _, sink := range m {
		if sink != nil {
			sink.Emit(line)
		}
	}
}

// progressEvent assembles an EVENT=PROGRESS line. Optional fields render in a
// fixed order so the output stays machine-parseable.
type progressEvent struct {
	backend      string
	pct          float64
	hasPct       bool
	eta          time.Duration
	hasETA       bool
	speed        string
	elapsed      time.Duration
	bytesDone    int64
	hasBytesDone bool
	bytesTotal   int64
	totalKnown   bool
	showTotal    bool
	spinner      bool
}

func (e progressEvent) line() string {
	var b strings.Builder
	b.WriteString("EVENT=PROGRESS BACKEND=")
	b.WriteString(e.backend)
	if e.hasPct {
		b.WriteString(" PCT=")
		b.WriteString(formatPct(e.pct))
	}
	if e.hasETA {
		b.WriteString(" ETA=")
		b.WriteString(formatClock(e.eta))
	}
	if e.speed != "" {
		b.WriteString(" SPEED=")
		b.WriteString(e.speed)
	}
	b.WriteString(" ELAPSED=")
	b.WriteString(formatClock(e.elapsed))
	if e.hasBytesDone {
		b.WriteString(" BYTES_DONE=")
		b.WriteString(strconv.FormatInt(e.bytesDone, 10))
	}
	if e.showTotal {
		b.WriteString(" BYTES_TOTAL=")
		if e.totalKnown {
			b.WriteString(strconv.FormatInt(e.bytesTotal, 10))
		} else {
			b.WriteString("unknown")
		}
	}
	if e.spinner {
		b.WriteString(" SPINNER=true")
	}
	return b.String()
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// quoteCommand renders an argument vector the way a shell would accept it.
func quoteCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n\"'\\$&|<>;*?()[]{}`~#") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
