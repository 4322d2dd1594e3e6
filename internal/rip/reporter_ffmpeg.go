package rip

import (
	"strconv"
	"strings"
	"time"
)

// ffmpegReporter parses the -progress pipe:2 key=value protocol on stderr.
// Fields accumulate until a progress boundary (progress=continue or
// progress=end) triggers one emission and clears the accumulator.
type ffmpegReporter struct {
	duration time.Duration
	sink     EventSink
	now      func() time.Time
	started  time.Time
	fields   map[string]string
	lastPct  float64
}

func newFFmpegReporter(duration time.Duration, sink EventSink, now func() time.Time) *ffmpegReporter {
	if now == nil {
		now = time.Now
	}
	return &ffmpegReporter{
		duration: duration,
		sink:     sink,
		now:      now,
		started:  now(),
		fields:   make(map[string]string),
		lastPct:  -1,
	}
}

func (r *ffmpegReporter) HandleLine(stream, line string) {
	if stream != streamStderr {
		return
	}
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "progress" {
		r.emit(value == "end")
		r.fields = make(map[string]string)
		return
	}
	r.fields[key] = value
}

// HandleIdle is a no-op: ffmpeg pushes its own progress frames.
func (r *ffmpegReporter) HandleIdle() {}

// Finalize emits one trailing 100% event when the run succeeded, the
// duration was known, and the last reported percentage stayed below 100.
func (r *ffmpegReporter) Finalize(success bool) {
	if !success || r.duration <= 0 {
		return
	}
	if r.lastPct >= 100 {
		return
	}
	event := progressEvent{
		backend: "ffmpeg",
		pct:     100,
		hasPct:  true,
		elapsed: r.now().Sub(r.started),
	}
	r.lastPct = 100
	r.sink.Emit(event.line())
}

func (r *ffmpegReporter) emit(end bool) {
	event := progressEvent{
		backend: "ffmpeg",
		elapsed: r.now().Sub(r.started),
		speed:   r.fields["speed"],
	}

	durationSeconds := r.duration.Seconds()
	outTimeMs, hasOutTime := parseCounter(r.fields["out_time_ms"])
	if durationSeconds > 0 && (hasOutTime || end) {
		pct := 0.0
		remaining := durationSeconds
		if hasOutTime {
			pct = float64(outTimeMs) / (durationSeconds * 1000) * 100
			if pct > 100 {
				pct = 100
			}
			remaining = durationSeconds - float64(outTimeMs)/1000
			if remaining < 0 {
				remaining = 0
			}
		}
		if end {
			// progress=end wins over the raw counters; clocks skew.
			pct = 100
			remaining = 0
		}
		event.pct = pct
		event.hasPct = true
		if speed := parseSpeed(r.fields["speed"]); speed > 0 {
			remaining /= speed
		}
		event.eta = time.Duration(remaining * float64(time.Second))
		event.hasETA = true
		r.lastPct = pct
	} else {
		event.spinner = true
	}

	if size, ok := parseCounter(r.fields["total_size"]); ok {
		event.bytesDone = size
		event.hasBytesDone = true
	}

	r.sink.Emit(event.line())
}

func parseCounter(value string) (int64, bool) {
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseSpeed reads ffmpeg's x-suffixed multiplier token, e.g. "2.0x".
func parseSpeed(value string) float64 {
	value = strings.TrimSpace(value)
	if !strings.HasSuffix(value, "x") {
		return 0
	}
	speed, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64)
	if err != nil || speed <= 0 {
		return 0
	}
	return speed
}
