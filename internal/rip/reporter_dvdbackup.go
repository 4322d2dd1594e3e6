package rip

import (
	"path/filepath"
	"time"
)

// dvdbackupPollInterval bounds how often the idle hook recomputes the
// destination directory size.
const dvdbackupPollInterval = 300 * time.Millisecond

// dvdbackupReporter has no structured progress channel to read; it polls the
// directory dvdbackup writes into and reports growth as a completion proxy.
// The total byte estimate comes from a one-shot volume-size probe at
// construction and may be unknown.
type dvdbackupReporter struct {
	watchDir   string
	sink       EventSink
	now        func() time.Time
	dirSize    func(string) int64
	started    time.Time
	total      int64
	totalKnown bool
	lastBytes  int64
	lastPoll   time.Time
}

func newDvdbackupReporter(plan Plan, sink EventSink, probe VolumeProber, now func() time.Time, dirSize func(string) int64) *dvdbackupReporter {
	if now == nil {
		now = time.Now
	}
	if dirSize == nil {
		dirSize = directorySize
	}
	r := &dvdbackupReporter{
		watchDir: filepath.Join(filepath.Dir(plan.Destination), planLabel(plan.Destination, plan.Title)),
		sink:     sink,
		now:      now,
		dirSize:  dirSize,
		started:  now(),
	}
	if probe != nil {
		if total, err := probe(plan.Device); err == nil && total > 0 {
			r.total = total
			r.totalKnown = true
		}
	}
	return r
}

// HandleLine ignores process output: dvdbackup's chatter carries no usable
// progress signal. The filesystem poll is the authoritative source.
func (r *dvdbackupReporter) HandleLine(string, string) {}

func (r *dvdbackupReporter) HandleIdle() {
	now := r.now()
	if !r.lastPoll.IsZero() && now.Sub(r.lastPoll) < dvdbackupPollInterval {
		return
	}
	r.lastPoll = now
	r.sample(false)
}

// Finalize forces one last size recomputation and emission even when the
// byte count has not changed since the previous poll.
func (r *dvdbackupReporter) Finalize(success bool) {
	if !success {
		return
	}
	r.sample(true)
}

func (r *dvdbackupReporter) sample(force bool) {
	bytes := r.dirSize(r.watchDir)
	if !force && bytes == r.lastBytes {
		return
	}
	r.lastBytes = bytes

	event := progressEvent{
		backend:      "dvdbackup",
		elapsed:      r.now().Sub(r.started),
		bytesDone:    bytes,
		hasBytesDone: true,
		showTotal:    true,
		totalKnown:   r.totalKnown,
		bytesTotal:   r.total,
	}
	if r.totalKnown {
		pct := float64(bytes) / float64(r.total) * 100
		if pct > 100 {
			pct = 100
		}
		event.pct = pct
		event.hasPct = true
	} else {
		event.spinner = true
	}
	r.sink.Emit(event.line())
}
