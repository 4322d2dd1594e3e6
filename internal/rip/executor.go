package rip

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"discripper/internal/disc"
	"discripper/internal/logging"
)

const idleInterval = 250 * time.Millisecond

// Process is a running external command with line-oriented output streams.
type Process interface {
	Stdout() io.Reader
	Stderr() io.Reader
	// Wait blocks until the process exits and returns its exit code. A
	// non-zero code is reported in the int, not the error; the error is
	// reserved for wait failures themselves.
	Wait() (int, error)
}

// Spawner starts external commands. The default implementation wraps
// os/exec; tests substitute fakes so no process is ever spawned.
type Spawner interface {
	Spawn(ctx context.Context, name string, args []string) (Process, error)
}

// Result describes a completed execution.
type Result struct {
	Command  []string
	ExitCode int
}

// Executor runs rip plans one at a time. It owns the overwrite guard, the
// process supervision loop, and the structured event stream. There is no
// cancellation of an in-flight tool and no retry on failure.
type Executor struct {
	sink    EventSink
	logger  *slog.Logger
	stdout  io.Writer
	spawner Spawner
	probe   VolumeProber
	now     func() time.Time
	idle    time.Duration
}

func NewExecutor(sink EventSink, logger *slog.Logger) *Executor {
	return NewExecutorWithDependencies(sink, logger, os.Stdout, execSpawner{}, defaultVolumeProber, time.Now)
}

func NewExecutorWithDependencies(sink EventSink, logger *slog.Logger, stdout io.Writer, spawner Spawner, probe VolumeProber, now func() time.Time) *Executor {
	if logger == nil {
		logger = logging.NewNop()
	}
	if sink == nil {
		sink = NewLogSink(logger)
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if now == nil {
		now = time.Now
	}
	return &Executor{
		sink:    sink,
		logger:  logger,
		stdout:  stdout,
		spawner: spawner,
		probe:   probe,
		now:     now,
		idle:    idleInterval,
	}
}

// Execute runs one plan to completion. Dry-run plans return a nil result and
// nil error without touching the filesystem or spawning anything.
func (e *Executor) Execute(ctx context.Context, plan Plan) (*Result, error) {
	if !plan.WillExecute {
		fmt.Fprintf(e.stdout, "[dry-run] Would execute: %s\n", quoteCommand(plan.Command))
		e.sink.Emit(fmt.Sprintf("EVENT=RIP_SKIPPED FILE=%q REASON=dry-run", plan.Destination))
		return nil, nil
	}

	// Check-then-act: a concurrent writer could still land between the
	// stat and the spawn. One rip at a time is the supported usage.
	if _, err := os.Stat(plan.Destination); err == nil {
		e.sink.Emit(fmt.Sprintf("EVENT=RIP_GUARD FILE=%q REASON=destination-exists", plan.Destination))
		return nil, guardError(plan.Destination)
	}

	if err := os.MkdirAll(filepath.Dir(plan.Destination), 0o755); err != nil {
		return nil, e.fail(plan, nil, err.Error(), "create destination directory for %s: %v", plan.Destination, err)
	}

	proc, err := e.spawner.Spawn(ctx, plan.Command[0], plan.Command[1:])
	if err != nil {
		reason, message := classifySpawnError(plan, err)
		return nil, e.fail(plan, nil, reason, "%s", message)
	}

	e.logger.Info("ripping started",
		logging.String(logging.FieldDevice, plan.Device),
		logging.String(logging.FieldDestination, plan.Destination),
		logging.String("backend", plan.Backend()),
	)

	reporter := newReporter(plan, e.sink, e.probe, e.now)
	e.supervise(proc, reporter)

	code, err := proc.Wait()
	if err != nil {
		return nil, e.fail(plan, reporter, err.Error(), "wait for %s: %v", plan.Backend(), err)
	}
	if code != 0 {
		reason := fmt.Sprintf("subprocess-exit-%d", code)
		return nil, e.fail(plan, reporter, reason, "%s exited with status %d while ripping to %s", plan.Backend(), code, plan.Destination)
	}

	bytes := "unknown"
	if info, statErr := os.Stat(plan.Destination); statErr == nil {
		bytes = fmt.Sprintf("%d", info.Size())
	}
	e.sink.Emit(fmt.Sprintf("EVENT=RIP_DONE FILE=%q BYTES=%s STATUS=success", plan.Destination, bytes))
	reporter.Finalize(true)

	return &Result{Command: plan.Command, ExitCode: 0}, nil
}

// supervise fans both output streams into one channel and drains it,
// dispatching lines to the reporter and driving its idle hook when nothing
// arrives within the bounded wait.
func (e *Executor) supervise(proc Process, reporter Reporter) {
	lines := make(chan streamLine, 64)
	go readStream(streamStdout, proc.Stdout(), lines)
	go readStream(streamStderr, proc.Stderr(), lines)

	open := 2
	for open > 0 {
		select {
		case msg := <-lines:
			if msg.eof {
				open--
				continue
			}
			reporter.HandleLine(msg.stream, msg.text)
		case <-time.After(e.idle):
			reporter.HandleIdle()
		}
	}
}

func (e *Executor) fail(plan Plan, reporter Reporter, reason, format string, args ...any) error {
	e.sink.Emit(fmt.Sprintf("EVENT=RIP_FAILED FILE=%q EXIT_CODE=%d REASON=%q", plan.Destination, ExitCodeRipFailure, reason))
	if reporter != nil {
		reporter.Finalize(false)
	}
	err := executionErrorf(format, args...)
	e.logger.Error("ripping failed",
		logging.String(logging.FieldDestination, plan.Destination),
		logging.String("reason", reason),
		logging.Error(err),
	)
	return err
}

func classifySpawnError(plan Plan, err error) (reason, message string) {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return "tool-not-found", fmt.Sprintf("ripping tool %s not found on PATH", plan.Backend())
	case errors.Is(err, os.ErrPermission):
		return "permission-denied", fmt.Sprintf("permission denied running %s", plan.Backend())
	default:
		return err.Error(), fmt.Sprintf("start %s: %v", plan.Backend(), err)
	}
}

type streamLine struct {
	stream string
	text   string
	eof    bool
}

// readStream pushes each line into the shared queue and a final sentinel on
// end of stream. Channel FIFO ordering preserves per-stream line order.
func readStream(stream string, r io.Reader, lines chan<- streamLine) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines <- streamLine{stream: stream, text: scanner.Text()}
	}
	lines <- streamLine{stream: stream, eof: true}
}

func defaultVolumeProber(device string) (int64, error) {
	return disc.VolumeSize(context.Background(), "dvdbackup", device, 30*time.Second)
}

type execSpawner struct{}

func (execSpawner) Spawn(ctx context.Context, name string, args []string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
}

func (p *execProcess) Stdout() io.Reader { return p.stdout }
func (p *execProcess) Stderr() io.Reader { return p.stderr }

func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
