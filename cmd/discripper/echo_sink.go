package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// echoSink mirrors progress events to the terminal so an interactive run
// shows liveness without grepping the log. Non-progress events always pass
// through; progress lines are dropped on non-TTY output unless verbose.
type echoSink struct {
	w        io.Writer
	progress bool
}

func newEchoSink(w io.Writer, verbose bool) *echoSink {
	return &echoSink{w: w, progress: verbose || writerIsTerminal(w)}
}

func (s *echoSink) Emit(line string) {
	if strings.HasPrefix(line, "EVENT=PROGRESS ") && !s.progress {
		return
	}
	fmt.Fprintln(s.w, line)
}

func writerIsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
