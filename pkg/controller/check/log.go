package check

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

type colorFunc func(a ...interface{}) string

// Logger writes the human-facing verdict to stderr; the stored
// artifacts stay plain text.
type Logger struct {
	stderr io.Writer
	red    colorFunc
	green  colorFunc
}

func NewLogger(stderr io.Writer) *Logger {
	return &Logger{
		red:    color.New(color.FgRed).SprintFunc(),
		green:  color.New(color.FgGreen).SprintFunc(),
		stderr: stderr,
	}
}

func (l *Logger) Pass(tool string, total int) {
	fmt.Fprintf(l.stderr, "%s no new %s errors (%d known)\n", l.green("PASS"), tool, total)
}

func (l *Logger) Fail(tool string, count int, lines []string) {
	fmt.Fprintf(l.stderr, "%s %d new %s errors\n", l.red("FAIL"), count, tool)
	for _, line := range lines {
		fmt.Fprintln(l.stderr, line)
	}
}
