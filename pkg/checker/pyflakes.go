package checker

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lintgate/lintgate/pkg/finding"
	"github.com/sirupsen/logrus"
)

const NamePyflakes = "pyflakes"

// flakePattern splits "<file>:<line>: <message>".
var flakePattern = regexp.MustCompile(`^(.*?):(\d+):\s*(.*)$`)

// Pyflakes checks pyflakes output: one finding per line, a single
// implicit group. Identity is the file plus message with the line number
// dropped, like the other checkers.
type Pyflakes struct{}

func NewPyflakes() *Pyflakes {
	return &Pyflakes{}
}

func (p *Pyflakes) Name() string {
	return NamePyflakes
}

func (p *Pyflakes) ComputeErrors(logE *logrus.Entry, text string) finding.GroupMap {
	errs := finding.GroupMap{}
	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		s := errs.Get(NamePyflakes)
		matches := flakePattern.FindStringSubmatch(line)
		if matches == nil {
			logE.WithField("line", line).Warn("pyflakes line doesn't match the file:line pattern")
			s.Add(finding.Unparseable(line))
			continue
		}
		lineno, _ := strconv.Atoi(matches[2])
		s.Add(finding.Finding{
			Key:  matches[1] + ":" + matches[3],
			Raw:  line,
			Kind: NamePyflakes,
			Line: lineno,
			Text: matches[3],
		})
	}
	return errs
}

func (p *Pyflakes) FormatErrors(m finding.GroupMap) []string {
	var lines []string
	for _, group := range m.Keys() {
		for _, f := range m[group].Sorted() {
			lines = append(lines, f.Raw)
		}
	}
	return lines
}
