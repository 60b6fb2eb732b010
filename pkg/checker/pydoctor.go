package checker

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lintgate/lintgate/pkg/finding"
	"github.com/sirupsen/logrus"
)

const NamePydoctor = "pydoctor"

// Group keys for the two pydoctor defect categories the gate tracks.
const (
	groupInvalidRef    = "invalid ref"
	groupUnknownFields = "unknown fields"
)

// invalidRefPattern splits "<fqpn>:<lineno> <message>". The line number
// is dropped from the finding identity because it drifts over time.
var invalidRefPattern = regexp.MustCompile(`^(\S+):(\d+) (.*)$`)

// Pydoctor checks API documentation coverage output. There is no module
// grouping in its output; findings are grouped by defect category.
type Pydoctor struct{}

func NewPydoctor() *Pydoctor {
	return &Pydoctor{}
}

func (p *Pydoctor) Name() string {
	return NamePydoctor
}

func (p *Pydoctor) ComputeErrors(logE *logrus.Entry, text string) finding.GroupMap {
	errs := finding.GroupMap{}
	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		switch {
		case strings.Contains(line, "invalid ref to"):
			errs.Get(groupInvalidRef).Add(p.invalidRef(logE, line))
		case strings.Contains(line, "found unknown field on"):
			errs.Get(groupUnknownFields).Add(finding.Finding{
				Key:  line,
				Raw:  line,
				Kind: groupUnknownFields,
				Text: line,
			})
		}
	}
	return errs
}

func (p *Pydoctor) invalidRef(logE *logrus.Entry, line string) finding.Finding {
	matches := invalidRefPattern.FindStringSubmatch(line)
	if matches == nil {
		logE.WithField("line", line).Warn("pydoctor line doesn't match the invalid ref pattern")
		return finding.Unparseable(line)
	}
	value := matches[1] + ": " + matches[3]
	return finding.Finding{
		Key:  value,
		Raw:  line,
		Kind: groupInvalidRef,
		Text: value,
	}
}

// FormatErrors renders all findings as one flat, sorted list. The
// normalized message is rendered so that artifacts from different runs
// compare cleanly; unparseable lines are rendered as captured.
func (p *Pydoctor) FormatErrors(m finding.GroupMap) []string {
	lines := make([]string, 0, m.Total())
	for _, s := range m {
		for _, f := range s {
			if f.Kind == finding.UnparseableKind {
				lines = append(lines, f.Raw)
				continue
			}
			lines = append(lines, f.Text)
		}
	}
	sort.Strings(lines)
	return lines
}
