package checker

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lintgate/lintgate/pkg/finding"
	"github.com/sirupsen/logrus"
)

const NameTwistedChecker = "twistedchecker"

// DefaultModulePrefix is the delimiter twistedchecker prints before each
// module's warnings.
const DefaultModulePrefix = "************* Module "

var (
	warningStartPattern = regexp.MustCompile(`^[WCEFR]\d{4}:`)
	warningPattern      = regexp.MustCompile(`^([WCEFR]\d{4}):(\s*\d+),(\d+):(.*)`)
)

// TwistedChecker checks per-module style checker output. Findings are
// grouped by module; a finding's identity is its warning code plus the
// first-line message, so moved warnings don't count as new.
type TwistedChecker struct {
	modulePrefix string
}

func NewTwistedChecker(modulePrefix string) *TwistedChecker {
	if modulePrefix == "" {
		modulePrefix = DefaultModulePrefix
	}
	return &TwistedChecker{modulePrefix: modulePrefix}
}

func (t *TwistedChecker) Name() string {
	return NameTwistedChecker
}

func (t *TwistedChecker) ComputeErrors(logE *logrus.Entry, text string) finding.GroupMap {
	errs := finding.GroupMap{}
	module := ""
	var blocks []string
	flush := func() {
		if module == "" {
			return
		}
		s := errs.Get(module)
		for _, block := range blocks {
			s.Add(t.parseWarning(logE, block))
		}
	}
	for _, line := range splitLines(text) {
		switch {
		case strings.HasPrefix(line, t.modulePrefix):
			flush()
			module = strings.TrimPrefix(line, t.modulePrefix)
			blocks = nil
		case warningStartPattern.MatchString(line):
			if module == "" {
				logE.WithField("line", line).Warn("warning line before any module delimiter")
				continue
			}
			blocks = append(blocks, line)
		default:
			// Continuation of a multi-line message.
			if len(blocks) > 0 {
				blocks[len(blocks)-1] += "\n" + line
				continue
			}
			if line != "" {
				logE.WithFields(logrus.Fields{
					"module": module,
					"line":   line,
				}).Warn("bad result format")
			}
		}
	}
	flush()
	return errs
}

// parseWarning extracts the structured fields from a warning block's
// first line. Continuation lines stay in the raw text but never
// participate in the finding's identity.
func (t *TwistedChecker) parseWarning(logE *logrus.Entry, block string) finding.Finding {
	first := block
	if i := strings.IndexByte(block, '\n'); i >= 0 {
		first = block[:i]
	}
	matches := warningPattern.FindStringSubmatch(first)
	if matches == nil {
		logE.WithField("line", first).Warn("unparseable warning line")
		return finding.Unparseable(block)
	}
	line, _ := strconv.Atoi(strings.TrimSpace(matches[2]))
	indent, _ := strconv.Atoi(matches[3])
	return finding.Finding{
		Key:    matches[1] + ":" + matches[4],
		Raw:    block,
		Kind:   matches[1],
		Line:   line,
		Indent: indent,
		Text:   matches[4],
	}
}

// FormatErrors renders each module in sorted order, prefixed by its
// original delimiter line, with findings in display order. The output is
// visually identical to the tool's own grouped output.
func (t *TwistedChecker) FormatErrors(m finding.GroupMap) []string {
	var lines []string
	for _, module := range m.Keys() {
		lines = append(lines, t.modulePrefix+module)
		for _, f := range m[module].Sorted() {
			lines = append(lines, f.Raw)
		}
	}
	return lines
}

// SplitArtifacts groups modules by their top-level package (the first
// two dotted components) so the full-findings log is published as one
// artifact per top-level package instead of a single huge log.
func (t *TwistedChecker) SplitArtifacts(m finding.GroupMap) map[string]finding.GroupMap {
	split := map[string]finding.GroupMap{}
	for module, s := range m {
		parts := strings.SplitN(module, ".", 3)
		toplevel := strings.Join(parts[:min(len(parts), 2)], ".")
		sub, ok := split[toplevel]
		if !ok {
			sub = finding.GroupMap{}
			split[toplevel] = sub
		}
		sub[module] = s
	}
	return split
}
