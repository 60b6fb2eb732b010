// Package checker defines the per-tool contract for turning raw lint
// output into finding groups and rendering them back as text.
// The engine (baseline lookup, diffing, verdict) is tool-agnostic;
// supporting another lint tool means adding one Checker here.
package checker

import (
	"fmt"
	"strings"

	"github.com/lintgate/lintgate/pkg/finding"
	"github.com/sirupsen/logrus"
)

// Checker parses one tool's output and formats its findings.
//
// ComputeErrors must be total: every input produces a group map, and a
// line that defeats the tool's field pattern becomes an unparseable
// sentinel finding rather than an error. FormatErrors must be
// deterministic: group keys in sorted order, findings in display order.
type Checker interface {
	Name() string
	ComputeErrors(logE *logrus.Entry, text string) finding.GroupMap
	FormatErrors(m finding.GroupMap) []string
}

// ArtifactSplitter is implemented by checkers whose full-findings
// artifact is published as several named sections rather than one log.
type ArtifactSplitter interface {
	SplitArtifacts(m finding.GroupMap) map[string]finding.GroupMap
}

// splitLines splits captured tool output into lines. Lines are not
// bounded in length; a checker must consume every line it is given, so
// an oversized line becomes a finding or an anomaly, never a reason to
// stop parsing. The empty remainder after a trailing newline is dropped.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// New returns the checker for a tool name. The set of supported tools is
// closed at build time.
func New(name string, modulePrefix string) (Checker, error) {
	switch name {
	case NamePydoctor:
		return NewPydoctor(), nil
	case NameTwistedChecker:
		return NewTwistedChecker(modulePrefix), nil
	case NamePyflakes:
		return NewPyflakes(), nil
	}
	return nil, fmt.Errorf("unknown lint tool: %s", name)
}
