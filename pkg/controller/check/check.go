package check

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lintgate/lintgate/pkg/checker"
	"github.com/lintgate/lintgate/pkg/finding"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ErrNewFindings is the step's failing verdict: the current build
// introduced findings the baseline didn't have.
var ErrNewFindings = errors.New("new lint findings were introduced")

// Check reads the captured tool output and evaluates it against the
// baseline. The wrapped tool's own exit status plays no part here; the
// verdict depends only on the diff.
func (c *Controller) Check(logE *logrus.Entry) error {
	text, err := c.readInput()
	if err != nil {
		return err
	}
	return c.Evaluate(logE, text)
}

// Evaluate runs the regression step over already-captured output.
func (c *Controller) Evaluate(logE *logrus.Entry, text string) error {
	num := c.param.BuildNumber
	logE = logE.WithFields(logrus.Fields{
		"tool":  c.checker.Name(),
		"build": num,
	})
	if err := c.store.PutBuild(num, c.param.Branch); err != nil {
		return fmt.Errorf("record the current build: %w", err)
	}

	fullName := c.checker.Name() + " errors"
	baseline := c.locator.PreviousLog(logE, num, fullName)

	current := c.checker.ComputeErrors(logE, text)
	previous := c.checker.ComputeErrors(logE, baseline)

	if err := c.publishFindings(current, fullName); err != nil {
		return err
	}

	newErrors := finding.Diff(current, previous)
	for _, group := range newErrors.Keys() {
		logE.WithFields(logrus.Fields{
			"group": group,
			"count": len(newErrors[group]),
		}).Info("new findings")
	}
	if len(newErrors) == 0 {
		c.logger.Pass(c.checker.Name(), current.Total())
		return nil
	}

	lines := c.checker.FormatErrors(newErrors)
	if err := c.store.AddLog(num, "new "+fullName, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("publish the new findings artifact: %w", err)
	}
	c.logger.Fail(c.checker.Name(), newErrors.Total(), lines)

	if c.param.SARIFPath != "" {
		if err := c.outputSARIF(newErrors); err != nil {
			return err
		}
	}
	return ErrNewFindings
}

// publishFindings always publishes the full current-findings artifact;
// it is the next build's baseline even when this build passes. Checkers
// that split their output additionally publish one artifact per split.
func (c *Controller) publishFindings(current finding.GroupMap, fullName string) error {
	num := c.param.BuildNumber
	if err := c.store.AddLog(num, fullName, strings.Join(c.checker.FormatErrors(current), "\n")); err != nil {
		return fmt.Errorf("publish the findings artifact: %w", err)
	}
	splitter, ok := c.checker.(checker.ArtifactSplitter)
	if !ok {
		return nil
	}
	split := splitter.SplitArtifacts(current)
	names := make([]string, 0, len(split))
	for name := range split {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		artifact := fmt.Sprintf("%s %s errors", c.checker.Name(), name)
		if err := c.store.AddLog(num, artifact, strings.Join(c.checker.FormatErrors(split[name]), "\n")); err != nil {
			return fmt.Errorf("publish the %s artifact: %w", artifact, err)
		}
	}
	return nil
}

func (c *Controller) readInput() (string, error) {
	if c.param.Input == "" || c.param.Input == "-" {
		b, err := io.ReadAll(c.param.Stdin)
		if err != nil {
			return "", fmt.Errorf("read the tool output from stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := afero.ReadFile(c.fs, c.param.Input)
	if err != nil {
		return "", fmt.Errorf("read the tool output: %w", err)
	}
	return string(b), nil
}
