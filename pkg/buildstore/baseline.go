package buildstore

import (
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

// DefaultWindow is how many build slots the locator walks backward
// before giving up. Bounded on purpose: scanning unbounded history
// trades freshness for cost with no payoff on an active branch.
const DefaultWindow = 10

// Locator finds the baseline build: the most recent default-branch
// build within a bounded window before the current one.
type Locator struct {
	history History
	window  int
}

func NewLocator(history History, window int) *Locator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Locator{history: history, window: window}
}

// FindBaseline walks backward from current-1 through current-window and
// returns the first build that exists and has an empty branch property.
// It returns nil when current is the very first build or the window is
// exhausted; that means "no regression possible", not an error. Lookup
// failures are treated the same as missing builds.
func (l *Locator) FindBaseline(logE *logrus.Entry, current int) *Build {
	if current == 0 {
		logE.Info("no baseline because this is the first build")
		return nil
	}
	for i := 1; i <= l.window; i++ {
		num := current - i
		if num < 0 {
			break
		}
		build, err := l.history.Build(num)
		if err != nil {
			logerr.WithError(logE, err).WithField("build", num).Warn("look up a build, skipping")
			continue
		}
		if build == nil {
			continue
		}
		if build.Branch != "" {
			logE.WithFields(logrus.Fields{
				"build":  num,
				"branch": build.Branch,
			}).Debug("skip a non-default-branch build")
			continue
		}
		logE.WithField("build", num).Debug("found a build on the default branch")
		return build
	}
	logE.WithField("window", l.window).Info("no qualifying build in the window")
	return nil
}

// PreviousLog returns the named log of the baseline build, or the empty
// string when there is no baseline or the baseline never published that
// log. An empty baseline makes every current finding new, which is the
// intended bootstrap behavior.
func (l *Locator) PreviousLog(logE *logrus.Entry, current int, name string) string {
	build := l.FindBaseline(logE, current)
	if build == nil {
		return ""
	}
	text, err := l.history.Log(build.Number, name)
	if err != nil {
		logerr.WithError(logE, err).WithField("build", build.Number).Warn("read the baseline log")
		return ""
	}
	if text == "" {
		logE.WithFields(logrus.Fields{
			"build": build.Number,
			"log":   name,
		}).Info("baseline build has no such log")
		return ""
	}
	logE.WithFields(logrus.Fields{
		"build": build.Number,
		"bytes": len(text),
	}).Debug("found the baseline log")
	return text
}
