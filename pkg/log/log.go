// Package log constructs the logrus entry the whole program logs through.
package log

import "github.com/sirupsen/logrus"

func New(version string) *logrus.Entry {
	return logrus.NewEntry(logrus.New()).WithFields(logrus.Fields{
		"lintgate_version": version,
		"program":          "lintgate",
	})
}
