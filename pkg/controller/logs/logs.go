// Package logs prints a recorded build's artifacts for inspection.
package logs

import (
	"errors"
	"fmt"
	"io"

	"github.com/lintgate/lintgate/pkg/buildstore"
	"github.com/sirupsen/logrus"
)

var ErrBuildNotFound = errors.New("build is not recorded")

// Store is the read side of the build store.
type Store interface {
	buildstore.History
	LogNames(num int) ([]string, error)
	NextNumber() (int, error)
}

type Param struct {
	// BuildNumber selects the build; -1 means the latest recorded build.
	BuildNumber int
	// Name, when set, prints that log's text instead of the name list.
	Name   string
	Stdout io.Writer
}

type Controller struct {
	store Store
	param *Param
}

func New(store Store, param *Param) *Controller {
	return &Controller{store: store, param: param}
}

func (c *Controller) List(logE *logrus.Entry) error {
	num := c.param.BuildNumber
	if num < 0 {
		next, err := c.store.NextNumber()
		if err != nil {
			return err
		}
		if next == 0 {
			return ErrBuildNotFound
		}
		num = next - 1
	}
	build, err := c.store.Build(num)
	if err != nil {
		return err
	}
	if build == nil {
		return fmt.Errorf("%w: %d", ErrBuildNotFound, num)
	}
	logE.WithFields(logrus.Fields{
		"build":  build.Number,
		"branch": build.Branch,
	}).Debug("show build logs")

	if c.param.Name != "" {
		text, err := c.store.Log(num, c.param.Name)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.param.Stdout, text)
		return nil
	}
	names, err := c.store.LogNames(num)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(c.param.Stdout, name)
	}
	return nil
}
