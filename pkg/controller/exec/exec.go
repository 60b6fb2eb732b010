// Package exec runs the wrapped lint tool and feeds its captured output
// to the regression check. The tool's exit code is recorded but never
// decides the verdict; lint tools exit non-zero whenever they report
// anything, including findings the baseline already had.
package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/lintgate/lintgate/pkg/controller/check"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

type Param struct {
	Command []string
}

type Controller struct {
	checkCtrl *check.Controller
	param     *Param
}

func New(checkCtrl *check.Controller, param *Param) *Controller {
	return &Controller{
		checkCtrl: checkCtrl,
		param:     param,
	}
}

// Exec runs the command, captures combined stdout and stderr, and
// evaluates the result regardless of how the command exited.
func (c *Controller) Exec(ctx context.Context, logE *logrus.Entry) error {
	if len(c.param.Command) == 0 {
		return errors.New("no lint command was given")
	}
	cmd := exec.CommandContext(ctx, c.param.Command[0], c.param.Command[1:]...) //nolint:gosec
	buf := &bytes.Buffer{}
	cmd.Stdout = buf
	cmd.Stderr = buf
	if err := cmd.Run(); err != nil {
		logerr.WithError(logE, err).WithField("command", c.param.Command[0]).Info("the lint tool exited with an error, evaluating its output anyway")
	}
	return c.checkCtrl.Evaluate(logE, buf.String())
}
