package exec

import (
	"context"
	"fmt"

	clicheck "github.com/lintgate/lintgate/pkg/cli/check"
	"github.com/lintgate/lintgate/pkg/controller/exec"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/urfave-cli-v3-util/log"
	"github.com/urfave/cli/v3"
)

func New(logE *logrus.Entry, version string) *cli.Command {
	r := &runner{
		logE:    logE,
		version: version,
	}
	return r.Command()
}

type runner struct {
	logE    *logrus.Entry
	version string
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "exec",
		Usage: "Run a lint tool and evaluate its output against the baseline build",
		Description: `Run a lint tool and evaluate its output against the baseline build.

$ lintgate exec --tool pyflakes -- pyflakes twisted

Stdout and stderr of the command are captured together. The command's
exit code is ignored; the verdict comes from the comparison alone.
`,
		Action: r.action,
		Flags:  clicheck.StepFlags(),
	}
}

func (r *runner) action(ctx context.Context, c *cli.Command) error {
	if err := log.Set(r.logE, c.String("log-level"), "auto"); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	fs := afero.NewOsFs()
	checkCtrl, store, err := clicheck.NewStep(c, fs, r.version, "")
	if err != nil {
		return err
	}
	defer store.Close()
	ctrl := exec.New(checkCtrl, &exec.Param{
		Command: c.Args().Slice(),
	})
	return ctrl.Exec(ctx, r.logE) //nolint:wrapcheck
}
