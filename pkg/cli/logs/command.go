package logs

import (
	"context"
	"fmt"
	"os"

	"github.com/lintgate/lintgate/pkg/buildstore"
	"github.com/lintgate/lintgate/pkg/config"
	"github.com/lintgate/lintgate/pkg/controller/logs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/urfave-cli-v3-util/log"
	"github.com/urfave/cli/v3"
)

func New(logE *logrus.Entry) *cli.Command {
	r := &runner{
		logE: logE,
	}
	return r.Command()
}

type runner struct {
	logE *logrus.Entry
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Show a recorded build's artifacts",
		Description: `Show a recorded build's artifacts.

$ lintgate logs                               # log names of the latest build
$ lintgate logs -b 42                         # log names of build 42
$ lintgate logs -b 42 "new pyflakes errors"   # one log's text
`,
		Action: r.action,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "build",
				Aliases: []string{"b"},
				Usage:   "build number. Defaults to the latest recorded build",
				Value:   -1,
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "path of the build store database",
			},
		},
	}
}

func (r *runner) action(_ context.Context, c *cli.Command) error {
	if err := log.Set(r.logE, c.String("log-level"), "auto"); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	fs := afero.NewOsFs()
	cfg, err := config.Load(fs, c.String("config"))
	if err != nil {
		return err
	}
	storePath := c.String("store")
	if storePath == "" {
		storePath = cfg.StorePath()
	}
	store, err := buildstore.Open(storePath)
	if err != nil {
		return err
	}
	defer store.Close()
	ctrl := logs.New(store, &logs.Param{
		BuildNumber: c.Int("build"),
		Name:        c.Args().First(),
		Stdout:      os.Stdout,
	})
	return ctrl.List(r.logE) //nolint:wrapcheck
}
