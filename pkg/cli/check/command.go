package check

import (
	"context"
	"fmt"
	"os"

	"github.com/lintgate/lintgate/pkg/buildstore"
	"github.com/lintgate/lintgate/pkg/checker"
	"github.com/lintgate/lintgate/pkg/config"
	"github.com/lintgate/lintgate/pkg/controller/check"
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
		Name:  "check",
		Usage: "Evaluate captured lint output against the baseline build",
		Description: `Evaluate captured lint output against the baseline build.

$ twistedchecker twisted > out.log || true
$ lintgate check --tool twistedchecker --build 42 out.log

The step fails only when the output contains findings the most recent
default-branch build within the lookup window didn't have. If no file is
passed, the output is read from stdin.
`,
		Action: r.action,
		Flags:  StepFlags(),
	}
}

// StepFlags is shared with the exec command; both run the same step.
func StepFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "tool",
			Aliases:  []string{"t"},
			Usage:    "lint tool that produced the output (pydoctor, twistedchecker, pyflakes)",
			Required: true,
		},
		&cli.IntFlag{
			Name:    "build",
			Aliases: []string{"b"},
			Usage:   "current build number. Defaults to one past the highest recorded build",
			Value:   -1,
			Sources: cli.EnvVars("LINTGATE_BUILD"),
		},
		&cli.StringFlag{
			Name:    "branch",
			Usage:   "branch property of the current build. Leave empty on the default branch",
			Sources: cli.EnvVars("LINTGATE_BRANCH"),
		},
		&cli.StringFlag{
			Name:  "store",
			Usage: "path of the build store database",
		},
		&cli.IntFlag{
			Name:    "window",
			Aliases: []string{"w"},
			Usage:   "how many builds the baseline lookup walks backward",
		},
		&cli.StringFlag{
			Name:  "sarif",
			Usage: "write the new findings to this path as SARIF",
		},
	}
}

// NewStep builds the regression step from flags and configuration. The
// returned store must be closed by the caller.
func NewStep(c *cli.Command, fs afero.Fs, version, input string) (*check.Controller, *buildstore.Store, error) {
	cfg, err := config.Load(fs, c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	toolName := c.String("tool")
	modulePrefix := ""
	if t := cfg.Tool(toolName); t != nil {
		modulePrefix = t.ModulePrefix
	}
	chk, err := checker.New(toolName, modulePrefix)
	if err != nil {
		return nil, nil, err
	}

	storePath := c.String("store")
	if storePath == "" {
		storePath = cfg.StorePath()
	}
	store, err := buildstore.Open(storePath)
	if err != nil {
		return nil, nil, err
	}

	num := c.Int("build")
	if num < 0 {
		num, err = store.NextNumber()
		if err != nil {
			store.Close()
			return nil, nil, err
		}
	}
	window := c.Int("window")
	if window == 0 {
		window = cfg.Window
	}

	ctrl := check.New(chk, store, fs, &check.ParamCheck{
		Input:       input,
		BuildNumber: num,
		Branch:      c.String("branch"),
		Window:      window,
		SARIFPath:   c.String("sarif"),
		Version:     version,
		Stdin:       os.Stdin,
		Stderr:      os.Stderr,
	})
	return ctrl, store, nil
}

func (r *runner) action(_ context.Context, c *cli.Command) error {
	if err := log.Set(r.logE, c.String("log-level"), "auto"); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	fs := afero.NewOsFs()
	ctrl, store, err := NewStep(c, fs, r.version, c.Args().First())
	if err != nil {
		return err
	}
	defer store.Close()
	return ctrl.Check(r.logE) //nolint:wrapcheck
}
