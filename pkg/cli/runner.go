// Package cli assembles the lintgate command tree.
package cli

import (
	"context"

	"github.com/lintgate/lintgate/pkg/cli/check"
	cliexec "github.com/lintgate/lintgate/pkg/cli/exec"
	"github.com/lintgate/lintgate/pkg/cli/flag"
	"github.com/lintgate/lintgate/pkg/cli/initcmd"
	"github.com/lintgate/lintgate/pkg/cli/logs"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/urfave-cli-v3-util/urfave"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, logE *logrus.Entry, ldFlags *urfave.LDFlags, args ...string) error {
	gf := &flag.GlobalFlags{}
	return urfave.Command(logE, ldFlags, &cli.Command{ //nolint:wrapcheck
		Name:  "lintgate",
		Usage: "Fail CI only when a lint tool reports findings the baseline build didn't have",
		Flags: gf.Flags(),
		Commands: []*cli.Command{
			check.New(logE, ldFlags.Version),
			cliexec.New(logE, ldFlags.Version),
			initcmd.New(logE),
			logs.New(logE),
		},
	}).Run(ctx, args)
}
