// Package check implements the lint regression step: it parses the
// captured output of a lint tool, compares it with the most recent
// default-branch baseline, publishes artifacts, and fails only when the
// current build introduces findings the baseline didn't have.
package check

import (
	"io"

	"github.com/lintgate/lintgate/pkg/buildstore"
	"github.com/lintgate/lintgate/pkg/checker"
	"github.com/spf13/afero"
)

// ArtifactStore is what the step needs from the build store: history
// for the baseline lookup plus the ability to record the current build
// and its artifacts.
type ArtifactStore interface {
	buildstore.History
	PutBuild(num int, branch string) error
	AddLog(num int, name, text string) error
}

type ParamCheck struct {
	// Input is the path of the captured tool output, "-" for stdin.
	Input       string
	BuildNumber int
	Branch      string
	Window      int
	// SARIFPath, when set, receives the new findings as a SARIF document.
	SARIFPath string
	Version   string
	Stdin     io.Reader
	Stderr    io.Writer
}

type Controller struct {
	checker checker.Checker
	store   ArtifactStore
	locator *buildstore.Locator
	fs      afero.Fs
	param   *ParamCheck
	logger  *Logger
}

func New(chk checker.Checker, store ArtifactStore, fs afero.Fs, param *ParamCheck) *Controller {
	return &Controller{
		checker: chk,
		store:   store,
		locator: buildstore.NewLocator(store, param.Window),
		fs:      fs,
		param:   param,
		logger:  NewLogger(param.Stderr),
	}
}
