package exec_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lintgate/lintgate/pkg/buildstore"
	"github.com/lintgate/lintgate/pkg/checker"
	"github.com/lintgate/lintgate/pkg/controller/check"
	"github.com/lintgate/lintgate/pkg/controller/exec"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func newLogE() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

func newController(t *testing.T, command []string) (*exec.Controller, *buildstore.Store) {
	t.Helper()
	store, err := buildstore.Open(filepath.Join(t.TempDir(), "builds.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Error(err)
		}
	})
	chk, err := checker.New(checker.NamePyflakes, "")
	if err != nil {
		t.Fatal(err)
	}
	checkCtrl := check.New(chk, store, afero.NewMemMapFs(), &check.ParamCheck{
		BuildNumber: 0,
		Stderr:      &bytes.Buffer{},
	})
	return exec.New(checkCtrl, &exec.Param{Command: command}), store
}

func TestController_Exec_nonZeroExitStillEvaluates(t *testing.T) {
	t.Parallel()
	ctrl, store := newController(t, []string{
		"sh", "-c", "echo \"pkg/a.py:3: 'os' imported but unused\"; exit 1",
	})
	err := ctrl.Exec(context.Background(), newLogE())
	if !errors.Is(err, check.ErrNewFindings) {
		t.Fatalf("expected ErrNewFindings, got %v", err)
	}
	text, err := store.Log(0, "pyflakes errors")
	if err != nil {
		t.Fatal(err)
	}
	if text != "pkg/a.py:3: 'os' imported but unused" {
		t.Fatalf("unexpected artifact: %q", text)
	}
}

func TestController_Exec_cleanOutputPasses(t *testing.T) {
	t.Parallel()
	ctrl, _ := newController(t, []string{"sh", "-c", "true"})
	if err := ctrl.Exec(context.Background(), newLogE()); err != nil {
		t.Fatalf("clean output must pass, got %v", err)
	}
}

func TestController_Exec_emptyCommand(t *testing.T) {
	t.Parallel()
	ctrl, _ := newController(t, nil)
	if err := ctrl.Exec(context.Background(), newLogE()); err == nil {
		t.Fatal("an empty command must be rejected")
	}
}
