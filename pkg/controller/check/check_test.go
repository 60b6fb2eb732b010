package check_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lintgate/lintgate/pkg/buildstore"
	"github.com/lintgate/lintgate/pkg/checker"
	"github.com/lintgate/lintgate/pkg/controller/check"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func newLogE() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

func openStore(t *testing.T) *buildstore.Store {
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
	return store
}

var pyflakesBase = []string{
	"twisted/conch/manhole_tap.py:14: 'session' imported but unused",
	"twisted/mail/bounce.py:40: local variable 'boundary' is assigned to but never used",
	"twisted/test/test_jelly.py:571: local variable 'n11' is assigned to but never used",
}

const pyflakesExtra = "twisted/web/http.py:90: 'gzip' imported but unused"

func evaluate(t *testing.T, store *buildstore.Store, num int, branch, text string) error {
	t.Helper()
	chk, err := checker.New(checker.NamePyflakes, "")
	if err != nil {
		t.Fatal(err)
	}
	ctrl := check.New(chk, store, afero.NewMemMapFs(), &check.ParamCheck{
		BuildNumber: num,
		Branch:      branch,
		Stderr:      &bytes.Buffer{},
	})
	return ctrl.Evaluate(newLogE(), text)
}

func TestController_Evaluate_regression(t *testing.T) {
	store := openStore(t)

	// Build 4: three findings, no baseline within reach -> all new.
	err := evaluate(t, store, 4, "", strings.Join(pyflakesBase, "\n"))
	if !errors.Is(err, check.ErrNewFindings) {
		t.Fatalf("bootstrap build must report all findings as new, got %v", err)
	}

	// Build 5: the same three plus one -> fail with exactly the one.
	text := strings.Join(append(append([]string{}, pyflakesBase...), pyflakesExtra), "\n")
	err = evaluate(t, store, 5, "", text)
	if !errors.Is(err, check.ErrNewFindings) {
		t.Fatalf("expected ErrNewFindings, got %v", err)
	}
	newLog, err := store.Log(5, "new pyflakes errors")
	if err != nil {
		t.Fatal(err)
	}
	if newLog != pyflakesExtra {
		t.Fatalf("new findings artifact must contain exactly the added finding:\n%q", newLog)
	}

	// Build 6: unchanged output -> pass, but the full artifact is still
	// published for the next baseline.
	if err := evaluate(t, store, 6, "", text); err != nil {
		t.Fatalf("unchanged output must pass, got %v", err)
	}
	fullLog, err := store.Log(6, "pyflakes errors")
	if err != nil {
		t.Fatal(err)
	}
	if len(strings.Split(fullLog, "\n")) != 4 {
		t.Fatalf("full artifact must carry all findings:\n%q", fullLog)
	}
	if got, _ := store.Log(6, "new pyflakes errors"); got != "" {
		t.Fatalf("a passing build must not publish a new-findings artifact, got %q", got)
	}

	// Build 7: a finding was fixed -> still a pass.
	if err := evaluate(t, store, 7, "", strings.Join(pyflakesBase, "\n")); err != nil {
		t.Fatalf("fixed findings must never fail the step, got %v", err)
	}
}

func TestController_Evaluate_branchBuildsAreNotBaselines(t *testing.T) {
	store := openStore(t)

	if err := evaluate(t, store, 0, "", strings.Join(pyflakesBase, "\n")); !errors.Is(err, check.ErrNewFindings) {
		t.Fatalf("first build: %v", err)
	}
	// A branch build with a clean log must not become the baseline.
	if err := evaluate(t, store, 1, "feature/cleanup", ""); err != nil {
		t.Fatalf("branch build: %v", err)
	}
	// Same findings as build 0 -> pass, because the baseline is build 0,
	// not the clean branch build 1.
	if err := evaluate(t, store, 2, "", strings.Join(pyflakesBase, "\n")); err != nil {
		t.Fatalf("expected a pass against the default-branch baseline, got %v", err)
	}
}

func TestController_Evaluate_splitArtifacts(t *testing.T) {
	store := openStore(t)
	chk, err := checker.New(checker.NameTwistedChecker, "")
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Join([]string{
		"************* Module twisted.python",
		"W9002:  1,0: Missing a reference to test module in header",
		"************* Module twisted.trial.runner",
		"W9208:  1,0: Missing docstring",
	}, "\n")
	ctrl := check.New(chk, store, afero.NewMemMapFs(), &check.ParamCheck{
		BuildNumber: 0,
		Stderr:      &bytes.Buffer{},
	})
	if err := ctrl.Evaluate(newLogE(), text); !errors.Is(err, check.ErrNewFindings) {
		t.Fatalf("expected ErrNewFindings, got %v", err)
	}
	names, err := store.LogNames(0)
	if err != nil {
		t.Fatal(err)
	}
	exp := []string{
		"new twistedchecker errors",
		"twistedchecker errors",
		"twistedchecker twisted.python errors",
		"twistedchecker twisted.trial errors",
	}
	if len(names) != len(exp) {
		t.Fatalf("expected %v, got %v", exp, names)
	}
	for i, name := range exp {
		if names[i] != name {
			t.Fatalf("expected %v, got %v", exp, names)
		}
	}
}

func TestController_Check_readsInputFile(t *testing.T) {
	store := openStore(t)
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "out.log", []byte(pyflakesBase[0]), 0o644); err != nil {
		t.Fatal(err)
	}
	chk, err := checker.New(checker.NamePyflakes, "")
	if err != nil {
		t.Fatal(err)
	}
	ctrl := check.New(chk, store, fs, &check.ParamCheck{
		Input:       "out.log",
		BuildNumber: 0,
		Stderr:      &bytes.Buffer{},
	})
	if err := ctrl.Check(newLogE()); !errors.Is(err, check.ErrNewFindings) {
		t.Fatalf("expected ErrNewFindings, got %v", err)
	}
}

func TestController_Evaluate_sarifOutput(t *testing.T) {
	store := openStore(t)
	fs := afero.NewMemMapFs()
	chk, err := checker.New(checker.NamePyflakes, "")
	if err != nil {
		t.Fatal(err)
	}
	ctrl := check.New(chk, store, fs, &check.ParamCheck{
		BuildNumber: 0,
		SARIFPath:   "lintgate.sarif",
		Stderr:      &bytes.Buffer{},
	})
	if err := ctrl.Evaluate(newLogE(), pyflakesBase[0]); !errors.Is(err, check.ErrNewFindings) {
		t.Fatalf("expected ErrNewFindings, got %v", err)
	}
	b, err := afero.ReadFile(fs, "lintgate.sarif")
	if err != nil {
		t.Fatal(err)
	}
	doc := string(b)
	for _, want := range []string{`"2.1.0"`, "new-lint-finding", "'session' imported but unused"} {
		if !strings.Contains(doc, want) {
			t.Fatalf("SARIF output missing %q:\n%s", want, doc)
		}
	}
}
