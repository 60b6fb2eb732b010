package buildstore

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeHistory struct {
	builds map[int]*Build
	logs   map[int]map[string]string
	errs   map[int]error
	asked  []int
}

func (h *fakeHistory) Build(num int) (*Build, error) {
	h.asked = append(h.asked, num)
	if err := h.errs[num]; err != nil {
		return nil, err
	}
	return h.builds[num], nil
}

func (h *fakeHistory) Log(num int, name string) (string, error) {
	if err := h.errs[num]; err != nil {
		return "", err
	}
	return h.logs[num][name], nil
}

func newTestLogE() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

func TestLocator_FindBaseline(t *testing.T) { //nolint:funlen
	t.Parallel()
	data := []struct {
		name    string
		builds  map[int]*Build
		errs    map[int]error
		current int
		window  int
		exp     int // -1 means no baseline
	}{
		{
			name:    "first build has no baseline",
			builds:  map[int]*Build{},
			current: 0,
			exp:     -1,
		},
		{
			name: "immediate predecessor on the default branch",
			builds: map[int]*Build{
				4: {Number: 4, Branch: ""},
			},
			current: 5,
			exp:     4,
		},
		{
			name: "branch builds are skipped even if newest",
			builds: map[int]*Build{
				9: {Number: 9, Branch: "release-24.1"},
				8: {Number: 8, Branch: ""},
			},
			current: 10,
			exp:     8,
		},
		{
			name: "missing slots are skipped",
			builds: map[int]*Build{
				2: {Number: 2, Branch: ""},
			},
			current: 6,
			exp:     2,
		},
		{
			name:    "window exhausted",
			builds:  map[int]*Build{},
			current: 20,
			exp:     -1,
		},
		{
			name: "build outside the window is not considered",
			builds: map[int]*Build{
				5: {Number: 5, Branch: ""},
			},
			current: 16,
			exp:     -1,
		},
		{
			name: "lookup errors count as missing",
			builds: map[int]*Build{
				7: {Number: 7, Branch: ""},
			},
			errs: map[int]error{
				9: errors.New("history unavailable"),
				8: errors.New("history unavailable"),
			},
			current: 10,
			exp:     7,
		},
		{
			name: "custom window",
			builds: map[int]*Build{
				1: {Number: 1, Branch: ""},
			},
			current: 4,
			window:  2,
			exp:     -1,
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			h := &fakeHistory{builds: d.builds, errs: d.errs}
			l := NewLocator(h, d.window)
			build := l.FindBaseline(newTestLogE(), d.current)
			if d.exp == -1 {
				if build != nil {
					t.Fatalf("expected no baseline, got build %d", build.Number)
				}
				return
			}
			if build == nil {
				t.Fatal("expected a baseline, got none")
			}
			if build.Number != d.exp {
				t.Fatalf("expected build %d, got %d", d.exp, build.Number)
			}
		})
	}
}

func TestLocator_FindBaseline_walkIsBounded(t *testing.T) {
	t.Parallel()
	h := &fakeHistory{builds: map[int]*Build{}}
	l := NewLocator(h, 0)
	if build := l.FindBaseline(newTestLogE(), 100); build != nil {
		t.Fatalf("expected no baseline, got %v", build)
	}
	if len(h.asked) != DefaultWindow {
		t.Fatalf("expected exactly %d lookups, got %d (%v)", DefaultWindow, len(h.asked), h.asked)
	}
	for _, num := range h.asked {
		if num < 90 || num > 99 {
			t.Fatalf("looked outside the window: %d", num)
		}
	}
}

func TestLocator_PreviousLog(t *testing.T) {
	t.Parallel()
	h := &fakeHistory{
		builds: map[int]*Build{
			4: {Number: 4, Branch: ""},
		},
		logs: map[int]map[string]string{
			4: {"twistedchecker errors": "W9001: 1,0: something"},
		},
	}
	l := NewLocator(h, 0)
	logE := newTestLogE()

	if got := l.PreviousLog(logE, 5, "twistedchecker errors"); got != "W9001: 1,0: something" {
		t.Fatalf("unexpected baseline text: %q", got)
	}
	if got := l.PreviousLog(logE, 5, "pydoctor errors"); got != "" {
		t.Fatalf("missing log must yield an empty baseline, got %q", got)
	}
	if got := l.PreviousLog(logE, 0, "twistedchecker errors"); got != "" {
		t.Fatalf("first build must yield an empty baseline, got %q", got)
	}
}
