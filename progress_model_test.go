package main

import (
	"strings"
	"testing"

	"github.com/olivier-w/specviz/internal/generate"
)

func newTestModel() generateModel {
	statusCh := make(chan generate.Progress, 1)
	done := make(chan error, 1)
	return newGenerateModel("Artist - Song", "out.mp4", statusCh, done, func() {})
}

func TestProgressModelConsumesStatusUpdates(t *testing.T) {
	m := newTestModel()

	model, cmd := m.Update(progressMsg{Percent: 40, Message: "generating frames"})
	if cmd == nil {
		t.Fatal("expected waitForStatus command")
	}

	pm := model.(generateModel)
	if pm.status != "generating frames" {
		t.Fatalf("status = %q, want generating frames", pm.status)
	}
	if pm.target != 0.4 {
		t.Fatalf("target = %v, want 0.4", pm.target)
	}
}

func TestProgressModelDoneQuits(t *testing.T) {
	m := newTestModel()

	model, cmd := m.Update(generateDoneMsg{err: nil})
	if cmd == nil {
		t.Fatal("expected quit command")
	}

	pm := model.(generateModel)
	if !pm.finished {
		t.Fatal("expected finished state")
	}
	if pm.err != nil {
		t.Fatalf("err = %v, want nil", pm.err)
	}
	if !strings.Contains(pm.View(), "out.mp4") {
		t.Fatal("final view does not mention the output path")
	}
}

func TestProgressModelShowsFailure(t *testing.T) {
	m := newTestModel()

	model, _ := m.Update(generateDoneMsg{err: errBoom{}})
	pm := model.(generateModel)
	if pm.err == nil {
		t.Fatal("expected error to be recorded")
	}
	if !strings.Contains(pm.View(), "boom") {
		t.Fatal("final view does not show the failure")
	}
}

func TestProgressModelSpringAdvancesTowardTarget(t *testing.T) {
	m := newTestModel()
	m.target = 1

	model, _ := m.Update(uiTickMsg{})
	pm := model.(generateModel)
	if pm.shown <= 0 {
		t.Fatalf("shown = %v, want movement toward target after a tick", pm.shown)
	}
	if pm.shown > 1 {
		t.Fatalf("shown = %v, want at most 1", pm.shown)
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
