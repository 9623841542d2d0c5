package rdflens_test

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	rdflens "github.com/reoring/rdflens"
)

func TestWithTracer_LogsNamedSteps(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	l := constLens(1).Named("step-a", nil).Named("step-b", nil)
	if _, err := l.Execute(focus(), rdflens.WithTracer(logger)); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if logs.Len() != 2 {
		t.Fatalf("expected 2 trace entries, got %d", logs.Len())
	}
	names := map[string]bool{}
	for _, e := range logs.All() {
		for _, f := range e.Context {
			if f.Key == "name" {
				names[f.String] = true
			}
		}
	}
	if !names["step-a"] || !names["step-b"] {
		t.Fatalf("trace missing step names: %v", names)
	}
}

func TestExecute_WithoutTracerIsSilent(t *testing.T) {
	if _, err := constLens(1).Named("quiet", nil).Execute(focus()); err != nil {
		t.Fatalf("execute: %v", err)
	}
}
