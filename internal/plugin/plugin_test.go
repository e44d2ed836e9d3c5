package plugin

import (
	"testing"

	"aerox/pkg/aerox"
)

type orderRecorder struct {
	name string
	log  *[]string
}

func (p *orderRecorder) Name() string { return p.name }

func (p *orderRecorder) Build(reg *Registry) error {
	*p.log = append(*p.log, p.name)
	return nil
}

func TestSetBuildRunsInRegistrationOrder(t *testing.T) {
	var order []string
	s := &Set{}
	s.Add(&orderRecorder{name: "first", log: &order})
	s.Add(&orderRecorder{name: "second", log: &order})
	s.Add(&orderRecorder{name: "third", log: &order})

	reg := &Registry{Router: aerox.NewRouter(), Stack: aerox.NewStack()}
	if err := s.Build(reg); err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestSetNames(t *testing.T) {
	s := &Set{}
	s.Add(&orderRecorder{name: "alpha", log: &[]string{}})
	s.Add(&orderRecorder{name: "beta", log: &[]string{}})

	names := s.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("unexpected names: %v", names)
	}
}

type failingPlugin struct{}

func (failingPlugin) Name() string { return "failing" }
func (failingPlugin) Build(reg *Registry) error {
	return aerox.ErrSendFailed
}

func TestSetBuildStopsOnFirstError(t *testing.T) {
	var order []string
	s := &Set{}
	s.Add(&orderRecorder{name: "first", log: &order})
	s.Add(failingPlugin{})
	s.Add(&orderRecorder{name: "never", log: &order})

	reg := &Registry{Router: aerox.NewRouter(), Stack: aerox.NewStack()}
	if err := s.Build(reg); err == nil {
		t.Fatal("expected error from failing plugin")
	}
	if len(order) != 1 || order[0] != "first" {
		t.Fatalf("expected only first plugin to have run, got %v", order)
	}
}
