package modkit

import "testing"

func TestBuild_AppliesOptions(t *testing.T) {
	t.Parallel()

	type Ports struct{ N int }

	b := Build(WithName("loyalty"), WithPorts(Ports{N: 3}))
	if b.Name != "loyalty" {
		t.Fatalf("Name mismatch: %q", b.Name)
	}
	ps, ok := b.Ports.(Ports)
	if !ok || ps.N != 3 {
		t.Fatalf("Ports mismatch: %#v", b.Ports)
	}
}

func TestBuild_ZeroOptions(t *testing.T) {
	t.Parallel()

	b := Build()
	if b.Name != "" || b.Ports != nil {
		t.Fatalf("expected zero Built, got %#v", b)
	}
}
