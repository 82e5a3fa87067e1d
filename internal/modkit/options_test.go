package modkit

import (
	"testing"
)

func TestWithName(t *testing.T) {
	t.Parallel()
	var c buildCfg
	WithName("votes")(&c)
	if c.name != "votes" {
		t.Fatalf("expected name=votes got=%q", c.name)
	}
}

func TestWithPorts_GenericStoresConcreteType(t *testing.T) {
	t.Parallel()

	type Ports struct {
		Hello string
		N     int
	}

	var c buildCfg
	WithPorts(Ports{Hello: "world", N: 7})(&c)

	ps, ok := c.ports.(Ports)
	if !ok {
		t.Fatalf("expected ports of type Ports got %T", c.ports)
	}
	if ps.Hello != "world" || ps.N != 7 {
		t.Fatalf("unexpected ports value: %+v", ps)
	}
}
