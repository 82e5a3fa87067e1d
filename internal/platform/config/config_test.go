package config

import (
	"testing"
	"time"

	kit "hansard/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	root := New()
	sync := root.Prefix("CORE_SYNC_")
	if got := sync.key("WORKERS"); got != "CORE_SYNC_WORKERS" {
		t.Fatalf("key() = %q, want %q", got, "CORE_SYNC_WORKERS")
	}
	// nested prefix
	nested := sync.Prefix("VOTES_")
	if got := nested.key("MAX_PAGES"); got != "CORE_SYNC_VOTES_MAX_PAGES" {
		t.Fatalf("nested key() = %q, want %q", got, "CORE_SYNC_VOTES_MAX_PAGES")
	}
}

// Must* panics

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  hansard ")
	got := c.MustString("NAME")
	if got != "hansard" {
		t.Fatalf("MustString = %q, want %q", got, "hansard")
	}

	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMustInt(t *testing.T) {
	c := New().Prefix("SVC_")
	t.Setenv("SVC_WORKERS", "  8 ")
	if got := c.MustInt("WORKERS"); got != 8 {
		t.Fatalf("MustInt = %d, want %d", got, 8)
	}
	kit.MustPanic(t, func() { _ = c.MustInt("MISSING") })
	t.Setenv("SVC_BAD", "x")
	kit.MustPanic(t, func() { _ = c.MustInt("BAD") })
}

func TestMustDuration(t *testing.T) {
	c := New().Prefix("D_")
	t.Setenv("D_DELAY", " 750ms ")
	if got := c.MustDuration("DELAY"); got != 750*time.Millisecond {
		t.Fatalf("MustDuration = %v, want %v", got, 750*time.Millisecond)
	}
	kit.MustPanic(t, func() { _ = c.MustDuration("MISSING") })
	t.Setenv("D_BAD", "soon")
	kit.MustPanic(t, func() { _ = c.MustDuration("BAD") })
}

func TestMustURL(t *testing.T) {
	c := New().Prefix("U_")
	t.Setenv("U_BASE", "https://api.openparliament.ca")
	u := c.MustURL("BASE")
	if u.Host != "api.openparliament.ca" {
		t.Fatalf("MustURL host = %q", u.Host)
	}
	t.Setenv("U_REL", "/votes/")
	kit.MustPanic(t, func() { _ = c.MustURL("REL") })
}

func TestRequire(t *testing.T) {
	c := New().Prefix("R_")
	t.Setenv("R_A", "1")
	t.Setenv("R_B", "2")
	kit.MustNotPanic(t, func() { c.Require("A", "B") })
	kit.MustPanic(t, func() { c.Require("A", "B", "C") })
}

// May* fallbacks

func TestMayString(t *testing.T) {
	c := New().Prefix("M_")
	if got := c.MayString("NOPE", "def"); got != "def" {
		t.Fatalf("MayString default = %q", got)
	}
	t.Setenv("M_SET", " x ")
	if got := c.MayString("SET", "def"); got != "x" {
		t.Fatalf("MayString set = %q", got)
	}
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("MI_")
	if got := c.MayInt("NOPE", 3); got != 3 {
		t.Fatalf("MayInt default = %d", got)
	}
	t.Setenv("MI_SET", "11")
	if got := c.MayInt("SET", 3); got != 11 {
		t.Fatalf("MayInt set = %d", got)
	}
	t.Setenv("MI_BAD", "eleven")
	if got := c.MayInt("BAD", 3); got != 3 {
		t.Fatalf("MayInt bad = %d, want default", got)
	}
}

func TestMayBoolAndDuration(t *testing.T) {
	c := New().Prefix("MB_")
	if c.MayBool("NOPE", true) != true {
		t.Fatalf("MayBool default mismatch")
	}
	t.Setenv("MB_ON", "false")
	if c.MayBool("ON", true) != false {
		t.Fatalf("MayBool set mismatch")
	}
	t.Setenv("MB_BAD", "perhaps")
	if c.MayBool("BAD", true) != true {
		t.Fatalf("MayBool bad should fall back to default")
	}

	if got := c.MayDuration("NOPE", time.Second); got != time.Second {
		t.Fatalf("MayDuration default = %v", got)
	}
	t.Setenv("MB_D", "2s")
	if got := c.MayDuration("D", time.Second); got != 2*time.Second {
		t.Fatalf("MayDuration set = %v", got)
	}
	t.Setenv("MB_DBAD", "later")
	if got := c.MayDuration("DBAD", time.Second); got != time.Second {
		t.Fatalf("MayDuration bad should fall back to default")
	}
}
