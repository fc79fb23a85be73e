package cache

import (
	"testing"
	"time"
)

func TestKeyIsStableAndNamespaced(t *testing.T) {
	a := Key("page:Tokyo")
	b := Key("page:Tokyo")
	c := Key("page:Paris")

	if a != b {
		t.Error("same input must produce the same key")
	}
	if a == c {
		t.Error("different inputs must produce different keys")
	}
	if len(a) <= len("veracity:v1:") {
		t.Errorf("key too short: %q", a)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	c := NewMemory(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("empty cache must not find anything")
	}

	c.Set("k", []byte("v"), time.Minute)
	got, found := c.Get("k")
	if !found || string(got) != "v" {
		t.Errorf("Get = (%q, %v)", got, found)
	}

	c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("deleted key must be gone")
	}

	c.Set("k2", []byte("v2"), time.Minute)
	c.Clear()
	if _, found := c.Get("k2"); found {
		t.Error("cleared cache must be empty")
	}
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory(time.Minute, time.Minute)

	c.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("expired entry must not be returned")
	}
}

func TestNopStoresNothing(t *testing.T) {
	var c Cache = Nop{}

	c.Set("k", []byte("v"), time.Minute)
	if _, found := c.Get("k"); found {
		t.Error("nop cache must never return a value")
	}
}
