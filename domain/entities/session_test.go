package entities

import "testing"

func TestSessionActivateIsIdempotent(t *testing.T) {
	s := Session{ID: "s1"}

	if !s.Activate() {
		t.Fatal("first Activate() = false")
	}
	if s.Activate() {
		t.Fatal("second Activate() = true, want no-op")
	}
	if !s.Deactivate() {
		t.Fatal("Deactivate() on active session = false")
	}
	if s.Deactivate() {
		t.Fatal("Deactivate() on idle session = true")
	}
}

func TestSessionGreetingFiresOnce(t *testing.T) {
	s := Session{ID: "s1"}

	if !s.MarkGreeted() {
		t.Fatal("first MarkGreeted() = false")
	}
	// A stop/start cycle must not rearm the greeting.
	s.Activate()
	s.Deactivate()
	s.Activate()
	if s.MarkGreeted() {
		t.Fatal("greeting rearmed after restart")
	}
}

func TestSessionRebindPreservesFlags(t *testing.T) {
	s := Session{ID: "client-handle"}
	s.Activate()
	s.MarkGreeted()

	s.Rebind("server-uuid")

	if s.ID != "server-uuid" {
		t.Errorf("ID = %q, want server-uuid", s.ID)
	}
	if !s.Active || !s.GreetingSent {
		t.Errorf("flags reset by rebind: active=%v greeted=%v", s.Active, s.GreetingSent)
	}
}
