package entities

// Session tracks the lifecycle of one voice channel.
//
// The identifier starts out as a client-generated handle and may be rebound
// to a server-assigned one mid-conversation; rebinding never resets the
// active or greeting flags.
type Session struct {
	ID           string
	Active       bool
	GreetingSent bool
}

// Rebind replaces the session identifier without touching lifecycle flags.
func (s *Session) Rebind(id string) {
	s.ID = id
}

// Activate marks the session active. Returns false if it already was,
// so callers can treat a repeated start as a no-op.
func (s *Session) Activate() bool {
	if s.Active {
		return false
	}
	s.Active = true
	return true
}

// Deactivate clears the active flag. Returns false if the session was
// already inactive.
func (s *Session) Deactivate() bool {
	if !s.Active {
		return false
	}
	s.Active = false
	return true
}

// MarkGreeted records that the greeting fired. It fires at most once per
// channel lifetime; returns false when the greeting was already sent.
func (s *Session) MarkGreeted() bool {
	if s.GreetingSent {
		return false
	}
	s.GreetingSent = true
	return true
}
