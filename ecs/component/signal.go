package component

// Signal is a one-shot completion flag. The animation side fires it from a
// callback; the state machine polls it at the next tick boundary.
type Signal struct {
	fired bool
}

func NewSignal() *Signal {
	return &Signal{}
}

// Fire marks the signal complete. Firing twice is harmless.
func (s *Signal) Fire() {
	if s == nil {
		return
	}
	s.fired = true
}

// Fired reports whether Fire has been called.
func (s *Signal) Fired() bool {
	return s != nil && s.fired
}
