package system

import (
	"testing"

	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
)

func TestTTLSystem(t *testing.T) {
	tests := []struct {
		name   string
		frames int
		ticks  int
		alive  bool
	}{
		{name: "counting_down", frames: 3, ticks: 2, alive: true},
		{name: "expired", frames: 3, ticks: 3, alive: false},
		{name: "zero_expires_at_once", frames: 0, ticks: 1, alive: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := ecs.CreateEntity(w)
			if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: tc.frames}); err != nil {
				t.Fatalf("add ttl: %v", err)
			}
			s := NewTTLSystem()
			for i := 0; i < tc.ticks; i++ {
				s.Update(w)
			}
			if w.IsAlive(e) != tc.alive {
				t.Fatalf("alive=%v, want %v", w.IsAlive(e), tc.alive)
			}
		})
	}
}
