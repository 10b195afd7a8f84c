package system

import (
	"testing"

	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
)

func TestWhiteFlashBlinksThenEnds(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	startHurtFlash(w, e)
	s := NewWhiteFlashSystem()

	tests := []struct {
		tick    int
		on      bool
		present bool
	}{
		{tick: 0, on: true, present: true},
		{tick: 4, on: true, present: true},
		{tick: 5, on: false, present: true},
		{tick: 10, on: true, present: true},
		{tick: 29, on: false, present: true},
		{tick: 30, on: false, present: false},
	}

	ticks := 0
	for _, tc := range tests {
		for ; ticks < tc.tick; ticks++ {
			s.Update(w)
		}
		if got := ecs.Has(w, e, component.WhiteFlashComponent.Kind()); got != tc.present {
			t.Fatalf("tick %d: flash present=%v, want %v", tc.tick, got, tc.present)
		}
		if got := flashing(w, e); got != tc.on {
			t.Fatalf("tick %d: flashing=%v, want %v", tc.tick, got, tc.on)
		}
	}
}
