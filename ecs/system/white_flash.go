package system

import (
	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
)

const (
	hurtFlashFrames   = 30
	hurtFlashInterval = 5
)

// WhiteFlashSystem blinks hurt entities and drops the flash when it runs
// out.
type WhiteFlashSystem struct{}

func NewWhiteFlashSystem() *WhiteFlashSystem { return &WhiteFlashSystem{} }

func (s *WhiteFlashSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(component.WhiteFlashComponent.Kind()) {
		wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind())
		if !ok {
			continue
		}
		if wf.Interval <= 0 {
			wf.Interval = 1
		}
		wf.Timer++
		if wf.Timer >= wf.Interval {
			wf.Timer = 0
			wf.On = !wf.On
			wf.Frames -= wf.Interval
		}
		if wf.Frames <= 0 {
			ecs.Remove(w, e, component.WhiteFlashComponent.Kind())
		}
	}
}

// startHurtFlash (re)starts the blink on e, lit from the first frame.
func startHurtFlash(w *ecs.World, e ecs.Entity) {
	_ = ecs.Add(w, e, component.WhiteFlashComponent.Kind(), &component.WhiteFlash{
		Frames:   hurtFlashFrames,
		Interval: hurtFlashInterval,
		On:       true,
	})
}

// flashing reports whether e is in the lit half of a flash.
func flashing(w *ecs.World, e ecs.Entity) bool {
	wf, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind())
	return ok && wf.On
}
