package component

// AnimationDef describes one clip. Clips are timed in frames at FPS; the
// renderer is free to draw them however it likes.
type AnimationDef struct {
	Name       string
	FrameCount int
	FPS        float64
	Loop       bool
	// EventFrame is the frame that fires the clip's event callbacks (a jump
	// launch, for example). Zero means the first frame.
	EventFrame int
}

// FrameCallback runs when a clip enters a frame.
type FrameCallback func(anim *Animation, frame int)

// Animation is the playback state of an entity. Callbacks registered after
// Play belong to that playback; an interrupted playback still runs them.
type Animation struct {
	Defs       map[string]AnimationDef
	Current    string
	Frame      int
	FrameTimer int
	Playing    bool

	frameCallbacks  map[int][]FrameCallback
	finishCallbacks []func()
}

// Play restarts the named clip.
func (a *Animation) Play(name string) {
	if a == nil {
		return
	}
	a.Complete()
	a.Current = name
	a.Frame = 0
	a.FrameTimer = 0
	a.Playing = true
	a.frameCallbacks = nil
	a.finishCallbacks = nil
}

// Ensure plays the named clip unless it is already the current one.
func (a *Animation) Ensure(name string) {
	if a == nil || (a.Current == name && a.Playing) {
		return
	}
	a.Play(name)
}

// Def returns the definition of the current clip.
func (a *Animation) Def() (AnimationDef, bool) {
	if a == nil || a.Defs == nil {
		return AnimationDef{}, false
	}
	def, ok := a.Defs[a.Current]
	return def, ok
}

// AddFrameCallback registers cb to run when the current playback enters
// frame.
func (a *Animation) AddFrameCallback(frame int, cb FrameCallback) {
	if a == nil || cb == nil || frame < 0 {
		return
	}
	if a.frameCallbacks == nil {
		a.frameCallbacks = make(map[int][]FrameCallback)
	}
	a.frameCallbacks[frame] = append(a.frameCallbacks[frame], cb)
}

// AddEventCallback registers cb on the current clip's event frame.
func (a *Animation) AddEventCallback(cb FrameCallback) {
	def, _ := a.Def()
	a.AddFrameCallback(def.EventFrame, cb)
}

// OnFinish registers cb to run once when the playback ends or first loops.
func (a *Animation) OnFinish(cb func()) {
	if a == nil || cb == nil {
		return
	}
	a.finishCallbacks = append(a.finishCallbacks, cb)
}

// TriggerFrame runs and drops the callbacks registered for frame.
func (a *Animation) TriggerFrame(frame int) {
	if a == nil || len(a.frameCallbacks[frame]) == 0 {
		return
	}
	cbs := a.frameCallbacks[frame]
	delete(a.frameCallbacks, frame)
	for _, cb := range cbs {
		cb(a, frame)
	}
}

// Finish stops playback and completes it.
func (a *Animation) Finish() {
	if a == nil {
		return
	}
	a.Playing = false
	a.Complete()
}

// Complete runs every pending frame callback in frame order, then the
// finish callbacks, so a clip cut short still reports its events.
func (a *Animation) Complete() {
	if a == nil {
		return
	}
	for len(a.frameCallbacks) > 0 {
		first := -1
		for f := range a.frameCallbacks {
			if first < 0 || f < first {
				first = f
			}
		}
		a.TriggerFrame(first)
	}
	cbs := a.finishCallbacks
	a.finishCallbacks = nil
	for _, cb := range cbs {
		cb()
	}
}

var AnimationComponent = NewComponent[Animation]()
