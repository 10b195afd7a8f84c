package component

// WhiteFlash blinks an entity white after it is hurt. Timing is in ticks.
type WhiteFlash struct {
	// Frames left in the whole effect.
	Frames int
	// Interval is the number of ticks between toggles.
	Interval int
	Timer    int
	// On is true while the entity should draw white.
	On bool
}

var WhiteFlashComponent = NewComponent[WhiteFlash]()
