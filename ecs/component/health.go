package component

// Health stores hit points.
type Health struct {
	Initial int
	Current int
}

func (h *Health) Dead() bool {
	return h != nil && h.Current <= 0
}

var HealthComponent = NewComponent[Health]()
