package component

// BehaviorScript points a walker at a tengo script that reacts to its
// motion events.
type BehaviorScript struct {
	Path string
}

var BehaviorScriptComponent = NewComponent[BehaviorScript]()
