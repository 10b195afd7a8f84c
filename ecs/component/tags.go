package component

// TurretTarget marks entities turrets track and shoot at.
type TurretTarget struct{}

var TurretTargetComponent = NewComponent[TurretTarget]()
