package component

import "github.com/milk9111/skyhook/assets"

// RigLoad tracks an in-flight rig asset load. The rig swap system polls
// it each tick and removes it once the load resolves either way.
type RigLoad struct {
	Pending *assets.Pending
}

var RigLoadComponent = NewComponent[RigLoad]()
