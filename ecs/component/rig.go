package component

import "github.com/go-gl/mathgl/mgl64"

// ClipID identifies an animation clip on a rig.
type ClipID string

const (
	ClipIdle   ClipID = "idle"
	ClipRun    ClipID = "run"
	ClipSwing  ClipID = "swing"
	ClipAttack ClipID = "attack"
	ClipDeath  ClipID = "death"
)

// Clip is the playback metadata of one animation clip.
type Clip struct {
	Duration float64
	Loop     bool
}

// Rig is the visual body of an entity: capsule dimensions, the nape
// attachment point and whatever clips the loaded asset carries. Before
// the real asset lands this holds the placeholder capsule.
type Rig struct {
	HalfHeight float64
	Radius     float64
	NapeOffset mgl64.Vec3

	Clips     map[ClipID]Clip
	Current   ClipID
	ClipClock float64

	// Loaded flips when the async asset swap replaced the placeholder.
	Loaded bool
}

// Play switches the active clip. Asking for a clip the rig does not
// have keeps the current pose; a missing walk cycle should not kill the
// run.
func (r *Rig) Play(id ClipID) {
	if _, ok := r.Clips[id]; !ok {
		return
	}
	if r.Current == id {
		return
	}
	r.Current = id
	r.ClipClock = 0
}

var RigComponent = NewComponent[Rig]()
