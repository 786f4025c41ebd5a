package component

// Health tracks hit points for a damageable entity. Current never rises
// and Alive flips to false exactly once.
type Health struct {
	Current float64
	Max     float64
	Alive   bool

	// Hidden marks a dead entity that should no longer render or
	// collide but whose record sticks around for the session log.
	Hidden bool
}

func NewHealth(max float64) Health {
	return Health{Current: max, Max: max, Alive: true}
}

// TakeDamage applies amount and reports whether this call killed the
// entity. Damage on a dead entity is ignored.
func (h *Health) TakeDamage(amount float64) bool {
	if !h.Alive || amount <= 0 {
		return false
	}
	h.Current -= amount
	if h.Current <= 0 {
		h.Current = 0
		h.Alive = false
		return true
	}
	return false
}

var HealthComponent = NewComponent[Health]()
