package physics

// Groups packs an interaction pair into 32 bits: the low word is the
// membership mask, the high word the filter mask.
type Groups uint32

// NewGroups builds a Groups value from a membership and filter word.
func NewGroups(membership, filter uint16) Groups {
	return Groups(uint32(filter)<<16 | uint32(membership))
}

func (g Groups) Membership() uint16 {
	return uint16(g)
}

func (g Groups) Filter() uint16 {
	return uint16(uint32(g) >> 16)
}

// Compatible reports whether two group values may interact. Each side's
// membership must pass the other side's filter.
func (g Groups) Compatible(o Groups) bool {
	return g.Membership()&o.Filter() != 0 && o.Membership()&g.Filter() != 0
}
