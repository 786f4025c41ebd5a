package ecs

import "github.com/milk9111/skyhook/ecs/component"

// Query returns every live entity carrying all of the given kinds. The
// smallest store drives the scan.
func (w *World) Query(kinds ...component.KindRef) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	var base *SparseSet
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s.Len() == 0 {
			return nil
		}
		if base == nil || s.Len() < base.Len() {
			base = s
		}
	}
	out := make([]Entity, 0, base.Len())
	for _, e := range base.Entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		all := true
		for _, k := range kinds {
			if !w.store(k.ID(), false).Has(e) {
				all = false
				break
			}
		}
		if all {
			out = append(out, e)
		}
	}
	return out
}

// First returns some live entity carrying the kind, typically a singleton.
func (w *World) First(kind component.KindRef) (Entity, bool) {
	if w == nil || kind == nil {
		return 0, false
	}
	s := w.store(kind.ID(), false)
	for _, e := range s.Entities() {
		if w.entities.isAlive(e) {
			return e, true
		}
	}
	return 0, false
}
