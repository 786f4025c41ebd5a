package ecs

// entityStore tracks entity generations, occupancy, and recycled ids.
type entityStore struct {
	nextID entityID
	gens   []generation
	alive  []bool
	free   []entityID
}

func (s *entityStore) create() Entity {
	if s == nil {
		return 0
	}
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.nextID++
		id = s.nextID
		s.gens = append(s.gens, 0)
		s.alive = append(s.alive, false)
	}
	s.alive[id-1] = true
	return makeEntity(id, s.gens[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	id := e.id()
	if s == nil || id == 0 || int(id) > len(s.gens) {
		return false
	}
	if !s.alive[id-1] || s.gens[id-1] != e.generation() {
		return false
	}
	// bump the generation so stale handles miss
	s.gens[id-1]++
	s.alive[id-1] = false
	s.free = append(s.free, id)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if s == nil || id == 0 || int(id) > len(s.gens) {
		return false
	}
	return s.alive[id-1] && s.gens[id-1] == e.generation()
}

func (s *entityStore) entities() []Entity {
	if s == nil {
		return nil
	}
	out := make([]Entity, 0, len(s.gens))
	for i, ok := range s.alive {
		if ok {
			out = append(out, makeEntity(entityID(i+1), s.gens[i]))
		}
	}
	return out
}
