package ecs

import (
	"testing"

	"github.com/milk9111/skyhook/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if len(Entities(w)) != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
				}
			}
		})
	}
}

func TestGenerationReuse(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(7)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !DestroyEntity(w, old) {
		t.Fatalf("destroy failed")
	}

	// the freed slot comes back under a new generation
	fresh := CreateEntity(w)
	if fresh == old {
		t.Fatalf("recycled entity reused the same generation")
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle reports alive")
	}
	if !IsAlive(w, fresh) {
		t.Fatalf("fresh handle reports dead")
	}
	if _, ok := Get[int](w, fresh, h.Kind()); ok {
		t.Fatalf("fresh entity inherited the old component")
	}
	if DestroyEntity(w, old) {
		t.Fatalf("stale handle destroyed the recycled entity")
	}
	if !IsAlive(w, fresh) {
		t.Fatalf("recycled entity killed through stale handle")
	}
}

func TestComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()
	h3 := component.NewComponent[float64]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get[int](w, e1, h1.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove[int](w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has[string](w, e1, h2.Kind()) || !Has[string](w, e2, h2.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
				got := w.Query(h2.Kind())
				if len(got) != 2 {
					t.Fatalf("Query(string) = %v, want both entities", got)
				}
			},
			teardown: func() bool { return Remove[string](w, e1, h2.Kind()) },
		},
		{
			name: "mutation_through_pointer_sticks",
			setup: func() error {
				f := 1.25
				return Add(w, e1, h3.Kind(), &f)
			},
			check: func(t *testing.T) {
				v, ok := Get[float64](w, e1, h3.Kind())
				if !ok {
					t.Fatalf("expected float present")
				}
				*v = 2.5
				again, _ := Get[float64](w, e1, h3.Kind())
				if *again != 2.5 {
					t.Fatalf("mutation lost, got %v", *again)
				}
			},
			teardown: func() bool { return Remove[float64](w, e1, h3.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := CreateEntity(w)

	if err := Add(w, e, h.Kind(), nil); err != component.ErrNilComponent {
		t.Fatalf("nil value error = %v, want ErrNilComponent", err)
	}
	DestroyEntity(w, e)
	if err := Add(w, e, h.Kind(), intPtr(1)); err != component.ErrEntityNotAlive {
		t.Fatalf("dead entity error = %v, want ErrEntityNotAlive", err)
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	if err := Add(w, e1, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := Add(w, e3, h.Kind(), intPtr(3)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	var ents []Entity
	ForEach(w, h.Kind(), func(e Entity, _ *int) { ents = append(ents, e) })
	set := toSet(ents)

	if _, ok := set[e1]; !ok {
		t.Fatalf("expected e1 in ForEach result")
	}
	if _, ok := set[e3]; !ok {
		t.Fatalf("expected e3 in ForEach result")
	}
	if _, ok := set[e2]; ok {
		t.Fatalf("did not expect e2 in ForEach result")
	}

	t.Run("destroy_during_iteration", func(t *testing.T) {
		count := 0
		ForEach(w, h.Kind(), func(e Entity, _ *int) {
			count++
			DestroyEntity(w, e)
		})
		if count != 2 {
			t.Fatalf("visited %d entities, want 2", count)
		}
		if len(w.Query(h.Kind())) != 0 {
			t.Fatalf("entities survived destroy during iteration")
		}
	})
}

func TestForEach3(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)
				e4 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				if err := Add(w, e1, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, ka, intPtr(2)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kb, intPtr(3)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kc, intPtr(5)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e3, kb, intPtr(4)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e4, kc, intPtr(6)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e, kb, intPtr(2)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e, kc, intPtr(3)); err != nil {
					t.Fatal(err)
				}

				if !DestroyEntity(w, e) {
					t.Fatal("failed to destroy entity")
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store_returns_nil",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty when other store missing, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestFirst(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	if _, ok := w.First(h.Kind()); ok {
		t.Fatalf("First on empty store found something")
	}
	e := CreateEntity(w)
	if err := Add(w, e, h.Kind(), intPtr(1)); err != nil {
		t.Fatal(err)
	}
	got, ok := w.First(h.Kind())
	if !ok || got != e {
		t.Fatalf("First = %v ok=%v, want %v", got, ok, e)
	}
	DestroyEntity(w, e)
	if _, ok := w.First(h.Kind()); ok {
		t.Fatalf("First found a dead entity")
	}
}

func TestEventQueue(t *testing.T) {
	w := NewWorld()
	q := w.Events()

	q.Push(Event{Type: "a", Data: 1})
	q.Push(Event{Type: "b", Data: 2})
	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2", q.Len())
	}

	got := q.Drain()
	if len(got) != 2 || got[0].Type != "a" || got[1].Type != "b" {
		t.Fatalf("Drain = %v", got)
	}
	if q.Drain() != nil {
		t.Fatalf("second Drain should be empty")
	}

	t.Run("unconsumed_events_drop_on_update", func(t *testing.T) {
		q.Push(Event{Type: "stale"})
		w.Update()
		if q.Len() != 0 {
			t.Fatalf("events survived the frame flush")
		}
	})
}
