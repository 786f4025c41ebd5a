package component

import "testing"

func TestHealthTakeDamage(t *testing.T) {
	h := NewHealth(100)

	steps := []struct {
		amount  float64
		wantCur float64
		wantDie bool
	}{
		{30, 70, false},
		{30, 40, false},
		{30, 10, false},
		{30, 0, true},
	}

	for i, s := range steps {
		died := h.TakeDamage(s.amount)
		if h.Current != s.wantCur {
			t.Fatalf("step %d: current = %v, want %v", i, h.Current, s.wantCur)
		}
		if died != s.wantDie {
			t.Fatalf("step %d: died = %v, want %v", i, died, s.wantDie)
		}
	}

	t.Run("dead_entities_ignore_damage", func(t *testing.T) {
		if h.TakeDamage(30) {
			t.Fatalf("death reported twice")
		}
		if h.Current != 0 {
			t.Fatalf("current moved after death: %v", h.Current)
		}
	})

	t.Run("non_positive_damage_is_ignored", func(t *testing.T) {
		h := NewHealth(50)
		if h.TakeDamage(0) || h.TakeDamage(-5) {
			t.Fatalf("non-positive damage killed")
		}
		if h.Current != 50 {
			t.Fatalf("current = %v, want 50", h.Current)
		}
	})
}

func TestHealthOverkillClampsToZero(t *testing.T) {
	h := NewHealth(20)
	if !h.TakeDamage(500) {
		t.Fatalf("overkill did not report death")
	}
	if h.Current != 0 {
		t.Fatalf("current = %v, want 0", h.Current)
	}
	if h.Alive {
		t.Fatalf("still alive after overkill")
	}
}

func TestHookClear(t *testing.T) {
	hk := Hook{Phase: HookAttached, Joint: 3}
	hk.Clear()
	if hk.Phase != HookIdle || hk.Joint != 0 {
		t.Fatalf("clear left state behind: %+v", hk)
	}
}
