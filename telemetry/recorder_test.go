package telemetry

import (
	"path/filepath"
	"testing"
)

func TestRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", path, err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	rec, err := NewRecorder(db, 42, "test run")
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	if rec.SessionID() == 0 {
		t.Fatal("session row has no id")
	}

	for i := 0; i < 5; i++ {
		frame := rec.NextFrame()
		rec.RecordFrame(FrameSample{
			Frame:    frame,
			PosY:     float64(i),
			Health:   100,
			Grounded: i == 0,
			LeftHook: "IDLE",
		})
	}
	rec.RecordDamage(DamageRecord{Frame: rec.Frame(), Target: 7, Amount: 30, Source: "blade"})
	rec.RecordDamage(DamageRecord{Frame: rec.Frame(), Target: 7, Amount: 30, Source: "blade"})

	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// Closing again must be a no-op.
	if err := rec.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	sessions, err := Sessions(db)
	if err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(sessions))
	}
	got := sessions[0]
	if got.Seed != 42 || got.Label != "test run" {
		t.Fatalf("session = %+v", got)
	}
	if got.Frames != 5 {
		t.Fatalf("session frames = %d, want 5", got.Frames)
	}
	if !got.EndedAt.Valid {
		t.Fatal("session not stamped with end time")
	}

	samples, err := Samples(db, got.ID)
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	if len(samples) != 5 {
		t.Fatalf("samples = %d, want 5", len(samples))
	}
	for i, s := range samples {
		if s.Frame != int64(i+1) {
			t.Fatalf("sample %d has frame %d, want %d", i, s.Frame, i+1)
		}
		if s.SessionID != got.ID {
			t.Fatalf("sample %d stamped with session %d, want %d", i, s.SessionID, got.ID)
		}
	}

	stats, err := Stats(db, got.ID)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Samples != 5 || stats.Hits != 2 {
		t.Fatalf("stats = %+v, want 5 samples and 2 hits", stats)
	}
	if stats.TotalDamage != 60 {
		t.Fatalf("total damage = %v, want 60", stats.TotalDamage)
	}
	if stats.LastFrame != 5 {
		t.Fatalf("last frame = %d, want 5", stats.LastFrame)
	}
}

func TestStatsEmptySession(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "telemetry.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	stats, err := Stats(db, 999)
	if err != nil {
		t.Fatalf("Stats() on empty session error = %v", err)
	}
	if stats.Samples != 0 || stats.Hits != 0 || stats.TotalDamage != 0 || stats.LastFrame != 0 {
		t.Fatalf("stats for missing session = %+v, want zeros", stats)
	}
}

func TestFrameCounter(t *testing.T) {
	var r *Recorder
	if r.Frame() != 0 || r.NextFrame() != 0 {
		t.Fatal("nil recorder should report frame 0")
	}
	r.RecordFrame(FrameSample{})
	r.RecordDamage(DamageRecord{})
	if err := r.Close(); err != nil {
		t.Fatalf("nil recorder Close() error = %v", err)
	}

	rec := &Recorder{}
	if rec.Frame() != 0 {
		t.Fatalf("fresh recorder frame = %d", rec.Frame())
	}
	if got := rec.NextFrame(); got != 1 {
		t.Fatalf("NextFrame() = %d, want 1", got)
	}
	if got := rec.NextFrame(); got != 2 {
		t.Fatalf("NextFrame() = %d, want 2", got)
	}
	if rec.Frame() != 2 {
		t.Fatalf("Frame() = %d, want 2", rec.Frame())
	}
}

func TestRecordQueueBounds(t *testing.T) {
	q := newRecordQueue[int](2)
	q.push(1, 2, 3, 4)
	got := q.drain()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("drain = %v, want [1 2]", got)
	}
	if dropped := q.takeDropped(); dropped != 2 {
		t.Fatalf("dropped = %d, want 2", dropped)
	}
	if dropped := q.takeDropped(); dropped != 0 {
		t.Fatalf("dropped counter did not reset: %d", dropped)
	}

	// After a drain the freed capacity accepts new rows again.
	q.push(5)
	if got := q.drain(); len(got) != 1 || got[0] != 5 {
		t.Fatalf("drain after refill = %v, want [5]", got)
	}
}
