package assets

import (
	"errors"
	"testing"
	"time"
)

const sampleRig = `
name: scout
half_height: 0.55
radius: 0.35
nape_offset:
  x: 0
  y: 7.6
  z: -1.1
clips:
  - name: idle
    duration: 1.2
    loop: true
  - name: attack
    duration: 0.45
`

func TestParse(t *testing.T) {
	t.Run("sample", func(t *testing.T) {
		rig, err := Parse([]byte(sampleRig))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if rig.Name != "scout" {
			t.Fatalf("name = %q, want scout", rig.Name)
		}
		if rig.HalfHeight != 0.55 || rig.Radius != 0.35 {
			t.Fatalf("capsule = %v/%v, want 0.55/0.35", rig.HalfHeight, rig.Radius)
		}
		if rig.NapeOffset.Y() != 7.6 || rig.NapeOffset.Z() != -1.1 {
			t.Fatalf("nape offset = %v", rig.NapeOffset)
		}
		if len(rig.Clips) != 2 {
			t.Fatalf("clips = %d, want 2", len(rig.Clips))
		}
		if !rig.Clips[0].Loop || rig.Clips[1].Loop {
			t.Fatalf("clip loop flags wrong: %+v", rig.Clips)
		}
	})

	tests := []struct {
		name string
		in   string
	}{
		{
			name: "not_yaml",
			in:   "{{nope",
		},
		{
			name: "missing_capsule",
			in:   "name: flat\nclips: []\n",
		},
		{
			name: "unnamed_clip",
			in:   "half_height: 1\nradius: 0.5\nclips:\n  - duration: 1\n",
		},
		{
			name: "zero_duration_clip",
			in:   "half_height: 1\nradius: 0.5\nclips:\n  - name: idle\n    duration: 0\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.in)); err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.in)
			}
		})
	}
}

func TestPlaceholder(t *testing.T) {
	rig := Placeholder()
	if rig.HalfHeight <= 0 || rig.Radius <= 0 {
		t.Fatalf("placeholder has no capsule: %+v", rig)
	}
	names := map[string]bool{}
	for _, clip := range rig.Clips {
		if clip.Duration <= 0 {
			t.Fatalf("placeholder clip %q has duration %v", clip.Name, clip.Duration)
		}
		names[clip.Name] = true
	}
	for _, want := range []string{"idle", "run", "swing", "attack", "death"} {
		if !names[want] {
			t.Fatalf("placeholder missing clip %q", want)
		}
	}
}

func waitPoll(t *testing.T, p *Pending) (Rig, error) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rig, done, err := p.Poll()
		if done {
			return rig, err
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("load of %s never finished", p.Path())
	return Rig{}, nil
}

func TestLoadPoll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		p := Load("rigs/scout.yaml", func(path string) ([]byte, error) {
			if path != "rigs/scout.yaml" {
				t.Errorf("read path = %q", path)
			}
			return []byte(sampleRig), nil
		})
		if p.Path() != "rigs/scout.yaml" {
			t.Fatalf("Path() = %q", p.Path())
		}
		rig, err := waitPoll(t, p)
		if err != nil {
			t.Fatalf("load error = %v", err)
		}
		if rig.Name != "scout" {
			t.Fatalf("loaded rig = %+v", rig)
		}
	})

	t.Run("read_error_sticks", func(t *testing.T) {
		wantErr := errors.New("no such rig")
		p := Load("rigs/ghost.yaml", func(string) ([]byte, error) {
			return nil, wantErr
		})
		if _, err := waitPoll(t, p); !errors.Is(err, wantErr) {
			t.Fatalf("first poll error = %v, want %v", err, wantErr)
		}
		// The result must not drain away on repeat polls.
		if _, done, err := p.Poll(); !done || !errors.Is(err, wantErr) {
			t.Fatalf("second poll = (%v, %v), want sticky error", done, err)
		}
	})

	t.Run("parse_error", func(t *testing.T) {
		p := Load("rigs/flat.yaml", func(string) ([]byte, error) {
			return []byte("name: flat\n"), nil
		})
		if _, err := waitPoll(t, p); err == nil {
			t.Fatal("capsule-less rig loaded without error")
		}
	})

	t.Run("nil_pending", func(t *testing.T) {
		var p *Pending
		if _, done, _ := p.Poll(); done {
			t.Fatal("nil pending reported done")
		}
	})
}
