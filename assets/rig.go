package assets

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// ReadFunc resolves a rig path to its yaml bytes. Callers usually pass
// prefabs.Load so on-disk edits beat the embedded copies.
type ReadFunc func(path string) ([]byte, error)

type Clip struct {
	Name     string  `yaml:"name"`
	Duration float64 `yaml:"duration"`
	Loop     bool    `yaml:"loop"`
}

// Rig is a loaded body description: the capsule the physics sim wears,
// the nape attachment point and the clip table.
type Rig struct {
	Name       string
	HalfHeight float64
	Radius     float64
	NapeOffset mgl64.Vec3
	Clips      []Clip
}

type rigFile struct {
	Name       string   `yaml:"name"`
	HalfHeight float64  `yaml:"half_height"`
	Radius     float64  `yaml:"radius"`
	NapeOffset vec3File `yaml:"nape_offset"`
	Clips      []Clip   `yaml:"clips"`
}

type vec3File struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func Parse(data []byte) (Rig, error) {
	var file rigFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rig{}, err
	}
	if file.HalfHeight <= 0 || file.Radius <= 0 {
		return Rig{}, fmt.Errorf("rig %q has no capsule", file.Name)
	}
	for i, clip := range file.Clips {
		if clip.Name == "" {
			return Rig{}, fmt.Errorf("rig %q clip %d has no name", file.Name, i)
		}
		// A zero duration would make looped playback divide by zero.
		if clip.Duration <= 0 {
			return Rig{}, fmt.Errorf("rig %q clip %q has duration %v", file.Name, clip.Name, clip.Duration)
		}
	}
	return Rig{
		Name:       file.Name,
		HalfHeight: file.HalfHeight,
		Radius:     file.Radius,
		NapeOffset: mgl64.Vec3{file.NapeOffset.X, file.NapeOffset.Y, file.NapeOffset.Z},
		Clips:      file.Clips,
	}, nil
}

// Placeholder is the capsule an entity wears until its real rig lands.
func Placeholder() Rig {
	return Rig{
		Name:       "placeholder",
		HalfHeight: 0.55,
		Radius:     0.35,
		Clips: []Clip{
			{Name: "idle", Duration: 1, Loop: true},
			{Name: "run", Duration: 0.8, Loop: true},
			{Name: "swing", Duration: 1, Loop: true},
			{Name: "attack", Duration: 0.5},
			{Name: "death", Duration: 1},
		},
	}
}

type result struct {
	rig Rig
	err error
}

// Pending is an in-flight rig load. The read and parse happen on their
// own goroutine so a slow disk never stalls the frame loop.
type Pending struct {
	path string
	ch   chan result
	done bool
	rig  Rig
	err  error
}

func Load(path string, read ReadFunc) *Pending {
	p := &Pending{path: path, ch: make(chan result, 1)}
	go func() {
		if read == nil {
			p.ch <- result{err: fmt.Errorf("assets: nil read func for %s", path)}
			return
		}
		data, err := read(path)
		if err != nil {
			p.ch <- result{err: fmt.Errorf("assets: read %s: %w", path, err)}
			return
		}
		rig, err := Parse(data)
		if err != nil {
			p.ch <- result{err: fmt.Errorf("assets: parse %s: %w", path, err)}
			return
		}
		p.ch <- result{rig: rig}
	}()
	return p
}

func (p *Pending) Path() string {
	if p == nil {
		return ""
	}
	return p.path
}

// Poll reports the load result without blocking. Once the load
// finishes the result is sticky across calls. Poll is not safe for
// concurrent use; the rig swap system is its only caller.
func (p *Pending) Poll() (Rig, bool, error) {
	if p == nil {
		return Rig{}, false, nil
	}
	if !p.done {
		select {
		case r := <-p.ch:
			p.done = true
			p.rig = r.rig
			p.err = r.err
		default:
			return Rig{}, false, nil
		}
	}
	return p.rig, true, p.err
}
