package citygen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/skyhook/prefabs"
)

// streetMargin is the narrowest gap left between two footprints.
const streetMargin = 2.5

// Building is one cuboid block of the district. Center.Y equals
// Half.Y, so every block rests on the ground plane.
type Building struct {
	Center mgl64.Vec3
	Half   mgl64.Vec3
	Tint   int
}

// City is a generated district plan. The 2D footprint space sticks
// around to answer placement and sight-line queries after generation.
type City struct {
	Buildings   []Building
	GroundHalf  float64
	PlazaRadius float64
	HalfExtent  float64

	space *cp.Space
}

// Generate lays buildings on a jittered grid around a central plaza.
// The same spec and seed always produce the same district.
func Generate(spec *prefabs.CitySpec, seed int64) (*City, error) {
	if spec == nil {
		return nil, fmt.Errorf("citygen: nil spec")
	}
	if spec.GridStep <= 0 || spec.HalfExtent <= 0 {
		return nil, fmt.Errorf("citygen: bad layout: step %v, extent %v", spec.GridStep, spec.HalfExtent)
	}

	rng := rand.New(rand.NewSource(seed))
	city := &City{
		GroundHalf:  spec.GroundHalf,
		PlazaRadius: spec.PlazaRadius,
		HalfExtent:  spec.HalfExtent,
		space:       cp.NewSpace(),
	}
	if city.GroundHalf <= 0 {
		city.GroundHalf = spec.HalfExtent + spec.GridStep
	}

	span := func(lo, hi float64) float64 {
		if hi <= lo {
			return lo
		}
		return lo + rng.Float64()*(hi-lo)
	}

	paletteSize := len(spec.Palette)
	cells := int(spec.HalfExtent / spec.GridStep)

	for gx := -cells; gx <= cells; gx++ {
		for gz := -cells; gz <= cells; gz++ {
			// Draw every sample up front so accept or reject never
			// shifts the stream for later cells.
			x := float64(gx)*spec.GridStep + (rng.Float64()*2-1)*spec.Jitter
			z := float64(gz)*spec.GridStep + (rng.Float64()*2-1)*spec.Jitter
			half := mgl64.Vec3{
				span(spec.MinHalf.X, spec.MaxHalf.X),
				span(spec.MinHalf.Y, spec.MaxHalf.Y),
				span(spec.MinHalf.Z, spec.MaxHalf.Z),
			}
			tint := 0
			if paletteSize > 0 {
				tint = rng.Intn(paletteSize)
			}

			if spec.MaxBuildings > 0 && len(city.Buildings) >= spec.MaxBuildings {
				continue
			}
			if half.X() <= 0 || half.Y() <= 0 || half.Z() <= 0 {
				continue
			}
			// Keep the plaza open and the district inside its bounds.
			if math.Hypot(x, z)-math.Max(half.X(), half.Z()) < spec.PlazaRadius {
				continue
			}
			if math.Abs(x)+half.X() > spec.HalfExtent || math.Abs(z)+half.Z() > spec.HalfExtent {
				continue
			}
			if city.footprintBlocked(x, z, half.X()+streetMargin, half.Z()+streetMargin) {
				continue
			}

			city.Buildings = append(city.Buildings, Building{
				Center: mgl64.Vec3{x, half.Y(), z},
				Half:   half,
				Tint:   tint,
			})
			bb := cp.BB{L: x - half.X(), B: z - half.Z(), R: x + half.X(), T: z + half.Z()}
			city.space.AddShape(cp.NewBox2(city.space.StaticBody, bb, 0))
		}
	}

	return city, nil
}

// footprintBlocked reports whether any existing footprint intersects
// the box extents around (x, z).
func (c *City) footprintBlocked(x, z, hx, hz float64) bool {
	if c == nil || c.space == nil {
		return false
	}
	bb := cp.BB{L: x - hx, B: z - hz, R: x + hx, T: z + hz}
	blocked := false
	c.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		blocked = true
	}, nil)
	return blocked
}

// HasLineOfSight reports whether the straight street-level line between
// two points crosses a building footprint.
func (c *City) HasLineOfSight(a, b mgl64.Vec3) bool {
	if c == nil || c.space == nil {
		return true
	}
	info := c.space.SegmentQueryFirst(
		cp.Vector{X: a.X(), Y: a.Z()},
		cp.Vector{X: b.X(), Y: b.Z()},
		0,
		cp.SHAPE_FILTER_ALL,
	)
	return info.Shape == nil
}

// SpawnPoints picks up to count street positions on the outer district
// ring, each clear of footprints and with an open sight line to the
// plaza, so a fresh titan can see the player and be seen. Crowded maps
// may yield fewer points than asked.
func (c *City) SpawnPoints(count int, clearRadius float64, rng *rand.Rand) []mgl64.Vec3 {
	if c == nil || count <= 0 || rng == nil {
		return nil
	}

	inner := c.PlazaRadius * 1.5
	outer := c.HalfExtent * 0.85
	if outer <= inner {
		outer = inner + 1
	}

	points := make([]mgl64.Vec3, 0, count)
	for attempts := 0; attempts < count*40 && len(points) < count; attempts++ {
		angle := rng.Float64() * 2 * math.Pi
		dist := inner + rng.Float64()*(outer-inner)
		p := mgl64.Vec3{math.Cos(angle) * dist, 0, math.Sin(angle) * dist}

		if c.footprintBlocked(p.X(), p.Z(), clearRadius, clearRadius) {
			continue
		}
		if !c.HasLineOfSight(p, mgl64.Vec3{}) {
			continue
		}

		tooClose := false
		for _, q := range points {
			if math.Hypot(p.X()-q.X(), p.Z()-q.Z()) < clearRadius*2 {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		points = append(points, p)
	}

	return points
}
