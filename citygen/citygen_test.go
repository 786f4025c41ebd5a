package citygen

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/skyhook/prefabs"
)

func testSpec() *prefabs.CitySpec {
	return &prefabs.CitySpec{
		GridStep:     20,
		Jitter:       3,
		HalfExtent:   100,
		PlazaRadius:  15,
		MinHalf:      prefabs.Vec3Spec{X: 4, Y: 8, Z: 4},
		MaxHalf:      prefabs.Vec3Spec{X: 8, Y: 30, Z: 8},
		MaxBuildings: 60,
		GroundHalf:   120,
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(testSpec(), 7)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, err := Generate(testSpec(), 7)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !reflect.DeepEqual(a.Buildings, b.Buildings) {
		t.Fatal("same seed produced different districts")
	}

	c, err := Generate(testSpec(), 8)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reflect.DeepEqual(a.Buildings, c.Buildings) {
		t.Fatal("different seeds produced identical districts")
	}
}

func TestGenerateLayout(t *testing.T) {
	spec := testSpec()
	city, err := Generate(spec, 42)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(city.Buildings) < 10 {
		t.Fatalf("district has only %d buildings", len(city.Buildings))
	}
	if spec.MaxBuildings > 0 && len(city.Buildings) > spec.MaxBuildings {
		t.Fatalf("district has %d buildings, cap is %d", len(city.Buildings), spec.MaxBuildings)
	}

	for i, bld := range city.Buildings {
		if bld.Center.Y() != bld.Half.Y() {
			t.Fatalf("building %d floats: center %v, half %v", i, bld.Center, bld.Half)
		}
		clearance := math.Hypot(bld.Center.X(), bld.Center.Z()) - math.Max(bld.Half.X(), bld.Half.Z())
		if clearance < spec.PlazaRadius {
			t.Fatalf("building %d intrudes on the plaza: clearance %v", i, clearance)
		}
		if math.Abs(bld.Center.X())+bld.Half.X() > spec.HalfExtent ||
			math.Abs(bld.Center.Z())+bld.Half.Z() > spec.HalfExtent {
			t.Fatalf("building %d leaves the district: %+v", i, bld)
		}
	}

	// Footprints must not intersect; the generator keeps a street gap.
	for i := 0; i < len(city.Buildings); i++ {
		for j := i + 1; j < len(city.Buildings); j++ {
			a, b := city.Buildings[i], city.Buildings[j]
			dx := math.Abs(a.Center.X()-b.Center.X()) - (a.Half.X() + b.Half.X())
			dz := math.Abs(a.Center.Z()-b.Center.Z()) - (a.Half.Z() + b.Half.Z())
			if dx < 0 && dz < 0 {
				t.Fatalf("buildings %d and %d overlap: %+v %+v", i, j, a, b)
			}
		}
	}
}

func TestGenerateRejectsBadSpec(t *testing.T) {
	if _, err := Generate(nil, 1); err == nil {
		t.Fatal("nil spec accepted")
	}
	bad := testSpec()
	bad.GridStep = 0
	if _, err := Generate(bad, 1); err == nil {
		t.Fatal("zero grid step accepted")
	}
}

func TestLineOfSight(t *testing.T) {
	city, err := Generate(testSpec(), 42)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// The plaza itself is open ground.
	if !city.HasLineOfSight(mgl64.Vec3{1, 0, 1}, mgl64.Vec3{-1, 0, -1}) {
		t.Fatal("sight line across the empty plaza reported blocked")
	}

	// A ray pushed straight through a building must be blocked.
	bld := city.Buildings[0]
	behind := bld.Center.Mul(1.5)
	if city.HasLineOfSight(mgl64.Vec3{}, behind) {
		t.Fatalf("sight line through building at %v reported clear", bld.Center)
	}
}

func TestSpawnPoints(t *testing.T) {
	city, err := Generate(testSpec(), 42)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	const clearRadius = 2.0
	points := city.SpawnPoints(3, clearRadius, rand.New(rand.NewSource(3)))
	if len(points) == 0 {
		t.Fatal("no spawn points found on an open map")
	}

	for i, p := range points {
		if p.Y() != 0 {
			t.Fatalf("spawn %d not at street level: %v", i, p)
		}
		if math.Hypot(p.X(), p.Z()) < city.PlazaRadius {
			t.Fatalf("spawn %d inside the plaza: %v", i, p)
		}
		if city.footprintBlocked(p.X(), p.Z(), clearRadius, clearRadius) {
			t.Fatalf("spawn %d overlaps a building: %v", i, p)
		}
		if !city.HasLineOfSight(p, mgl64.Vec3{}) {
			t.Fatalf("spawn %d cannot see the plaza: %v", i, p)
		}
	}

	// Same city and rng seed must pick the same points.
	again := city.SpawnPoints(3, clearRadius, rand.New(rand.NewSource(3)))
	if !reflect.DeepEqual(points, again) {
		t.Fatal("spawn selection is not deterministic")
	}
}
