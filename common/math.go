package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec3 interpolates each component of a and b by t.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{
		Lerp(a.X(), b.X(), t),
		Lerp(a.Y(), b.Y(), t),
		Lerp(a.Z(), b.Z(), t),
	}
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MoveToward shifts current toward target by at most maxDelta.
func MoveToward(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

// WrapAngle normalizes an angle in radians to (-pi, pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// LerpAngle interpolates between two angles along the shortest arc.
func LerpAngle(a, b, t float64) float64 {
	return WrapAngle(a + WrapAngle(b-a)*t)
}

// HorizontalDistance is the XZ-plane distance between two points.
func HorizontalDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(a.X()-b.X(), a.Z()-b.Z())
}

// Horizontal projects v onto the XZ plane, unnormalized.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// RotateY rotates v around the world up axis by yaw radians.
func RotateY(v mgl64.Vec3, yaw float64) mgl64.Vec3 {
	sin, cos := math.Sincos(yaw)
	return mgl64.Vec3{
		v.X()*cos + v.Z()*sin,
		v.Y(),
		-v.X()*sin + v.Z()*cos,
	}
}

// YawOf is the heading angle of a direction vector on the XZ plane,
// measured so that yaw 0 faces +Z.
func YawOf(v mgl64.Vec3) float64 {
	return math.Atan2(v.X(), v.Z())
}
