package main

import "math"

const (
	BroadPhaseMargin = 0.5 // slack added to the bounding sphere quick-reject
	SplashRadius     = 5.0 // explosive area-effect reach
	SplashDamageFrac = 0.5
)

// VehicleHalfExtents is the hull's axis-aligned half size used for the
// narrow-phase box test and the bounding sphere derived from it.
var VehicleHalfExtents = Vec3{X: 1.2, Y: 0.9, Z: 2.3}

// BoundingSphereRadius is the radius of the sphere enclosing the hull box.
var BoundingSphereRadius = VehicleHalfExtents.Len()

// BroadPhaseHit quick-rejects a projectile against a vehicle: point-to-center
// distance versus bounding sphere plus margin.
func BroadPhaseHit(projPos, center Vec3) bool {
	reach := BoundingSphereRadius + BroadPhaseMargin
	return projPos.DistSq(center) <= reach*reach
}

// NarrowPhaseHit is the exact test: AABB overlap between the projectile's
// bounds and the hull's bounds.
func NarrowPhaseHit(projPos, center Vec3) bool {
	return math.Abs(projPos.X-center.X) <= VehicleHalfExtents.X+ProjectileRadius &&
		math.Abs(projPos.Y-center.Y) <= VehicleHalfExtents.Y+ProjectileRadius &&
		math.Abs(projPos.Z-center.Z) <= VehicleHalfExtents.Z+ProjectileRadius
}

// VehicleHit runs broad then narrow phase.
func VehicleHit(projPos, center Vec3) bool {
	return BroadPhaseHit(projPos, center) && NarrowPhaseHit(projPos, center)
}

// VehiclesOverlap tests two hulls against each other on the arena floor.
func VehiclesOverlap(a, b *Vehicle) bool {
	dx := a.Pos.X - b.Pos.X
	dz := a.Pos.Z - b.Pos.Z
	reach := 2 * VehicleRadius
	return dx*dx+dz*dz <= reach*reach
}

// InSplashRange reports whether a point sits inside the explosive area
// effect centered at the impact.
func InSplashRange(impact, pos Vec3) bool {
	return impact.DistSq(pos) <= SplashRadius*SplashRadius
}

// SplashDamage returns the reduced damage splash targets receive.
func SplashDamage(direct int) int {
	return int(float64(direct) * SplashDamageFrac)
}
