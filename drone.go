package main

import (
	"math"
	"math/rand"
)

const (
	DroneDetectRange   = 120.0
	DroneShootRange    = 60.0
	DroneOptimalRange  = 35.0 // preferred combat distance
	DroneAimTolerance  = 0.15 // radians of yaw error allowed before firing
	DroneKillScore     = 5
	DroneStrafeFlipMin = 1.5
	DroneStrafeFlipMax = 3.5
	DroneWanderDrift   = 0.8 // radians/s the wander heading drifts
)

// Drone is an AI-controlled enemy car. It drives the same Vehicle controller
// the player does: the AI only writes the per-tick input snapshot.
type Drone struct {
	*Vehicle

	wanderYaw   float64
	strafeDir   float64 // +1 or -1 for circle strafing at optimal range
	strafeTimer float64
}

// NewDrone spawns a drone at a random arena edge facing the center.
func NewDrone(clock *Clock, terrain *Terrain) *Drone {
	var x, z float64
	switch rand.Intn(4) {
	case 0:
		x, z = VehicleRadius, rand.Float64()*ArenaDepth
	case 1:
		x, z = ArenaWidth-VehicleRadius, rand.Float64()*ArenaDepth
	case 2:
		x, z = rand.Float64()*ArenaWidth, VehicleRadius
	default:
		x, z = rand.Float64()*ArenaWidth, ArenaDepth-VehicleRadius
	}

	v := NewVehicle(GenerateID(4), "Drone", clock, terrain, x, z)
	v.IsDrone = true
	v.Yaw = math.Atan2(ArenaWidth/2-x, ArenaDepth/2-z)

	d := &Drone{Vehicle: v, wanderYaw: v.Yaw, strafeDir: 1}
	if rand.Float64() < 0.5 {
		d.strafeDir = -1
	}
	d.strafeTimer = DroneStrafeFlipMin + rand.Float64()*(DroneStrafeFlipMax-DroneStrafeFlipMin)
	return d
}

// Think writes this tick's input snapshot from what the drone can see.
// Returns true when the drone wants to fire.
func (d *Drone) Think(dt float64, targets []*Vehicle) bool {
	if !d.Alive() {
		return false
	}

	var target *Vehicle
	best := DroneDetectRange * DroneDetectRange
	for _, t := range targets {
		if t == nil || !t.Alive() || t.ID == d.ID {
			continue
		}
		dx := t.Pos.X - d.Pos.X
		dz := t.Pos.Z - d.Pos.Z
		if d2 := dx*dx + dz*dz; d2 < best {
			best = d2
			target = t
		}
	}

	d.Input = DriveInput{}

	if target == nil {
		// Wander: drift the desired heading, steer toward it, cruise.
		d.wanderYaw += (rand.Float64()*2 - 1) * DroneWanderDrift * dt
		d.Input.Turn = steerToward(d.Yaw, d.wanderYaw)
		d.Input.Throttle = 0.5
		return false
	}

	dist := math.Sqrt(best)

	// Lead the shot by the target's travel during projectile flight.
	speed := GetBulletSpec(d.Weapon.BulletType()).Speed
	lead := target.Pos.Add(target.Vel.Scale(dist / speed))
	aimYaw := math.Atan2(lead.X-d.Pos.X, lead.Z-d.Pos.Z)
	d.Input.Turn = steerToward(d.Yaw, aimYaw)

	// Hold the optimal range band: close in when far, back off when near,
	// circle strafe around the sweet spot.
	d.strafeTimer -= dt
	if d.strafeTimer <= 0 {
		d.strafeDir = -d.strafeDir
		d.strafeTimer = DroneStrafeFlipMin + rand.Float64()*(DroneStrafeFlipMax-DroneStrafeFlipMin)
	}
	switch {
	case dist > DroneOptimalRange*1.3:
		d.Input.Throttle = 1.0
	case dist < DroneOptimalRange*0.7:
		d.Input.Throttle = -0.6
	default:
		d.Input.Throttle = 0.5
		d.Input.Turn = Clamp(d.Input.Turn+0.4*d.strafeDir, -1, 1)
	}

	aligned := math.Abs(NormalizeAngle(aimYaw-d.Yaw)) < DroneAimTolerance
	return aligned && dist < DroneShootRange
}

// steerToward returns a -1..1 turn input that rotates current toward desired.
func steerToward(current, desired float64) float64 {
	return Clamp(NormalizeAngle(desired-current)*3, -1, 1)
}
