package main

const (
	VehicleMaxHP     = 100
	VehicleAccel     = 40.0 // units/s²
	VehicleMaxSpeed  = 30.0 // nominal top speed used for friction tiers
	VehicleTurnSpeed = 2.2  // radians/s
	VehicleRadius    = 2.0  // bounding circle on the arena floor

	// Friction is a per-tick velocity multiplier, tiered so drag ramps up
	// progressively instead of hard-clamping speed.
	VehicleFriction   = 0.99
	MidSpeedFriction  = 0.99  // extra multiplier above 50% of max speed
	HighSpeedFriction = 0.98  // extra multiplier above 80% of max speed
	DriftSpeedFrac    = 0.65  // drift dampening kicks in above this fraction
	DriftDamp         = 0.995 // lateral grip loss dampening

	BrakeFactor     = 0.90 // per-tick velocity multiplier while braking
	BrakeFactorFast = 0.96 // weaker brake above 70% max speed, permits drifting
	BrakeFadeFrac   = 0.70

	MuzzleOffset = 2.5 // turret muzzle distance ahead of the hull center
	MuzzleHeight = 1.0

	CrashRecoverTime = 1.0 // seconds of dampened control after a crash
	CrashDamp        = 0.92
	CrashBounce      = -0.5 // velocity negation factor on impact
	CrashDamage      = 5

	ExplosionDuration = 1.2 // seconds the wreck flare stays in the state feed
	RespawnTime       = 3.0
)

// DriveInput is the per-tick input snapshot consumed by the controller. The
// core never reads raw input events; the transport layer decodes them into
// this struct.
type DriveInput struct {
	Throttle float64 // -1..1
	Turn     float64 // -1..1, positive turns left
	Brake    bool
	Fire     bool
}

// Vehicle is a combat car: controller state, health, weapon, and the
// projectiles currently attributed to it.
type Vehicle struct {
	ID   string
	Name string

	Pos Vec3
	Vel Vec3
	Yaw float64

	Health  *Health
	Weapon  *WeaponSystem
	Bullets []*Projectile

	Input     DriveInput
	Score     int
	Kills     int
	Deaths    int
	IsDrone   bool
	Exploding bool

	AuthPlayerID int64 // 0 = guest

	clock    *Clock
	terrain  *Terrain
	recoverT float64 // collision-recovery timer, >0 means dampened control
}

// NewVehicle creates a live vehicle at the given floor position.
func NewVehicle(id, name string, clock *Clock, terrain *Terrain, x, z float64) *Vehicle {
	v := &Vehicle{
		ID:      id,
		Name:    name,
		Health:  NewHealth(VehicleMaxHP),
		clock:   clock,
		terrain: terrain,
	}
	v.Weapon = NewWeaponSystem(id, clock)
	v.Pos = Vec3{x, terrain.HeightAt(x, z), z}
	return v
}

// Alive reports whether the vehicle still takes part in the simulation.
func (v *Vehicle) Alive() bool {
	return v.Health.IsAlive()
}

// Speed returns the scalar velocity magnitude.
func (v *Vehicle) Speed() float64 {
	return v.Vel.Len()
}

// Forward returns the hull's unit forward vector.
func (v *Vehicle) Forward() Vec3 {
	return YawDir(v.Yaw)
}

// Update integrates one tick of driving physics. No-op once destroyed.
func (v *Vehicle) Update(dt float64) {
	if !v.Alive() {
		return
	}

	v.Yaw = NormalizeAngle(v.Yaw + v.Input.Turn*VehicleTurnSpeed*dt)

	if v.Input.Throttle != 0 {
		accel := Clamp(v.Input.Throttle, -1, 1) * VehicleAccel * dt
		v.Vel = v.Vel.Add(v.Forward().Scale(accel))
	}
	if v.Input.Brake {
		v.Brake()
	}

	// Tiered progressive friction: drag stacks as speed climbs, so friction
	// is what bounds speed rather than an explicit clamp.
	speed := v.Speed()
	friction := VehicleFriction
	if speed > 0.5*VehicleMaxSpeed {
		friction *= MidSpeedFriction
	}
	if speed > 0.8*VehicleMaxSpeed {
		friction *= HighSpeedFriction
	}
	v.Vel = v.Vel.Scale(friction)
	if speed > DriftSpeedFrac*VehicleMaxSpeed {
		v.Vel = v.Vel.Scale(DriftDamp)
	}

	if v.recoverT > 0 {
		v.Vel = v.Vel.Scale(CrashDamp)
		v.recoverT -= dt
	}

	// Friction acts on velocity first; integration uses the updated velocity.
	v.Pos = v.Pos.Add(v.Vel.Scale(dt))
	v.collideWalls()
	if o := v.terrain.ObstacleNear(v.Pos.X, v.Pos.Z, VehicleRadius); o != nil {
		v.pushOut(o)
		v.HandleCollision()
	}
	v.Pos.Y = v.terrain.HeightAt(v.Pos.X, v.Pos.Z)

	v.Weapon.Update(dt)
}

func (v *Vehicle) collideWalls() {
	if v.Pos.X < VehicleRadius {
		v.Pos.X = VehicleRadius
		v.Vel.X = -v.Vel.X * 0.5
	} else if v.Pos.X > ArenaWidth-VehicleRadius {
		v.Pos.X = ArenaWidth - VehicleRadius
		v.Vel.X = -v.Vel.X * 0.5
	}
	if v.Pos.Z < VehicleRadius {
		v.Pos.Z = VehicleRadius
		v.Vel.Z = -v.Vel.Z * 0.5
	} else if v.Pos.Z > ArenaDepth-VehicleRadius {
		v.Pos.Z = ArenaDepth - VehicleRadius
		v.Vel.Z = -v.Vel.Z * 0.5
	}
}

func (v *Vehicle) pushOut(o *Obstacle) {
	away := Vec3{v.Pos.X - o.Pos.X, 0, v.Pos.Z - o.Pos.Z}.Normalized()
	if away.LenSq() == 0 {
		away = v.Forward().Scale(-1)
	}
	v.Pos.X = o.Pos.X + away.X*(o.Radius+VehicleRadius)
	v.Pos.Z = o.Pos.Z + away.Z*(o.Radius+VehicleRadius)
}

// Brake slows the car. The coefficient weakens above 70% of max speed so a
// fast car slides through the brake instead of stopping dead.
func (v *Vehicle) Brake() {
	factor := BrakeFactor
	if v.Speed() > BrakeFadeFrac*VehicleMaxSpeed {
		factor = BrakeFactorFast
	}
	v.Vel = v.Vel.Scale(factor)
}

// Shoot fires the turret along the hull's facing. On success the projectile
// joins the vehicle's active list and recoil kicks the hull backward, scaled
// by the bullet type's weight.
func (v *Vehicle) Shoot() *Projectile {
	if !v.Alive() {
		return nil
	}
	dir := v.Forward()
	muzzle := v.Pos.Add(dir.Scale(MuzzleOffset))
	muzzle.Y += MuzzleHeight

	proj := v.Weapon.Fire(muzzle, dir)
	if proj == nil {
		return nil
	}
	v.Vel = v.Vel.Sub(dir.Scale(GetBulletSpec(proj.Type).Recoil))
	v.Bullets = append(v.Bullets, proj)
	return proj
}

// UpdateBullets advances the vehicle's projectiles and recycles the spent
// ones. Terrain hits are resolved here; an EXPLOSIVE round that strikes
// terrain reports its impact through splash before recycling. Iterates in
// reverse so removal is safe mid-loop.
func (v *Vehicle) UpdateBullets(dt float64, terrain *Terrain, splash func(at Vec3, damage int)) {
	for i := len(v.Bullets) - 1; i >= 0; i-- {
		p := v.Bullets[i]
		active := p.Update(dt)
		if active && terrain.CheckCollision(p.Pos) {
			// Mark inactive before the splash callback so the combat
			// resolver can never pay this projectile out again.
			p.Active = false
			active = false
			if p.Type == BulletExplosive && splash != nil {
				splash(p.Pos, p.Damage)
			}
		}
		if !active {
			v.Weapon.Recycle(p)
			v.Bullets = append(v.Bullets[:i], v.Bullets[i+1:]...)
		}
	}
}

// HandleCollision reacts to a hull impact: bounce back, start the recovery
// timer, and take fixed chassis damage.
func (v *Vehicle) HandleCollision() {
	if !v.Alive() {
		return
	}
	if v.recoverT > 0 {
		return // already recovering, don't stack crashes every tick
	}
	v.recoverT = CrashRecoverTime
	v.Vel = v.Vel.Scale(CrashBounce)
	v.TakeDamage(CrashDamage)
}

// Recovering reports whether the collision-recovery timer is running.
func (v *Vehicle) Recovering() bool {
	return v.recoverT > 0
}

// TakeDamage routes damage through the health model. The destruction signal
// fires the explosion side effect exactly once; its cleanup is a scheduled
// event that checks the wreck is still exploding before mutating.
func (v *Vehicle) TakeDamage(amount int) bool {
	destroyed := v.Health.TakeDamage(amount)
	if destroyed {
		v.Exploding = true
		v.Vel = Vec3{}
		v.clock.Schedule(ExplosionDuration, func() {
			if !v.Exploding {
				return
			}
			v.Exploding = false
		})
	}
	return destroyed
}

// Respawn resets the vehicle at a new position with stock loadout.
func (v *Vehicle) Respawn(x, z float64) {
	v.Pos = Vec3{x, v.terrain.HeightAt(x, z), z}
	v.Vel = Vec3{}
	v.Yaw = 0
	v.recoverT = 0
	v.Exploding = false
	v.Health = NewHealth(VehicleMaxHP)
	v.Weapon.SetBulletType(BulletNormal)
	v.Weapon.ResetHeat()
}

// Close tears down the vehicle's weapon so late timer events are inert.
func (v *Vehicle) Close() {
	v.Weapon.Close()
}
