package main

const (
	HeatPerShot      = 0.2
	OverheatDuration = 3.0  // seconds firing is blocked after heat saturates
	HeatDecayRate    = 0.25 // heat/s passive cooling once idle
	cooldownSlack    = 1e-9 // absorbs float drift from stepped clock advances
)

// WeaponState is the firing state machine state
type WeaponState int

const (
	WeaponReady      WeaponState = 0
	WeaponCooling    WeaponState = 1
	WeaponOverheated WeaponState = 2
)

// WeaponSystem gates fire rate, accumulates heat, and owns the projectile
// pool its shots are drawn from.
type WeaponSystem struct {
	OwnerID string

	bulletType BulletType
	heat       float64
	overheated bool
	lastFire   float64 // simulation timestamp of the last successful shot
	hasFired   bool

	clock    *Clock
	pool     *ProjectilePool
	released bool // set on teardown so late scheduled events become no-ops
}

// NewWeaponSystem creates a weapon firing NORMAL rounds from a fresh pool.
func NewWeaponSystem(ownerID string, clock *Clock) *WeaponSystem {
	return &WeaponSystem{
		OwnerID:    ownerID,
		bulletType: BulletNormal,
		clock:      clock,
		pool:       NewProjectilePool(DefaultPoolSize),
	}
}

// BulletType returns the currently configured bullet type.
func (w *WeaponSystem) BulletType() BulletType {
	return w.bulletType
}

// SetBulletType switches ordnance; damage and cooldown follow from the spec
// table atomically on the next shot.
func (w *WeaponSystem) SetBulletType(t BulletType) {
	if t < 0 || int(t) >= len(BulletSpecs) {
		return
	}
	w.bulletType = t
}

// State derives the current state machine state.
func (w *WeaponSystem) State() WeaponState {
	if w.overheated {
		return WeaponOverheated
	}
	if w.hasFired && w.clock.Now()-w.lastFire+cooldownSlack < GetBulletSpec(w.bulletType).Cooldown {
		return WeaponCooling
	}
	return WeaponReady
}

// Heat returns the 0..1 heat level for the HUD.
func (w *WeaponSystem) Heat() float64 {
	return w.heat
}

// Overheated reports whether firing is blocked by saturated heat.
func (w *WeaponSystem) Overheated() bool {
	return w.overheated
}

// CooldownProgress returns 0..1 progress toward the next allowed shot.
func (w *WeaponSystem) CooldownProgress() float64 {
	if !w.hasFired {
		return 1
	}
	cd := GetBulletSpec(w.bulletType).Cooldown
	return Clamp((w.clock.Now()-w.lastFire)/cd, 0, 1)
}

// Update applies passive cooling: once the weapon has sat idle for longer
// than twice its cooldown, heat bleeds off at a fixed rate. Overheat recovery
// is not handled here; it is a scheduled event.
func (w *WeaponSystem) Update(dt float64) {
	if w.overheated || w.heat <= 0 {
		return
	}
	idle := !w.hasFired || w.clock.Now()-w.lastFire > 2*GetBulletSpec(w.bulletType).Cooldown
	if idle {
		w.heat -= HeatDecayRate * dt
		if w.heat < 0 {
			w.heat = 0
		}
	}
}

// Fire emits one projectile from origin along dir. Returns nil while cooling
// or overheated. The shot that saturates heat still succeeds; the weapon
// transitions to OVERHEATED afterward and recovers via a deferred event.
func (w *WeaponSystem) Fire(origin, dir Vec3) *Projectile {
	if w.State() != WeaponReady {
		return nil
	}

	w.lastFire = w.clock.Now()
	w.hasFired = true

	w.heat += HeatPerShot
	if w.heat >= 1 {
		w.heat = 1
		w.overheated = true
		w.clock.Schedule(OverheatDuration, func() {
			if w.released {
				return
			}
			w.heat = 0
			w.overheated = false
		})
	}

	_, proj, ok := w.pool.Acquire()
	if !ok {
		// Pool exhausted: overflow projectile, fully released on recycle.
		proj = &Projectile{}
	}
	proj.Init(w.OwnerID, w.bulletType, origin, dir)
	return proj
}

// Recycle hands a spent projectile back. Pooled projectiles return to their
// slot for reuse; overflow projectiles are simply dropped.
func (w *WeaponSystem) Recycle(p *Projectile) {
	if p == nil {
		return
	}
	p.Active = false
	if p.pooled {
		w.pool.Release(p.handle)
		return
	}
	p.Reset()
}

// Pool exposes the arena pool for inspection.
func (w *WeaponSystem) Pool() *ProjectilePool {
	return w.pool
}

// ResetHeat clears heat and the overheated latch (vehicle respawn). A
// pending recovery event firing afterward re-clears the same state, which is
// harmless.
func (w *WeaponSystem) ResetHeat() {
	w.heat = 0
	w.overheated = false
	w.hasFired = false
}

// Close marks the weapon torn down so pending overheat events do nothing.
func (w *WeaponSystem) Close() {
	w.released = true
}
