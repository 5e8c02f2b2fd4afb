package main

const (
	ProjectileMaxLife  = 5.0   // seconds of flight before expiry
	ProjectileMaxRange = 200.0 // units traveled before expiry
	ProjectileRadius   = 0.25  // half extent of the shot's bounds
)

// Projectile represents one in-flight shot. Instances are reused through the
// weapon pool: deactivation only flips Active, it never frees anything.
type Projectile struct {
	ID      string
	OwnerID string
	Pos     Vec3
	Vel     Vec3
	Origin  Vec3 // spawn point, for distance-traveled tracking
	Type    BulletType
	Damage  int
	Active  bool
	Life    float64 // elapsed lifetime in seconds

	// Pool bookkeeping. pooled is false for overflow projectiles constructed
	// when the pool had no free slot; those are dropped on recycle.
	handle Handle
	pooled bool
}

// Init arms a projectile for a new shot, overwriting any prior state.
func (p *Projectile) Init(ownerID string, t BulletType, origin, dir Vec3) {
	spec := GetBulletSpec(t)
	p.ID = GenerateID(3)
	p.OwnerID = ownerID
	p.Pos = origin
	p.Origin = origin
	p.Vel = dir.Normalized().Scale(spec.Speed)
	p.Type = t
	p.Damage = spec.Damage
	p.Active = true
	p.Life = 0
}

// Reset returns the projectile to an inert default state for pooling.
func (p *Projectile) Reset() {
	p.ID = ""
	p.OwnerID = ""
	p.Pos = Vec3{}
	p.Vel = Vec3{}
	p.Origin = Vec3{}
	p.Type = BulletNormal
	p.Damage = 0
	p.Active = false
	p.Life = 0
}

// Update advances the projectile one tick and reports whether it is still
// active. Expiry (lifetime or travel cap) deactivates it; only an explicit
// Init reactivates it.
func (p *Projectile) Update(dt float64) bool {
	if !p.Active {
		return false
	}

	p.Life += dt
	if p.Life > ProjectileMaxLife {
		p.Active = false
		return false
	}

	p.Pos = p.Pos.Add(p.Vel.Scale(dt))

	if p.Pos.DistSq(p.Origin) > ProjectileMaxRange*ProjectileMaxRange {
		p.Active = false
		return false
	}
	return true
}
