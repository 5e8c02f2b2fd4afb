package main

import "math"

// PowerUpType identifies what a pickup grants
type PowerUpType int

const (
	PowerUpHealth        PowerUpType = 0
	PowerUpArmor         PowerUpType = 1
	PowerUpExplosiveAmmo PowerUpType = 2
	PowerUpLaser         PowerUpType = 3
	PowerUpMissile       PowerUpType = 4

	powerUpTypeCount = 5
)

const (
	PickupRadius    = 2.0  // pickup triggers below this distance
	PowerUpInterval = 10.0 // seconds between respawn spawns
	PowerUpHeal     = 25
	PowerUpArmorAdd = 15
)

// PowerUp is a collectible sitting on the arena floor.
type PowerUp struct {
	ID     string
	Pos    Vec3
	Type   PowerUpType
	Active bool
	Spin   float64 // cosmetic rotation, mirrored to the render sink
	Bob    float64
}

// NewPowerUp creates an active power-up at the given floor position.
func NewPowerUp(t PowerUpType, pos Vec3) *PowerUp {
	return &PowerUp{
		ID:     GenerateID(4),
		Pos:    pos,
		Type:   t,
		Active: true,
	}
}

// Update advances the cosmetic spin/bob animation.
func (pu *PowerUp) Update(dt float64) {
	if !pu.Active {
		return
	}
	pu.Spin += 2.0 * dt
	pu.Bob = 0.3 * math.Sin(pu.Spin)
}

// InPickupRange reports whether the vehicle is close enough to collect.
func (pu *PowerUp) InPickupRange(v *Vehicle) bool {
	dx := pu.Pos.X - v.Pos.X
	dz := pu.Pos.Z - v.Pos.Z
	return dx*dx+dz*dz < PickupRadius*PickupRadius
}

// Apply dispatches the effect onto the vehicle and deactivates the pickup.
func (pu *PowerUp) Apply(v *Vehicle) {
	switch pu.Type {
	case PowerUpHealth:
		v.Health.Heal(PowerUpHeal)
	case PowerUpArmor:
		v.Health.AddArmor(PowerUpArmorAdd)
	case PowerUpExplosiveAmmo:
		v.Weapon.SetBulletType(BulletExplosive)
	case PowerUpLaser:
		v.Weapon.SetBulletType(BulletLaser)
	case PowerUpMissile:
		v.Weapon.SetBulletType(BulletMissile)
	}
	pu.Active = false
}

func (t PowerUpType) String() string {
	switch t {
	case PowerUpHealth:
		return "health"
	case PowerUpArmor:
		return "armor"
	case PowerUpExplosiveAmmo:
		return "explosive_ammo"
	case PowerUpLaser:
		return "laser"
	case PowerUpMissile:
		return "missile"
	default:
		return "unknown"
	}
}
