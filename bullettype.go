package main

// BulletType identifies the kind of ordnance a weapon fires
type BulletType int

const (
	BulletNormal    BulletType = 0
	BulletExplosive BulletType = 1
	BulletLaser     BulletType = 2
	BulletMissile   BulletType = 3
)

// BulletSpec holds the stats for a bullet type
type BulletSpec struct {
	Damage   int
	Cooldown float64 // seconds between shots
	Speed    float64 // units/s
	Recoil   float64 // velocity impulse applied back onto the shooter
}

var BulletSpecs = [4]BulletSpec{
	// Normal: balanced workhorse round
	{Damage: 10, Cooldown: 0.5, Speed: 50, Recoil: 1.5},
	// Explosive: slow shell with splash on impact
	{Damage: 30, Cooldown: 1.5, Speed: 40, Recoil: 4.0},
	// Laser: fast, light, rapid fire
	{Damage: 15, Cooldown: 0.2, Speed: 80, Recoil: 0.5},
	// Missile: heaviest single-hit payload
	{Damage: 40, Cooldown: 2.0, Speed: 30, Recoil: 6.0},
}

// GetBulletSpec returns the spec for a bullet type
func GetBulletSpec(t BulletType) BulletSpec {
	if t < 0 || int(t) >= len(BulletSpecs) {
		return BulletSpecs[BulletNormal]
	}
	return BulletSpecs[t]
}

func (t BulletType) String() string {
	switch t {
	case BulletExplosive:
		return "explosive"
	case BulletLaser:
		return "laser"
	case BulletMissile:
		return "missile"
	default:
		return "normal"
	}
}
