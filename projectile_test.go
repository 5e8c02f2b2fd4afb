package main

import "testing"

func newTestProjectile(t BulletType) *Projectile {
	p := &Projectile{}
	p.Init("owner", t, Vec3{}, Vec3{Z: 1})
	return p
}

func TestProjectileInit(t *testing.T) {
	p := newTestProjectile(BulletLaser)
	if !p.Active {
		t.Error("projectile should be active after init")
	}
	if p.Damage != 15 {
		t.Errorf("expected laser damage 15, got %d", p.Damage)
	}
	if p.Vel.Len() < 79.9 || p.Vel.Len() > 80.1 {
		t.Errorf("expected laser speed 80, got %f", p.Vel.Len())
	}
}

func TestProjectileLifeExpiry(t *testing.T) {
	p := newTestProjectile(BulletMissile)

	// Missile flies at 30 u/s: it cannot cover 200 units in 5 s, so
	// lifetime is the binding limit.
	elapsed := 0.0
	for p.Update(0.1) {
		elapsed += 0.1
		if elapsed > 10 {
			t.Fatal("projectile never expired")
		}
	}
	if elapsed < ProjectileMaxLife-0.2 {
		t.Errorf("missile expired too early at %.1fs", elapsed)
	}
	if p.Active {
		t.Error("projectile should be inactive after expiry")
	}
}

func TestProjectileTravelCap(t *testing.T) {
	p := newTestProjectile(BulletNormal)

	// Normal rounds fly at 50 u/s: the 200-unit travel cap lands near 4 s,
	// well before the 5 s lifetime.
	elapsed := 0.0
	for p.Update(0.1) {
		elapsed += 0.1
		if elapsed > 10 {
			t.Fatal("projectile never expired")
		}
	}
	if elapsed > 4.5 {
		t.Errorf("normal round should hit the travel cap near 4s, lived %.1fs", elapsed)
	}
	traveled := p.Pos.Dist(p.Origin)
	if traveled < ProjectileMaxRange {
		t.Errorf("expected expiry past the range cap, traveled %.1f", traveled)
	}
}

func TestInactiveProjectileDoesNotMove(t *testing.T) {
	p := newTestProjectile(BulletNormal)
	p.Active = false
	before := p.Pos
	if p.Update(0.1) {
		t.Error("inactive projectile must report inactive")
	}
	if p.Pos != before {
		t.Error("inactive projectile must not integrate")
	}
}

func TestInitReactivatesAfterExpiry(t *testing.T) {
	p := newTestProjectile(BulletNormal)
	for p.Update(0.1) {
	}
	p.Init("owner", BulletExplosive, Vec3{X: 10}, Vec3{X: 1})
	if !p.Active || p.Life != 0 || p.Damage != 30 {
		t.Error("init must fully re-arm the projectile")
	}
}
