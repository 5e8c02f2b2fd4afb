package main

import "testing"

func TestPoolAcquireRelease(t *testing.T) {
	pool := NewProjectilePool(4)

	h, proj, ok := pool.Acquire()
	if !ok || proj == nil {
		t.Fatal("acquire from fresh pool should succeed")
	}
	if pool.InUse() != 1 {
		t.Errorf("expected 1 slot in use, got %d", pool.InUse())
	}
	if pool.Get(h) != proj {
		t.Error("handle should resolve to the acquired projectile")
	}

	pool.Release(h)
	if pool.InUse() != 0 {
		t.Errorf("expected 0 slots in use after release, got %d", pool.InUse())
	}
}

func TestPoolExhaustion(t *testing.T) {
	pool := NewProjectilePool(2)

	_, _, ok1 := pool.Acquire()
	_, _, ok2 := pool.Acquire()
	_, _, ok3 := pool.Acquire()
	if !ok1 || !ok2 {
		t.Fatal("pool should hand out its full capacity")
	}
	if ok3 {
		t.Error("exhausted pool must refuse")
	}
}

func TestStaleHandle(t *testing.T) {
	pool := NewProjectilePool(1)

	h, _, _ := pool.Acquire()
	pool.Release(h)

	if pool.Get(h) != nil {
		t.Error("released handle must resolve to nil")
	}

	// Slot is reused; the old handle must stay stale.
	h2, proj2, ok := pool.Acquire()
	if !ok {
		t.Fatal("slot should be reusable after release")
	}
	if pool.Get(h) != nil {
		t.Error("old handle must not alias the reused slot")
	}
	if pool.Get(h2) != proj2 {
		t.Error("new handle should resolve normally")
	}

	// Double release via the stale handle must not free the live slot.
	pool.Release(h)
	if pool.Get(h2) == nil {
		t.Error("stale release must be a no-op")
	}
}

func TestPoolReturnsResetProjectile(t *testing.T) {
	pool := NewProjectilePool(1)

	h, proj, _ := pool.Acquire()
	proj.Init("a", BulletMissile, Vec3{X: 5}, Vec3{Z: 1})
	pool.Release(h)

	_, proj2, _ := pool.Acquire()
	if proj2.Active || proj2.Damage != 0 || proj2.OwnerID != "" {
		t.Error("reused projectile should come back reset")
	}
}

func TestPoolMinimumCapacity(t *testing.T) {
	pool := NewProjectilePool(0)
	if pool.Capacity() != 1 {
		t.Errorf("expected capacity floor of 1, got %d", pool.Capacity())
	}
}
