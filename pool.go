package main

const DefaultPoolSize = 32

// Handle is an index-based reference into a ProjectilePool. The generation
// counter makes "is this handle still valid" explicit: once the slot is
// released the generation bumps and every outstanding handle goes stale.
type Handle struct {
	idx uint32
	gen uint32
}

type poolSlot struct {
	proj  Projectile
	gen   uint32
	inUse bool
}

// ProjectilePool is a fixed-capacity arena of projectile slots with a free
// list. It never grows: callers that need a projectile while the pool is
// exhausted construct an overflow instance that bypasses the pool entirely.
type ProjectilePool struct {
	slots []poolSlot
	free  []uint32
}

// NewProjectilePool allocates a pool with the given slot count.
func NewProjectilePool(capacity int) *ProjectilePool {
	if capacity < 1 {
		capacity = 1
	}
	p := &ProjectilePool{
		slots: make([]poolSlot, capacity),
		free:  make([]uint32, 0, capacity),
	}
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, uint32(i))
	}
	return p
}

// Acquire takes a free slot and returns its handle and projectile. The
// projectile comes back in reset state. ok is false when the pool is full.
func (p *ProjectilePool) Acquire() (Handle, *Projectile, bool) {
	n := len(p.free)
	if n == 0 {
		return Handle{}, nil, false
	}
	idx := p.free[n-1]
	p.free = p.free[:n-1]

	slot := &p.slots[idx]
	slot.inUse = true
	slot.proj.Reset()
	h := Handle{idx: idx, gen: slot.gen}
	slot.proj.handle = h
	slot.proj.pooled = true
	return h, &slot.proj, true
}

// Get resolves a handle to its projectile, or nil if the handle is stale or
// the slot is free.
func (p *ProjectilePool) Get(h Handle) *Projectile {
	if int(h.idx) >= len(p.slots) {
		return nil
	}
	slot := &p.slots[h.idx]
	if !slot.inUse || slot.gen != h.gen {
		return nil
	}
	return &slot.proj
}

// Release returns a slot to the free list and invalidates all handles to it.
// Releasing a stale handle is a no-op.
func (p *ProjectilePool) Release(h Handle) {
	if int(h.idx) >= len(p.slots) {
		return
	}
	slot := &p.slots[h.idx]
	if !slot.inUse || slot.gen != h.gen {
		return
	}
	slot.proj.Reset()
	slot.inUse = false
	slot.gen++
	p.free = append(p.free, h.idx)
}

// Capacity returns the total slot count.
func (p *ProjectilePool) Capacity() int {
	return len(p.slots)
}

// InUse returns the number of occupied slots.
func (p *ProjectilePool) InUse() int {
	return len(p.slots) - len(p.free)
}
