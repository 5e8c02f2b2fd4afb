package main

const MaxArmor = 50

// Health tracks hit points and armor mitigation for a damageable actor.
type Health struct {
	Max       int
	Current   int
	Armor     int
	Destroyed bool
}

// NewHealth returns a full health model with no armor.
func NewHealth(max int) *Health {
	return &Health{Max: max, Current: max}
}

// TakeDamage applies damage reduced by armor, always at least 1 point.
// Returns true exactly once: on the call that drops health to zero. Later
// calls keep the arithmetic but report false since the actor was already
// destroyed.
func (h *Health) TakeDamage(amount int) bool {
	actual := amount - h.Armor
	if actual < 1 {
		actual = 1
	}
	h.Current -= actual
	if h.Current < 0 {
		h.Current = 0
	}
	if h.Current == 0 && !h.Destroyed {
		h.Destroyed = true
		return true
	}
	return false
}

// Heal restores health, saturating at Max. Negative input can reduce health
// but never below zero.
func (h *Health) Heal(amount int) {
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
	if h.Current < 0 {
		h.Current = 0
	}
}

// AddArmor raises armor, saturating at MaxArmor and flooring at 0.
func (h *Health) AddArmor(amount int) {
	h.Armor += amount
	if h.Armor > MaxArmor {
		h.Armor = MaxArmor
	}
	if h.Armor < 0 {
		h.Armor = 0
	}
}

// IsAlive reports whether any health remains.
func (h *Health) IsAlive() bool {
	return h.Current > 0
}

// Frac returns current health as a 0..1 fraction for HUD consumers.
func (h *Health) Frac() float64 {
	if h.Max == 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}
