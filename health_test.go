package main

import "testing"

func TestTakeDamage(t *testing.T) {
	h := NewHealth(100)

	destroyed := h.TakeDamage(30)
	if destroyed {
		t.Error("should survive 30 damage")
	}
	if h.Current != 70 {
		t.Errorf("expected 70 HP, got %d", h.Current)
	}
}

func TestArmorMitigation(t *testing.T) {
	h := NewHealth(100)
	h.AddArmor(25)

	h.TakeDamage(30)
	if h.Current != 95 {
		t.Errorf("expected 95 HP after mitigated hit, got %d", h.Current)
	}
}

func TestDamageFloor(t *testing.T) {
	h := NewHealth(100)
	h.AddArmor(50)

	// Armor exceeds damage; at least 1 point must still land
	h.TakeDamage(10)
	if h.Current != 99 {
		t.Errorf("expected chip damage of 1, got HP %d", h.Current)
	}
}

func TestDestroySignalFiresOnce(t *testing.T) {
	h := NewHealth(50)

	if h.TakeDamage(30) {
		t.Error("should not be destroyed yet")
	}
	if !h.TakeDamage(30) {
		t.Error("expected destruction signal")
	}
	if h.TakeDamage(30) {
		t.Error("destruction signal must not repeat")
	}
	if h.Current != 0 {
		t.Errorf("health must not go negative, got %d", h.Current)
	}
}

func TestHealClamping(t *testing.T) {
	h := NewHealth(100)
	h.TakeDamage(40)

	h.Heal(1000)
	if h.Current != 100 {
		t.Errorf("heal must saturate at max, got %d", h.Current)
	}

	h.Heal(-1000)
	if h.Current != 0 {
		t.Errorf("negative heal must floor at zero, got %d", h.Current)
	}
}

func TestArmorClamping(t *testing.T) {
	h := NewHealth(100)

	h.AddArmor(1000)
	if h.Armor != MaxArmor {
		t.Errorf("armor must cap at %d, got %d", MaxArmor, h.Armor)
	}

	h.AddArmor(-1000)
	if h.Armor != 0 {
		t.Errorf("armor must floor at zero, got %d", h.Armor)
	}
}

func TestFrac(t *testing.T) {
	h := NewHealth(100)
	h.TakeDamage(25)
	if h.Frac() != 0.75 {
		t.Errorf("expected 0.75, got %f", h.Frac())
	}

	empty := &Health{}
	if empty.Frac() != 0 {
		t.Error("zero-max health should report 0 fraction")
	}
}
