package main

import (
	"math"
	"testing"
)

func newTestArena() *Arena {
	return NewArenaWithSeed("test-session", nil, nil, 7)
}

// stepArena runs simulation ticks directly, bypassing the wall-clock loop.
func stepArena(a *Arena, seconds float64) {
	ticks := int(math.Ceil(seconds / tickDT))
	for i := 0; i < ticks; i++ {
		a.update(tickDT)
	}
}

// placeFacing parks a vehicle at (x, z) aimed along +Z with no velocity.
func placeFacing(v *Vehicle, x, z float64) {
	v.Pos = Vec3{X: x, Y: 0, Z: z}
	v.Vel = Vec3{}
	v.Yaw = 0
	v.Input = DriveInput{}
}

func TestAddRemovePlayer(t *testing.T) {
	a := newTestArena()

	v := a.AddPlayer("alice")
	if v == nil {
		t.Fatal("join should succeed")
	}
	if !a.HasPlayer(v.ID) || a.PlayerCount() != 1 {
		t.Error("player should be registered")
	}

	a.RemovePlayer(v.ID)
	if a.HasPlayer(v.ID) || a.PlayerCount() != 0 {
		t.Error("player should be gone after removal")
	}
}

func TestSessionCapacity(t *testing.T) {
	a := newTestArena()
	for i := 0; i < maxVehiclesPerSession; i++ {
		if a.AddPlayer("p") == nil {
			t.Fatalf("join %d should succeed", i+1)
		}
	}
	if a.AddPlayer("late") != nil {
		t.Error("full session must refuse new players")
	}
}

func TestInitialPowerUps(t *testing.T) {
	a := newTestArena()
	if len(a.powerups) != initialPowerUps {
		t.Errorf("expected %d initial power-ups, got %d", initialPowerUps, len(a.powerups))
	}
}

func TestPowerUpRespawnTimer(t *testing.T) {
	a := newTestArena()
	a.running = true // spawn event is guarded by the running flag

	stepArena(a, PowerUpInterval+0.2)
	if len(a.powerups) != initialPowerUps+1 {
		t.Errorf("expected one respawn after %vs, got %d power-ups", PowerUpInterval, len(a.powerups))
	}
}

func TestReadyFlowStartsMatch(t *testing.T) {
	a := newTestArena()
	v1 := a.AddPlayer("a")
	v2 := a.AddPlayer("b")

	a.HandleReady(v1.ID)
	stepArena(a, 0.1)
	if a.match.Phase != PhaseLobby {
		t.Fatal("one ready player must not start the countdown")
	}

	a.HandleReady(v2.ID)
	stepArena(a, 0.1)
	if a.match.Phase != PhaseCountdown {
		t.Fatal("all players ready should start the countdown")
	}

	stepArena(a, CountdownTime+0.1)
	if a.match.Phase != PhasePlaying {
		t.Errorf("countdown should roll into playing, phase %d", a.match.Phase)
	}
}

func TestDirectHitResolution(t *testing.T) {
	a := newTestArena()
	shooter := a.AddPlayer("shooter")
	target := a.AddPlayer("target")
	placeFacing(shooter, 100, 100)
	placeFacing(target, 100, 110)

	p := shooter.Shoot()
	if p == nil {
		t.Fatal("shot should fire")
	}
	p.Pos = target.Pos.Add(Vec3{Y: VehicleHalfExtents.Y})

	a.resolveCombat()
	if target.Health.Current != 90 {
		t.Errorf("expected 90 HP after a normal hit, got %d", target.Health.Current)
	}
	if len(shooter.Bullets) != 0 {
		t.Error("spent projectile should be recycled")
	}
}

func TestExplosiveSplashExcludesDirectAndShooter(t *testing.T) {
	a := newTestArena()
	shooter := a.AddPlayer("shooter")
	direct := a.AddPlayer("direct")
	bystander := a.AddPlayer("bystander")
	placeFacing(shooter, 100, 100)
	placeFacing(direct, 100, 110)
	placeFacing(bystander, 100+SplashRadius-1, 110)

	shooter.Weapon.SetBulletType(BulletExplosive)
	p := shooter.Shoot()
	if p == nil {
		t.Fatal("shot should fire")
	}
	p.Pos = direct.Pos.Add(Vec3{Y: VehicleHalfExtents.Y})

	a.resolveCombat()
	if direct.Health.Current != 70 {
		t.Errorf("direct target takes full 30, got HP %d", direct.Health.Current)
	}
	if bystander.Health.Current != 85 {
		t.Errorf("bystander takes half damage once, got HP %d", bystander.Health.Current)
	}
	if shooter.Health.Current != 100 {
		t.Errorf("shooter is exempt from own splash, got HP %d", shooter.Health.Current)
	}
	if len(shooter.Bullets) != 0 {
		t.Error("explosive round must be recycled exactly once")
	}
}

func TestKillCreditAndScheduledRespawn(t *testing.T) {
	a := newTestArena()
	shooter := a.AddPlayer("shooter")
	target := a.AddPlayer("target")
	placeFacing(shooter, 100, 100)
	placeFacing(target, 100, 110)
	target.Health.Current = 5

	p := shooter.Shoot()
	p.Pos = target.Pos.Add(Vec3{Y: VehicleHalfExtents.Y})
	a.resolveCombat()

	if target.Alive() {
		t.Fatal("target should be destroyed")
	}
	if shooter.Score != 1 || shooter.Kills != 1 || target.Deaths != 1 {
		t.Error("kill should be credited")
	}

	stepArena(a, RespawnTime+0.2)
	if !target.Alive() {
		t.Error("victim should respawn after the delay")
	}
	if target.Health.Current != VehicleMaxHP {
		t.Error("respawned vehicle should have full health")
	}
}

func TestDroneKillScore(t *testing.T) {
	a := newTestArena()
	shooter := a.AddPlayer("shooter")
	d := NewDrone(a.clock, a.terrain)
	a.drones[d.ID] = d
	placeFacing(shooter, 100, 100)
	placeFacing(d.Vehicle, 100, 110)
	d.Health.Current = 5

	p := shooter.Shoot()
	p.Pos = d.Pos.Add(Vec3{Y: VehicleHalfExtents.Y})
	a.resolveCombat()

	if shooter.Score != DroneKillScore {
		t.Errorf("drone kill should award %d points, got %d", DroneKillScore, shooter.Score)
	}
}

func TestRammingDamagesBoth(t *testing.T) {
	a := newTestArena()
	v1 := a.AddPlayer("a")
	v2 := a.AddPlayer("b")
	placeFacing(v1, 100, 100)
	placeFacing(v2, 100, 100+2*VehicleRadius-0.5)

	a.resolveRamming()
	if v1.Health.Current != VehicleMaxHP-CrashDamage || v2.Health.Current != VehicleMaxHP-CrashDamage {
		t.Error("both rammed hulls should take crash damage")
	}

	// Still overlapping on the next tick, but both are recovering.
	a.resolveRamming()
	if v1.Health.Current != VehicleMaxHP-CrashDamage {
		t.Error("recovery window must prevent repeated crash damage")
	}
}

func TestPowerUpPickupDuringTick(t *testing.T) {
	a := newTestArena()
	v := a.AddPlayer("a")
	v.Health.TakeDamage(50)

	// Drop a heal right under the vehicle and clear everything else.
	for id := range a.powerups {
		delete(a.powerups, id)
	}
	pu := NewPowerUp(PowerUpHealth, v.Pos)
	a.powerups[pu.ID] = pu

	a.updatePowerUps(tickDT)
	if v.Health.Current != 75 {
		t.Errorf("pickup should heal during the tick, got HP %d", v.Health.Current)
	}
	if len(a.powerups) != 0 {
		t.Error("consumed pickup should leave the arena")
	}
}

func TestScoreLimitEndsMatch(t *testing.T) {
	a := newTestArena()
	v := a.AddPlayer("a")
	a.match.StartPlaying()
	v.Score = MatchScoreLimit

	stepArena(a, 0.1)
	if a.match.Phase != PhaseResult {
		t.Errorf("score limit should end the match, phase %d", a.match.Phase)
	}
}

func TestResultTimerResetsToLobby(t *testing.T) {
	a := newTestArena()
	v := a.AddPlayer("a")
	v.Score = 12
	a.match.Finish()

	stepArena(a, ResultTime+0.2)
	if a.match.Phase != PhaseLobby {
		t.Errorf("result timer should return to the lobby, phase %d", a.match.Phase)
	}
	if v.Score != 0 {
		t.Error("scores should reset for the next round")
	}
}

func TestInputClamping(t *testing.T) {
	a := newTestArena()
	v := a.AddPlayer("a")

	a.HandleInput(v.ID, ClientInput{Throttle: 5, Turn: -5, Brake: true, Fire: true})
	if v.Input.Throttle != 1 || v.Input.Turn != -1 {
		t.Error("input axes must be clamped to [-1, 1]")
	}
	if !v.Input.Brake || !v.Input.Fire {
		t.Error("button flags should pass through")
	}
}

func TestSnapshotContents(t *testing.T) {
	a := newTestArena()
	v := a.AddPlayer("a")
	placeFacing(v, 150, 150)
	p := v.Shoot()
	if p == nil {
		t.Fatal("shot should fire")
	}

	snap := a.Snapshot()
	if len(snap.Vehicles) != 1 {
		t.Fatalf("expected 1 vehicle in snapshot, got %d", len(snap.Vehicles))
	}
	vs := snap.Vehicles[0]
	if vs.ID != v.ID || vs.HP != v.Health.Current || !vs.Alive {
		t.Error("vehicle state should mirror the simulation")
	}
	if len(snap.Projectiles) != 1 {
		t.Errorf("expected the in-flight shot in the snapshot, got %d", len(snap.Projectiles))
	}
	if len(snap.PowerUps) != initialPowerUps {
		t.Errorf("expected %d power-ups in snapshot, got %d", initialPowerUps, len(snap.PowerUps))
	}
}

func TestDroneMaintenanceSpawns(t *testing.T) {
	a := newTestArena()
	a.AddPlayer("a")
	a.match.StartPlaying()

	stepArena(a, 0.1)
	if len(a.drones) == 0 {
		t.Fatal("first drone should spawn immediately once playing")
	}

	stepArena(a, 4*droneSpawnInterval)
	if len(a.drones) > maxDronesPerSession {
		t.Errorf("drone population must cap at %d, got %d", maxDronesPerSession, len(a.drones))
	}
}
