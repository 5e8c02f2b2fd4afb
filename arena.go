package main

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 60 // physics ticks per second
	BroadcastRate  = 20 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

const (
	maxVehiclesPerSession = 16
	maxDronesPerSession   = 4
	droneSpawnInterval    = 8.0 // seconds between drone reinforcements
	initialPowerUps       = 5
)

// Broadcaster sends messages to one connected client
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Arena holds the simulation state for one game session. All mutation runs
// on the tick goroutine; the mutex only guards the handful of entry points
// called from connection goroutines.
type Arena struct {
	mu       sync.RWMutex
	clock    *Clock
	terrain  *Terrain
	players  map[string]*Vehicle
	drones   map[string]*Drone
	powerups map[string]*PowerUp
	clients  map[string]Broadcaster
	match    MatchState
	tick     uint64
	running  bool
	stop     chan struct{}

	sessionID  string
	db         *DB
	analytics  *Analytics
	droneTimer float64
}

// NewArena creates an arena with a time-seeded terrain.
func NewArena(sessionID string, db *DB, analytics *Analytics) *Arena {
	return NewArenaWithSeed(sessionID, db, analytics, time.Now().UnixNano())
}

// NewArenaWithSeed creates an arena with a deterministic terrain seed.
func NewArenaWithSeed(sessionID string, db *DB, analytics *Analytics, seed int64) *Arena {
	a := &Arena{
		clock:     NewClock(),
		terrain:   NewTerrain(seed),
		players:   make(map[string]*Vehicle),
		drones:    make(map[string]*Drone),
		powerups:  make(map[string]*PowerUp),
		clients:   make(map[string]Broadcaster),
		match:     NewMatchState(),
		stop:      make(chan struct{}),
		sessionID: sessionID,
		db:        db,
		analytics: analytics,
	}
	a.schedulePowerUpSpawn()
	for i := 0; i < initialPowerUps; i++ {
		a.spawnPowerUp()
	}
	return a
}

// Run starts the fixed-tick loop
func (a *Arena) Run() {
	a.mu.Lock()
	a.running = true
	a.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.update(TickDuration.Seconds())
		case <-a.stop:
			return
		}
	}
}

// Stop terminates the tick loop and tears down vehicles
func (a *Arena) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	a.running = false
	for _, v := range a.players {
		v.Close()
	}
	for _, d := range a.drones {
		d.Close()
	}
	close(a.stop)
}

// Clock exposes the simulation clock (used by session teardown and tests).
func (a *Arena) Clock() *Clock {
	return a.clock
}

// Terrain exposes the collision boundary.
func (a *Arena) Terrain() *Terrain {
	return a.terrain
}

// AddPlayer adds a vehicle for a new player, or nil when the session is full
func (a *Arena) AddPlayer(name string) *Vehicle {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.players) >= maxVehiclesPerSession {
		return nil
	}
	x, z := a.spawnPos()
	v := NewVehicle(GenerateID(4), name, a.clock, a.terrain, x, z)
	a.players[v.ID] = v
	return v
}

// RemovePlayer removes a player's vehicle and client
func (a *Arena) RemovePlayer(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if v, ok := a.players[id]; ok {
		v.Close()
		delete(a.players, id)
	}
	delete(a.clients, id)
	delete(a.match.Ready, id)
}

// SetClient associates a broadcaster with a player
func (a *Arena) SetClient(playerID string, client Broadcaster) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clients[playerID] = client
}

// HasPlayer reports whether a player vehicle exists
func (a *Arena) HasPlayer(id string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.players[id]
	return ok
}

// PlayerCount returns the number of player vehicles
func (a *Arena) PlayerCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.players)
}

// HandleInput stores a player's input snapshot for the next tick
func (a *Arena) HandleInput(playerID string, in ClientInput) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.players[playerID]
	if !ok {
		return
	}
	v.Input = DriveInput{
		Throttle: Clamp(in.Throttle, -1, 1),
		Turn:     Clamp(in.Turn, -1, 1),
		Brake:    in.Brake,
		Fire:     in.Fire,
	}
}

// HandleReady marks a player ready in the lobby
func (a *Arena) HandleReady(playerID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.match.Phase != PhaseLobby {
		return
	}
	if _, ok := a.players[playerID]; ok {
		a.match.Ready[playerID] = true
	}
}

// HandleRematch skips the result timer back to the lobby
func (a *Arena) HandleRematch(playerID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.match.Phase != PhaseResult {
		return
	}
	if _, ok := a.players[playerID]; !ok {
		return
	}
	a.resetMatch()
}

// update runs one simulation tick: scheduled events, match phase, vehicle
// physics, projectile integration, combat resolution, power-up checks, then
// the state broadcast. The ordering is fixed.
func (a *Arena) update(rawDT float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	dt := a.clock.Advance(rawDT)
	a.tick++

	a.updateMatch(dt)

	for _, v := range a.players {
		v.Update(dt)
		if v.Input.Fire {
			v.Shoot()
		}
	}

	targets := a.playerSlice()
	for _, d := range a.drones {
		fire := d.Think(dt, targets)
		d.Update(dt)
		if fire {
			d.Shoot()
		}
	}

	for _, v := range a.allVehicles() {
		shooter := v
		v.UpdateBullets(dt, a.terrain, func(at Vec3, damage int) {
			a.applySplash(at, damage, nil, shooter)
		})
	}

	a.resolveCombat()
	a.resolveRamming()
	a.updatePowerUps(dt)

	if a.match.Phase == PhasePlaying {
		a.maintainDrones(dt)
	}

	if a.tick%BroadcastEvery == 0 {
		a.broadcastState()
	}
}

func (a *Arena) updateMatch(dt float64) {
	switch a.match.Phase {
	case PhaseLobby:
		ids := make([]string, 0, len(a.players))
		for id := range a.players {
			ids = append(ids, id)
		}
		if a.match.AllReady(ids) {
			a.match.StartCountdown()
		}
	case PhaseCountdown:
		a.match.CountdownT -= dt
		if a.match.CountdownT <= 0 {
			a.match.StartPlaying()
			a.trackEvent(EvtMatchStart, 0, "")
		}
	case PhasePlaying:
		a.match.TimeLeft -= dt
		a.match.Elapsed += dt
		top := a.topPlayer()
		if a.match.TimeLeft <= 0 || (top != nil && top.Score >= MatchScoreLimit) {
			a.finishMatch()
		}
	case PhaseResult:
		a.match.ResultTimer -= dt
		if a.match.ResultTimer <= 0 {
			a.resetMatch()
		}
	}
}

// resolveCombat is the per-tick projectile-versus-vehicle pass: broad-phase
// sphere reject, narrow-phase box overlap, then damage. A projectile is
// marked inactive before any damage fan-out so it can never pay out twice.
func (a *Arena) resolveCombat() {
	vehicles := a.allVehicles()
	for _, shooter := range vehicles {
		for i := len(shooter.Bullets) - 1; i >= 0; i-- {
			p := shooter.Bullets[i]
			if !p.Active {
				continue
			}
			for _, target := range vehicles {
				if target.ID == p.OwnerID || !target.Alive() {
					continue
				}
				center := target.Pos.Add(Vec3{Y: VehicleHalfExtents.Y})
				if !VehicleHit(p.Pos, center) {
					continue
				}

				p.Active = false
				destroyed := target.TakeDamage(p.Damage)
				if destroyed {
					a.creditKill(shooter, target)
				}
				if p.Type == BulletExplosive {
					a.applySplash(p.Pos, p.Damage, target, shooter)
				}
				shooter.Weapon.Recycle(p)
				shooter.Bullets = append(shooter.Bullets[:i], shooter.Bullets[i+1:]...)
				break
			}
		}
	}
}

// applySplash damages every living vehicle within the blast radius except
// the directly struck one, at half the direct damage.
func (a *Arena) applySplash(at Vec3, damage int, direct, shooter *Vehicle) {
	half := SplashDamage(damage)
	for _, v := range a.allVehicles() {
		if v == direct || !v.Alive() {
			continue
		}
		if shooter != nil && v.ID == shooter.ID {
			continue
		}
		center := v.Pos.Add(Vec3{Y: VehicleHalfExtents.Y})
		if !InSplashRange(at, center) {
			continue
		}
		if v.TakeDamage(half) && shooter != nil {
			a.creditKill(shooter, v)
		}
	}
}

// resolveRamming bounces overlapping hulls off each other.
func (a *Arena) resolveRamming() {
	vehicles := a.allVehicles()
	for i := 0; i < len(vehicles); i++ {
		for j := i + 1; j < len(vehicles); j++ {
			va, vb := vehicles[i], vehicles[j]
			if !va.Alive() || !vb.Alive() {
				continue
			}
			if VehiclesOverlap(va, vb) {
				va.HandleCollision()
				vb.HandleCollision()
			}
		}
	}
}

func (a *Arena) updatePowerUps(dt float64) {
	for id, pu := range a.powerups {
		pu.Update(dt)
		if !pu.Active {
			delete(a.powerups, id)
			continue
		}
		for _, v := range a.allVehicles() {
			if v.IsDrone || !v.Alive() {
				continue
			}
			if pu.InPickupRange(v) {
				pu.Apply(v)
				delete(a.powerups, id)
				break
			}
		}
	}
}

func (a *Arena) maintainDrones(dt float64) {
	for id, d := range a.drones {
		if !d.Alive() && !d.Exploding {
			d.Close()
			delete(a.drones, id)
		}
	}
	a.droneTimer -= dt
	if a.droneTimer <= 0 && len(a.drones) < maxDronesPerSession {
		d := NewDrone(a.clock, a.terrain)
		a.drones[d.ID] = d
		a.droneTimer = droneSpawnInterval
	}
}

// creditKill awards score and notifies clients of a destruction.
func (a *Arena) creditKill(shooter, victim *Vehicle) {
	if victim.IsDrone {
		shooter.Score += DroneKillScore
		shooter.Kills++
		return
	}
	shooter.Score++
	shooter.Kills++
	victim.Deaths++

	a.trackEvent(EvtKill, shooter.AuthPlayerID, fmt.Sprintf(`{"victim":%q}`, victim.Name))
	a.broadcastMsg(Envelope{T: MsgKill, Data: KillMsg{
		KillerID:   shooter.ID,
		KillerName: shooter.Name,
		VictimID:   victim.ID,
		VictimName: victim.Name,
	}})
	if client, ok := a.clients[victim.ID]; ok {
		client.SendJSON(Envelope{T: MsgDeath, Data: DeathMsg{
			KillerID:   shooter.ID,
			KillerName: shooter.Name,
		}})
	}

	victimID := victim.ID
	a.clock.Schedule(RespawnTime, func() {
		v, ok := a.players[victimID]
		if !ok || v.Alive() {
			return
		}
		x, z := a.spawnPos()
		v.Respawn(x, z)
	})
}

func (a *Arena) finishMatch() {
	a.match.Finish()

	winner := a.topPlayer()
	result := MatchOverMsg{}
	if winner != nil {
		result.WinnerID = winner.ID
		result.WinnerName = winner.Name
		result.Score = winner.Score
	}
	a.broadcastMsg(Envelope{T: MsgMatchOver, Data: result})
	a.trackEvent(EvtMatchEnd, 0, fmt.Sprintf(`{"duration":%.0f}`, a.match.Elapsed))

	if a.db == nil {
		return
	}
	matchID, err := a.db.RecordMatch(a.match.Elapsed)
	if err != nil {
		log.Printf("record match: %v", err)
		return
	}
	for _, v := range a.players {
		if v.AuthPlayerID == 0 {
			continue
		}
		won := winner != nil && v.ID == winner.ID
		if err := a.db.RecordMatchPlayer(matchID, v.AuthPlayerID, v.Kills, v.Deaths, v.Score); err != nil {
			log.Printf("record match player: %v", err)
		}
		if err := a.db.UpdateStatsAfterMatch(v.AuthPlayerID, v.Kills, v.Deaths, won, a.match.Elapsed); err != nil {
			log.Printf("update stats: %v", err)
		}
		for _, def := range CheckAchievements(a.db, v.AuthPlayerID, v.Kills, v.Deaths, won) {
			a.trackEvent(EvtAchievement, v.AuthPlayerID, fmt.Sprintf(`{"id":%q}`, def.ID))
			if client, ok := a.clients[v.ID]; ok {
				client.SendJSON(Envelope{T: MsgUnlock, Data: UnlockMsg{ID: def.ID, Name: def.Name}})
			}
		}
	}
}

func (a *Arena) resetMatch() {
	a.match.Reset()
	for id, d := range a.drones {
		d.Close()
		delete(a.drones, id)
	}
	for _, v := range a.players {
		v.Score = 0
		v.Kills = 0
		v.Deaths = 0
		x, z := a.spawnPos()
		v.Respawn(x, z)
	}
}

func (a *Arena) topPlayer() *Vehicle {
	var top *Vehicle
	for _, v := range a.players {
		if top == nil || v.Score > top.Score {
			top = v
		}
	}
	return top
}

func (a *Arena) playerSlice() []*Vehicle {
	out := make([]*Vehicle, 0, len(a.players))
	for _, v := range a.players {
		out = append(out, v)
	}
	return out
}

func (a *Arena) allVehicles() []*Vehicle {
	out := make([]*Vehicle, 0, len(a.players)+len(a.drones))
	for _, v := range a.players {
		out = append(out, v)
	}
	for _, d := range a.drones {
		out = append(out, d.Vehicle)
	}
	return out
}

// spawnPos picks a random floor position clear of obstacles.
func (a *Arena) spawnPos() (float64, float64) {
	for i := 0; i < 16; i++ {
		x := ArenaWidth/4 + rand.Float64()*ArenaWidth/2
		z := ArenaDepth/4 + rand.Float64()*ArenaDepth/2
		if a.terrain.ObstacleNear(x, z, 2*VehicleRadius) == nil {
			return x, z
		}
	}
	return ArenaWidth / 2, ArenaDepth / 2
}

// schedulePowerUpSpawn arms the repeating respawn timer on the sim clock.
func (a *Arena) schedulePowerUpSpawn() {
	a.clock.Schedule(PowerUpInterval, func() {
		if !a.running {
			return
		}
		a.spawnPowerUp()
		a.schedulePowerUpSpawn()
	})
}

func (a *Arena) spawnPowerUp() {
	x, z := a.spawnPos()
	t := PowerUpType(rand.Intn(powerUpTypeCount))
	pu := NewPowerUp(t, Vec3{x, a.terrain.HeightAt(x, z) + 1, z})
	a.powerups[pu.ID] = pu
}

// Snapshot builds the state broadcast struct. This is the scene/HUD sink:
// the presentation side reads transforms and gauges from it each frame.
func (a *Arena) Snapshot() GameState {
	state := GameState{
		Vehicles:    make([]VehicleState, 0, len(a.players)+len(a.drones)),
		Projectiles: make([]ProjectileState, 0, 16),
		PowerUps:    make([]PowerUpState, 0, len(a.powerups)),
		Tick:        a.tick,
		Phase:       int(a.match.Phase),
		TimeLeft:    a.match.TimeLeft,
	}
	for _, v := range a.allVehicles() {
		state.Vehicles = append(state.Vehicles, VehicleState{
			ID:        v.ID,
			Name:      v.Name,
			X:         v.Pos.X,
			Y:         v.Pos.Y,
			Z:         v.Pos.Z,
			Yaw:       v.Yaw,
			VX:        v.Vel.X,
			VZ:        v.Vel.Z,
			HP:        v.Health.Current,
			MaxHP:     v.Health.Max,
			Armor:     v.Health.Armor,
			Heat:      v.Weapon.Heat(),
			Cooldown:  v.Weapon.CooldownProgress(),
			Bullet:    int(v.Weapon.BulletType()),
			Score:     v.Score,
			Alive:     v.Alive(),
			Exploding: v.Exploding,
			Drone:     v.IsDrone,
		})
		for _, p := range v.Bullets {
			if !p.Active {
				continue
			}
			state.Projectiles = append(state.Projectiles, ProjectileState{
				ID:    p.ID,
				X:     p.Pos.X,
				Y:     p.Pos.Y,
				Z:     p.Pos.Z,
				Type:  int(p.Type),
				Owner: p.OwnerID,
			})
		}
	}
	for _, pu := range a.powerups {
		state.PowerUps = append(state.PowerUps, PowerUpState{
			ID:   pu.ID,
			X:    pu.Pos.X,
			Y:    pu.Pos.Y + pu.Bob,
			Z:    pu.Pos.Z,
			Type: int(pu.Type),
			Spin: pu.Spin,
		})
	}
	return state
}

// broadcastState encodes the snapshot with msgpack and fans it out
func (a *Arena) broadcastState() {
	data, err := msgpack.Marshal(a.Snapshot())
	if err != nil {
		log.Printf("state marshal: %v", err)
		return
	}
	for _, client := range a.clients {
		client.SendBinary(data)
	}
}

// broadcastMsg sends a control message to every client in the session
func (a *Arena) broadcastMsg(msg Envelope) {
	for _, client := range a.clients {
		client.SendJSON(msg)
	}
}

func (a *Arena) trackEvent(evtType string, playerID int64, data string) {
	if a.analytics == nil {
		return
	}
	a.analytics.Track(evtType, playerID, a.sessionID, data)
}
