package main

import (
	"math"
	"math/rand"
)

const (
	ArenaWidth = 400.0
	ArenaDepth = 400.0

	obstacleCount     = 60
	obstacleMinRadius = 1.5
	obstacleMaxRadius = 4.0
	obstacleMinHeight = 1.0
	obstacleMaxHeight = 6.0
)

// Obstacle is one solid prop scattered over the arena floor.
type Obstacle struct {
	Pos    Vec3 // base center, Y is ground height at the base
	Radius float64
	Height float64
}

// Terrain is the collision side of the arena ground: a height function plus
// a scattered obstacle field. Mesh generation and rendering live elsewhere;
// the simulation only consumes the point query.
type Terrain struct {
	Obstacles []Obstacle
}

// NewTerrain scatters obstacles deterministically from the seed.
func NewTerrain(seed int64) *Terrain {
	rng := rand.New(rand.NewSource(seed))
	t := &Terrain{Obstacles: make([]Obstacle, 0, obstacleCount)}
	for i := 0; i < obstacleCount; i++ {
		x := 20 + rng.Float64()*(ArenaWidth-40)
		z := 20 + rng.Float64()*(ArenaDepth-40)
		t.Obstacles = append(t.Obstacles, Obstacle{
			Pos:    Vec3{x, t.HeightAt(x, z), z},
			Radius: obstacleMinRadius + rng.Float64()*(obstacleMaxRadius-obstacleMinRadius),
			Height: obstacleMinHeight + rng.Float64()*(obstacleMaxHeight-obstacleMinHeight),
		})
	}
	return t
}

// HeightAt returns the ground height under (x, z): gentle rolling dunes.
func (t *Terrain) HeightAt(x, z float64) float64 {
	return 0.6*math.Sin(x*0.05) + 0.6*math.Cos(z*0.04) + 0.3*math.Sin((x+z)*0.02)
}

// CheckCollision reports whether the point is inside solid terrain: below
// the ground surface or inside an obstacle's cylinder.
func (t *Terrain) CheckCollision(p Vec3) bool {
	if p.Y <= t.HeightAt(p.X, p.Z) {
		return true
	}
	for i := range t.Obstacles {
		o := &t.Obstacles[i]
		if p.Y > o.Pos.Y+o.Height {
			continue
		}
		dx := p.X - o.Pos.X
		dz := p.Z - o.Pos.Z
		if dx*dx+dz*dz <= o.Radius*o.Radius {
			return true
		}
	}
	return false
}

// ObstacleNear returns the first obstacle whose cylinder overlaps a circle of
// the given radius at (x, z), or nil.
func (t *Terrain) ObstacleNear(x, z, radius float64) *Obstacle {
	for i := range t.Obstacles {
		o := &t.Obstacles[i]
		dx := x - o.Pos.X
		dz := z - o.Pos.Z
		reach := radius + o.Radius
		if dx*dx+dz*dz <= reach*reach {
			return o
		}
	}
	return nil
}
