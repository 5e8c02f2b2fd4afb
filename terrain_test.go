package main

import "testing"

func TestTerrainDeterministic(t *testing.T) {
	a := NewTerrain(42)
	b := NewTerrain(42)
	if len(a.Obstacles) != obstacleCount || len(b.Obstacles) != obstacleCount {
		t.Fatalf("expected %d obstacles", obstacleCount)
	}
	for i := range a.Obstacles {
		if a.Obstacles[i] != b.Obstacles[i] {
			t.Fatal("same seed must scatter identical obstacles")
		}
	}

	c := NewTerrain(43)
	same := true
	for i := range a.Obstacles {
		if a.Obstacles[i] != c.Obstacles[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds should scatter different obstacles")
	}
}

func TestGroundCollision(t *testing.T) {
	terrain := NewTerrain(1)

	h := terrain.HeightAt(123, 234)
	if !terrain.CheckCollision(Vec3{X: 123, Y: h - 0.1, Z: 234}) {
		t.Error("point below ground should collide")
	}
	if terrain.CheckCollision(Vec3{X: 123, Y: h + 10, Z: 234}) {
		t.Error("point high above ground should not collide")
	}
}

func TestObstacleCollision(t *testing.T) {
	terrain := NewTerrain(1)
	o := &terrain.Obstacles[0]

	inside := Vec3{X: o.Pos.X, Y: o.Pos.Y + o.Height/2, Z: o.Pos.Z}
	if !terrain.CheckCollision(inside) {
		t.Error("point inside an obstacle cylinder should collide")
	}

	above := Vec3{X: o.Pos.X, Y: o.Pos.Y + o.Height + 5, Z: o.Pos.Z}
	if terrain.CheckCollision(above) {
		t.Error("point above the obstacle's top should clear it")
	}
}

func TestObstacleNear(t *testing.T) {
	terrain := NewTerrain(1)
	o := &terrain.Obstacles[0]

	if terrain.ObstacleNear(o.Pos.X, o.Pos.Z, 1.0) == nil {
		t.Error("query at an obstacle center should find it")
	}

	empty := flatTerrain()
	if empty.ObstacleNear(100, 100, 50) != nil {
		t.Error("empty terrain has nothing to find")
	}
}

func TestHeightBounded(t *testing.T) {
	terrain := flatTerrain()
	for x := 0.0; x < ArenaWidth; x += 37 {
		for z := 0.0; z < ArenaDepth; z += 41 {
			h := terrain.HeightAt(x, z)
			if h < -1.6 || h > 1.6 {
				t.Fatalf("dune height out of expected band at (%.0f,%.0f): %f", x, z, h)
			}
		}
	}
}
