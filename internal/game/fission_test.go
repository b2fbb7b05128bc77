package game

import (
	"math"
	"testing"

	"github.com/Neruelin/astroids/internal/pool"
)

func TestHandleAsteroidHitTierOneDestroys(t *testing.T) {
	g := newTestGame(t)
	g.SpawnAsteroid(300, 300, 0, 5, 5, 1, 3) // bystander
	ah, _ := g.SpawnAsteroid(100, 100, 0, 10, 0, 1, 1)
	bh, _ := g.SpawnBullet(100, 100, 0, 500)

	before := g.ActiveAsteroids()
	out := g.HandleAsteroidHit(bh, ah)

	if !out.Destroyed || out.Tier != 1 || out.Spawned != 0 {
		t.Fatalf("outcome = %+v", out)
	}
	if g.ActiveAsteroids() != before-1 {
		t.Fatalf("ActiveAsteroids = %d, want %d", g.ActiveAsteroids(), before-1)
	}
	if g.ActiveBullets() != 0 {
		t.Fatalf("bullet not deleted")
	}
	if _, ok := g.Asteroid(ah); ok {
		t.Fatal("asteroid still active")
	}
	assertCounter(t, g)
}

func TestHandleAsteroidHitSplits(t *testing.T) {
	g := newTestGame(t)
	const (
		px, py   = 200.0, 150.0
		vx, vy   = 30.0, 40.0 // speed 50
		drot     = 0.4
		rot      = 0.125
		tier     = 3
		wantSpd  = 75.0
		wantTier = 2
	)
	ah, _ := g.SpawnAsteroid(px, py, rot, vx, vy, drot, tier)
	bh, _ := g.SpawnBullet(px, py, 0, 500)

	before := g.ActiveAsteroids()
	out := g.HandleAsteroidHit(bh, ah)

	if out.Destroyed || out.Tier != tier || out.Spawned != 2 {
		t.Fatalf("outcome = %+v", out)
	}
	if g.ActiveAsteroids() != before+1 {
		t.Fatalf("ActiveAsteroids = %d, want %d", g.ActiveAsteroids(), before+1)
	}
	if _, ok := g.Asteroid(ah); ok {
		t.Fatal("parent still active")
	}
	if g.ActiveBullets() != 0 {
		t.Fatal("bullet not deleted")
	}

	heading := math.Atan2(vy, vx)
	wantAngles := [2]float64{heading - 0.3, heading + 0.3}
	wantSpin := [2]float64{-drot, drot}

	for i, h := range out.Children[:out.Spawned] {
		c, ok := g.Asteroid(h)
		if !ok {
			t.Fatalf("child %d missing", i)
		}
		if c.Tier != wantTier {
			t.Errorf("child %d tier = %d, want %d", i, c.Tier, wantTier)
		}
		if c.X != px || c.Y != py || c.Rot != rot {
			t.Errorf("child %d at (%v, %v, %v), want parent pose", i, c.X, c.Y, c.Rot)
		}
		speed := math.Hypot(c.DeltaX, c.DeltaY)
		if math.Abs(speed-wantSpd) > 1e-9 {
			t.Errorf("child %d speed = %v, want %v", i, speed, wantSpd)
		}
		angle := math.Atan2(c.DeltaY, c.DeltaX)
		if math.Abs(angle-wantAngles[i]) > 1e-9 {
			t.Errorf("child %d angle = %v, want %v", i, angle, wantAngles[i])
		}
		if c.DeltaRot != wantSpin[i] {
			t.Errorf("child %d spin = %v, want %v", i, c.DeltaRot, wantSpin[i])
		}
	}
	assertCounter(t, g)
}

func TestHandleAsteroidHitPoolPressure(t *testing.T) {
	tests := []struct {
		name        string
		fill        int // asteroids besides the target
		wantSpawned int
		wantDelta   int
	}{
		{"room for both", 10, 2, +1},
		{"room for one", pool.Capacity - 2, 1, 0},
		{"full", pool.Capacity - 1, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			ah, _ := g.SpawnAsteroid(100, 100, 0, 10, 0, 1, 2)
			for i := 0; i < tt.fill; i++ {
				g.SpawnAsteroid(500, 500, 0, 0, 0, 0, 1)
			}
			bh, _ := g.SpawnBullet(100, 100, 0, 0)

			before := g.ActiveAsteroids()
			out := g.HandleAsteroidHit(bh, ah)

			if out.Spawned != tt.wantSpawned {
				t.Fatalf("Spawned = %d, want %d", out.Spawned, tt.wantSpawned)
			}
			if got := g.ActiveAsteroids() - before; got != tt.wantDelta {
				t.Fatalf("count delta = %d, want %d", got, tt.wantDelta)
			}
			assertCounter(t, g)
		})
	}
}

func TestHandleAsteroidHitStaleAsteroid(t *testing.T) {
	g := newTestGame(t)
	ah, _ := g.SpawnAsteroid(100, 100, 0, 10, 0, 1, 2)
	g.DeleteAsteroid(ah)
	bh, _ := g.SpawnBullet(100, 100, 0, 0)

	out := g.HandleAsteroidHit(bh, ah)
	if out != (HitOutcome{}) {
		t.Fatalf("outcome = %+v, want zero", out)
	}
	if g.ActiveBullets() != 0 {
		t.Fatal("bullet should still be consumed")
	}
	if g.ActiveAsteroids() != 0 {
		t.Fatalf("ActiveAsteroids = %d", g.ActiveAsteroids())
	}
}

func TestHandleAsteroidHitStationaryParent(t *testing.T) {
	g := newTestGame(t)
	ah, _ := g.SpawnAsteroid(100, 100, 0, 0, 0, 0, 2)
	bh, _ := g.SpawnBullet(100, 100, 0, 0)

	out := g.HandleAsteroidHit(bh, ah)
	if out.Spawned != 2 {
		t.Fatalf("Spawned = %d", out.Spawned)
	}
	for _, h := range out.Children {
		c, _ := g.Asteroid(h)
		if c.DeltaX != 0 || c.DeltaY != 0 {
			t.Fatalf("stationary parent produced moving child %+v", c)
		}
	}
}
