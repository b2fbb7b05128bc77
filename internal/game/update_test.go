package game

import (
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/Neruelin/astroids/internal/physics"
	"github.com/Neruelin/astroids/internal/pool"
)

const frameDt = 1.0 / 60

func held(keys ...byte) Keys {
	var k Keys
	for _, c := range keys {
		k.Press(c)
	}
	return k
}

func TestUpdatePlayerCollisionEndsGame(t *testing.T) {
	g := newTestGame(t)
	p := g.Player()
	h, _ := g.SpawnAsteroid(p.X+5, p.Y, 0, 50, 0, 0, 1)

	if g.Update(0, frameDt) {
		t.Fatal("Update returned true with an asteroid on the player")
	}
	if g.State() != Ended {
		t.Fatalf("state = %v, want ended", g.State())
	}

	// The frame ends before integration.
	a, _ := g.Asteroid(h)
	if a.X != p.X+5 {
		t.Fatalf("asteroid moved to %v", a.X)
	}
	if g.Player() != p {
		t.Fatalf("player moved: %+v", g.Player())
	}

	frame := g.Frame()
	if g.Update(1, frameDt) {
		t.Fatal("ended game advanced")
	}
	if g.Frame() != frame {
		t.Fatalf("frame = %d after end, want %d", g.Frame(), frame)
	}
}

func TestUpdatePlayerCollisionAtExactContact(t *testing.T) {
	g := newTestGame(t)
	p := g.Player()
	cfg := g.Config()
	g.SpawnAsteroid(p.X+cfg.PlayerRadius+2*cfg.AsteroidRadius, p.Y, 0, 0, 0, 0, 2)

	if g.Update(0, frameDt) {
		t.Fatal("touching circles should collide")
	}
}

func TestUpdateBulletSplitsAsteroid(t *testing.T) {
	g := newTestGame(t)
	g.SpawnAsteroid(100, 100, 0, 10, 0, 0, 2)
	g.SpawnBullet(100, 100, 0, 500)

	if !g.Update(0, frameDt) {
		t.Fatal("game ended unexpectedly")
	}
	if g.ActiveBullets() != 0 {
		t.Fatalf("ActiveBullets = %d, want 0", g.ActiveBullets())
	}
	if g.ActiveAsteroids() != 2 {
		t.Fatalf("ActiveAsteroids = %d, want 2", g.ActiveAsteroids())
	}
	for h, a := range g.asteroids.All() {
		if a.Tier != 1 {
			t.Errorf("slot %d tier = %d, want 1", h.Index(), a.Tier)
		}
	}
	if g.Score() != ScoreMediumAsteroid || g.Hits() != 1 {
		t.Fatalf("score=%d hits=%d", g.Score(), g.Hits())
	}
	assertCounter(t, g)
}

func TestUpdateBulletHitsLowestSlot(t *testing.T) {
	g := newTestGame(t)
	first, _ := g.SpawnAsteroid(100, 100, 0, 0, 0, 0, 1)
	second, _ := g.SpawnAsteroid(102, 100, 0, 0, 0, 0, 1)
	g.SpawnBullet(101, 100, 0, 0)

	g.Update(0, frameDt)

	if _, ok := g.Asteroid(first); ok {
		t.Fatal("lowest slot asteroid survived")
	}
	if _, ok := g.Asteroid(second); !ok {
		t.Fatal("one bullet destroyed two asteroids")
	}
}

func TestUpdateSecondBulletHitsChild(t *testing.T) {
	g := newTestGame(t)
	g.SpawnAsteroid(100, 100, 0, 0, 0, 0, 2)
	g.SpawnBullet(100, 100, 0, 0)
	g.SpawnBullet(100, 100, 0, 0)

	g.Update(0, frameDt)

	// The first bullet splits the parent; the second destroys a tier-1 child.
	if g.ActiveAsteroids() != 1 || g.ActiveBullets() != 0 {
		t.Fatalf("asteroids=%d bullets=%d, want 1 and 0", g.ActiveAsteroids(), g.ActiveBullets())
	}
	if g.Hits() != 2 {
		t.Fatalf("Hits = %d, want 2", g.Hits())
	}
}

func TestUpdateCullsOffField(t *testing.T) {
	g := newTestGame(t)
	g.SpawnAsteroid(-1, 100, 0, 100, 0, 0, 1) // heading back in, culled anyway
	g.SpawnAsteroid(100, 801, 0, 0, -100, 0, 1)
	edge, _ := g.SpawnAsteroid(0, 100, 0, 0, 0, 0, 1) // on the border is inside
	g.SpawnBullet(1201, 10, 0, 0)
	g.SpawnBullet(10, -0.5, 0, 0)

	g.Update(0, frameDt)

	if g.ActiveAsteroids() != 1 {
		t.Fatalf("ActiveAsteroids = %d, want 1", g.ActiveAsteroids())
	}
	if _, ok := g.Asteroid(edge); !ok {
		t.Fatal("border asteroid culled")
	}
	if g.ActiveBullets() != 0 {
		t.Fatalf("ActiveBullets = %d, want 0", g.ActiveBullets())
	}
	assertCounter(t, g)
}

func TestUpdateFireCooldown(t *testing.T) {
	g := newTestGame(t)
	g.SetKeys(held(' '))

	g.Update(0, frameDt)
	if g.ActiveBullets() != 1 {
		t.Fatalf("ActiveBullets = %d after first shot", g.ActiveBullets())
	}
	if g.BulletReadyTime() != 0.1 {
		t.Fatalf("BulletReadyTime = %v, want 0.1", g.BulletReadyTime())
	}

	g.Update(0.05, frameDt)
	if g.ActiveBullets() != 1 {
		t.Fatalf("fired during cooldown: %d bullets", g.ActiveBullets())
	}

	g.Update(0.1, frameDt)
	if g.ActiveBullets() != 2 {
		t.Fatalf("ActiveBullets = %d after cooldown", g.ActiveBullets())
	}
	if math.Abs(g.BulletReadyTime()-0.2) > eps {
		t.Fatalf("BulletReadyTime = %v, want 0.2", g.BulletReadyTime())
	}

	// Bullets leave along the player's heading.
	for _, b := range g.bullets.All() {
		if b.DeltaY >= 0 || math.Abs(b.DeltaX) > 1e-6 {
			t.Fatalf("bullet velocity = (%v, %v), want straight up", b.DeltaX, b.DeltaY)
		}
	}
}

func TestUpdateFireFullPoolRetries(t *testing.T) {
	g := newTestGame(t)
	var first pool.Handle
	for i := 0; i < pool.Capacity; i++ {
		h, _ := g.SpawnBullet(10, 10, 0, 0)
		if i == 0 {
			first = h
		}
	}
	g.SetKeys(held(' '))

	g.Update(0, frameDt)
	if g.BulletReadyTime() != 0 {
		t.Fatalf("cooldown set without a shot: %v", g.BulletReadyTime())
	}

	g.DeleteBullet(first)
	g.Update(0.5, frameDt)
	if g.ActiveBullets() != pool.Capacity {
		t.Fatalf("ActiveBullets = %d, want %d", g.ActiveBullets(), pool.Capacity)
	}
	if math.Abs(g.BulletReadyTime()-0.6) > eps {
		t.Fatalf("BulletReadyTime = %v, want 0.6", g.BulletReadyTime())
	}
}

func TestUpdatePlayerMovement(t *testing.T) {
	tests := []struct {
		name         string
		keys         Keys
		wantX, wantY float64
		wantRot      float64
	}{
		{"idle", Keys{}, 600, 400, -0.25},
		{"forward", held('w'), 600, 380, -0.25},
		{"back", held('s'), 600, 420, -0.25},
		{"right", held('d'), 600, 400, -0.175},
		{"left", held('a'), 600, 400, -0.325},
		{"both turns cancel", held('a', 'd'), 600, 400, -0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			g.SetKeys(tt.keys)
			g.Update(0, 0.1)

			p := g.Player()
			if math.Abs(p.X-tt.wantX) > eps || math.Abs(p.Y-tt.wantY) > eps {
				t.Errorf("position = (%v, %v), want (%v, %v)", p.X, p.Y, tt.wantX, tt.wantY)
			}
			if math.Abs(p.Rot-tt.wantRot) > eps {
				t.Errorf("rot = %v, want %v", p.Rot, tt.wantRot)
			}
		})
	}
}

func TestUpdateReleasingKeysStopsPlayer(t *testing.T) {
	g := newTestGame(t)
	g.SetKeys(held('w', 'd'))
	g.Update(0, frameDt)
	g.SetKeys(Keys{})
	g.Update(frameDt, frameDt)

	p := g.Player()
	if p.DeltaX != 0 || p.DeltaY != 0 || p.DeltaRot != 0 {
		t.Fatalf("player still moving: %+v", p)
	}
}

func TestUpdatePlayerBounds(t *testing.T) {
	tests := []struct {
		name  string
		clamp bool
		wantX float64
	}{
		{"free", false, -20},
		{"clamped", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SpawnBatch = 0
			cfg.ClampPlayer = tt.clamp
			g, err := New(cfg, 1)
			if err != nil {
				t.Fatal(err)
			}
			g.player.X = 0
			g.player.Rot = 0.5 // Facing left
			g.SetKeys(held('w'))

			g.Update(0, 0.1)
			if p := g.Player(); math.Abs(p.X-tt.wantX) > eps {
				t.Fatalf("player X = %v, want %v", p.X, tt.wantX)
			}
		})
	}
}

func TestUpdateIntegratesAsteroids(t *testing.T) {
	g := newTestGame(t)
	h, _ := g.SpawnAsteroid(100, 100, 0, 30, -60, 0.5, 3)
	g.Update(0, 0.5)

	a, _ := g.Asteroid(h)
	if a.X != 115 || a.Y != 70 || a.Rot != 0.25 {
		t.Fatalf("asteroid = (%v, %v, %v), want (115, 70, 0.25)", a.X, a.Y, a.Rot)
	}
}

// Grid lookups must pick the same asteroid as a scan in slot order.
func TestFirstHitMatchesBruteForce(t *testing.T) {
	g := newTestGame(t)
	rng := rand.New(rand.NewPCG(3, 4))
	cfg := g.Config()

	for i := 0; i < 200; i++ {
		g.SpawnAsteroid(rng.Float64()*cfg.Width, rng.Float64()*cfg.Height, 0, 0, 0, 0, 1+rng.IntN(3))
	}
	g.grid.Clear()
	for h, a := range g.asteroids.All() {
		g.grid.Insert(a.X, a.Y, h.Index())
	}

	for i := 0; i < 2000; i++ {
		b := physics.Body{Active: true, X: rng.Float64() * cfg.Width, Y: rng.Float64() * cfg.Height}

		want, wantOK := g.scanHit(b)
		got, ok := g.firstHit(b)
		if ok != wantOK || got != want {
			t.Fatalf("bullet at (%v, %v): firstHit = %v/%v, want %v/%v", b.X, b.Y, got, ok, want, wantOK)
		}
	}
}

func TestUpdateKeepsAsteroidCounter(t *testing.T) {
	g, err := New(DefaultConfig(), 7)
	if err != nil {
		t.Fatal(err)
	}
	g.SetKeys(held(' ', 'd'))

	for i := 0; i < 3000; i++ {
		running := g.Update(float64(i)*frameDt, frameDt)
		assertCounter(t, g)
		if g.ActiveAsteroids() > pool.Capacity {
			t.Fatalf("frame %d: %d asteroids", i, g.ActiveAsteroids())
		}
		for _, a := range g.asteroids.All() {
			if a.Tier < 1 || a.Tier > g.Config().MaxTier {
				t.Fatalf("frame %d: tier %d out of range", i, a.Tier)
			}
		}
		if !running {
			break
		}
	}
}

func TestUpdateIsDeterministic(t *testing.T) {
	run := func() Snapshot {
		g, err := New(DefaultConfig(), 42)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 300; i++ {
			if i%20 < 10 {
				g.SetKeys(held(' ', 'a'))
			} else {
				g.SetKeys(held('w'))
			}
			if !g.Update(float64(i)*frameDt, frameDt) {
				break
			}
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed and input produced different games")
	}
}

func TestUpdateHitsAsteroidAboveMaxTier(t *testing.T) {
	g := newTestGame(t)
	cfg := g.Config()
	tier := cfg.MaxTier * 2
	h, _ := g.SpawnAsteroid(100, 400, 0, 0, 0, 0, tier)
	// Overlapping the rim, more than one grid cell from the center.
	g.SpawnBullet(100+float64(tier)*cfg.AsteroidRadius+cfg.BulletRadius/2, 400, 0, 0)

	g.Update(0, 0)

	if _, ok := g.Asteroid(h); ok {
		t.Fatal("oversized asteroid survived an overlapping bullet")
	}
	if g.ActiveBullets() != 0 {
		t.Fatalf("ActiveBullets = %d, want 0", g.ActiveBullets())
	}
	if g.ActiveAsteroids() != 2 {
		t.Fatalf("ActiveAsteroids = %d, want 2 children", g.ActiveAsteroids())
	}
	for _, a := range g.asteroids.All() {
		if a.Tier != tier-1 {
			t.Fatalf("child tier = %d, want %d", a.Tier, tier-1)
		}
	}
}
