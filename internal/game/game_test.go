package game

import (
	"errors"
	"math"
	"testing"

	"github.com/Neruelin/astroids/internal/pool"
)

const eps = 1e-9

// newTestGame returns a game with the spawner disabled so scenarios stay deterministic.
func newTestGame(t *testing.T) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SpawnBatch = 0
	g, err := New(cfg, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func assertCounter(t *testing.T, g *Game) {
	t.Helper()
	if g.ActiveAsteroids() != g.asteroids.Len() {
		t.Fatalf("activeAsteroids = %d, pool has %d active", g.ActiveAsteroids(), g.asteroids.Len())
	}
}

func TestNewPlacesPlayerAtCenter(t *testing.T) {
	g := newTestGame(t)
	p := g.Player()
	if !p.Active || p.X != 600 || p.Y != 400 {
		t.Fatalf("player = %+v, want active at (600, 400)", p)
	}
	if g.State() != Running {
		t.Fatalf("state = %v, want running", g.State())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny field", func(c *Config) { c.Width = 2 }},
		{"negative speed", func(c *Config) { c.BulletSpeed = -1 }},
		{"zero radius", func(c *Config) { c.AsteroidRadius = 0 }},
		{"spawn cap above capacity", func(c *Config) { c.SpawnCap = pool.Capacity + 1 }},
		{"no tiers", func(c *Config) { c.MaxTier = 0 }},
		{"zero fps", func(c *Config) { c.TargetFPS = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg, 1); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("New error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDefaultConfigValues(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.SpawnCap != 128 {
		t.Errorf("SpawnCap = %d, want 128", c.SpawnCap)
	}
	if c.Width != 1200 || c.Height != 800 {
		t.Errorf("field = %vx%v, want 1200x800", c.Width, c.Height)
	}
}

func TestSpawnAsteroidAssignsFirstFreeSlot(t *testing.T) {
	g := newTestGame(t)
	h0, ok := g.SpawnAsteroid(1, 2, 0.5, 3, 4, 0.25, 2)
	if !ok || h0.Index() != 0 {
		t.Fatalf("first spawn slot=%d ok=%v", h0.Index(), ok)
	}
	h1, _ := g.SpawnAsteroid(5, 6, 0, 0, 0, 0, 1)
	if h1.Index() != 1 {
		t.Fatalf("second spawn slot=%d, want 1", h1.Index())
	}

	a, ok := g.Asteroid(h0)
	if !ok {
		t.Fatal("spawned asteroid not found")
	}
	if !a.Active || a.X != 1 || a.Y != 2 || a.Rot != 0.5 || a.DeltaX != 3 || a.DeltaY != 4 || a.DeltaRot != 0.25 || a.Tier != 2 {
		t.Fatalf("asteroid = %+v", a)
	}
	if g.ActiveAsteroids() != 2 {
		t.Fatalf("ActiveAsteroids = %d, want 2", g.ActiveAsteroids())
	}

	g.DeleteAsteroid(h0)
	h2, _ := g.SpawnAsteroid(0, 0, 0, 0, 0, 0, 3)
	if h2.Index() != 0 {
		t.Fatalf("freed slot not reused: got %d", h2.Index())
	}
	assertCounter(t, g)
}

func TestSpawnAsteroidFullPool(t *testing.T) {
	g := newTestGame(t)
	for i := 0; i < pool.Capacity; i++ {
		if _, ok := g.SpawnAsteroid(10, 10, 0, 0, 0, 0, 1); !ok {
			t.Fatalf("spawn %d failed", i)
		}
	}
	if _, ok := g.SpawnAsteroid(10, 10, 0, 0, 0, 0, 1); ok {
		t.Fatal("spawn into full pool succeeded")
	}
	if g.ActiveAsteroids() != pool.Capacity {
		t.Fatalf("ActiveAsteroids = %d, want %d", g.ActiveAsteroids(), pool.Capacity)
	}
	assertCounter(t, g)
}

func TestDeleteAsteroidResetsSlot(t *testing.T) {
	g := newTestGame(t)
	h, _ := g.SpawnAsteroid(10, 10, 0, 1, 1, 1, 3)
	g.DeleteAsteroid(h)

	if _, ok := g.Asteroid(h); ok {
		t.Fatal("deleted asteroid still resolves")
	}
	if g.ActiveAsteroids() != 0 {
		t.Fatalf("ActiveAsteroids = %d, want 0", g.ActiveAsteroids())
	}
	for other := range g.asteroids.All() {
		if other.Index() == h.Index() {
			t.Fatalf("slot %d still active", h.Index())
		}
	}

	g.DeleteAsteroid(h)
	if g.ActiveAsteroids() != 0 {
		t.Fatalf("stale delete changed counter to %d", g.ActiveAsteroids())
	}

	reused, _ := g.SpawnAsteroid(20, 20, 0, 0, 0, 0, 1)
	if reused.Index() != h.Index() {
		t.Fatalf("respawn got slot %d, want %d", reused.Index(), h.Index())
	}
	if _, ok := g.Asteroid(h); ok {
		t.Fatal("stale handle resolves to the reused slot")
	}
	if a, _ := g.Asteroid(reused); a.Tier != 1 || a.X != 20 {
		t.Fatalf("reused slot = %+v", a)
	}
}

func TestSpawnBulletVelocityFromTurns(t *testing.T) {
	g := newTestGame(t)
	h, ok := g.SpawnBullet(100, 100, 0.25, 500)
	if !ok {
		t.Fatal("spawn bullet failed")
	}
	b, _ := g.Bullet(h)
	if math.Abs(b.DeltaX) > 1e-6 || math.Abs(b.DeltaY-500) > 1e-6 {
		t.Fatalf("velocity = (%v, %v), want (0, 500)", b.DeltaX, b.DeltaY)
	}
	if b.DeltaRot != 0 || b.Rot != 0.25 {
		t.Fatalf("rotation = %v/%v", b.Rot, b.DeltaRot)
	}
}

func TestSpawnBulletFullPool(t *testing.T) {
	g := newTestGame(t)
	for i := 0; i < pool.Capacity; i++ {
		if _, ok := g.SpawnBullet(10, 10, 0, 0); !ok {
			t.Fatalf("bullet %d failed", i)
		}
	}
	if _, ok := g.SpawnBullet(10, 10, 0, 0); ok {
		t.Fatal("spawn into full bullet pool succeeded")
	}
	if g.ActiveBullets() != pool.Capacity {
		t.Fatalf("ActiveBullets = %d", g.ActiveBullets())
	}
}

func TestKeys(t *testing.T) {
	var k Keys
	k.Press('w')
	k.Press(200) // ignored
	if !k.Held('w') || k.Held(200) {
		t.Fatal("unexpected held state")
	}
	if k.Axis('w', 's') != 1 {
		t.Fatalf("Axis = %v, want 1", k.Axis('w', 's'))
	}
	k.Press('s')
	if k.Axis('w', 's') != 0 {
		t.Fatalf("opposing keys Axis = %v, want 0", k.Axis('w', 's'))
	}
	k.Release('w')
	if k.Axis('w', 's') != -1 {
		t.Fatalf("Axis = %v, want -1", k.Axis('w', 's'))
	}
	if !k.Any() {
		t.Fatal("Any = false with s held")
	}
	k.Clear()
	if k.Any() {
		t.Fatal("Any = true after Clear")
	}
}

func TestScoreForTier(t *testing.T) {
	tests := map[int]int{0: 0, 1: ScoreSmallAsteroid, 2: ScoreMediumAsteroid, 3: ScoreLargeAsteroid, 7: ScoreLargeAsteroid}
	for tier, want := range tests {
		if got := ScoreForTier(tier); got != want {
			t.Errorf("ScoreForTier(%d) = %d, want %d", tier, got, want)
		}
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	g := newTestGame(t)
	g.SpawnAsteroid(50, 60, 0.1, 0, 0, 0, 2)
	g.SpawnBullet(70, 80, 0, 0)

	s := g.Snapshot()
	if len(s.Asteroids) != 1 || len(s.Bullets) != 1 {
		t.Fatalf("snapshot has %d asteroids, %d bullets", len(s.Asteroids), len(s.Bullets))
	}
	if s.Asteroids[0].Tier != 2 || s.Asteroids[0].X != 50 {
		t.Fatalf("asteroid view = %+v", s.Asteroids[0])
	}

	s.Asteroids[0].X = -1
	again := g.Snapshot()
	if again.Asteroids[0].X != 50 {
		t.Fatal("snapshot shares memory with the game")
	}

	reuse := s
	g.SnapshotInto(&reuse)
	if len(reuse.Asteroids) != 1 || reuse.Asteroids[0].X != 50 {
		t.Fatalf("SnapshotInto = %+v", reuse.Asteroids)
	}
}
