// Package game implements the asteroid-field simulation: entity pools, asteroid
// fission, edge spawning and the fixed-step update loop.
//
// A Game is owned by a single goroutine. Front ends feed it key state with
// SetKeys, advance it with Update, and read it through Snapshot.
package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/Neruelin/astroids/internal/physics"
	"github.com/Neruelin/astroids/internal/pool"
)

// State is the phase of a game.
type State int

const (
	Running State = iota // Update advances the simulation
	Ended                // Terminal; the player was hit
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Asteroid is a pooled asteroid body with its size tier.
type Asteroid struct {
	physics.Body
	Tier int
}

// Radius returns the asteroid's collision radius for the given base radius.
func (a Asteroid) Radius(base float64) float64 {
	return float64(a.Tier) * base
}

// Game holds the complete simulation state.
type Game struct {
	cfg Config
	rng *rand.Rand

	player          physics.Body
	bulletReadyTime float64

	asteroids       pool.Pool[Asteroid]
	activeAsteroids int
	bullets         pool.Pool[physics.Body]

	keys Keys
	grid *physics.SpatialGrid

	state State
	score int
	hits  int
	frame uint64
	now   float64
}

// New creates a game with the player at rest in the middle of the field.
// The seed drives every random choice the spawner makes.
func New(cfg Config, seed uint64) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		// Bullet-asteroid lookups reach at most one bullet radius plus the largest asteroid.
		grid: physics.NewSpatialGrid(cfg.Width, cfg.Height, cfg.BulletRadius+cfg.MaxAsteroidRadius()),
	}
	g.player = physics.Body{
		Active: true,
		X:      cfg.Width / 2,
		Y:      cfg.Height / 2,
		Rot:    -0.25, // Pointing up
	}
	return g, nil
}

// Config returns the configuration the game was created with.
func (g *Game) Config() Config {
	return g.cfg
}

// State returns the current phase.
func (g *Game) State() State {
	return g.state
}

// SetKeys replaces the key state read at the start of the next Update.
func (g *Game) SetKeys(k Keys) {
	g.keys = k
}

// Keys returns the key state the game is currently using.
func (g *Game) Keys() Keys {
	return g.keys
}

// Player returns a copy of the player's body.
func (g *Game) Player() physics.Body {
	return g.player
}

// BulletReadyTime returns the earliest time the player may fire again.
func (g *Game) BulletReadyTime() float64 {
	return g.bulletReadyTime
}

// ActiveAsteroids returns the number of active asteroid slots.
func (g *Game) ActiveAsteroids() int {
	return g.activeAsteroids
}

// ActiveBullets returns the number of active bullet slots.
func (g *Game) ActiveBullets() int {
	return g.bullets.Len()
}

// Asteroid returns a copy of the asteroid addressed by h.
func (g *Game) Asteroid(h pool.Handle) (Asteroid, bool) {
	a, ok := g.asteroids.Get(h)
	if !ok {
		return Asteroid{}, false
	}
	return *a, true
}

// Bullet returns a copy of the bullet addressed by h.
func (g *Game) Bullet(h pool.Handle) (physics.Body, bool) {
	b, ok := g.bullets.Get(h)
	if !ok {
		return physics.Body{}, false
	}
	return *b, true
}

// Score returns the points earned so far.
func (g *Game) Score() int {
	return g.score
}

// Hits returns the number of asteroids hit by bullets so far.
func (g *Game) Hits() int {
	return g.hits
}

// Frame returns the number of Update calls that advanced the simulation.
func (g *Game) Frame() uint64 {
	return g.frame
}
