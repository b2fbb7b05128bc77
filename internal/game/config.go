package game

import (
	"errors"
	"fmt"

	"github.com/Neruelin/astroids/internal/pool"
)

// ErrInvalidConfig is returned by New when the configuration cannot run a game.
var ErrInvalidConfig = errors.New("invalid game config")

// KeyBindings maps game actions to ASCII key codes.
type KeyBindings struct {
	Forward byte
	Back    byte
	Left    byte
	Right   byte
	Fire    byte
}

// Config holds every gameplay constant. It is fixed for the lifetime of a Game.
// Pool capacities are not configurable; both pools hold pool.Capacity slots.
type Config struct {
	Width  float64 // Play field width in pixels
	Height float64 // Play field height in pixels

	PlayerSpeed     float64 // Pixels/sec while thrusting
	PlayerTurnSpeed float64 // Turns/sec while turning
	PlayerRadius    float64
	ClampPlayer     bool // Keep the player inside the field after integration

	BulletSpeed    float64 // Pixels/sec
	BulletCooldown float64 // Seconds between shots
	BulletRadius   float64

	AsteroidRadius   float64 // Per tier; a tier-N asteroid has radius N*AsteroidRadius
	DeflectionAngle  float64 // Radians between a parent's heading and each child's
	ChildSpeedFactor float64 // Child speed relative to the parent
	MaxTier          int     // Spawned tiers are drawn from [1, MaxTier]

	SpawnCap   int // Spawner stops once this many asteroids are active
	SpawnBatch int // Spawn attempts per frame

	TargetFPS int

	Keys KeyBindings
}

// DefaultConfig returns the standard game tuning.
func DefaultConfig() Config {
	return Config{
		Width:  1200,
		Height: 800,

		PlayerSpeed:     200,
		PlayerTurnSpeed: 0.75,
		PlayerRadius:    10,

		BulletSpeed:    500,
		BulletCooldown: 0.1,
		BulletRadius:   10,

		AsteroidRadius:   10,
		DeflectionAngle:  0.3,
		ChildSpeedFactor: 1.5,
		MaxTier:          3,

		SpawnCap:   pool.Capacity / 2,
		SpawnBatch: 5,

		TargetFPS: 60,

		Keys: KeyBindings{
			Forward: 'w',
			Back:    's',
			Left:    'a',
			Right:   'd',
			Fire:    ' ',
		},
	}
}

// Validate reports the first setting that cannot run a game.
func (c Config) Validate() error {
	switch {
	case c.Width < 4 || c.Height < 4:
		return fmt.Errorf("%w: field %vx%v is smaller than 4x4", ErrInvalidConfig, c.Width, c.Height)
	case c.PlayerSpeed < 0 || c.PlayerTurnSpeed < 0 || c.BulletSpeed < 0:
		return fmt.Errorf("%w: speeds must not be negative", ErrInvalidConfig)
	case c.PlayerRadius <= 0 || c.BulletRadius <= 0 || c.AsteroidRadius <= 0:
		return fmt.Errorf("%w: radii must be positive", ErrInvalidConfig)
	case c.BulletCooldown < 0:
		return fmt.Errorf("%w: bullet cooldown %v is negative", ErrInvalidConfig, c.BulletCooldown)
	case c.ChildSpeedFactor < 0:
		return fmt.Errorf("%w: child speed factor %v is negative", ErrInvalidConfig, c.ChildSpeedFactor)
	case c.MaxTier < 1:
		return fmt.Errorf("%w: max tier %d is below 1", ErrInvalidConfig, c.MaxTier)
	case c.SpawnCap < 0 || c.SpawnCap > pool.Capacity:
		return fmt.Errorf("%w: spawn cap %d outside [0, %d]", ErrInvalidConfig, c.SpawnCap, pool.Capacity)
	case c.SpawnBatch < 0:
		return fmt.Errorf("%w: spawn batch %d is negative", ErrInvalidConfig, c.SpawnBatch)
	case c.TargetFPS <= 0:
		return fmt.Errorf("%w: target fps %d must be positive", ErrInvalidConfig, c.TargetFPS)
	}
	return nil
}

// MaxAsteroidRadius returns the collision radius of the largest spawnable asteroid.
func (c Config) MaxAsteroidRadius() float64 {
	return float64(c.MaxTier) * c.AsteroidRadius
}

// Scoring
const (
	ScoreLargeAsteroid  = 20
	ScoreMediumAsteroid = 50
	ScoreSmallAsteroid  = 100
)

// ScoreForTier returns the points awarded for hitting an asteroid of the given tier.
// Smaller asteroids are harder to hit and worth more.
func ScoreForTier(tier int) int {
	switch {
	case tier <= 0:
		return 0
	case tier == 1:
		return ScoreSmallAsteroid
	case tier == 2:
		return ScoreMediumAsteroid
	default:
		return ScoreLargeAsteroid
	}
}
