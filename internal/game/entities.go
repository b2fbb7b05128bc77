package game

import (
	"github.com/Neruelin/astroids/internal/physics"
	"github.com/Neruelin/astroids/internal/pool"
)

// SpawnAsteroid activates the first free asteroid slot with the given state.
// Returns false without side effects when the pool is full.
func (g *Game) SpawnAsteroid(x, y, rot, dx, dy, drot float64, tier int) (pool.Handle, bool) {
	if g.asteroids.Full() {
		return pool.Handle{}, false
	}
	h, a, ok := g.asteroids.Allocate()
	if !ok {
		return pool.Handle{}, false
	}
	*a = Asteroid{
		Body: physics.Body{
			Active:   true,
			X:        x,
			Y:        y,
			Rot:      rot,
			DeltaX:   dx,
			DeltaY:   dy,
			DeltaRot: drot,
		},
		Tier: tier,
	}
	g.activeAsteroids++
	return h, true
}

// DeleteAsteroid frees the asteroid slot addressed by h and resets its tier.
// Stale handles are ignored.
func (g *Game) DeleteAsteroid(h pool.Handle) {
	if g.asteroids.Release(h) {
		g.activeAsteroids--
	}
}

// SpawnBullet activates the first free bullet slot, moving at speed along rot (turns).
// Returns false when the pool is full.
func (g *Game) SpawnBullet(x, y, rot, speed float64) (pool.Handle, bool) {
	h, b, ok := g.bullets.Allocate()
	if !ok {
		return pool.Handle{}, false
	}
	v := physics.Heading(rot).Mul(speed)
	*b = physics.Body{
		Active: true,
		X:      x,
		Y:      y,
		Rot:    rot,
		DeltaX: v[0],
		DeltaY: v[1],
	}
	return h, true
}

// DeleteBullet frees the bullet slot addressed by h.
func (g *Game) DeleteBullet(h pool.Handle) {
	g.bullets.Release(h)
}
