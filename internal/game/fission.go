package game

import (
	"math"

	"github.com/Neruelin/astroids/internal/pool"
)

// HitOutcome describes what a bullet hit did to an asteroid.
type HitOutcome struct {
	Tier      int            // Tier of the asteroid that was hit; 0 if it was already gone
	Destroyed bool           // The asteroid was tier 1 and left no children
	Children  [2]pool.Handle // Valid up to Spawned
	Spawned   int
}

// HandleAsteroidHit consumes the bullet and destroys or splits the asteroid.
//
// A tier-1 asteroid is removed outright. A larger asteroid is replaced by two
// children one tier smaller, moving ChildSpeedFactor times faster along the
// parent's heading deflected by -DeflectionAngle and +DeflectionAngle, spinning
// in opposite directions. Children that do not fit in the pool are dropped.
func (g *Game) HandleAsteroidHit(bullet, asteroid pool.Handle) HitOutcome {
	g.DeleteBullet(bullet)

	a, ok := g.asteroids.Get(asteroid)
	if !ok {
		return HitOutcome{}
	}
	parent := *a
	out := HitOutcome{Tier: parent.Tier}

	if parent.Tier <= 1 {
		g.DeleteAsteroid(asteroid)
		out.Destroyed = true
		return out
	}

	heading := math.Atan2(parent.DeltaY, parent.DeltaX)
	speed := parent.Velocity().Len() * g.cfg.ChildSpeedFactor

	for _, side := range [2]float64{-1, 1} {
		angle := heading + side*g.cfg.DeflectionAngle
		h, ok := g.SpawnAsteroid(
			parent.X, parent.Y, parent.Rot,
			speed*math.Cos(angle), speed*math.Sin(angle),
			side*parent.DeltaRot,
			parent.Tier-1,
		)
		if ok {
			out.Children[out.Spawned] = h
			out.Spawned++
		}
	}

	g.DeleteAsteroid(asteroid)
	return out
}
