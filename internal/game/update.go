package game

import (
	"github.com/Neruelin/astroids/internal/physics"
	"github.com/Neruelin/astroids/internal/pool"
)

// Update advances the game by one frame. now is the current time in seconds
// and dt the time since the previous frame. Returns false once the player has
// been hit; an ended game is never advanced again.
//
// Frame order: input, firing, off-field culling, spawning, bullet hits,
// player collision, integration. A player collision ends the frame before
// anything moves.
func (g *Game) Update(now, dt float64) bool {
	if g.state == Ended {
		return false
	}
	g.frame++
	g.now = now

	g.applyInput()
	g.fire(now)
	g.cullOffField()
	g.spawnWave()
	g.resolveBulletHits()

	if g.playerHit() {
		g.state = Ended
		return false
	}

	g.integrate(dt)
	return true
}

// applyInput derives the player's velocities from the held keys.
func (g *Game) applyInput() {
	k := g.cfg.Keys
	speed := g.keys.Axis(k.Forward, k.Back) * g.cfg.PlayerSpeed
	g.player.DeltaRot = g.keys.Axis(k.Right, k.Left) * g.cfg.PlayerTurnSpeed

	v := physics.Heading(g.player.Rot).Mul(speed)
	g.player.DeltaX = v[0]
	g.player.DeltaY = v[1]
}

// fire spawns a bullet from the player when the fire key is held and the
// cooldown has elapsed. A full bullet pool leaves the cooldown untouched so
// the shot is retried next frame.
func (g *Game) fire(now float64) {
	if !g.keys.Held(g.cfg.Keys.Fire) || now < g.bulletReadyTime {
		return
	}
	if _, ok := g.SpawnBullet(g.player.X, g.player.Y, g.player.Rot, g.cfg.BulletSpeed); ok {
		g.bulletReadyTime = now + g.cfg.BulletCooldown
	}
}

// cullOffField deletes asteroids and bullets that have left the play field.
func (g *Game) cullOffField() {
	for h, a := range g.asteroids.All() {
		if g.outside(a.Body) {
			g.DeleteAsteroid(h)
		}
	}
	for h, b := range g.bullets.All() {
		if g.outside(*b) {
			g.DeleteBullet(h)
		}
	}
}

func (g *Game) outside(b physics.Body) bool {
	return b.X < 0 || b.X > g.cfg.Width || b.Y < 0 || b.Y > g.cfg.Height
}

// resolveBulletHits lets every bullet hit at most one asteroid: the first
// colliding asteroid in pool order. Children spawned by a split are
// targetable by the bullets processed after it.
func (g *Game) resolveBulletHits() {
	if g.bullets.Len() == 0 {
		return
	}

	g.grid.Clear()
	reach := 0.0
	for h, a := range g.asteroids.All() {
		g.grid.Insert(a.X, a.Y, h.Index())
		reach = max(reach, a.Radius(g.cfg.AsteroidRadius))
	}
	// Asteroids above MaxTier can overlap a bullet outside the 3x3 neighborhood.
	// Children are smaller than their parent, so reach holds for the whole pass.
	find := g.firstHit
	if reach+g.cfg.BulletRadius > g.grid.CellSize() {
		find = g.scanHit
	}

	for bh, b := range g.bullets.All() {
		target, ok := find(*b)
		if !ok {
			continue
		}
		out := g.HandleAsteroidHit(bh, target)
		g.hits++
		g.score += ScoreForTier(out.Tier)
		for _, child := range out.Children[:out.Spawned] {
			if a, ok := g.asteroids.Get(child); ok {
				g.grid.Insert(a.X, a.Y, child.Index())
			}
		}
	}
}

// firstHit returns the lowest-slot asteroid colliding with the bullet.
func (g *Game) firstHit(bullet physics.Body) (pool.Handle, bool) {
	best := -1
	var bestHandle pool.Handle
	g.grid.QueryAround(bullet.X, bullet.Y, func(index int) bool {
		if best >= 0 && index >= best {
			return false
		}
		h, a, ok := g.asteroids.At(index)
		if !ok {
			return false
		}
		if physics.Collides(bullet, a.Body, g.cfg.BulletRadius, a.Radius(g.cfg.AsteroidRadius)) {
			best = index
			bestHandle = h
		}
		return false
	})
	return bestHandle, best >= 0
}

// scanHit is firstHit without the grid: the first colliding asteroid in slot order.
func (g *Game) scanHit(bullet physics.Body) (pool.Handle, bool) {
	for h, a := range g.asteroids.All() {
		if physics.Collides(bullet, a.Body, g.cfg.BulletRadius, a.Radius(g.cfg.AsteroidRadius)) {
			return h, true
		}
	}
	return pool.Handle{}, false
}

// playerHit reports whether any asteroid overlaps the player.
func (g *Game) playerHit() bool {
	for _, a := range g.asteroids.All() {
		if physics.Collides(g.player, a.Body, g.cfg.PlayerRadius, a.Radius(g.cfg.AsteroidRadius)) {
			return true
		}
	}
	return false
}

// integrate moves every active body by dt and keeps the player on the field.
func (g *Game) integrate(dt float64) {
	g.player.Integrate(dt)
	if g.cfg.ClampPlayer {
		g.player.X = clamp(g.player.X, 0, g.cfg.Width)
		g.player.Y = clamp(g.player.Y, 0, g.cfg.Height)
	}

	for _, a := range g.asteroids.All() {
		a.Integrate(dt)
	}
	for _, b := range g.bullets.All() {
		b.Integrate(dt)
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
