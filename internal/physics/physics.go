// Package physics provides kinematic bodies, collision detection and a spatial grid.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is the unit of simulated motion: position, rotation and their first derivatives.
// Rotation is measured in turns (1.0 = one full revolution), not radians.
type Body struct {
	Active   bool
	X, Y     float64 // Position in pixels
	Rot      float64 // Rotation in turns
	DeltaX   float64 // Velocity in pixels/sec
	DeltaY   float64
	DeltaRot float64 // Angular velocity in turns/sec
}

// Integrate advances the body by dt seconds.
// Rotation is left unnormalized; trigonometric callers wrap it implicitly.
func (b *Body) Integrate(dt float64) {
	b.X += b.DeltaX * dt
	b.Y += b.DeltaY * dt
	b.Rot += b.DeltaRot * dt
}

// Position returns the body's center as a vector.
func (b Body) Position() mgl64.Vec2 {
	return mgl64.Vec2{b.X, b.Y}
}

// Velocity returns the body's linear velocity as a vector.
func (b Body) Velocity() mgl64.Vec2 {
	return mgl64.Vec2{b.DeltaX, b.DeltaY}
}

// Radians converts a rotation in turns to radians.
func Radians(turns float64) float64 {
	return turns * 2 * math.Pi
}

// Heading returns the unit vector pointing along a rotation given in turns.
func Heading(turns float64) mgl64.Vec2 {
	rads := Radians(turns)
	return mgl64.Vec2{math.Cos(rads), math.Sin(rads)}
}

// Collides reports whether two bodies overlap when treated as circles of radius ra and rb.
// Touching circles collide.
func Collides(a, b Body, ra, rb float64) bool {
	d := a.Position().Sub(b.Position())
	sum := ra + rb
	return d.Dot(d) <= sum*sum
}
