package draw

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Neruelin/astroids/internal/physics"
)

// AsteroidVertices is the number of corners in every asteroid outline.
const AsteroidVertices = 10

// asteroidJitter is how far a vertex may sink below the collision radius, as a fraction of it.
const asteroidJitter = 0.3

// ShipShape appends the player triangle to dst and returns it. The tip lies
// size away along rot (in turns); the two rear corners sit at +/- 1/3 turn
// at half that distance.
func ShipShape(dst []mgl64.Vec2, pos mgl64.Vec2, rot, size float64) []mgl64.Vec2 {
	m := mgl64.Rotate2D(physics.Radians(rot))
	rear := size / 2
	return append(dst,
		pos.Add(m.Mul2x1(mgl64.Vec2{size, 0})),
		pos.Add(m.Mul2x1(physics.Heading(1.0/3).Mul(rear))),
		pos.Add(m.Mul2x1(physics.Heading(-1.0/3).Mul(rear))),
	)
}

// AsteroidShape appends an irregular asteroid outline to dst and returns it.
// Vertex depths derive from the pool slot, so an asteroid keeps its outline
// for as long as it lives without the simulation storing one.
func AsteroidShape(dst []mgl64.Vec2, pos mgl64.Vec2, rot, radius float64, slot int) []mgl64.Vec2 {
	m := mgl64.Rotate2D(physics.Radians(rot))
	for i := range AsteroidVertices {
		r := radius * (1 - asteroidJitter*unitHash(uint64(slot), uint64(i)))
		local := physics.Heading(float64(i) / AsteroidVertices).Mul(r)
		dst = append(dst, pos.Add(m.Mul2x1(local)))
	}
	return dst
}

// BulletShape appends a thin quad of the given length, aligned with rot, to dst.
func BulletShape(dst []mgl64.Vec2, pos mgl64.Vec2, rot, length float64) []mgl64.Vec2 {
	m := mgl64.Rotate2D(physics.Radians(rot))
	hl, hw := length/2, length/6
	for _, corner := range [4]mgl64.Vec2{{hl, 0}, {0, hw}, {-hl, 0}, {0, -hw}} {
		dst = append(dst, pos.Add(m.Mul2x1(corner)))
	}
	return dst
}

// unitHash maps (a, b) to a well-mixed value in [0, 1).
func unitHash(a, b uint64) float64 {
	x := a*0x9e3779b97f4a7c15 ^ (b+1)*0xbf58476d1ce4e5b9
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return float64(x>>11) / (1 << 53)
}
