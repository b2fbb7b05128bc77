package game

// Edge identifies a side of the play field.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Spawn velocity ranges in pixels/sec. Each range is [min, min+span).
const (
	driftMin  = -30 // Tangential drift along the edge
	driftSpan = 60

	fallMin  = 20 // Downward speed of the top-edge stream
	fallSpan = 30

	inwardMin  = 15 // Speed away from the spawning edge
	inwardSpan = 15

	edgeInset = 2 // Distance inside the edge a new asteroid appears
)

// spawnWave tops up the asteroid field. Each attempt adds one asteroid falling
// from the top edge and one entering from a random edge, until SpawnBatch
// attempts have run or SpawnCap asteroids are active. Pool-full failures are dropped.
func (g *Game) spawnWave() {
	w := int(g.cfg.Width)
	for i := 0; i < g.cfg.SpawnBatch && g.activeAsteroids < g.cfg.SpawnCap; i++ {
		g.SpawnAsteroid(
			float64(g.rng.IntN(w)), 1, 1,
			float64(driftMin+g.rng.IntN(driftSpan)),
			float64(fallMin+g.rng.IntN(fallSpan)),
			1, g.randomTier(),
		)
		g.spawnAtEdge(Edge(g.rng.IntN(4)))
	}
}

// spawnAtEdge places an asteroid just inside the given edge, heading into the field.
func (g *Game) spawnAtEdge(edge Edge) {
	w := int(g.cfg.Width)
	h := int(g.cfg.Height)

	var x, y, dx, dy int
	switch edge {
	case EdgeTop:
		x = g.rng.IntN(w)
		y = edgeInset
		dx = driftMin + g.rng.IntN(driftSpan)
		dy = inwardMin + g.rng.IntN(inwardSpan)
	case EdgeRight:
		x = w - edgeInset
		y = edgeInset + g.rng.IntN(h-edgeInset)
		dx = -inwardMin - g.rng.IntN(inwardSpan)
		dy = driftMin + g.rng.IntN(driftSpan)
	case EdgeBottom:
		x = g.rng.IntN(w)
		y = h - edgeInset
		dx = driftMin + g.rng.IntN(driftSpan)
		dy = -inwardMin - g.rng.IntN(inwardSpan)
	default: // EdgeLeft
		x = edgeInset
		y = edgeInset + g.rng.IntN(h-edgeInset)
		dx = inwardMin + g.rng.IntN(inwardSpan)
		dy = driftMin + g.rng.IntN(driftSpan)
	}

	g.SpawnAsteroid(float64(x), float64(y), 1, float64(dx), float64(dy), 1, g.randomTier())
}

func (g *Game) randomTier() int {
	return 1 + g.rng.IntN(g.cfg.MaxTier)
}
