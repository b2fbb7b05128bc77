package game

// EntityView is the render-facing state of one active entity.
type EntityView struct {
	Slot int     `json:"slot"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Rot  float64 `json:"rot"` // Turns
	Tier int     `json:"tier,omitempty"`
}

// Snapshot is a read-only copy of everything a renderer needs for one frame.
// It shares no memory with the Game it was taken from.
type Snapshot struct {
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Frame     uint64       `json:"frame"`
	Time      float64      `json:"time"`
	Score     int          `json:"score"`
	Hits      int          `json:"hits"`
	Ended     bool         `json:"ended"`
	Player    EntityView   `json:"player"`
	Asteroids []EntityView `json:"asteroids"`
	Bullets   []EntityView `json:"bullets"`
}

// Snapshot returns a fresh copy of the game's visible state.
func (g *Game) Snapshot() Snapshot {
	var s Snapshot
	g.SnapshotInto(&s)
	return s
}

// SnapshotInto fills dst with the game's visible state, reusing dst's slices.
func (g *Game) SnapshotInto(dst *Snapshot) {
	dst.Width = g.cfg.Width
	dst.Height = g.cfg.Height
	dst.Frame = g.frame
	dst.Time = g.now
	dst.Score = g.score
	dst.Hits = g.hits
	dst.Ended = g.state == Ended
	dst.Player = EntityView{X: g.player.X, Y: g.player.Y, Rot: g.player.Rot}

	dst.Asteroids = dst.Asteroids[:0]
	for h, a := range g.asteroids.All() {
		dst.Asteroids = append(dst.Asteroids, EntityView{
			Slot: h.Index(),
			X:    a.X,
			Y:    a.Y,
			Rot:  a.Rot,
			Tier: a.Tier,
		})
	}

	dst.Bullets = dst.Bullets[:0]
	for h, b := range g.bullets.All() {
		dst.Bullets = append(dst.Bullets, EntityView{
			Slot: h.Index(),
			X:    b.X,
			Y:    b.Y,
			Rot:  b.Rot,
		})
	}
}
