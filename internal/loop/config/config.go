// Package config centralizes the front-end tunables. Gameplay constants live
// in game.Config and are the same for every front end.
package config

import "time"

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Terminal rendering. Larger terminals draw the field at most this size.
const (
	MaxTermWidth  = 240
	MaxTermHeight = 80
	MinTermWidth  = 20
	MinTermHeight = 10
)

// KeyHold is how long a terminal key counts as held after its last byte.
const KeyHold = 120 * time.Millisecond

// Shutdown
const (
	ShutdownDisplay = 10 * time.Second // Countdown shown before a session is closed
	ShutdownTimeout = 15 * time.Second // Upper bound on waiting for sessions to leave
)

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)

// Sessions
const (
	MaxSessions = 64
)

// Web transport
const (
	WriteWait      = time.Second      // Deadline for one websocket write
	PongWait       = 60 * time.Second // Peer must answer pings within this
	PingPeriod     = PongWait * 9 / 10
	MaxMessageSize = 512 // Largest accepted client message in bytes
)
