// Package input turns a terminal byte stream into held-key state.
//
// Terminals report key presses but never releases, so a key counts as held
// for a short window after its last byte arrives. Auto-repeat keeps a held
// key inside the window.
package input

import (
	"io"
	"time"

	"github.com/Neruelin/astroids/internal/game"
)

// DefaultHold is how long a key is considered "held" after its last press.
// It must cover the terminal's auto-repeat interval.
const DefaultHold = 120 * time.Millisecond

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	hold    time.Duration
	last    [game.KeyCount]time.Time
	pending []byte // Incomplete escape sequence from the previous poll
	buf     []byte
	closed  bool
	now     func() time.Time
}

// NewStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r returns an error.
func NewStream(r io.Reader, hold time.Duration) *Stream {
	if hold <= 0 {
		hold = DefaultHold
	}
	s := &Stream{
		ch:   make(chan byte, 128),
		hold: hold,
		now:  time.Now,
	}
	go s.read(r)
	return s
}

func (s *Stream) read(r io.Reader) {
	defer close(s.ch)
	b := make([]byte, 64)
	for {
		n, err := r.Read(b)
		for _, c := range b[:n] {
			s.ch <- c
		}
		if err != nil {
			return
		}
	}
}

// Poll drains all available bytes (non-blocking), then writes the keys held
// right now into k. Returns false once the reader has closed and every byte
// has been consumed.
func (s *Stream) Poll(k *game.Keys) bool {
	now := s.now()
	s.buf = append(s.buf[:0], s.pending...)
	s.pending = s.pending[:0]
	fresh := s.drain()

	s.parse(now, fresh)

	k.Clear()
	for code := range s.last {
		if !s.last[code].IsZero() && now.Sub(s.last[code]) < s.hold {
			k.Press(byte(code))
		}
	}
	return !s.closed
}

// Reset forgets every key press seen so far.
func (s *Stream) Reset() {
	s.last = [game.KeyCount]time.Time{}
	s.pending = s.pending[:0]
}

// drain appends every byte available without blocking and reports whether
// any arrived.
func (s *Stream) drain() bool {
	n := len(s.buf)
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break
			}
			s.buf = append(s.buf, b)
		default:
			return len(s.buf) > n
		}
	}
	return len(s.buf) > n
}

// parse records a press for every key in s.buf. A trailing partial escape
// sequence is kept for the next poll unless no new bytes arrived, in which
// case it was a bare Escape.
func (s *Stream) parse(now time.Time, fresh bool) {
	buf := s.buf
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != game.KeyEscape {
			s.press(normalize(b), now)
			continue
		}

		rest := buf[i+1:]
		switch {
		case len(rest) == 0 || (len(rest) == 1 && rest[0] == '['):
			if fresh && !s.closed {
				s.pending = append(s.pending, buf[i:]...)
				return
			}
			s.press(game.KeyEscape, now)
			return
		case rest[0] == '[':
			if code, ok := arrow(rest[1]); ok {
				s.press(code, now)
			}
			i += 2
		default:
			s.press(game.KeyEscape, now)
		}
	}
}

func (s *Stream) press(code byte, now time.Time) {
	if int(code) < len(s.last) {
		s.last[code] = now
	}
}

// arrow maps the final byte of a CSI arrow sequence to the movement key it stands for.
func arrow(b byte) (byte, bool) {
	switch b {
	case 'A':
		return 'w', true
	case 'B':
		return 's', true
	case 'C':
		return 'd', true
	case 'D':
		return 'a', true
	}
	return 0, false
}

func normalize(b byte) byte {
	switch {
	case b >= 'A' && b <= 'Z':
		return b + ('a' - 'A')
	case b == '\n':
		return game.KeyEnter
	case b == 0x03: // Ctrl-C in raw mode
		return game.KeyQuit
	}
	return b
}
