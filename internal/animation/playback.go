package animation

import (
	"fmt"
	"strings"
)

// Mode is how playback continues after the last frame.
type Mode string

const (
	Loop    Mode = "loop"
	Bounce  Mode = "bounce"
	Once    Mode = "once"
	Reverse Mode = "reverse"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Loop:
		return Loop, nil
	case Bounce, "pingpong", "ping-pong":
		return Bounce, nil
	case Once:
		return Once, nil
	case Reverse:
		return Reverse, nil
	}
	return "", fmt.Errorf("unknown playback mode %q", s)
}

// Player steps through frame indices the way the preview animates them.
type Player struct {
	mode      Mode
	count     int
	index     int
	direction int
	done      bool
}

func NewPlayer(mode Mode, count int) *Player {
	p := &Player{mode: mode, count: count, direction: 1}
	if mode == Reverse && count > 0 {
		p.index = count - 1
	}
	return p
}

func (p *Player) Index() int { return p.index }

// Done reports whether a Once player has reached its last frame.
func (p *Player) Done() bool { return p.done }

// Next advances and returns the new frame index.
func (p *Player) Next() int {
	if p.count <= 1 || p.done {
		return p.index
	}
	switch p.mode {
	case Bounce:
		next := p.index + p.direction
		if next >= p.count || next < 0 {
			p.direction = -p.direction
			next = p.index + p.direction
		}
		p.index = next
	case Once:
		if p.index < p.count-1 {
			p.index++
		}
		if p.index == p.count-1 {
			p.done = true
		}
	case Reverse:
		p.index = (p.index - 1 + p.count) % p.count
	default:
		p.index = (p.index + 1) % p.count
	}
	return p.index
}

// Cycle returns the frame order of one full pass for export: bounce goes
// there and back without repeating the end frames.
func Cycle(mode Mode, count int) []int {
	if count <= 0 {
		return nil
	}
	order := make([]int, 0, 2*count)
	switch mode {
	case Reverse:
		for i := count - 1; i >= 0; i-- {
			order = append(order, i)
		}
	case Bounce:
		for i := 0; i < count; i++ {
			order = append(order, i)
		}
		for i := count - 2; i > 0; i-- {
			order = append(order, i)
		}
	default:
		for i := 0; i < count; i++ {
			order = append(order, i)
		}
	}
	return order
}
