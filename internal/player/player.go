// Package player keeps the playback position of the loaded video.
package player

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Player is a playback clock standing in for a video element.
type Player struct {
	source   string
	path     string
	duration float64
	current  float64
	playing  bool
}

// New returns an empty player.
func New() *Player {
	return &Player{}
}

// Load sets the media source. duration bounds the clock; zero means unbounded.
func (p *Player) Load(source, path string, duration float64) {
	p.source = source
	p.path = path
	p.duration = duration
	p.current = 0
	p.playing = false
}

// Clear unloads the source.
func (p *Player) Clear() {
	p.Load("", "", 0)
}

// Source returns the loaded media URL.
func (p *Player) Source() string { return p.source }

// Loaded reports whether a source is set.
func (p *Player) Loaded() bool { return p.source != "" }

// CurrentTime returns the playback position in seconds.
func (p *Player) CurrentTime() float64 { return p.current }

// Duration returns the clock bound in seconds.
func (p *Player) Duration() float64 { return p.duration }

// Playing reports whether the clock is advancing.
func (p *Player) Playing() bool { return p.playing }

// Seek moves the playback position, clamped to the loaded duration.
func (p *Player) Seek(t float64) {
	if !p.Loaded() {
		return
	}
	if t < 0 {
		t = 0
	}
	if p.duration > 0 && t > p.duration {
		t = p.duration
	}
	p.current = t
}

// Play starts the clock. Playing from the end restarts at zero.
func (p *Player) Play() {
	if !p.Loaded() {
		return
	}
	if p.duration > 0 && p.current >= p.duration {
		p.current = 0
	}
	p.playing = true
}

// Pause stops the clock.
func (p *Player) Pause() {
	p.playing = false
}

// Toggle flips between playing and paused.
func (p *Player) Toggle() {
	if p.playing {
		p.Pause()
	} else {
		p.Play()
	}
}

// Advance moves the clock forward by dt while playing and reports whether
// the position changed.
func (p *Player) Advance(dt time.Duration) bool {
	if !p.playing || dt <= 0 {
		return false
	}
	p.current += dt.Seconds()
	if p.duration > 0 && p.current >= p.duration {
		p.current = p.duration
		p.playing = false
	}
	return true
}

// ExternalCommand builds the command that opens the video in an external
// player at the current position. command may include arguments.
func (p *Player) ExternalCommand(command string) (*exec.Cmd, error) {
	if p.path == "" {
		return nil, fmt.Errorf("no video loaded")
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no player configured")
	}

	args := append([]string{}, fields[1:]...)
	if start := startFlag(fields[0], p.current); start != "" {
		args = append(args, start)
	}
	args = append(args, p.path)
	return exec.Command(fields[0], args...), nil
}

func startFlag(bin string, seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	name := bin
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	switch strings.TrimSuffix(name, ".exe") {
	case "mpv":
		return fmt.Sprintf("--start=%.2f", seconds)
	case "vlc", "cvlc":
		return fmt.Sprintf("--start-time=%.2f", seconds)
	default:
		return ""
	}
}
