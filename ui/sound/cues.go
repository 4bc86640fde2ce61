// Package sound plays short tones on game events.
package sound

import (
	"sync"
	"time"

	"gridsnake/game"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	eatFreq      = 880.0
	eatLength    = 60 * time.Millisecond
	gameOverFreq = 196.0
	gameOverLen  = 400 * time.Millisecond
)

// Player plays one tone.
type Player interface {
	Tone(freq float64, d time.Duration)
}

// Speaker plays tones on the default audio device.
type Speaker struct {
	volume float64
}

// NewSpeaker opens the audio device. Callers should treat an error as
// "no sound" rather than a fatal condition.
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Speaker{volume: -2}, nil
}

func (s *Speaker) Tone(freq float64, d time.Duration) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(&effects.Volume{
		Streamer: beep.Take(sampleRate.N(d), sine),
		Base:     2,
		Volume:   s.volume,
	})
}

func (s *Speaker) Close() {
	speaker.Close()
}

// Cues wraps a renderer and plays a tone when the score goes up or the
// game ends. Snapshots are passed through unchanged.
type Cues struct {
	next   game.Renderer
	player Player

	mu      sync.Mutex
	session string
	score   int
	state   game.State
}

func NewCues(next game.Renderer, p Player) *Cues {
	return &Cues{next: next, player: p}
}

func (c *Cues) Render(s game.Snapshot) {
	c.mu.Lock()
	sameSession := s.SessionID == c.session
	scored := sameSession && s.Score > c.score
	ended := s.State == game.GameOver && (!sameSession || c.state != game.GameOver)
	c.session, c.score, c.state = s.SessionID, s.Score, s.State
	c.mu.Unlock()

	if scored {
		c.player.Tone(eatFreq, eatLength)
	}
	if ended {
		c.player.Tone(gameOverFreq, gameOverLen)
	}
	c.next.Render(s)
}
