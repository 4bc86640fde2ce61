package hud

import (
	"testing"

	"gridsnake/game"

	"github.com/stretchr/testify/assert"
)

func TestScoreLine(t *testing.T) {
	assert.Equal(t, "Score: 30 | High: 120", ScoreLine(game.Snapshot{Score: 30, HighScore: 120}))
}

func TestOverlay(t *testing.T) {
	tests := []struct {
		state game.State
		title string
		hint  string
		ok    bool
	}{
		{game.Idle, "Snake", "Press Enter to start", true},
		{game.Running, "", "", false},
		{game.Paused, "Paused", "Press Space to resume", true},
		{game.GameOver, "Game Over!", "Press Enter to restart", true},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			title, hint, ok := Overlay(game.Snapshot{State: tt.state})
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.hint, hint)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
