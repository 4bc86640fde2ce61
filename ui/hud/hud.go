// Package hud builds the text shown around the board.
package hud

import (
	"fmt"

	"gridsnake/game"
)

func ScoreLine(s game.Snapshot) string {
	return fmt.Sprintf("Score: %d | High: %d", s.Score, s.HighScore)
}

// Overlay returns the centered message for the current state. ok is false
// while the game is running and nothing should cover the board.
func Overlay(s game.Snapshot) (title, hint string, ok bool) {
	switch s.State {
	case game.Idle:
		return "Snake", "Press Enter to start", true
	case game.Paused:
		return "Paused", "Press Space to resume", true
	case game.GameOver:
		return "Game Over!", "Press Enter to restart", true
	default:
		return "", "", false
	}
}
