package entity

import (
	"gridsnake/game/types"
)

// Snake is the player's body, head first, and its heading.
// Direction is applied on the current move; NextDirection is the buffered
// heading that the next Move commits.
type Snake struct {
	Body          []types.Point
	Direction     types.Direction
	NextDirection types.Direction
}

// NewSnake builds a snake whose head sits at head with the rest of the body
// trailing behind it, opposite to dir.
func NewSnake(head types.Point, length int, dir types.Direction) *Snake {
	if length < 1 {
		length = 1
	}
	back := dir.Opposite().ToPoint()
	body := make([]types.Point, length)
	body[0] = head
	for i := 1; i < length; i++ {
		body[i] = body[i-1].Add(back)
	}
	return &Snake{
		Body:          body,
		Direction:     dir,
		NextDirection: dir,
	}
}

// NewStartingSnake places the fresh snake at the grid center heading right.
// On a 20×20 grid this is [(10,10),(9,10),(8,10)].
func NewStartingSnake(grid types.Grid) *Snake {
	head := types.Point{X: grid.Width / 2, Y: grid.Height / 2}
	return NewSnake(head, types.InitialSnakeLength, types.Right)
}

func (s *Snake) GetHead() types.Point {
	return s.Body[0]
}

func (s *Snake) GetTail() types.Point {
	return s.Body[len(s.Body)-1]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// SetDirection buffers dir for the next move. Requests that would reverse the
// committed Direction are ignored, so several inputs between two ticks are all
// checked against the same heading and the last accepted one wins.
func (s *Snake) SetDirection(dir types.Direction) bool {
	if !dir.Valid() || dir == s.Direction.Opposite() {
		return false
	}
	s.NextDirection = dir
	return true
}

// Move commits NextDirection and advances one cell: a new head is prepended
// and the tail is dropped. Bounds are not checked here.
func (s *Snake) Move() {
	s.Direction = s.NextDirection
	newHead := s.GetHead().Add(s.Direction.ToPoint())

	body := make([]types.Point, len(s.Body))
	body[0] = newHead
	copy(body[1:], s.Body[:len(s.Body)-1])
	s.Body = body
}

// Grow duplicates the tail cell. The duplicate keeps the tail in place for one
// move, which is how the snake gains a segment.
func (s *Snake) Grow() {
	s.Body = append(s.Body, s.GetTail())
}

// Collision classifies the current head position.
func (s *Snake) Collision(grid types.Grid) types.CollisionType {
	head := s.GetHead()
	if !grid.Contains(head) {
		return types.WallCollision
	}
	for _, part := range s.Body[1:] {
		if part == head {
			return types.SelfCollision
		}
	}
	return types.NoCollision
}

// CheckCollision reports whether the head left the grid or hit the body.
func (s *Snake) CheckCollision(grid types.Grid) bool {
	return s.Collision(grid) != types.NoCollision
}

// Occupies reports whether any segment covers p.
func (s *Snake) Occupies(p types.Point) bool {
	for _, part := range s.Body {
		if part == p {
			return true
		}
	}
	return false
}

// Segments returns a copy of the body.
func (s *Snake) Segments() []types.Point {
	body := make([]types.Point, len(s.Body))
	copy(body, s.Body)
	return body
}
