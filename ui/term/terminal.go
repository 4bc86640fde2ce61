// Package term is the terminal frontend, drawn with tcell.
package term

import (
	"context"
	"strings"
	"sync"

	"gridsnake/game"
	"gridsnake/ui/hud"
	"gridsnake/ui/input"

	"github.com/gdamore/tcell/v2"
)

const (
	headRune  = '@'
	bodyRune  = 'o'
	foodRune  = '*'
	emptyRune = ' '

	// Frame row of the first board line, below the score and the border.
	boardTop = 2
)

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHead   = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleBody   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFood   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// Terminal renders snapshots to a tcell screen and turns key presses into
// controller calls.
type Terminal struct {
	screen tcell.Screen

	mu   sync.Mutex
	last game.Snapshot
	seen bool
}

// New takes over the terminal. Call Close to restore it.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return newTerminal(screen), nil
}

func newTerminal(screen tcell.Screen) *Terminal {
	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()
	return &Terminal{screen: screen}
}

// Render draws s. tcell screens are safe for use from the game goroutine.
func (t *Terminal) Render(s game.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = s
	t.seen = true
	t.draw()
}

func (t *Terminal) redraw() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seen {
		t.draw()
	}
}

// draw must be called with mu held.
func (t *Terminal) draw() {
	t.screen.Clear()
	frame := BuildFrame(t.last)
	board := boardRows(t.last)
	for y, line := range frame {
		x := 0
		for _, r := range line {
			t.screen.SetContent(x, y, r, nil, styleFor(r, y, board))
			x++
		}
	}
	t.screen.Show()
}

// boardRows reports which frame rows hold plain board cells. Overlay rows
// are left out so their text keeps the text style.
func boardRows(s game.Snapshot) map[int]bool {
	rows := make(map[int]bool, s.Grid.Height)
	for y := 0; y < s.Grid.Height; y++ {
		rows[y+boardTop] = true
	}
	if _, _, ok := hud.Overlay(s); ok && s.Grid.Height >= 2 {
		mid := s.Grid.Height / 2
		delete(rows, mid-1+boardTop)
		delete(rows, mid+boardTop)
	}
	return rows
}

func styleFor(r rune, row int, boardRows map[int]bool) tcell.Style {
	if row == 0 {
		return styleText
	}
	if r == '+' || r == '-' || r == '|' {
		return styleBorder
	}
	if !boardRows[row] {
		return styleText
	}
	switch r {
	case headRune:
		return styleHead
	case bodyRune:
		return styleBody
	case foodRune:
		return styleFood
	default:
		return styleText
	}
}

// Run reads key events until ctx is done or the player quits. It returns
// nil in both cases.
func (t *Terminal) Run(ctx context.Context, c input.Controller) error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				// Screen finalized.
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if input.Dispatch(c, actionForKey(ev.Key(), ev.Rune())) {
					return nil
				}
			case *tcell.EventResize:
				t.screen.Sync()
				t.redraw()
			}
		}
	}
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}

func actionForKey(key tcell.Key, r rune) input.Action {
	switch key {
	case tcell.KeyUp:
		return input.Up
	case tcell.KeyDown:
		return input.Down
	case tcell.KeyLeft:
		return input.Left
	case tcell.KeyRight:
		return input.Right
	case tcell.KeyEnter:
		return input.Restart
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.Quit
	case tcell.KeyRune:
		return input.ActionForRune(r)
	default:
		return input.None
	}
}

// BuildFrame lays out a snapshot as text: the score line and the bordered
// board, with the state overlay centered on the board.
func BuildFrame(s game.Snapshot) []string {
	w, h := s.Grid.Width, s.Grid.Height
	cells := make([][]rune, h)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(string(emptyRune), w))
	}
	if s.Grid.Contains(s.Food) {
		cells[s.Food.Y][s.Food.X] = foodRune
	}
	// Head last so it wins over a body segment on the same cell.
	for i := len(s.Body) - 1; i >= 0; i-- {
		p := s.Body[i]
		if !s.Grid.Contains(p) {
			continue
		}
		if i == 0 {
			cells[p.Y][p.X] = headRune
		} else {
			cells[p.Y][p.X] = bodyRune
		}
	}

	if title, hint, ok := hud.Overlay(s); ok && h >= 2 {
		mid := h / 2
		writeCentered(cells[mid-1], title)
		writeCentered(cells[mid], hint)
	}

	border := "+" + strings.Repeat("-", w) + "+"
	frame := make([]string, 0, h+3)
	frame = append(frame, hud.ScoreLine(s), border)
	for _, row := range cells {
		frame = append(frame, "|"+string(row)+"|")
	}
	return append(frame, border)
}

func writeCentered(row []rune, text string) {
	r := []rune(text)
	if len(r) > len(row) {
		r = r[:len(row)]
	}
	start := (len(row) - len(r)) / 2
	copy(row[start:], r)
}
