// Package tui holds the plain-ANSI watch renderer used by headless runs.
// Unlike the full bubbletea view in viz, it just repaints a character
// field in place, which keeps it usable inside logs-over-ssh sessions.
package tui

import (
	"fmt"
	"strings"

	"github.com/halcyonlab/starling/internal/engine"
	"github.com/halcyonlab/starling/internal/grid"
)

const (
	width       = 72
	height      = 18
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Watcher prints every nth engine frame as an ASCII field. It implements
// [engine.Observer].
type Watcher struct {
	every  int
	canvas [][]rune
}

// NewWatcher renders one frame out of every `every`. Values below one
// render every frame.
func NewWatcher(every int) *Watcher {
	if every < 1 {
		every = 1
	}
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &Watcher{every: every, canvas: canvas}
}

func (w *Watcher) Start() { fmt.Print(hideCursor) }
func (w *Watcher) Stop()  { fmt.Print(showCursor) }

func (w *Watcher) OnFrame(fr engine.Frame) {
	if fr.Tick%uint64(w.every) != 0 {
		return
	}

	w.clear()

	// Generator boundary divider.
	bx := grid.GeneratorCols * width / grid.Cols
	for y := 0; y < height; y++ {
		w.set(bx, y, '|')
	}

	for _, c := range fr.Cells {
		x := c.Col * width / grid.Cols
		y := c.Row * height / grid.Rows
		w.set(x, y, '.')
	}

	for _, a := range fr.Agents {
		x := int(a.X * width)
		y := int(a.Y * height)
		w.set(x, y, '@')
	}

	w.render(fr)
}

func (w *Watcher) clear() {
	for y := range w.canvas {
		for x := range w.canvas[y] {
			w.canvas[y][x] = ' '
		}
	}
}

func (w *Watcher) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		w.canvas[y][x] = c
	}
}

func (w *Watcher) render(fr engine.Frame) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  starling  tick=%d\n", fr.Tick))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range w.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(fmt.Sprintf("  agents=%d cells=%d targets=%d\n", len(fr.Agents), len(fr.Cells), len(fr.Bus)))

	fmt.Print(b.String())
}
