package viz

import (
	"github.com/halcyonlab/starling/internal/engine"
	"github.com/halcyonlab/starling/internal/grid"
)

// DrawField paints one frame onto a canvas: a dotted divider at the
// generator boundary, live cells as single pixels at their centers, agents
// as blocks with a heading tick.
func DrawField(c *Canvas, fr engine.Frame) {
	bx := grid.GeneratorCols * c.Width * 2 / grid.Cols
	for y := 0; y < c.Height*4; y += 3 {
		c.Set(bx, y)
	}

	for _, cell := range fr.Cells {
		c.SetUnit(
			(float64(cell.Col)+0.5)/float64(grid.Cols),
			(float64(cell.Row)+0.5)/float64(grid.Rows),
		)
	}

	for _, a := range fr.Agents {
		px, py := c.pixel(a.X, a.Y)
		c.Set(px, py)
		c.Set(px+1, py)
		c.Set(px, py+1)
		c.Set(px+1, py+1)
		c.UnitLine(a.X, a.Y, a.X+a.VX*6, a.Y+a.VY*6)
	}
}
