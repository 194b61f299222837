package viz

import "strings"

// Braille cells pack 2x4 dots per terminal character, so a WxH canvas
// exposes a (W*2)x(H*4) pixel field. Unicode offset 0x2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille pixel buffer. The flock lives on the unit square;
// SetUnit and UnitLine take unit coordinates with y growing downward,
// matching the grid's row direction.
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		cells:  make([][]rune, h),
	}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
		for j := range c.cells[i] {
			c.cells[i][j] = 0x2800
		}
	}
	return c
}

// Set turns on the pixel at (x, y) in pixel coordinates. Out-of-range
// pixels are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] |= rune(pixelMap[y%4][x%2])
}

// On reports whether the pixel at (x, y) is lit.
func (c *Canvas) On(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.cells[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

// SetUnit turns on the pixel nearest to a unit-square position.
func (c *Canvas) SetUnit(x, y float64) {
	px, py := c.pixel(x, y)
	c.Set(px, py)
}

// UnitLine draws a line between two unit-square positions.
func (c *Canvas) UnitLine(x0, y0, x1, y1 float64) {
	ax, ay := c.pixel(x0, y0)
	bx, by := c.pixel(x1, y1)
	c.DrawLine(ax, ay, bx, by)
}

func (c *Canvas) pixel(x, y float64) (int, int) {
	return int(x * float64(c.Width*2)), int(y * float64(c.Height*4))
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = 0x2800
		}
	}
}

// DrawLine draws a pixel line with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
