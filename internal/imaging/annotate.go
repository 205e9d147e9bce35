package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Outline is a labelled quadrilateral to draw over an image.
type Outline struct {
	Label   string
	Corners [4]Point
}

// Colours used by Annotate. The first corner gets its own colour so the
// marker orientation is visible.
var (
	OutlineColor     = mustHex("#00e040")
	FirstCornerColor = mustHex("#ff2020")
	LabelColor       = mustHex("#ffffff")
	LabelBackground  = color.RGBA{0, 0, 0, 180}
)

const crossSize = 4

// Annotate returns a copy of img with every outline drawn on it: the four
// edges, a cross at each corner and the label next to the first corner.
func Annotate(img image.Image, outlines []Outline) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	for _, o := range outlines {
		for i := range o.Corners {
			drawLine(result, o.Corners[i], o.Corners[(i+1)%len(o.Corners)], OutlineColor)
		}
		for i, c := range o.Corners {
			cross := OutlineColor
			if i == 0 {
				cross = FirstCornerColor
			}
			drawCross(result, c, cross)
		}
		if o.Label != "" {
			x := int(math.Round(o.Corners[0].X)) + crossSize + 2
			y := int(math.Round(o.Corners[0].Y)) + crossSize + 2
			drawLabel(result, x, y, o.Label, LabelColor, LabelBackground)
		}
	}
	return result
}

// SaveAnnotated draws the outlines over img and writes the result; the
// format follows the file extension.
func SaveAnnotated(img image.Image, outlines []Outline, path string) error {
	if err := imaging.Save(Annotate(img, outlines), path); err != nil {
		return fmt.Errorf("failed to save annotated image: %w", err)
	}
	return nil
}

// drawLine plots a one pixel line with Bresenham's algorithm.
func drawLine(img *image.RGBA, a, b Point, c color.Color) {
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))

	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	bounds := img.Bounds()
	e := dx + dy
	for {
		if image.Pt(x0, y0).In(bounds) {
			img.Set(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func drawCross(img *image.RGBA, p Point, c color.Color) {
	drawLine(img, Point{p.X - crossSize, p.Y}, Point{p.X + crossSize, p.Y}, c)
	drawLine(img, Point{p.X, p.Y - crossSize}, Point{p.X, p.Y + crossSize}, c)
}

// drawLabel draws text in a 3x5 pixel font. Only digits and a minus sign
// have glyphs; other runes leave a gap.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.Color) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		'-': {"000", "000", "111", "000", "000"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if p := image.Pt(x+dx, y+dy); p.In(bounds) {
				img.Set(p.X, p.Y, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if p := image.Pt(cx+col, y+row); pixel == '1' && p.In(bounds) {
					img.Set(p.X, p.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}

func mustHex(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
