package icon

import (
	"image"
	"image/color"
)

var (
	accent   = color.RGBA{R: 0x00, G: 0xA4, B: 0xDC, A: 0xFF}
	screenBG = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xFF}
	frame    = color.RGBA{R: 0x2A, G: 0x2A, B: 0x33, A: 0xFF}
	barBG    = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xA0}
	track    = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x60}
	white    = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Generate returns 64x64 and 32x32 icon images for use with ebiten.SetWindowIcon.
func Generate() []image.Image {
	return []image.Image{
		generate(64),
		generate(32),
	}
}

// generate draws a screen with a play glyph above a control bar.
func generate(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)

	fillRoundedRect(img, 0, s*0.08, s, s*0.84, s*0.10, frame)
	fillRoundedRect(img, s*0.06, s*0.14, s*0.88, s*0.72, s*0.06, screenBG)

	drawPlay(img, s)
	drawBar(img, s)

	return img
}

func drawPlay(img *image.RGBA, s float64) {
	fillCircle(img, s*0.5, s*0.42, s*0.17, accent)
	fillTriangle(img, s*0.45, s*0.33, s*0.45, s*0.51, s*0.59, s*0.42, white)
}

// drawBar draws the bar strip with a progress track, its fill and the
// scrubber.
func drawBar(img *image.RGBA, s float64) {
	fillRoundedRect(img, s*0.06, s*0.68, s*0.88, s*0.18, s*0.04, barBG)
	y := s * 0.76
	h := max(s*0.04, 1)
	fillRoundedRect(img, s*0.14, y, s*0.72, h, h/2, track)
	fillRoundedRect(img, s*0.14, y, s*0.40, h, h/2, accent)
	fillCircle(img, s*0.54, y+h/2, max(s*0.05, 1.5), white)
}

// fillTriangle fills the triangle (x0,y0) (x1,y1) (x2,y2) using edge
// functions.
func fillTriangle(img *image.RGBA, x0, y0, x1, y1, x2, y2 float64, c color.Color) {
	bounds := img.Bounds()
	minX := int(min(x0, x1, x2))
	maxX := int(max(x0, x1, x2)) + 1
	minY := int(min(y0, y1, y2))
	maxY := int(max(y0, y1, y2)) + 1

	edge := func(ax, ay, bx, by, px, py float64) float64 {
		return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
	}
	for y := max(minY, 0); y <= maxY && y < bounds.Max.Y; y++ {
		for x := max(minX, 0); x <= maxX && x < bounds.Max.X; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			e0 := edge(x0, y0, x1, y1, px, py)
			e1 := edge(x1, y1, x2, y2, px, py)
			e2 := edge(x2, y2, x0, y0, px, py)
			if (e0 >= 0 && e1 >= 0 && e2 >= 0) || (e0 <= 0 && e1 <= 0 && e2 <= 0) {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillRoundedRect(img *image.RGBA, xf, yf, wf, hf, rf float64, c color.Color) {
	x0 := int(xf)
	y0 := int(yf)
	x1 := int(xf + wf)
	y1 := int(yf + hf)
	r := rf
	bounds := img.Bounds()

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			// Check if inside rounded rect
			fx := float64(x)
			fy := float64(y)
			inside := true

			// Check corners
			if fx < xf+r && fy < yf+r {
				// Top-left corner
				dx := xf + r - fx
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy < yf+r {
				// Top-right corner
				dx := fx - (xf + wf - r)
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx < xf+r && fy > yf+hf-r {
				// Bottom-left corner
				dx := xf + r - fx
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy > yf+hf-r {
				// Bottom-right corner
				dx := fx - (xf + wf - r)
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			}

			if inside {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, c color.Color) {
	bounds := img.Bounds()
	x0 := int(cx - r)
	y0 := int(cy - r)
	x1 := int(cx + r + 1)
	y1 := int(cy + r + 1)
	r2 := r * r

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

// blendPixel alpha-blends color c onto the existing pixel at (x, y).
func blendPixel(img *image.RGBA, x, y int, c color.Color) {
	r0, g0, b0, a0 := c.RGBA()
	if a0 == 0 {
		return
	}
	if a0 == 0xFFFF {
		img.Set(x, y, c)
		return
	}

	// Existing pixel
	existing := img.RGBAAt(x, y)
	er := uint32(existing.R) * 257
	eg := uint32(existing.G) * 257
	eb := uint32(existing.B) * 257

	// Alpha blend
	alpha := a0
	invAlpha := 0xFFFF - alpha
	nr := (r0*alpha + er*invAlpha) / 0xFFFF
	ng := (g0*alpha + eg*invAlpha) / 0xFFFF
	nb := (b0*alpha + eb*invAlpha) / 0xFFFF

	img.SetRGBA(x, y, color.RGBA{
		R: uint8(nr >> 8),
		G: uint8(ng >> 8),
		B: uint8(nb >> 8),
		A: 0xFF,
	})
}
