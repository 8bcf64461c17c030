package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/disintegration/imaging"

	"circlepack/circlepack"
	"circlepack/geom"
)

const (
	renderMargin = 20
	renderScale  = 8.0 // pixels per layout unit
)

var (
	circleColor = color.NRGBA{40, 40, 40, 255}
	rectColor   = color.NRGBA{30, 120, 200, 255}
	bgColor     = color.NRGBA{250, 250, 250, 255}
)

// renderLayout rasterizes the solved circle and every rectangle outline to
// a PNG at path, the way the teacher's image.go rasterizes a sprite atlas
// with the same imaging library.
func renderLayout(path string, instance circlepack.Instance, result circlepack.Result) error {
	r := result.Radius
	if r <= 0 {
		r = 1
	}
	size := int(2*r*renderScale) + 2*renderMargin
	if size < 1 {
		size = 1
	}

	img := imaging.New(size, size, bgColor)
	center := image.Pt(size/2, size/2)

	drawCircle(img, center, int(r*renderScale), circleColor)

	for i, pose := range result.Poses {
		if i >= len(instance.Rects) {
			break
		}
		drawRectOutline(img, center, pose, instance.Rects[i], rectColor)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		return fmt.Errorf("render: encode %s: %w", path, err)
	}
	return nil
}

func drawCircle(img *image.NRGBA, center image.Point, radiusPx int, c color.Color) {
	const steps = 2000
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / steps
		x := center.X + int(float64(radiusPx)*math.Cos(theta))
		y := center.Y + int(float64(radiusPx)*math.Sin(theta))
		setPixel(img, x, y, c)
	}
}

func drawRectOutline(img *image.NRGBA, center image.Point, pose circlepack.Pose, rect geom.Rect, c color.Color) {
	corners := geom.Corners(pose.CX, pose.CY, pose.Theta, rect)
	toPx := func(p geom.Point) image.Point {
		return image.Pt(center.X+int(p.X*renderScale), center.Y+int(p.Y*renderScale))
	}
	for i := 0; i < 4; i++ {
		drawLine(img, toPx(corners[i]), toPx(corners[(i+1)%4]), c)
	}
}

// drawLine plots a line between a and b by sampling max(|dx|, |dy|)+1
// evenly spaced points along it.
func drawLine(img *image.NRGBA, a, b image.Point, c color.Color) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Max(math.Abs(float64(dx)), math.Abs(float64(dy))))
	if steps == 0 {
		setPixel(img, a.X, a.Y, c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := a.X + int(float64(dx)*t)
		y := a.Y + int(float64(dy)*t)
		setPixel(img, x, y, c)
	}
}

func setPixel(img *image.NRGBA, x, y int, c color.Color) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	img.Set(x, y, c)
}
