package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// Box A rectangle outline to draw on an annotation preview.
type Box struct {
	X, Y, W, H float64
	Color      color.RGBA
}

// Polygon A closed polygon outline, given as vertex coordinates.
type Polygon struct {
	Points []float64 // flat [x1, y1, x2, y2, ...]
	Color  color.RGBA
}

// ParseHexColor Parse a "#rrggbb" label color. Anything unparseable falls
// back to opaque red so a preview never fails on a bad color string.
func ParseHexColor(s string) color.RGBA {
	c := color.RGBA{R: 0xff, A: 0xff}
	if len(s) == 7 && s[0] == '#' {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err == nil {
			c = color.RGBA{R: r, G: g, B: b, A: 0xff}
		}
	}
	return c
}

// RenderAnnotations Rasterize geometry annotations onto a white canvas of
// the example's dimensions.
func RenderAnnotations(width, height int, boxes []Box, polygons []Polygon) image.Image {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, xdraw.Src)

	for _, box := range boxes {
		x0, y0 := int(box.X), int(box.Y)
		x1, y1 := int(box.X+box.W), int(box.Y+box.H)
		drawLine(canvas, x0, y0, x1, y0, box.Color)
		drawLine(canvas, x1, y0, x1, y1, box.Color)
		drawLine(canvas, x1, y1, x0, y1, box.Color)
		drawLine(canvas, x0, y1, x0, y0, box.Color)
	}
	for _, polygon := range polygons {
		points := polygon.Points
		if len(points) < 6 || len(points)%2 != 0 {
			continue
		}
		for i := 0; i < len(points); i += 2 {
			j := (i + 2) % len(points)
			drawLine(canvas,
				int(points[i]), int(points[i+1]),
				int(points[j]), int(points[j+1]),
				polygon.Color)
		}
	}
	return canvas
}

// drawLine Bresenham line between two points, clipped by Set.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ResizeImage Scale an image to the given width, keeping the aspect ratio.
func ResizeImage(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if width <= 0 || width >= bounds.Dx() {
		return img
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)
	return scaled
}

// ImageToJpgBuffer Convert an image to a jpg buffer to write to output
func ImageToJpgBuffer(img image.Image, options *jpeg.Options) (*[]byte, error) {
	buf := new(bytes.Buffer)

	err := jpeg.Encode(buf, img, options)
	if err != nil {
		return nil, errors.New("jpeg encode error")
	}
	Buffer := buf.Bytes()
	return &Buffer, nil
}

// ImageToPngBuffer Convert an image to a png buffer to write to output
func ImageToPngBuffer(img image.Image) (*[]byte, error) {
	buf := new(bytes.Buffer)

	err := png.Encode(buf, img)
	if err != nil {
		return nil, errors.New("png encode error")
	}
	Buffer := buf.Bytes()
	return &Buffer, nil
}
