// Package overlay draws detection boxes and labels onto snapshots so the
// user can see what the detector found and where.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/snapbasket/snapbasket/internal/domain"
)

// strokeWidth is the box border thickness in pixels.
const strokeWidth = 3

// palette cycles per detection index so neighboring boxes stay
// distinguishable even for the same class.
var palette = []color.RGBA{
	{0x22, 0xc5, 0x5e, 0xff}, // green
	{0x3b, 0x82, 0xf6, 0xff}, // blue
	{0xf5, 0x9e, 0x0b, 0xff}, // amber
	{0xef, 0x44, 0x44, 0xff}, // red
	{0x8b, 0x5c, 0xf6, 0xff}, // violet
	{0xec, 0x48, 0x99, 0xff}, // pink
}

// Annotate draws each bounding box with a label chip onto a copy of src.
// Box coordinates are center-based as the detector reports them. With no
// boxes the copy comes back untouched.
func Annotate(src image.Image, boxes []domain.BoundingBox) *image.RGBA {
	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	for i, box := range boxes {
		col := palette[i%len(palette)]
		x, y := box.TopLeft()
		rect := clampRect(int(x), int(y), int(box.Width), int(box.Height), bounds)
		strokeRect(canvas, rect, col)
		label := fmt.Sprintf("%s %.0f%%", box.Class, box.Confidence)
		drawChip(canvas, rect, label, col)
	}
	return canvas
}

// WriteAnnotated renders the boxes onto img and saves the result as
// <id>.jpg under dir, returning the saved path.
func WriteAnnotated(dir string, img image.Image, id string, boxes []domain.BoundingBox) (string, error) {
	annotated := Annotate(img, boxes)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("overlay: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, id+".jpg")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("overlay: create %s: %w", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, annotated, &jpeg.Options{Quality: 90}); err != nil {
		return "", fmt.Errorf("overlay: encode %s: %w", path, err)
	}
	return path, nil
}

func clampRect(x, y, w, h int, bounds image.Rectangle) image.Rectangle {
	return image.Rect(x, y, x+w, y+h).Intersect(bounds)
}

// strokeRect draws a hollow rectangle by filling four thin bars.
func strokeRect(canvas *image.RGBA, r image.Rectangle, col color.RGBA) {
	if r.Empty() {
		return
	}
	fill := image.NewUniform(col)
	bars := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+strokeWidth), // top
		image.Rect(r.Min.X, r.Max.Y-strokeWidth, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+strokeWidth, r.Max.Y), // left
		image.Rect(r.Max.X-strokeWidth, r.Min.Y, r.Max.X, r.Max.Y), // right
	}
	for _, bar := range bars {
		draw.Draw(canvas, bar.Intersect(canvas.Bounds()), fill, image.Point{}, draw.Src)
	}
}

// drawChip paints a filled label background above the box (or inside its top
// edge when there is no room above) and renders the text in white.
func drawChip(canvas *image.RGBA, box image.Rectangle, label string, col color.RGBA) {
	if box.Empty() || label == "" {
		return
	}

	face := basicfont.Face7x13
	textW := font.MeasureString(face, label).Ceil()
	chipH := face.Metrics().Height.Ceil() + 4
	chipW := textW + 8

	chip := image.Rect(box.Min.X, box.Min.Y-chipH, box.Min.X+chipW, box.Min.Y)
	if chip.Min.Y < canvas.Bounds().Min.Y {
		chip = chip.Add(image.Pt(0, chipH))
	}
	if chip.Max.X > canvas.Bounds().Max.X {
		chip = chip.Add(image.Pt(canvas.Bounds().Max.X-chip.Max.X, 0))
	}
	chip = chip.Intersect(canvas.Bounds())
	draw.Draw(canvas, chip, image.NewUniform(col), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(chip.Min.X + 4),
			Y: fixed.I(chip.Max.Y - 3),
		},
	}
	d.DrawString(label)
}
