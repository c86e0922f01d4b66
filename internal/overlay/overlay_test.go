package overlay

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/snapbasket/snapbasket/internal/domain"
)

func gray(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img
}

func TestTopLeftConversion(t *testing.T) {
	box := domain.BoundingBox{X: 100, Y: 100, Width: 40, Height: 20}
	x, y := box.TopLeft()
	if x != 80 || y != 90 {
		t.Fatalf("TopLeft() = (%v, %v), want (80, 90)", x, y)
	}
}

func TestAnnotateDrawsBorder(t *testing.T) {
	src := gray(200, 200)
	boxes := []domain.BoundingBox{
		{X: 100, Y: 100, Width: 40, Height: 20, Class: "tomato", Confidence: 92.4},
	}
	out := Annotate(src, boxes)

	// First palette color lands on the top-left stroke pixel at (80, 90).
	want := color.RGBA{0x22, 0xc5, 0x5e, 0xff}
	if got := out.RGBAAt(80, 90); got != want {
		t.Errorf("stroke pixel = %v, want %v", got, want)
	}
	// A pixel well inside the box keeps the original image.
	if got := out.RGBAAt(100, 100); got != (color.RGBA{0x80, 0x80, 0x80, 0x80}) {
		t.Errorf("interior pixel = %v, want untouched gray", got)
	}
}

func TestAnnotateNoBoxesLeavesImage(t *testing.T) {
	src := gray(50, 50)
	out := Annotate(src, nil)
	for i := range out.Pix {
		if out.Pix[i] != src.Pix[i] {
			t.Fatal("annotation without boxes altered the image")
		}
	}
}

func TestAnnotateClampsOutOfBounds(t *testing.T) {
	src := gray(100, 100)
	boxes := []domain.BoundingBox{
		{X: 0, Y: 0, Width: 400, Height: 400, Class: "watermelon", Confidence: 51.0},
	}
	// Must not panic on boxes that extend past the canvas.
	out := Annotate(src, boxes)
	if out.Bounds() != src.Bounds() {
		t.Errorf("bounds changed: %v", out.Bounds())
	}
}

func TestPaletteCycles(t *testing.T) {
	src := gray(400, 400)
	var boxes []domain.BoundingBox
	for i := 0; i < len(palette)+1; i++ {
		boxes = append(boxes, domain.BoundingBox{
			X: 50 + float64(i)*50, Y: 200, Width: 30, Height: 30,
			Class: "egg", Confidence: 80.2,
		})
	}
	out := Annotate(src, boxes)

	// Box len(palette) wraps back to the first color.
	x, y := boxes[len(palette)].TopLeft()
	if got := out.RGBAAt(int(x), int(y)); got != palette[0] {
		t.Errorf("wrapped palette pixel = %v, want %v", got, palette[0])
	}
}

func TestWriteAnnotated(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteAnnotated(dir, gray(64, 64), "snap-1", nil)
	if err != nil {
		t.Fatalf("WriteAnnotated: %v", err)
	}
	if filepath.Base(path) != "snap-1.jpg" {
		t.Errorf("path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("stat: %v", err)
	}
}
