package mandel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// PixelSize is the number of bytes one Pixel occupies in raw buffers.
const PixelSize = 3

// Pixel is an 8-bit RGB color.
type Pixel struct {
	R, G, B uint8
}

// Black is returned for reads outside of an image.
var Black = Pixel{}

// Color converts the pixel to an opaque color.RGBA.
func (p Pixel) Color() color.RGBA {
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 255}
}

func (p Pixel) String() string {
	return fmt.Sprintf("#%02x%02x%02x", p.R, p.G, p.B)
}

// ErrImageSize is returned when an image cannot be allocated.
var ErrImageSize = errors.New("invalid image size")

// Image is a row-major width×height grid of pixels.
type Image struct {
	Width, Height int
	Pix           []Pixel
}

// NewImage allocates a zero (black) filled image.
func NewImage(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageSize, width, height)
	}
	if width > math.MaxInt32/height {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrImageSize, width, height)
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}, nil
}

// Size returns width and height.
func (img *Image) Size() (int, int) {
	return img.Width, img.Height
}

// Len returns the number of pixels.
func (img *Image) Len() int {
	return len(img.Pix)
}

func (img *Image) inBounds(x, y int) bool {
	return x >= 0 && x < img.Width && y >= 0 && y < img.Height
}

// At returns the pixel at (x, y) or Black when outside of the image.
func (img *Image) At(x, y int) Pixel {
	if !img.inBounds(x, y) {
		return Black
	}
	return img.Pix[y*img.Width+x]
}

// Set writes the pixel at (x, y). Writes outside of the image are ignored.
func (img *Image) Set(x, y int, p Pixel) {
	if !img.inBounds(x, y) {
		return
	}
	img.Pix[y*img.Width+x] = p
}

// Clear resets every pixel to black.
func (img *Image) Clear() {
	clear(img.Pix)
}

// CopyFrom overwrites img with src. Sizes must match.
func (img *Image) CopyFrom(src *Image) error {
	if src.Width != img.Width || src.Height != img.Height {
		return fmt.Errorf("%w: copy %dx%d into %dx%d", ErrImageSize, src.Width, src.Height, img.Width, img.Height)
	}
	copy(img.Pix, src.Pix)
	return nil
}

// Bytes returns the raw r,g,b bytes of the whole image.
func (img *Image) Bytes() []byte {
	b := make([]byte, 0, len(img.Pix)*PixelSize)
	for _, p := range img.Pix {
		b = append(b, p.R, p.G, p.B)
	}
	return b
}

// SetBytes loads raw r,g,b bytes produced by Bytes.
func (img *Image) SetBytes(b []byte) error {
	if len(b) != len(img.Pix)*PixelSize {
		return fmt.Errorf("%w: got %d bytes for %dx%d", ErrImageSize, len(b), img.Width, img.Height)
	}
	for i := range img.Pix {
		img.Pix[i] = Pixel{R: b[i*PixelSize], G: b[i*PixelSize+1], B: b[i*PixelSize+2]}
	}
	return nil
}

// RGBA converts the image for the standard image encoders.
func (img *Image) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			out.SetRGBA(x, y, img.Pix[y*img.Width+x].Color())
		}
	}
	return out
}
