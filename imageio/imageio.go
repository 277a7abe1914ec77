// Package imageio writes rendered images in common raster formats.
package imageio

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	mandel "github.com/marben/adaptive_mandel"
)

// Format is a raster file format.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	PPM  Format = "ppm"
)

// ParseFormat accepts a format name; an empty name falls back to the
// extension of path.
func ParseFormat(name, path string) (Format, error) {
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	switch f := Format(strings.ToLower(name)); f {
	case PNG, BMP, TIFF, PPM:
		return f, nil
	case "tif":
		return TIFF, nil
	}
	return "", fmt.Errorf("unknown image format %q", name)
}

// Write encodes img to w.
func Write(w io.Writer, img *mandel.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img.RGBA())
	case BMP:
		return bmp.Encode(w, img.RGBA())
	case TIFF:
		return tiff.Encode(w, img.RGBA(), &tiff.Options{Compression: tiff.Deflate})
	case PPM:
		return writePPM(w, img)
	}
	return fmt.Errorf("unknown image format %q", f)
}

// WriteFile creates path and encodes img into it.
func WriteFile(path string, img *mandel.Image, f Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(file)
	if err := Write(bw, img, f); err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return bw.Flush()
}

// writePPM writes the binary (P6) portable pixmap format.
func writePPM(w io.Writer, img *mandel.Image) error {
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return err
	}
	_, err := w.Write(img.Bytes())
	return err
}
