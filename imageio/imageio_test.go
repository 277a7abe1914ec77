package imageio

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	mandel "github.com/marben/adaptive_mandel"
)

func testImage(t *testing.T) *mandel.Image {
	t.Helper()
	img, err := mandel.NewImage(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	img.Set(0, 0, mandel.Pixel{R: 255})
	img.Set(2, 1, mandel.Pixel{G: 10, B: 200})
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name, path string
		want       Format
	}{
		{"", "out.png", PNG},
		{"", "out.TIF", TIFF},
		{"bmp", "out.png", BMP},
		{"PPM", "", PPM},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.name, tt.path)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q, %q) = %q, %v", tt.name, tt.path, got, err)
		}
	}
	if _, err := ParseFormat("", "out.gif"); err == nil {
		t.Error("gif accepted")
	}
}

func TestEncoders(t *testing.T) {
	img := testImage(t)
	for _, f := range []Format{PNG, BMP, TIFF} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, img, f); err != nil {
				t.Fatal(err)
			}
			var err error
			switch f {
			case PNG:
				_, err = png.Decode(&buf)
			case BMP:
				_, err = bmp.Decode(&buf)
			case TIFF:
				_, err = tiff.Decode(&buf)
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
		})
	}
}

func TestPPM(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testImage(t), PPM); err != nil {
		t.Fatal(err)
	}
	want := append([]byte("P6\n3 2\n255\n"),
		255, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 10, 200)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("ppm = %v", buf.Bytes())
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := WriteFile(path, testImage(t), PNG); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	r, _, _, _ := decoded.At(0, 0).RGBA()
	if r>>8 != 255 {
		t.Errorf("red channel = %d", r>>8)
	}
}
