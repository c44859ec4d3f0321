// Package imageio opens image files and converts them to single-channel
// grayscale images ready for recognition.
//
// Decoding goes through disintegration/imaging, which understands PNG, JPEG,
// GIF, BMP and TIFF; WebP is registered here from golang.org/x/image. The
// grayscale conversion uses bild's luminance weights; its RGBA result is
// copied into a single-channel *image.Gray.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io/fs"
	"os"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// LoadError reports a failure to open or decode an image file.
type LoadError struct {
	// Op is "open" or "decode".
	Op string

	// Path is the file that failed.
	Path string

	// Err is the underlying error.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot %s image %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is, or wraps, a *LoadError.
func IsLoadError(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr)
}

// LoadGray opens path, decodes it and returns its grayscale conversion.
// The file is closed before LoadGray returns, whatever the outcome.
func LoadGray(path string) (*image.Gray, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Grayscale(img), nil
}

// Grayscale converts img to a single-channel image.
func Grayscale(img image.Image) *image.Gray {
	lum := effect.Grayscale(img)
	gray := image.NewGray(lum.Bounds())
	draw.Draw(gray, gray.Bounds(), lum, lum.Bounds().Min, draw.Src)
	return gray
}

// Load opens and decodes path without any conversion.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		// The path is already part of LoadError.
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		return nil, &LoadError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, &LoadError{Op: "decode", Path: path, Err: err}
	}
	return img, nil
}
